package parser

import (
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// extractMarkdown parses the file with goldmark and walks the AST collecting
// plain text, so headings, emphasis markers and link targets don't pollute
// the index.
func extractMarkdown(path string) ([]Page, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []Page{{Text: markdownToText(src), Number: 1}}, nil
}

func markdownToText(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var buf strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteString(" ")
			}
		case *ast.CodeBlock:
			writeLines(&buf, src, t)
		case *ast.FencedCodeBlock:
			writeLines(&buf, src, t)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

func writeLines(buf *strings.Builder, src []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
}
