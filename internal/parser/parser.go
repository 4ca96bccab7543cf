// Package parser extracts page-tagged plain text from uploaded files.
package parser

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"

	"pdfchat/internal/models"
)

// Page is one unit of extracted text with its 1-based page number. Formats
// without physical pages map sheets or slides to page numbers; flat text is
// a single page.
type Page struct {
	Text   string
	Number int
}

// ExtractPages reads the file at path and returns its text page by page.
// Unreadable or corrupt input fails explicitly; a readable file with no
// text at all returns models.ErrEmptyDocument.
func ExtractPages(path string) ([]Page, error) {
	var (
		pages []Page
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		pages, err = extractPDF(path)
	case ".docx":
		pages, err = extractDOCX(path)
	case ".pptx":
		pages, err = extractPPTX(path)
	case ".xlsx":
		pages, err = extractXLSX(path)
	case ".md":
		pages, err = extractMarkdown(path)
	case ".txt":
		pages, err = extractText(path)
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if empty(pages) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), models.ErrEmptyDocument)
	}
	return pages, nil
}

func empty(pages []Page) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}

func extractPDF(path string) (pages []Page, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	// the pdf package panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("corrupt pdf %s: %v", filepath.Base(path), r)
		}
	}()

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("reading pdf %s: %w", filepath.Base(path), err)
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extracting page %d of %s: %w", i, filepath.Base(path), err)
		}
		pages = append(pages, Page{Text: text, Number: i})
	}
	return pages, nil
}

func extractDOCX(path string) ([]Page, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	// GetContent returns the document XML; pull out the text runs.
	content := r.Editable().GetContent()
	text := collectXMLText(content, "<w:t")
	return []Page{{Text: text, Number: 1}}, nil
}

func extractPPTX(path string) ([]Page, error) {
	f, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []Page
	slideNum := 0
	for _, file := range f.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		slideNum++
		text := collectXMLText(string(data), "<a:t")
		if strings.TrimSpace(text) != "" {
			pages = append(pages, Page{Text: text, Number: slideNum})
		}
	}
	return pages, nil
}

func extractXLSX(path string) ([]Page, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []Page
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString("Sheet: " + sheetName + "\n")
		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t"))
			text.WriteString("\n")
		}
		pages = append(pages, Page{Text: text.String(), Number: sheetNum + 1})
	}
	return pages, nil
}

func extractText(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []Page{{Text: string(data), Number: 1}}, nil
}

// collectXMLText gathers the character data of every element opened by
// openTag, e.g. "<w:t" for DOCX runs or "<a:t" for PPTX text frames.
func collectXMLText(xmlContent, openTag string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, openTag)
	for i, part := range parts {
		if i == 0 {
			continue
		}
		// guard against longer tag names sharing the prefix, e.g. <w:tbl>
		if part == "" || (part[0] != '>' && part[0] != ' ') {
			continue
		}
		// skip to the end of the opening tag, it may carry attributes
		start := strings.Index(part, ">")
		if start < 0 {
			continue
		}
		rest := part[start+1:]
		if end := strings.Index(rest, "</"); end >= 0 {
			text.WriteString(rest[:end])
			text.WriteString(" ")
		}
	}
	return text.String()
}
