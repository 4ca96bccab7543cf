package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdfchat/internal/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractText(t *testing.T) {
	path := writeFile(t, "note.txt", "The sky is blue.")
	pages, err := ExtractPages(path)
	if err != nil {
		t.Fatalf("ExtractPages: %v", err)
	}
	if len(pages) != 1 || pages[0].Number != 1 {
		t.Fatalf("expected a single page 1, got %+v", pages)
	}
	if pages[0].Text != "The sky is blue." {
		t.Errorf("unexpected text %q", pages[0].Text)
	}
}

func TestExtractMarkdownStripsSyntax(t *testing.T) {
	md := "# Title\n\nSome *emphasized* text with a [link](https://example.com).\n\n```\ncode line\n```\n"
	path := writeFile(t, "note.md", md)
	pages, err := ExtractPages(path)
	if err != nil {
		t.Fatalf("ExtractPages: %v", err)
	}
	got := pages[0].Text
	for _, want := range []string{"Title", "emphasized", "link", "code line"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
	for _, unwanted := range []string{"#", "*", "https://example.com", "```"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("markdown syntax %q leaked into %q", unwanted, got)
		}
	}
}

func TestExtractMarkdownKeepsCodeBlockLines(t *testing.T) {
	md := "Intro.\n\n```\nfirst line\nsecond line\n```\n\n    indented block\n"
	path := writeFile(t, "code.md", md)
	pages, err := ExtractPages(path)
	if err != nil {
		t.Fatalf("ExtractPages: %v", err)
	}
	got := pages[0].Text
	for _, want := range []string{"first line", "second line", "indented block"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}

func TestExtractUnsupported(t *testing.T) {
	path := writeFile(t, "img.png", "not text")
	_, err := ExtractPages(path)
	if !errors.Is(err, models.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	path := writeFile(t, "blank.txt", "   \n\t\n")
	_, err := ExtractPages(path)
	if !errors.Is(err, models.ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	path := writeFile(t, "broken.pdf", "%PDF-1.4 garbage")
	if _, err := ExtractPages(path); err == nil {
		t.Error("corrupt pdf should fail explicitly")
	}
}

func TestCollectXMLText(t *testing.T) {
	xml := `<w:p><w:t>Hello</w:t><w:tbl><w:tr/></w:tbl><w:t xml:space="preserve"> world</w:t></w:p>`
	got := collectXMLText(xml, "<w:t")
	if !strings.Contains(got, "Hello") || !strings.Contains(got, "world") {
		t.Errorf("missing runs in %q", got)
	}
	if strings.Contains(got, "w:tr") {
		t.Errorf("table markup leaked into %q", got)
	}
}
