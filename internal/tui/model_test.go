package tui

import (
	"context"
	"strings"
	"testing"

	"pdfchat/internal/models"
)

type stubSession struct {
	turns []models.Turn
	docs  []models.DocumentRecord
}

func (s *stubSession) IngestFile(context.Context, string) (models.DocumentRecord, error) {
	return models.DocumentRecord{}, nil
}
func (s *stubSession) Ask(context.Context, string) (models.Turn, error) { return models.Turn{}, nil }
func (s *stubSession) ClearChat(context.Context) error                  { return nil }
func (s *stubSession) Documents() []models.DocumentRecord               { return s.docs }
func (s *stubSession) Transcript() []models.Turn                        { return s.turns }
func (s *stubSession) HasIndex() bool                                   { return len(s.docs) > 0 }

func TestRenderTranscriptShowsSources(t *testing.T) {
	sess := &stubSession{
		turns: []models.Turn{
			{Role: models.RoleUser, Content: "Why is the sky blue?"},
			{
				Role:    models.RoleAssistant,
				Content: "Because of Rayleigh scattering.",
				Sources: []models.Citation{
					{SourceFile: "sky.pdf", PageNumber: 3, Snippet: "The sky is blue"},
				},
			},
		},
	}
	m := New(context.Background(), sess)

	out := m.renderTranscript()
	for _, want := range []string{"Why is the sky blue?", "Rayleigh scattering", "page 3 of sky.pdf", "The sky is blue"} {
		if !strings.Contains(out, want) {
			t.Errorf("transcript missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTranscriptMarksErrors(t *testing.T) {
	sess := &stubSession{
		turns: []models.Turn{
			{Role: models.RoleUser, Content: "hello"},
			{Role: models.RoleAssistant, Content: "Error generating response: quota exceeded", IsError: true},
		},
	}
	m := New(context.Background(), sess)

	if out := m.renderTranscript(); !strings.Contains(out, "quota exceeded") {
		t.Errorf("error turn not rendered:\n%s", out)
	}
}

func TestSidebarListsDocuments(t *testing.T) {
	sess := &stubSession{
		docs: []models.DocumentRecord{
			{FileName: "report.pdf", PageCount: 12, ChunkCount: 40},
		},
	}
	m := New(context.Background(), sess)

	out := m.renderSidebar()
	if !strings.Contains(out, "report.pdf") {
		t.Errorf("sidebar missing document name:\n%s", out)
	}
}
