// Package tui renders the interactive chat shell: transcript, input box,
// document side panel. All business logic lives in the session; the shell
// only triggers it on user actions.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pdfchat/internal/helper"
	"pdfchat/internal/models"
)

const (
	sidebarWidth   = 34
	sidebarSnippet = 200
)

// SessionPort is the TUI-facing subset of the session.
type SessionPort interface {
	IngestFile(ctx context.Context, path string) (models.DocumentRecord, error)
	Ask(ctx context.Context, question string) (models.Turn, error)
	ClearChat(ctx context.Context) error
	Documents() []models.DocumentRecord
	Transcript() []models.Turn
	HasIndex() bool
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	ctx     context.Context
	session SessionPort
	input   textinput.Model
	view    viewport.Model
	status  string
	ready   bool
}

// New creates a new TUI model instance.
func New(ctx context.Context, session SessionPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, or /open <file> to add a document"
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		ctx:     ctx,
		session: session,
		input:   ti,
		view:    viewport.New(0, 0),
		status:  "No documents yet. /open <file> to start, /clear resets the chat, /quit exits.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events. Session calls run synchronously:
// one user action completes before the next is accepted.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, frameH := transcriptStyle.GetFrameSize()
		reserved := 2 + frameH + 3 // header, input box, status
		m.view.Width = max(20, msg.Width-sidebarWidth)
		m.view.Height = max(3, msg.Height-reserved)
		m.view.SetContent(m.renderTranscript())
		m.view.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.SetValue("")
			return m.dispatch(line)
		case "up":
			m.view.LineUp(1)
			return m, nil
		case "down":
			m.view.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) dispatch(line string) (tea.Model, tea.Cmd) {
	switch {
	case line == "/quit" || line == "/exit":
		return m, tea.Quit
	case line == "/clear":
		if err := m.session.ClearChat(m.ctx); err != nil {
			m.status = "Error: " + err.Error()
		} else {
			m.status = "Chat history cleared. Documents are untouched."
		}
	case strings.HasPrefix(line, "/open "):
		path := strings.TrimSpace(strings.TrimPrefix(line, "/open "))
		record, err := m.session.IngestFile(m.ctx, path)
		if err != nil {
			m.status = "Error processing file: " + err.Error()
		} else {
			m.status = fmt.Sprintf("Processed %s: %d chunks, %d pages.", record.FileName, record.ChunkCount, record.PageCount)
		}
	case strings.HasPrefix(line, "/"):
		m.status = "Unknown command: " + line
	default:
		if !m.session.HasIndex() {
			m.status = "Upload and process a document first: /open <file>"
			break
		}
		m.status = "Thinking..."
		turn, err := m.session.Ask(m.ctx, line)
		if err != nil {
			m.status = "Error: " + err.Error()
		} else {
			m.status = fmt.Sprintf("Answered with %d sources.", len(turn.Sources))
		}
	}
	m.view.SetContent(m.renderTranscript())
	m.view.GotoBottom()
	return m, nil
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("PDF Chat Assistant")
	transcript := transcriptStyle.Width(m.view.Width).Render(m.view.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, transcript, m.renderSidebar())
	input := inputStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	turns := m.session.Transcript()
	if len(turns) == 0 {
		return "Upload a document and ask questions about its content."
	}
	var sb strings.Builder
	for _, turn := range turns {
		switch {
		case turn.Role == models.RoleUser:
			sb.WriteString(userStyle.Render("You: ") + turn.Content)
		case turn.IsError:
			sb.WriteString(errorStyle.Render("Assistant: " + turn.Content))
		default:
			sb.WriteString(assistantStyle.Render("Assistant: ") + turn.Content)
			for _, src := range turn.Sources {
				snippet := helper.TruncateRunes(src.Snippet, sidebarSnippet)
				sb.WriteString("\n" + sourceStyle.Render(fmt.Sprintf("  page %d of %s: %q", src.PageNumber, src.SourceFile, snippet)))
			}
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func (m Model) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString(sidebarTitleStyle.Render("Documents"))
	sb.WriteString("\n")
	docs := m.session.Documents()
	if len(docs) == 0 {
		sb.WriteString(sourceStyle.Render("none yet"))
	}
	for _, doc := range docs {
		sb.WriteString("• " + doc.FileName + "\n")
		sb.WriteString(sourceStyle.Render(fmt.Sprintf("  %d chunks, %d pages", doc.ChunkCount, doc.PageCount)))
		sb.WriteString("\n")
	}
	return sidebarStyle.Width(sidebarWidth - 2).Render(sb.String())
}

var (
	headerStyle       = lipgloss.NewStyle().Bold(true)
	transcriptStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sidebarStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sidebarTitleStyle = lipgloss.NewStyle().Bold(true)
	inputStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sourceStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
