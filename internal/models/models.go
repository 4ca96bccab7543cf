package models

// Passage is a chunk of extracted document text tagged with provenance.
// Passages are created by the chunker and immutable afterwards.
type Passage struct {
	Text       string
	SourceFile string
	PageNumber int
	ChunkIndex int
}

// DocumentRecord summarizes one ingested file.
type DocumentRecord struct {
	FileName   string
	PageCount  int
	ChunkCount int
}

// Citation is a user-facing reference justifying an answer.
type Citation struct {
	SourceFile string
	PageNumber int
	Snippet    string
}

// Turn roles as rendered in the transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry of the chat transcript. Sources is set only on
// assistant turns that cite passages.
type Turn struct {
	Role    string
	Content string
	Sources []Citation
	IsError bool
}

// Answer is the result of one orchestrated question.
type Answer struct {
	Text      string
	Citations []Citation
}
