package models

import "errors"

// Error kinds the UI shell distinguishes. Component errors wrap one of
// these so callers can branch with errors.Is instead of string matching.
var (
	// ErrEmptyDocument marks a file that parsed cleanly but contained no text.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrUnsupportedFormat marks a file extension the parser does not handle.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoIndex marks a question asked before any document was ingested.
	ErrNoIndex = errors.New("no documents have been ingested yet")

	// ErrMissingCredentials marks an unusable provider configuration. It is
	// raised at startup, never per request.
	ErrMissingCredentials = errors.New("missing API credentials")
)
