// Package chunker splits extracted pages into overlapping passages for
// retrieval indexing.
package chunker

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"pdfchat/internal/models"
	"pdfchat/internal/parser"
)

// Chunker is a boundary-aware splitter: paragraph first, then line, word,
// character. Pure transform, safe for reuse across documents.
type Chunker struct {
	splitter textsplitter.RecursiveCharacter
}

func New(chunkSize, chunkOverlap int) *Chunker {
	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

// Chunk splits the pages of one document into passages. Each passage
// inherits the page number of the text it was sliced from; chunk indices are
// 1-based and follow reading order across the whole document. Empty input
// yields an empty result, not an error.
func (c *Chunker) Chunk(pages []parser.Page, sourceFile string) ([]models.Passage, error) {
	var passages []models.Passage
	chunkIndex := 0
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		chunks, err := c.splitter.SplitText(page.Text)
		if err != nil {
			return nil, err
		}
		for _, chunk := range chunks {
			chunk = strings.TrimSpace(chunk)
			if chunk == "" {
				continue
			}
			chunkIndex++
			passages = append(passages, models.Passage{
				Text:       chunk,
				SourceFile: sourceFile,
				PageNumber: page.Number,
				ChunkIndex: chunkIndex,
			})
		}
	}
	return passages, nil
}
