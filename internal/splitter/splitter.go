package splitter

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"docqa/internal/models"
)

// Splitter breaks document text into overlapping chunks using a recursive
// character strategy: separators are tried in priority order and segments
// that still exceed the chunk size are split again with the next separator.
type Splitter struct {
	inner textsplitter.RecursiveCharacter
}

func New(chunkSize, chunkOverlap int) *Splitter {
	return &Splitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(models.SeparatorPriority),
		),
	}
}

// Split chunks a whole document with no page structure. Empty or
// whitespace-only input yields zero chunks.
func (s *Splitter) Split(text string) ([]models.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	parts, err := s.inner.SplitText(text)
	if err != nil {
		return nil, err
	}

	var chunks []models.Chunk
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Content: part,
			ChunkID: len(chunks) + 1,
		})
	}
	return chunks, nil
}

// SplitPages chunks each page independently so no chunk spans two pages.
// Chunks carry the page number and source label of their page; chunk IDs
// restart at 1 on every page.
func (s *Splitter) SplitPages(pages []models.PageRecord) ([]models.Chunk, error) {
	var chunks []models.Chunk
	for _, page := range pages {
		pageChunks, err := s.Split(page.Text)
		if err != nil {
			return nil, err
		}
		for _, chunk := range pageChunks {
			chunk.PageNumber = page.PageNumber
			chunk.Source = page.Source
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}
