package retriever

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"

	"docqa/internal/index"
	"docqa/internal/models"
)

// Retriever answers top-k similarity queries against a built index. The
// question is embedded with the same embedder used for the chunks, so
// query and index vectors share one geometry.
type Retriever struct {
	embedder embeddings.Embedder
	index    *index.Index
}

func New(embedder embeddings.Embedder, ix *index.Index) *Retriever {
	return &Retriever{embedder: embedder, index: ix}
}

// Retrieve returns the k chunks most similar to the question, ordered by
// descending similarity. Read-only; the index is never modified.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]models.Chunk, error) {
	vector, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	scored, err := r.index.Search(ctx, vector, k)
	if err != nil {
		return nil, err
	}
	chunks := make([]models.Chunk, len(scored))
	for i, sc := range scored {
		chunks[i] = sc.Chunk
	}
	return chunks, nil
}
