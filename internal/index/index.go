package index

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"

	"docqa/internal/models"
)

// ErrEmptyChunkSet indicates the document produced no usable chunks; the
// index cannot be built without at least one.
var ErrEmptyChunkSet = errors.New("no chunks to index")

const (
	collectionName = "document"

	metaPageNumber = "page_number"
	metaSource     = "source"
	metaChunkID    = "chunk_id"
)

// Index is an in-memory nearest-neighbor index over the embedded chunks of
// one document. It lives for a single request and is never persisted.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// Build embeds every chunk and stores it in a fresh in-memory collection.
// Embedding runs concurrently, bounded by the CPU count; any embedding
// failure aborts the build.
func Build(ctx context.Context, embedder embeddings.Embedder, chunks []models.Chunk) (*Index, error) {
	if len(chunks) == 0 {
		return nil, ErrEmptyChunkSet
	}

	db := chromem.NewDB()
	collection, err := db.CreateCollection(collectionName, nil, embeddingFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:       fmt.Sprintf("%06d", i),
			Content:  chunk.Content,
			Metadata: chunkMetadata(chunk),
		}
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	return &Index{db: db, collection: collection}, nil
}

// Count returns the number of indexed chunks.
func (ix *Index) Count() int {
	return ix.collection.Count()
}

// Search returns up to k chunks ordered by descending similarity to the
// query vector. A k larger than the collection is clamped, not an error.
func (ix *Index) Search(ctx context.Context, vector []float32, k int) ([]models.ScoredChunk, error) {
	if n := ix.collection.Count(); k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := ix.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vector,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	scored := make([]models.ScoredChunk, 0, len(results))
	for _, res := range results {
		scored = append(scored, models.ScoredChunk{
			Chunk:      chunkFromResult(res),
			Similarity: res.Similarity,
		})
	}
	return scored, nil
}

// embeddingFunc adapts a langchaingo embedder to chromem's callback.
func embeddingFunc(embedder embeddings.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}
}

func chunkMetadata(chunk models.Chunk) map[string]string {
	meta := map[string]string{
		metaChunkID: strconv.Itoa(chunk.ChunkID),
	}
	if chunk.PageNumber > 0 {
		meta[metaPageNumber] = strconv.Itoa(chunk.PageNumber)
	}
	if chunk.Source != "" {
		meta[metaSource] = chunk.Source
	}
	return meta
}

func chunkFromResult(res chromem.Result) models.Chunk {
	chunk := models.Chunk{Content: res.Content, Source: res.Metadata[metaSource]}
	if v, err := strconv.Atoi(res.Metadata[metaPageNumber]); err == nil {
		chunk.PageNumber = v
	}
	if v, err := strconv.Atoi(res.Metadata[metaChunkID]); err == nil {
		chunk.ChunkID = v
	}
	return chunk
}
