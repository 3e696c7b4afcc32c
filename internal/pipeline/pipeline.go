package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"golang.org/x/sync/errgroup"

	"docqa/internal/config"
	"docqa/internal/generator"
	"docqa/internal/index"
	"docqa/internal/models"
	"docqa/internal/retriever"
	"docqa/internal/splitter"
)

// ErrEmptyDocument indicates the uploaded document has no content.
var ErrEmptyDocument = errors.New("document content is empty")

// ErrEmptyChunkSet is re-exported so callers can map both fatal document
// conditions from one package.
var ErrEmptyChunkSet = index.ErrEmptyChunkSet

// Pipeline runs the two-phase answering protocol: chunk, embed and index
// the document once, then retrieve and generate per question. All state is
// request-scoped; nothing survives an AnswerAll call.
type Pipeline struct {
	splitter    *splitter.Splitter
	embedder    embeddings.Embedder
	generator   *generator.Generator
	topK        int
	concurrency int
}

func New(embedder embeddings.Embedder, gen *generator.Generator, cfg config.RAGConfig) *Pipeline {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = models.DefaultChunkSize
	}
	if cfg.ChunkOverlap == 0 {
		cfg.ChunkOverlap = models.DefaultChunkOverlap
	}
	if cfg.TopK == 0 {
		cfg.TopK = models.DefaultTopK
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = models.DefaultConcurrency
	}
	return &Pipeline{
		splitter:    splitter.New(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder:    embedder,
		generator:   gen,
		topK:        cfg.TopK,
		concurrency: cfg.Concurrency,
	}
}

// AnswerAll answers every question against the document and returns an
// ordered question -> answer mapping. When page records are supplied the
// document is chunked per page so provenance survives into retrieval.
//
// Questions run concurrently under a bounded group, but the mapping is
// always folded in input order, so the output matches a sequential run.
// Blank questions are skipped; duplicate question text collapses to one
// entry (first-occurrence position, last-computed answer).
func (p *Pipeline) AnswerAll(ctx context.Context, documentText string, pages []models.PageRecord, questions []string) (*models.Answers, error) {
	if strings.TrimSpace(documentText) == "" && len(pages) == 0 {
		return nil, ErrEmptyDocument
	}

	var chunks []models.Chunk
	var err error
	if len(pages) > 0 {
		chunks, err = p.splitter.SplitPages(pages)
	} else {
		chunks, err = p.splitter.Split(documentText)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to chunk document: %w", err)
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyChunkSet
	}
	log.Debug().Int("chunks", len(chunks)).Msg("Chunked document")

	// Index once; every question in the batch shares it.
	ix, err := index.Build(ctx, p.embedder, chunks)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("indexed", ix.Count()).Msg("Built vector index")

	r := retriever.New(p.embedder, ix)

	results := make([]string, len(questions))
	skipped := make([]bool, len(questions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, question := range questions {
		if strings.TrimSpace(question) == "" {
			skipped[i] = true
			continue
		}
		g.Go(func() error {
			contextChunks, err := r.Retrieve(gctx, question, p.topK)
			if err != nil {
				// Per-question failures never abort the batch.
				results[i] = fmt.Sprintf("Error answering question: %v", err)
				return nil
			}
			results[i] = p.generator.Answer(gctx, question, contextChunks)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	answers := models.NewAnswers()
	for i, question := range questions {
		if skipped[i] {
			continue
		}
		answers.Set(question, results[i])
	}
	log.Info().Int("questions", answers.Len()).Msg("Answered question batch")
	return answers, nil
}
