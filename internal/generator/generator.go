package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"docqa/internal/config"
	"docqa/internal/models"
)

// Generator produces grounded answers: retrieved chunks are stuffed into a
// fixed instruction template and sent to the chat model. Grounding is
// enforced through the prompt only; there is no post-hoc verification.
type Generator struct {
	llm llms.Model
}

func New(llm llms.Model) *Generator {
	return &Generator{llm: llm}
}

// NewFromConfig builds the chat model for the configured provider.
func NewFromConfig(cfg *config.LLMConfig) (*Generator, error) {
	switch cfg.Provider {
	case "", "openai":
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("initializing chat LLM: %w", err)
		}
		return New(llm), nil
	case "ollama":
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		llm, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("initializing chat LLM: %w", err)
		}
		return New(llm), nil
	default:
		return nil, fmt.Errorf("unsupported chat provider: %s", cfg.Provider)
	}
}

// Answer generates an answer for one question from its retrieved context.
// A model failure never propagates: the error is rendered as the answer
// text so the rest of the batch can continue.
func (g *Generator) Answer(ctx context.Context, question string, contextChunks []models.Chunk) string {
	prompt := BuildPrompt(question, contextChunks)

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	res, err := g.llm.GenerateContent(ctx, messages, llms.WithTemperature(0))
	if err != nil {
		return fmt.Sprintf("Error answering question: %v", err)
	}
	if len(res.Choices) == 0 {
		return "Error answering question: model returned no choices"
	}
	return res.Choices[0].Content
}

// BuildPrompt joins the chunk texts in retrieval order, separated by a
// double line break, and substitutes context and question into the
// instruction template.
func BuildPrompt(question string, contextChunks []models.Chunk) string {
	texts := make([]string, len(contextChunks))
	for i, chunk := range contextChunks {
		texts[i] = chunk.Content
	}
	contextBlock := strings.Join(texts, models.ContextSeparator)
	return fmt.Sprintf(models.QAPromptTemplate, contextBlock, question)
}
