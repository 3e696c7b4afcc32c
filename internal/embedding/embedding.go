package embedding

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"docqa/internal/config"
)

// NewEmbedder builds an embedder for the configured provider. Credentials
// come from the injected config, never from the process environment.
func NewEmbedder(cfg *config.LLMConfig) (embeddings.Embedder, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIEmbedder(cfg)
	case "ollama":
		return NewOllamaEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// NewOpenAIEmbedder targets any OpenAI-compatible embeddings API.
func NewOpenAIEmbedder(cfg *config.LLMConfig) (embeddings.Embedder, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing embedding LLM: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
}

// NewOllamaEmbedder targets a local Ollama server.
func NewOllamaEmbedder(cfg *config.LLMConfig) (embeddings.Embedder, error) {
	opts := []ollama.Option{
		ollama.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing embedding LLM: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
}
