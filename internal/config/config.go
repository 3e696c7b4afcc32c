package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"docqa/internal/models"
)

// LLMConfig configures one model endpoint. Provider selects the backend:
// "openai" for any OpenAI-compatible API, "ollama" for a local Ollama server.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

// RAGConfig configures chunking and retrieval.
type RAGConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	TopK         int `yaml:"top_k"`
	Concurrency  int `yaml:"concurrency"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	EmbedLLM LLMConfig    `yaml:"embed_llm"`
	ChatLLM  LLMConfig    `yaml:"chat_llm"`
	RAG      RAGConfig    `yaml:"rag"`
	Server   ServerConfig `yaml:"server"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config with all defaults applied and no credentials set.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.EmbedLLM.Provider == "" {
		cfg.EmbedLLM.Provider = "openai"
	}
	if cfg.ChatLLM.Provider == "" {
		cfg.ChatLLM.Provider = "openai"
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = models.DefaultChunkSize
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = models.DefaultChunkOverlap
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = models.DefaultTopK
	}
	if cfg.RAG.Concurrency == 0 {
		cfg.RAG.Concurrency = models.DefaultConcurrency
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
}
