package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"docqa/internal/config"
	"docqa/internal/embedding"
	"docqa/internal/generator"
	"docqa/internal/helper"
	"docqa/internal/loader"
	"docqa/internal/models"
	"docqa/internal/pipeline"
	"docqa/internal/server"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	// optional .env for local runs; config stays the source of truth
	_ = godotenv.Load()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	serve := flag.Bool("serve", false, "Run the HTTP server")
	filePath := flag.String("file", "", "Path to the document file")
	questionsPath := flag.String("questions", "", "Path to the questions JSON file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	gen, err := generator.NewFromConfig(&cfg.ChatLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing generator")
	}
	p := pipeline.New(embedder, gen, cfg.RAG)

	if *serve {
		if err := server.New(p).Run(cfg.Server.Addr); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
		return
	}

	if *filePath == "" || *questionsPath == "" {
		log.Fatal().Msg("Please provide a document using -file and a questions file using -questions, or run with -serve")
	}

	answerBatch(context.Background(), p, *filePath, *questionsPath)
}

func answerBatch(ctx context.Context, p *pipeline.Pipeline, filePath, questionsPath string) {
	questionsData, err := os.ReadFile(questionsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading questions file")
	}
	questions, err := loader.LoadQuestions(questionsData)
	if err != nil {
		log.Fatal().Err(err).Msg("Error parsing questions file")
	}
	if len(questions) == 0 {
		log.Fatal().Msg("No questions found in the questions file")
	}

	documentData, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading document file")
	}
	name := filepath.Base(filePath)
	documentText, err := loader.LoadDocumentBytes(name, documentData)
	if err != nil {
		log.Fatal().Err(err).Msg("Error parsing document")
	}

	var pages []models.PageRecord
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		pages, err = loader.LoadPDFPages(name, documentData)
		if err != nil {
			log.Warn().Err(err).Msg("Page extraction failed, falling back to flat text")
			pages = nil
		}
	}

	answers, err := p.AnswerAll(ctx, documentText, pages, questions)
	if err != nil {
		log.Fatal().Err(err).Msg("Error answering questions")
	}

	helper.PrettyPrint(answers)
}
