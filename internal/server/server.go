package server

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"docqa/internal/helper"
	"docqa/internal/loader"
	"docqa/internal/models"
	"docqa/internal/pipeline"
)

// Answerer is the pipeline surface the server depends on.
type Answerer interface {
	AnswerAll(ctx context.Context, documentText string, pages []models.PageRecord, questions []string) (*models.Answers, error)
}

// Server exposes the question-answering pipeline over HTTP: a multipart
// /qa endpoint plus health checks.
type Server struct {
	pipeline Answerer
	engine   *gin.Engine
}

func New(p Answerer) *Server {
	s := &Server{pipeline: p}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)
	r.POST("/qa", s.handleQA)
	s.engine = r
	return s
}

func (s *Server) Run(addr string) error {
	log.Info().Str("addr", addr).Msg("Starting HTTP server")
	return s.engine.Run(addr)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestLogger tags every request with a UUID so log lines of one request
// can be correlated.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, err := helper.GenerateUUID()
		if err == nil {
			c.Set("request_id", requestID)
		}
		c.Next()
		log.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("Handled request")
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Question-Answering API is running"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// handleQA accepts a multipart form with a "document" file (PDF, JSON, TXT,
// MD, DOCX, XLSX or ODS) and a "questions_file" JSON part, and answers every
// question against the document.
func (s *Server) handleQA(c *gin.Context) {
	questionsData, _, err := readFormFile(c, "questions_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "missing questions_file upload"})
		return
	}
	questions, err := loader.LoadQuestions(questionsData)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if len(questions) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No questions found in the questions file"})
		return
	}

	documentData, documentName, err := readFormFile(c, "document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "missing document upload"})
		return
	}

	documentText, err := loader.LoadDocumentBytes(documentName, documentData)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	// For PDFs, page records let the pipeline keep provenance metadata on
	// each chunk. Extraction failure falls back to flat-text chunking.
	var pages []models.PageRecord
	if strings.HasSuffix(strings.ToLower(documentName), ".pdf") {
		pages, err = loader.LoadPDFPages(documentName, documentData)
		if err != nil {
			log.Warn().Err(err).Msg("Page extraction failed, falling back to flat text")
			pages = nil
		}
	}

	answers, err := s.pipeline.AnswerAll(c.Request.Context(), documentText, pages, questions)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrEmptyDocument) || errors.Is(err, pipeline.ErrEmptyChunkSet) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answers": []any{answers}})
}

func readFormFile(c *gin.Context, field string) ([]byte, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	file, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}
