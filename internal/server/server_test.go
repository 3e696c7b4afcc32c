package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"docqa/internal/models"
	"docqa/internal/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAnswerer mirrors the pipeline's fatal-condition behavior without
// embedding or model calls.
type stubAnswerer struct {
	err error
}

func (s *stubAnswerer) AnswerAll(_ context.Context, documentText string, pages []models.PageRecord, questions []string) (*models.Answers, error) {
	if s.err != nil {
		return nil, s.err
	}
	if strings.TrimSpace(documentText) == "" && len(pages) == 0 {
		return nil, pipeline.ErrEmptyDocument
	}
	answers := models.NewAnswers()
	for _, q := range questions {
		if strings.TrimSpace(q) == "" {
			continue
		}
		answers.Set(q, "stub answer")
	}
	return answers, nil
}

func multipartBody(t *testing.T, files map[string][2]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for field, nameAndContent := range files {
		part, err := w.CreateFormFile(field, nameAndContent[0])
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write([]byte(nameAndContent[1])); err != nil {
			t.Fatalf("writing part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func doQA(t *testing.T, srv *Server, files map[string][2]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, files)
	req := httptest.NewRequest(http.MethodPost, "/qa", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv := New(&stubAnswerer{})

	for _, path := range []string{"/", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestQA_HappyPath(t *testing.T) {
	srv := New(&stubAnswerer{})

	rec := doQA(t, srv, map[string][2]string{
		"document":       {"doc.txt", "Python is a programming language."},
		"questions_file": {"questions.json", `{"questions": ["What is Python?", "What is it used for?"]}`},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Answers []map[string]string `json:"answers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if len(resp.Answers) != 1 {
		t.Fatalf("expected answers list of length 1, got %d", len(resp.Answers))
	}
	if len(resp.Answers[0]) != 2 {
		t.Fatalf("expected 2 question entries, got %d", len(resp.Answers[0]))
	}
	if resp.Answers[0]["What is Python?"] != "stub answer" {
		t.Fatalf("unexpected answer payload: %v", resp.Answers[0])
	}
}

func TestQA_MissingFiles(t *testing.T) {
	srv := New(&stubAnswerer{})

	rec := doQA(t, srv, map[string][2]string{
		"document": {"doc.txt", "content"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing questions_file, got %d", rec.Code)
	}

	rec = doQA(t, srv, map[string][2]string{
		"questions_file": {"questions.json", `{"questions": ["q"]}`},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing document, got %d", rec.Code)
	}
}

func TestQA_EmptyQuestionList(t *testing.T) {
	srv := New(&stubAnswerer{})

	rec := doQA(t, srv, map[string][2]string{
		"document":       {"doc.txt", "content"},
		"questions_file": {"questions.json", `{"questions": []}`},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty question list, got %d", rec.Code)
	}
}

func TestQA_EmptyDocumentIsClientError(t *testing.T) {
	srv := New(&stubAnswerer{})

	rec := doQA(t, srv, map[string][2]string{
		"document":       {"doc.txt", "   "},
		"questions_file": {"questions.json", `{"questions": ["q"]}`},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty document, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestQA_UnsupportedDocumentFormat(t *testing.T) {
	srv := New(&stubAnswerer{})

	rec := doQA(t, srv, map[string][2]string{
		"document":       {"doc.exe", "binary"},
		"questions_file": {"questions.json", `{"questions": ["q"]}`},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported format, got %d", rec.Code)
	}
}

func TestQA_InternalFailureIsServerError(t *testing.T) {
	srv := New(&stubAnswerer{err: errors.New("embedding backend down")})

	rec := doQA(t, srv, map[string][2]string{
		"document":       {"doc.txt", "content"},
		"questions_file": {"questions.json", `{"questions": ["q"]}`},
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
