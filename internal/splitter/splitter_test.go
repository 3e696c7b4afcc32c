package splitter

import (
	"reflect"
	"strings"
	"testing"

	"docqa/internal/models"
)

func TestSplit_EmptyAndWhitespaceInput(t *testing.T) {
	s := New(models.DefaultChunkSize, models.DefaultChunkOverlap)

	for _, text := range []string{"", "   ", "\n\n\t  \n"} {
		chunks, err := s.Split(text)
		if err != nil {
			t.Fatalf("Split(%q) returned error: %v", text, err)
		}
		if len(chunks) != 0 {
			t.Fatalf("Split(%q): expected 0 chunks, got %d", text, len(chunks))
		}
	}
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	s := New(models.DefaultChunkSize, models.DefaultChunkOverlap)

	text := "Python is a programming language. It is widely used for web development, data science, and automation."
	chunks, err := s.Split(text)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for short text, got %d", len(chunks))
	}
	if chunks[0].ChunkID != 1 {
		t.Fatalf("expected chunk ID 1, got %d", chunks[0].ChunkID)
	}
}

func TestSplit_RespectsChunkSize(t *testing.T) {
	s := New(100, 20)

	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("This is sentence number one of the test document. ")
	}
	chunks, err := s.Split(sb.String())
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk.Content) > 100 {
			t.Errorf("chunk %d exceeds chunk size: %d chars", i, len(chunk.Content))
		}
		if strings.TrimSpace(chunk.Content) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s := New(80, 16)

	text := strings.Repeat("Alpha beta gamma delta epsilon. ", 20)
	first, err := s.Split(text)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	second, err := s.Split(text)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical chunks across runs")
	}
}

func TestSplitPages_TagsProvenance(t *testing.T) {
	s := New(models.DefaultChunkSize, models.DefaultChunkOverlap)

	pages := []models.PageRecord{
		{PageNumber: 1, Text: "Content of the first page.", Source: "report.pdf"},
		{PageNumber: 2, Text: "Content of the second page.", Source: "report.pdf"},
	}
	chunks, err := s.SplitPages(pages)
	if err != nil {
		t.Fatalf("SplitPages returned error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.PageNumber != pages[i].PageNumber {
			t.Errorf("chunk %d: expected page %d, got %d", i, pages[i].PageNumber, chunk.PageNumber)
		}
		if chunk.Source != "report.pdf" {
			t.Errorf("chunk %d: expected source report.pdf, got %q", i, chunk.Source)
		}
	}
}

func TestSplitPages_SkipsBlankPages(t *testing.T) {
	s := New(models.DefaultChunkSize, models.DefaultChunkOverlap)

	pages := []models.PageRecord{
		{PageNumber: 1, Text: "   \n  ", Source: "doc.pdf"},
		{PageNumber: 2, Text: "Real content.", Source: "doc.pdf"},
	}
	chunks, err := s.SplitPages(pages)
	if err != nil {
		t.Fatalf("SplitPages returned error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].PageNumber != 2 {
		t.Fatalf("expected chunk from page 2, got page %d", chunks[0].PageNumber)
	}
}

func TestSplitPages_ChunkIDsRestartPerPage(t *testing.T) {
	s := New(60, 10)

	long := strings.Repeat("A sentence that fills up space in the page. ", 10)
	pages := []models.PageRecord{
		{PageNumber: 1, Text: long, Source: "doc.pdf"},
		{PageNumber: 2, Text: long, Source: "doc.pdf"},
	}
	chunks, err := s.SplitPages(pages)
	if err != nil {
		t.Fatalf("SplitPages returned error: %v", err)
	}

	seenSecondPage := false
	for _, chunk := range chunks {
		if chunk.PageNumber == 2 && !seenSecondPage {
			seenSecondPage = true
			if chunk.ChunkID != 1 {
				t.Fatalf("expected first chunk of page 2 to have ID 1, got %d", chunk.ChunkID)
			}
		}
	}
	if !seenSecondPage {
		t.Fatalf("expected chunks from page 2")
	}
}
