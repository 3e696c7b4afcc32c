package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"

	"docqa/internal/models"
)

// LoadDocument reads a document file and extracts its plain text.
func LoadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return LoadDocumentBytes(filepath.Base(path), data)
}

// LoadDocumentBytes extracts plain text from an in-memory document,
// dispatching on the file extension.
func LoadDocumentBytes(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".pdf":
		return loadPDFText(data)
	case ".json":
		return loadJSONDocument(data)
	case ".txt":
		return string(data), nil
	case ".md", ".markdown":
		return markdownToText(data)
	case ".docx":
		return loadDOCX(data)
	case ".xlsx":
		return loadXLSX(data)
	case ".ods":
		return loadODS(data)
	default:
		return "", fmt.Errorf("unsupported file format: %s", ext)
	}
}

// loadPDFText joins the text of all non-blank pages with a double line break.
func loadPDFText(data []byte) (string, error) {
	pages, err := LoadPDFPages("", data)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		parts = append(parts, page.Text)
	}
	return strings.Join(parts, "\n\n"), nil
}

// LoadPDFPages extracts per-page text with 1-based page numbers and the
// given source label. Blank pages are skipped.
func LoadPDFPages(name string, data []byte) ([]models.PageRecord, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("error reading PDF file: %w", err)
	}

	var pages []models.PageRecord
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("error reading PDF page %d: %w", i, err)
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		pages = append(pages, models.PageRecord{
			PageNumber: i,
			Text:       pageText,
			Source:     name,
		})
	}
	return pages, nil
}

// loadJSONDocument extracts text from a JSON document. Well-known keys are
// tried first; a list joins its items; anything else is re-marshaled so no
// upload is silently dropped.
func loadJSONDocument(data []byte) (string, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("error parsing JSON file: %w", err)
	}

	switch v := parsed.(type) {
	case map[string]any:
		for _, key := range []string{"text", "content", "document"} {
			if s, ok := v[key].(string); ok {
				return s, nil
			}
		}
		pretty, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(pretty), nil
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, "\n"), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func loadDOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("error reading DOCX file: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var sb strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func loadXLSX(data []byte) (string, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return "", fmt.Errorf("error reading XLSX file: %w", err)
	}

	var sb strings.Builder
	for _, sheet := range f.Sheets {
		sb.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				sb.WriteString(cell.String() + "\t")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func loadODS(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("error reading ODS file: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				sb.WriteString(cell + "\t")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}
