package documents

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Ingestor extracts searchable text from an uploaded document. Formats that
// need real parsing (PDF, DOCX) plug in behind this interface.
type Ingestor interface {
	// Supports reports whether the ingestor can handle the content type.
	Supports(contentType string) bool

	// Ingest returns the extracted text.
	Ingest(filename string, data []byte) (string, error)
}

// PlainTextIngestor handles text-based uploads by decoding the bytes as-is.
type PlainTextIngestor struct{}

func NewPlainTextIngestor() *PlainTextIngestor {
	return &PlainTextIngestor{}
}

var plainTextTypes = []string{"text/plain", "text/markdown", "text/csv"}

func (i *PlainTextIngestor) Supports(contentType string) bool {
	mediaType := contentType
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))
	for _, t := range plainTextTypes {
		if mediaType == t {
			return true
		}
	}
	return false
}

func (i *PlainTextIngestor) Ingest(filename string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: not valid UTF-8 text", filename)
	}
	return strings.TrimSpace(string(data)), nil
}
