package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// MaxTextLength is the character budget passed on to prompt assembly.
// Anything beyond it is silently discarded.
const MaxTextLength = 15000

var (
	ErrUnsupportedFormat = errors.New("unsupported file type, only PDF and TXT are accepted")
	ErrEmptyDocument     = errors.New("no text could be extracted from the document")
)

// Text extracts the plain text content of an uploaded document. PDFs are
// decoded page by page in document order; TXT files are decoded as UTF-8
// with invalid byte sequences replaced.
func Text(filename string, data []byte) (string, error) {
	var text string

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		var err error
		text, err = pdfText(data)
		if err != nil {
			return "", err
		}
	case ".txt":
		text = strings.ToValidUTF8(string(data), "�")
	default:
		return "", ErrUnsupportedFormat
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}

	return truncate(text, MaxTextLength), nil
}

// pdfText concatenates the text of every page with no added separators.
func pdfText(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", page+1, err)
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}

// truncate keeps the first max characters. No mid-word boundary guarantee.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
