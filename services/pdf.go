package services

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText pulls plain text from a knowledge-base PDF, returning the
// text and page count. Files above 100MB are rejected before being read into
// memory.
func ExtractPDFText(filePath string) (string, int, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("stat pdf: %w", err)
	}
	if stat.Size() > 100<<20 {
		return "", 0, fmt.Errorf("pdf too large for in-memory extraction (%d bytes)", stat.Size())
	}

	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	pages := reader.NumPage()

	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			slog.Warn("page text extraction failed", "page", i, "error", err)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	extracted := strings.TrimSpace(b.String())
	if extracted == "" {
		return "", pages, fmt.Errorf("no extractable text in pdf")
	}
	return extracted, pages, nil
}

// ChunkText splits text into overlapping chunks for embedding. Sizes are in
// runes so imported multi-byte text never splits mid-character. The last
// chunk absorbs any remainder shorter than the overlap.
func ChunkText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	runes := []rune(text)
	var chunks []string
	step := chunkSize - overlap
	for i := 0; i < len(runes); i += step {
		end := i + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[i:]))
			break
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
