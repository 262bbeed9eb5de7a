package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 runes

	chunks := ChunkText(text, 40, 10)

	require.Len(t, chunks, 4)
	assert.Equal(t, text[:40], chunks[0])
	// each chunk starts where the previous one left off minus the overlap
	assert.Equal(t, chunks[0][30:], chunks[1][:10])
}

func TestChunkTextShortInput(t *testing.T) {
	chunks := ChunkText("short", 1000, 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short", chunks[0])
}

func TestChunkTextEmpty(t *testing.T) {
	assert.Empty(t, ChunkText("", 100, 10))
}

func TestChunkTextKeepsRunesIntact(t *testing.T) {
	// Cyrillic hotel copy: every rune is two bytes, so byte-offset slicing
	// would cut characters in half at chunk boundaries
	text := strings.Repeat("Отель у моря. ", 50)

	chunks := ChunkText(text, 100, 20)

	require.Greater(t, len(chunks), 1)
	var rebuilt strings.Builder
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8", i)
		if i == 0 {
			rebuilt.WriteString(chunk)
		} else {
			rebuilt.WriteString(string([]rune(chunk)[20:]))
		}
	}
	assert.Equal(t, text, rebuilt.String())
}
