package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-concierge-platform/models"
)

func TestFormatAssistantHTML(t *testing.T) {
	f := models.DefaultFormattingSettings()

	got, err := FormatAssistantHTML("Our **deluxe suite** is available.\nBook at https://hotel.example.com/book today.", f)
	require.NoError(t, err)

	assert.Contains(t, got, "<b>deluxe suite</b>")
	assert.Contains(t, got, "<br>")
	assert.Contains(t, got, `<a href="https://hotel.example.com/book" target="_blank" rel="noopener">https://hotel.example.com/book</a>`)
	assert.NotContains(t, got, "\n")
}

func TestFormatAssistantHTMLDisabledTransforms(t *testing.T) {
	f := models.FormattingSettings{Bold: false, Links: false}

	got, err := FormatAssistantHTML("**bold** and https://x.example.com", f)
	require.NoError(t, err)

	assert.Equal(t, "**bold** and https://x.example.com", got)
}

func TestFormatAssistantHTMLEmojiMap(t *testing.T) {
	f := models.DefaultFormattingSettings()
	f.EmojiMap = `{":wave:":"👋",":key:":"🔑"}`

	got, err := FormatAssistantHTML("Welcome :wave: your room :key: is ready", f)
	require.NoError(t, err)
	assert.Equal(t, "Welcome 👋 your room 🔑 is ready", got)
}

func TestFormatAssistantHTMLRejectsMalformedEmojiMap(t *testing.T) {
	f := models.DefaultFormattingSettings()
	f.EmojiMap = `{":wave:" "👋"}`

	_, err := FormatAssistantHTML("hi :wave:", f)
	assert.Error(t, err)
}

func TestParseEmojiMap(t *testing.T) {
	m, err := ParseEmojiMap(`{"a":"b"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "b"}, m)

	_, err = ParseEmojiMap(`["a","b"]`)
	assert.Error(t, err)
}
