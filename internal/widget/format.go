package widget

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"hotel-concierge-platform/models"
)

var (
	boldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	urlPattern  = regexp.MustCompile(`https?://[^\s<]+`)
)

// FormatAssistantHTML applies the fixed transform the chat widget uses to
// render assistant text: **bold** spans, newlines to <br>, bare URLs to
// links, plus the tenant's emoji substitutions. This is a narrow allow-list
// over trusted model output, not a markdown renderer.
func FormatAssistantHTML(text string, f models.FormattingSettings) (string, error) {
	out := text

	if f.EmojiMap != "" {
		emoji, err := ParseEmojiMap(f.EmojiMap)
		if err != nil {
			return "", err
		}
		for token, replacement := range emoji {
			out = strings.ReplaceAll(out, token, replacement)
		}
	}

	if f.Links {
		out = urlPattern.ReplaceAllStringFunc(out, func(u string) string {
			return `<a href="` + u + `" target="_blank" rel="noopener">` + u + `</a>`
		})
	}
	if f.Bold {
		out = boldPattern.ReplaceAllString(out, "<b>$1</b>")
	}
	out = strings.ReplaceAll(out, "\n", "<br>")

	return out, nil
}

// ParseEmojiMap decodes the tenant's custom emoji substitutions, stored as a
// JSON object of token to replacement. Malformed JSON is rejected before it
// reaches the settings store.
func ParseEmojiMap(raw string) (map[string]string, error) {
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("emoji map is not a JSON object of strings: %w", err)
	}
	return m, nil
}
