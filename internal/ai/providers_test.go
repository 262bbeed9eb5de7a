package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultChatModelIsFirstInTable(t *testing.T) {
	assert.Equal(t, "gpt-4o-mini", DefaultChatModel("openai"))
	assert.Equal(t, "gemini-2.0-flash", DefaultChatModel("gemini"))
	assert.Equal(t, "deepseek-chat", DefaultChatModel("deepseek"))
	assert.Equal(t, "", DefaultChatModel("anthropic"))
}

func TestNormalizeChatModelResetsOnProviderSwitch(t *testing.T) {
	// keeping a gemini model while switching to openai resets to openai's
	// first model
	assert.Equal(t, "gpt-4o-mini", NormalizeChatModel("openai", "gemini-1.5-pro"))
	assert.Equal(t, "gpt-4o", NormalizeChatModel("openai", "gpt-4o"))
	assert.Equal(t, "deepseek-chat", NormalizeChatModel("deepseek", ""))
}

func TestNormalizeEmbeddingModel(t *testing.T) {
	assert.Equal(t, "text-embedding-004", NormalizeEmbeddingModel("gemini", "text-embedding-3-small"))
	assert.Equal(t, "text-embedding-3-large", NormalizeEmbeddingModel("openai", "text-embedding-3-large"))
}

func TestValidChatModel(t *testing.T) {
	assert.True(t, ValidChatModel("gemini", "gemini-2.0-flash"))
	assert.False(t, ValidChatModel("gemini", "gpt-4o"))
	assert.False(t, ValidChatModel("", ""))
}
