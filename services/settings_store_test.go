package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-concierge-platform/models"
)

func TestNormalizeAISettingsResetsModelOnProviderSwitch(t *testing.T) {
	draft := models.AISettings{
		ChatProvider:      "openai",
		ChatModel:         "gemini-2.0-flash",
		EmbeddingProvider: "gemini",
		EmbeddingModel:    "text-embedding-3-small",
		Temperature:       0.7,
	}

	got, err := NormalizeAISettings(draft)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", got.ChatModel)
	assert.Equal(t, "text-embedding-004", got.EmbeddingModel)
}

func TestNormalizeAISettingsKeepsValidModel(t *testing.T) {
	draft := models.AISettings{
		ChatProvider:      "deepseek",
		ChatModel:         "deepseek-reasoner",
		EmbeddingProvider: "openai",
		EmbeddingModel:    "text-embedding-3-large",
		Temperature:       1.0,
	}

	got, err := NormalizeAISettings(draft)
	require.NoError(t, err)
	assert.Equal(t, "deepseek-reasoner", got.ChatModel)
	assert.Equal(t, "text-embedding-3-large", got.EmbeddingModel)
}

func TestNormalizeAISettingsRejectsUnknownProvider(t *testing.T) {
	_, err := NormalizeAISettings(models.AISettings{
		ChatProvider:      "anthropic",
		EmbeddingProvider: "openai",
	})
	assert.Error(t, err)
}

func TestNormalizeAISettingsRejectsTemperatureOutOfRange(t *testing.T) {
	_, err := NormalizeAISettings(models.AISettings{
		ChatProvider:      "openai",
		EmbeddingProvider: "openai",
		Temperature:       3.5,
	})
	assert.Error(t, err)
}

func TestValidateFormattingSettings(t *testing.T) {
	assert.NoError(t, ValidateFormattingSettings(models.FormattingSettings{}))
	assert.NoError(t, ValidateFormattingSettings(models.FormattingSettings{
		EmojiMap: `{":wave:":"👋"}`,
	}))
	assert.Error(t, ValidateFormattingSettings(models.FormattingSettings{
		EmojiMap: `not json`,
	}))
}

func TestValidateWidgetSettings(t *testing.T) {
	valid := models.DefaultWidgetSettings()
	assert.NoError(t, ValidateWidgetSettings(valid))

	tooSmall := valid
	tooSmall.ButtonSize = 10
	assert.Error(t, ValidateWidgetSettings(tooSmall))

	badPos := valid
	badPos.Position = "center"
	assert.Error(t, ValidateWidgetSettings(badPos))
}
