package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-concierge-platform/internal/config"
	"hotel-concierge-platform/models"
)

func TestConsentGateBlocksFirstMessage(t *testing.T) {
	consent := models.ConsentSettings{Enabled: true, WebText: "We process chat data."}

	// first message, box unchecked
	assert.True(t, ConsentGateBlocks(consent, nil, false))

	// first message, box checked
	assert.False(t, ConsentGateBlocks(consent, nil, true))
}

func TestConsentGateDisabled(t *testing.T) {
	consent := models.ConsentSettings{Enabled: false}
	assert.False(t, ConsentGateBlocks(consent, nil, false))
}

func TestConsentGateNotReengagedAfterFirstUserTurn(t *testing.T) {
	consent := models.ConsentSettings{Enabled: true}
	history := []models.ChatTurn{
		{Role: "assistant", Content: "Welcome to Grand Plaza!"},
		{Role: "user", Content: "Do you have free parking?"},
		{Role: "assistant", Content: "Yes, for all guests."},
	}

	assert.False(t, ConsentGateBlocks(consent, history, false))
}

func TestConsentGateIgnoresAssistantGreeting(t *testing.T) {
	// the seeded greeting is an assistant turn; it must not count as a
	// prior user message
	consent := models.ConsentSettings{Enabled: true}
	history := []models.ChatTurn{
		{Role: "assistant", Content: "Welcome!"},
	}

	assert.True(t, ConsentGateBlocks(consent, history, false))
}

func TestCountUserTurns(t *testing.T) {
	assert.Equal(t, 0, CountUserTurns(nil))
	assert.Equal(t, 2, CountUserTurns([]models.ChatTurn{
		{Role: "assistant", Content: "hi"},
		{Role: "user", Content: "a"},
		{Role: "user", Content: "b"},
	}))
}

func TestResponderReusedAcrossMessages(t *testing.T) {
	// the circuit breaker and rate limiter live on the client, so the same
	// instance must serve every message for a provider
	flow := NewChatFlow(&config.Config{
		OpenAIAPIKey:   "test-key",
		DeepSeekAPIKey: "test-key",
	}, nil, nil)
	defer flow.Close()

	first, err := flow.responderFor(models.AISettings{ChatProvider: "openai"})
	require.NoError(t, err)
	second, err := flow.responderFor(models.AISettings{ChatProvider: "openai"})
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := flow.responderFor(models.AISettings{ChatProvider: "deepseek"})
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestHistoryToTurns(t *testing.T) {
	turns := HistoryToTurns([]models.ChatTurn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	})

	assert.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "hi there", turns[1].Content)
}
