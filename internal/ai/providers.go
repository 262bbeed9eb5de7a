package ai

// chatModels is the static provider to allowed-models table. The first entry
// per provider is the default the settings editor falls back to when a saved
// model no longer belongs to the selected provider.
var chatModels = map[string][]string{
	"openai":   {"gpt-4o-mini", "gpt-4o"},
	"gemini":   {"gemini-2.0-flash", "gemini-1.5-pro"},
	"deepseek": {"deepseek-chat", "deepseek-reasoner"},
}

var embeddingModels = map[string][]string{
	"openai": {"text-embedding-3-small", "text-embedding-3-large"},
	"gemini": {"text-embedding-004"},
}

// ChatProviders lists the selectable chat providers.
func ChatProviders() []string {
	return []string{"openai", "gemini", "deepseek"}
}

// EmbeddingProviders lists the selectable embedding providers.
func EmbeddingProviders() []string {
	return []string{"openai", "gemini"}
}

// ChatModelsFor returns the allowed chat models of a provider, nil if the
// provider is unknown.
func ChatModelsFor(provider string) []string {
	return chatModels[provider]
}

// EmbeddingModelsFor returns the allowed embedding models of a provider.
func EmbeddingModelsFor(provider string) []string {
	return embeddingModels[provider]
}

// DefaultChatModel is the first model of a provider's list, empty for an
// unknown provider.
func DefaultChatModel(provider string) string {
	if models := chatModels[provider]; len(models) > 0 {
		return models[0]
	}
	return ""
}

func DefaultEmbeddingModel(provider string) string {
	if models := embeddingModels[provider]; len(models) > 0 {
		return models[0]
	}
	return ""
}

// ValidChatModel reports whether model belongs to provider.
func ValidChatModel(provider, model string) bool {
	for _, m := range chatModels[provider] {
		if m == model {
			return true
		}
	}
	return false
}

func ValidEmbeddingModel(provider, model string) bool {
	for _, m := range embeddingModels[provider] {
		if m == model {
			return true
		}
	}
	return false
}

// NormalizeChatModel returns model when it is valid for provider, otherwise
// the provider's default. Saving settings with a provider switch runs the
// stored model through this so a gemini model never reaches an openai call.
func NormalizeChatModel(provider, model string) string {
	if ValidChatModel(provider, model) {
		return model
	}
	return DefaultChatModel(provider)
}

func NormalizeEmbeddingModel(provider, model string) string {
	if ValidEmbeddingModel(provider, model) {
		return model
	}
	return DefaultEmbeddingModel(provider)
}
