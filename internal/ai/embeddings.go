package ai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"hotel-concierge-platform/models"
)

// GenerateEmbedding returns an embedding vector for text using the tenant's
// configured embedding provider. Used by the document ingestion worker when
// chunking knowledge-base PDFs.
func GenerateEmbedding(ctx context.Context, settings models.AISettings, keys ProviderKeys, text string) ([]float32, error) {
	provider := settings.EmbeddingProvider
	model := NormalizeEmbeddingModel(provider, settings.EmbeddingModel)

	switch provider {
	case "gemini", "":
		if keys.Gemini == "" {
			return nil, fmt.Errorf("gemini embeddings selected but GEMINI_API_KEY is empty")
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(keys.Gemini))
		if err != nil {
			return nil, err
		}
		defer client.Close()

		resp, err := client.EmbeddingModel(model).EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, err
		}
		if resp.Embedding == nil {
			return nil, fmt.Errorf("no embedding returned")
		}
		return resp.Embedding.Values, nil

	case "openai":
		if keys.OpenAI == "" {
			return nil, fmt.Errorf("openai embeddings selected but OPENAI_API_KEY is empty")
		}
		return openAIEmbedding(ctx, keys.OpenAI, model, text)

	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}
