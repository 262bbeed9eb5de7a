package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"
)

// GeminiClient wraps the Google SDK with a rate limiter and a circuit
// breaker so one misbehaving upstream cannot pile up goroutines behind it.
type GeminiClient struct {
	client  *genai.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func NewGeminiClient(apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &GeminiClient{
		client:  client,
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(9.0/60.0), 3),
	}, nil
}

func (gc *GeminiClient) Generate(ctx context.Context, req Request) (*Reply, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.generate_content")
	defer span.End()

	span.SetAttributes(
		attribute.String("gemini.model", req.Model),
		attribute.Int("gemini.history_turns", len(req.History)),
	)

	if err := gc.limiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.GenerativeModel(req.Model)
		model.SetTemperature(float32(req.Temperature))
		model.SetMaxOutputTokens(2048)
		if req.SystemPrompt != "" {
			model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(req.SystemPrompt)},
			}
		}

		session := model.StartChat()
		session.History = geminiHistory(req.History)

		return session.SendMessage(ctx, genai.Text(promptWithContext(req.Message, req.Context)))
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp := result.(*genai.GenerateContentResponse)
	reply := &Reply{
		Text:       geminiText(resp),
		TokensUsed: geminiTokenUsage(resp),
	}
	span.SetAttributes(attribute.Int("gemini.tokens_used", reply.TokensUsed))
	if reply.Text == "" {
		return nil, fmt.Errorf("%w: empty candidate set", ErrUnavailable)
	}
	return reply, nil
}

func (gc *GeminiClient) Close() error {
	if gc.client != nil {
		return gc.client.Close()
	}
	return nil
}

func geminiHistory(turns []Turn) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Role == "assistant" {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(t.Content)},
		})
	}
	return history
}

func geminiText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		break
	}
	return b.String()
}

func geminiTokenUsage(resp *genai.GenerateContentResponse) int {
	if resp.UsageMetadata != nil {
		return int(resp.UsageMetadata.TotalTokenCount)
	}
	// rough fallback, ~4 characters per token
	estimated := len(geminiText(resp)) / 4
	if estimated < 1 {
		estimated = 1
	}
	return estimated
}

func promptWithContext(message string, chunks []string) string {
	if len(chunks) == 0 {
		return message
	}
	var b strings.Builder
	b.WriteString("Use the following hotel knowledge base excerpts to answer.\n\n")
	for i, chunk := range chunks {
		fmt.Fprintf(&b, "Excerpt %d:\n%s\n\n", i+1, chunk)
	}
	b.WriteString("Guest question: ")
	b.WriteString(message)
	return b.String()
}
