package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

// OpenAICompatClient speaks the chat-completions wire format shared by
// OpenAI and DeepSeek; only the base URL and key differ.
type OpenAICompatClient struct {
	name    string
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func NewOpenAICompatClient(name, baseURL, apiKey string) *OpenAICompatClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name + "-api",
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

	return &OpenAICompatClient{
		name:    name,
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(50.0/60.0), 10),
	}
}

type chatCompletionRequest struct {
	Model       string               `json:"model"`
	Messages    []chatCompletionTurn `json:"messages"`
	Temperature float64              `json:"temperature,omitempty"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
}

type chatCompletionTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionTurn `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenAICompatClient) Generate(ctx context.Context, req Request) (*Reply, error) {
	tracer := otel.Tracer(c.name + "-client")
	ctx, span := tracer.Start(ctx, c.name+".chat_completion")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.model", req.Model),
		attribute.Int("ai.history_turns", len(req.History)),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("ai.rate_limited", true))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	body := chatCompletionRequest{
		Model:       req.Model,
		Messages:    c.buildMessages(req),
		Temperature: req.Temperature,
		MaxTokens:   2048,
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, body)
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("ai.error", true))
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp := result.(*chatCompletionResponse)
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choice list", ErrUnavailable)
	}
	reply := &Reply{
		Text:       resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}
	span.SetAttributes(attribute.Int("ai.tokens_used", reply.TokensUsed))
	return reply, nil
}

func (c *OpenAICompatClient) Close() error { return nil }

func (c *OpenAICompatClient) buildMessages(req Request) []chatCompletionTurn {
	messages := make([]chatCompletionTurn, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, chatCompletionTurn{Role: "system", Content: req.SystemPrompt})
	}
	for _, t := range req.History {
		messages = append(messages, chatCompletionTurn{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, chatCompletionTurn{
		Role:    "user",
		Content: promptWithContext(req.Message, req.Context),
	})
	return messages
}

func openAIEmbedding(ctx context.Context, apiKey, model, text string) ([]float32, error) {
	payload, err := json.Marshal(map[string]string{"model": model, "input": text})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.openai.com/v1/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 30 * time.Second}
	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai embeddings returned %d", httpResp.StatusCode)
	}

	var resp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode embeddings response: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return resp.Data[0].Embedding, nil
}

func (c *OpenAICompatClient) post(ctx context.Context, body chatCompletionRequest) (*chatCompletionResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", c.name, err)
	}
	if httpResp.StatusCode != http.StatusOK {
		if resp.Error != nil {
			return nil, fmt.Errorf("%s returned %d: %s", c.name, httpResp.StatusCode, resp.Error.Message)
		}
		return nil, fmt.Errorf("%s returned %d", c.name, httpResp.StatusCode)
	}
	return &resp, nil
}
