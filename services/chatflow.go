package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotel-concierge-platform/internal/ai"
	"hotel-concierge-platform/internal/config"
	"hotel-concierge-platform/internal/telemetry"
	"hotel-concierge-platform/models"
)

// FallbackReply is served when the AI provider fails. The widget renders it
// as a normal assistant bubble; provider failures never surface as HTTP
// errors to guests.
const FallbackReply = "Sorry, I'm having trouble answering right now. Please try again in a moment, or reach the front desk directly."

// ErrConsentRequired blocks the first message of a session until the guest
// accepts the data-processing disclosure.
var ErrConsentRequired = errors.New("consent required before chatting")

// ErrTenantNotFound is returned for unknown or inactive tenant slugs.
var ErrTenantNotFound = errors.New("tenant not found")

// ChatFlow runs the public chat turn cycle: consent gate, quota, provider
// call, transcript persistence. Provider clients are built once per provider
// and reused so their circuit breakers and rate limiters see every request.
type ChatFlow struct {
	cfg     *config.Config
	db      *mongo.Database
	metrics *telemetry.Metrics

	mu         sync.Mutex
	responders map[string]ai.Responder
}

func NewChatFlow(cfg *config.Config, db *mongo.Database, metrics *telemetry.Metrics) *ChatFlow {
	return &ChatFlow{
		cfg:        cfg,
		db:         db,
		metrics:    metrics,
		responders: make(map[string]ai.Responder),
	}
}

// responderFor returns the shared client for a provider, constructing it on
// first use. API keys come from process config, so one client per provider
// serves every tenant.
func (f *ChatFlow) responderFor(settings models.AISettings) (ai.Responder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r, ok := f.responders[settings.ChatProvider]; ok {
		return r, nil
	}

	keys := ai.ProviderKeys{
		OpenAI:   f.cfg.OpenAIAPIKey,
		Gemini:   f.cfg.GeminiAPIKey,
		DeepSeek: f.cfg.DeepSeekAPIKey,
	}
	r, err := ai.NewResponder(settings, keys)
	if err != nil {
		return nil, err
	}
	f.responders[settings.ChatProvider] = r
	return r, nil
}

// Close releases the provider clients.
func (f *ChatFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for provider, r := range f.responders {
		if err := r.Close(); err != nil {
			slog.Warn("responder close failed", "provider", provider, "error", err)
		}
	}
	f.responders = make(map[string]ai.Responder)
}

// ConsentGateBlocks reports whether a send must be blocked: consent is
// enabled, the session has no prior user turns, and the guest has not
// accepted. Once a user turn exists the gate never re-engages.
func ConsentGateBlocks(consent models.ConsentSettings, history []models.ChatTurn, accepted bool) bool {
	if !consent.Enabled || accepted {
		return false
	}
	return CountUserTurns(history) == 0
}

// CountUserTurns counts guest entries in a transcript.
func CountUserTurns(history []models.ChatTurn) int {
	n := 0
	for _, turn := range history {
		if turn.Role == "user" {
			n++
		}
	}
	return n
}

// HistoryToTurns converts the wire transcript into provider turns.
func HistoryToTurns(history []models.ChatTurn) []ai.Turn {
	turns := make([]ai.Turn, 0, len(history))
	for _, h := range history {
		turns = append(turns, ai.Turn{Role: h.Role, Content: h.Content})
	}
	return turns
}

// HandleMessage processes one guest message and returns the reply. Provider
// and quota failures degrade to FallbackReply with Degraded set; only
// consent gating and unknown tenants return errors.
func (f *ChatFlow) HandleMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var tenant models.Tenant
	err := f.db.Collection("tenants").
		FindOne(ctx, bson.M{"slug": req.TenantSlug}).Decode(&tenant)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	if tenant.Status == "suspended" {
		return nil, ErrTenantNotFound
	}

	if ConsentGateBlocks(tenant.Consent, req.History, req.ConsentAccepted) {
		return nil, ErrConsentRequired
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	resp := &models.ChatResponse{
		SessionID: sessionID,
		Timestamp: time.Now(),
	}

	reply, tokens := f.generateReply(ctx, &tenant, req)
	resp.Reply = reply.text
	resp.Degraded = reply.degraded

	f.persistExchange(ctx, &tenant, sessionID, req.Message, reply.text, tokens)
	f.metrics.RecordChatReply(tenant.Slug, reply.degraded)

	return resp, nil
}

type generatedReply struct {
	text     string
	degraded bool
}

func (f *ChatFlow) generateReply(ctx context.Context, tenant *models.Tenant, req models.ChatRequest) (generatedReply, int) {
	history := HistoryToTurns(req.History)
	chunks := f.retrieveContext(ctx, tenant.ID, req.Message)

	estimated := ai.EstimateTokens(req.Message, history, chunks)
	if err := ai.CheckTenantQuota(ctx, f.db, tenant.Slug, estimated); err != nil {
		slog.Warn("chat quota check failed",
			"tenant", tenant.Slug, "error", err)
		return generatedReply{text: FallbackReply, degraded: true}, 0
	}

	responder, err := f.responderFor(tenant.AI)
	if err != nil {
		slog.Error("responder construction failed",
			"tenant", tenant.Slug, "provider", tenant.AI.ChatProvider, "error", err)
		return generatedReply{text: FallbackReply, degraded: true}, 0
	}

	reply, err := responder.Generate(ctx, ai.Request{
		Model:        ai.NormalizeChatModel(tenant.AI.ChatProvider, tenant.AI.ChatModel),
		SystemPrompt: tenant.AI.SystemPrompt,
		Temperature:  tenant.AI.Temperature,
		History:      history,
		Message:      req.Message,
		Context:      chunks,
	})
	if err != nil {
		slog.Warn("provider call failed, serving fallback",
			"tenant", tenant.Slug, "provider", tenant.AI.ChatProvider, "error", err)
		return generatedReply{text: FallbackReply, degraded: true}, 0
	}

	f.metrics.RecordTokensUsed(int64(reply.TokensUsed), tenant.AI.ChatProvider, tenant.AI.ChatModel)
	return generatedReply{text: reply.Text}, reply.TokensUsed
}

// retrieveContext pulls the most recent knowledge-base chunks for the
// tenant. Plain recency ranking; vector search can replace this where the
// deployment has an index for it.
func (f *ChatFlow) retrieveContext(ctx context.Context, tenantID interface{}, _ string) []string {
	cursor, err := f.db.Collection("document_chunks").Find(ctx,
		bson.M{"tenant_id": tenantID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(3),
	)
	if err != nil {
		return nil
	}
	defer cursor.Close(ctx)

	var chunks []string
	for cursor.Next(ctx) {
		var chunk models.DocumentChunk
		if err := cursor.Decode(&chunk); err == nil {
			chunks = append(chunks, chunk.Text)
		}
	}
	return chunks
}

func (f *ChatFlow) persistExchange(ctx context.Context, tenant *models.Tenant, sessionID, userMsg, assistantMsg string, tokens int) {
	now := time.Now()
	docs := []interface{}{
		models.Message{
			TenantID:  tenant.ID,
			SessionID: sessionID,
			Role:      "user",
			Content:   userMsg,
			Channel:   "widget",
			Timestamp: now,
		},
		models.Message{
			TenantID:  tenant.ID,
			SessionID: sessionID,
			Role:      "assistant",
			Content:   assistantMsg,
			Channel:   "widget",
			TokenCost: tokens,
			Timestamp: now,
		},
	}

	if _, err := f.db.Collection("messages").InsertMany(ctx, docs); err != nil {
		slog.Error("transcript persistence failed",
			"tenant", tenant.Slug, "session", sessionID, "error", err)
		return
	}

	if _, err := f.db.Collection("tenants").UpdateOne(ctx,
		bson.M{"_id": tenant.ID},
		bson.M{"$inc": bson.M{"message_count": 2}}); err != nil {
		slog.Error("message counter update failed", "tenant", tenant.Slug, "error", err)
	}
}
