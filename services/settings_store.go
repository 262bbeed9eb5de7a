package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hotel-concierge-platform/internal/ai"
	"hotel-concierge-platform/internal/tariff"
	"hotel-concierge-platform/internal/widget"
	"hotel-concierge-platform/models"
)

// SettingsStore persists the per-tenant settings sections. Each save
// replaces its section wholesale, mirroring the editors which always submit
// the full draft.
type SettingsStore struct {
	tenants *mongo.Collection
}

func NewSettingsStore(db *mongo.Database) *SettingsStore {
	return &SettingsStore{tenants: db.Collection("tenants")}
}

// NormalizeAISettings validates a draft against the provider tables,
// resetting each model to its provider's first entry when it does not
// belong. Unknown providers are rejected.
func NormalizeAISettings(draft models.AISettings) (models.AISettings, error) {
	if ai.ChatModelsFor(draft.ChatProvider) == nil {
		return draft, fmt.Errorf("unknown chat provider %q", draft.ChatProvider)
	}
	if ai.EmbeddingModelsFor(draft.EmbeddingProvider) == nil {
		return draft, fmt.Errorf("unknown embedding provider %q", draft.EmbeddingProvider)
	}

	draft.ChatModel = ai.NormalizeChatModel(draft.ChatProvider, draft.ChatModel)
	draft.EmbeddingModel = ai.NormalizeEmbeddingModel(draft.EmbeddingProvider, draft.EmbeddingModel)

	if draft.Temperature < 0 || draft.Temperature > 2 {
		return draft, fmt.Errorf("temperature %v out of range [0, 2]", draft.Temperature)
	}
	return draft, nil
}

// ValidateFormattingSettings rejects a malformed emoji map before it reaches
// storage; the widget would otherwise fail on every reply render.
func ValidateFormattingSettings(draft models.FormattingSettings) error {
	if draft.EmojiMap == "" {
		return nil
	}
	_, err := widget.ParseEmojiMap(draft.EmojiMap)
	return err
}

// ValidateWidgetSettings bounds the numeric widget fields.
func ValidateWidgetSettings(draft models.WidgetSettings) error {
	if draft.ButtonSize < 32 || draft.ButtonSize > 120 {
		return fmt.Errorf("button_size %d out of range [32, 120]", draft.ButtonSize)
	}
	if draft.WindowWidth < 280 || draft.WindowWidth > 800 {
		return fmt.Errorf("window_width %d out of range [280, 800]", draft.WindowWidth)
	}
	if draft.WindowHeight < 320 || draft.WindowHeight > 900 {
		return fmt.Errorf("window_height %d out of range [320, 900]", draft.WindowHeight)
	}
	switch draft.Position {
	case "bottom-right", "bottom-left", "top-right", "top-left":
	default:
		return fmt.Errorf("unknown position %q", draft.Position)
	}
	return nil
}

func (s *SettingsStore) SaveWidget(ctx context.Context, tenantID primitive.ObjectID, viewer tariff.ViewerContext, tariffID string, draft models.WidgetSettings) error {
	if err := ValidateWidgetSettings(draft); err != nil {
		return err
	}
	if draft.CustomCSS != "" && !tariff.HasFeatureAccess(viewer, tariff.FeatureCustomCSS, tariffID) {
		return fmt.Errorf("custom CSS is not included in tariff %q", tariffID)
	}
	return s.saveSection(ctx, tenantID, "widget", draft)
}

func (s *SettingsStore) SaveConsent(ctx context.Context, tenantID primitive.ObjectID, draft models.ConsentSettings) error {
	return s.saveSection(ctx, tenantID, "consent", draft)
}

func (s *SettingsStore) SaveAI(ctx context.Context, tenantID primitive.ObjectID, draft models.AISettings) (models.AISettings, error) {
	normalized, err := NormalizeAISettings(draft)
	if err != nil {
		return draft, err
	}
	return normalized, s.saveSection(ctx, tenantID, "ai", normalized)
}

func (s *SettingsStore) SavePage(ctx context.Context, tenantID primitive.ObjectID, draft models.PageContent) error {
	return s.saveSection(ctx, tenantID, "page", draft)
}

func (s *SettingsStore) SaveFormatting(ctx context.Context, tenantID primitive.ObjectID, draft models.FormattingSettings) error {
	if err := ValidateFormattingSettings(draft); err != nil {
		return err
	}
	return s.saveSection(ctx, tenantID, "formatting", draft)
}

// SaveMessengers stores channel credentials, refusing enablement of channels
// outside the tariff.
func (s *SettingsStore) SaveMessengers(ctx context.Context, tenantID primitive.ObjectID, viewer tariff.ViewerContext, tariffID string, draft models.MessengerSettings) error {
	channels := map[string]bool{
		"telegram": draft.Telegram.Enabled,
		"vk":       draft.VK.Enabled,
		"whatsapp": draft.WhatsApp.Enabled,
		"max":      draft.Max.Enabled,
	}
	for name, enabled := range channels {
		if enabled && !tariff.ChannelAllowed(viewer, name, tariffID) {
			return fmt.Errorf("channel %q is not included in tariff %q", name, tariffID)
		}
	}
	return s.saveSection(ctx, tenantID, "messengers", draft)
}

func (s *SettingsStore) saveSection(ctx context.Context, tenantID primitive.ObjectID, field string, value interface{}) error {
	result, err := s.tenants.UpdateOne(ctx,
		bson.M{"_id": tenantID},
		bson.M{"$set": bson.M{
			field:        value,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
