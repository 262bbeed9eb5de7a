package ai

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrQuotaExceeded is returned when a tenant is over its daily token budget.
var ErrQuotaExceeded = errors.New("daily ai quota exceeded")

const defaultDailyTokenLimit = 50000

// TenantAIQuota tracks per-tenant daily AI spend. Counters reset lazily on
// the first check of a new UTC day.
type TenantAIQuota struct {
	TenantSlug      string    `bson:"tenant_slug"`
	DailyTokenLimit int       `bson:"daily_token_limit"`
	TokensUsedToday int       `bson:"tokens_used_today"`
	RequestsToday   int       `bson:"requests_today"`
	LastResetDate   time.Time `bson:"last_reset_date"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

// CheckTenantQuota verifies the tenant has budget for estimatedTokens and
// reserves them. Returns ErrQuotaExceeded when the daily limit would be
// crossed.
func CheckTenantQuota(ctx context.Context, db *mongo.Database, tenantSlug string, estimatedTokens int) error {
	col := db.Collection("ai_quotas")

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// lazy daily reset
	_, err := col.UpdateOne(ctx,
		bson.M{"tenant_slug": tenantSlug, "last_reset_date": bson.M{"$lt": today}},
		bson.M{"$set": bson.M{
			"tokens_used_today": 0,
			"requests_today":    0,
			"alert_level_sent":  "",
			"last_reset_date":   today,
			"updated_at":        now,
		}},
	)
	if err != nil {
		return err
	}

	var quota TenantAIQuota
	err = col.FindOne(ctx, bson.M{"tenant_slug": tenantSlug}).Decode(&quota)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			return err
		}
		quota = TenantAIQuota{
			TenantSlug:      tenantSlug,
			DailyTokenLimit: defaultDailyTokenLimit,
			LastResetDate:   today,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if _, err := col.InsertOne(ctx, quota); err != nil {
			return err
		}
	}

	if quota.TokensUsedToday+estimatedTokens > quota.DailyTokenLimit {
		return ErrQuotaExceeded
	}

	_, err = col.UpdateOne(ctx,
		bson.M{"tenant_slug": tenantSlug},
		bson.M{
			"$inc": bson.M{"tokens_used_today": estimatedTokens, "requests_today": 1},
			"$set": bson.M{"updated_at": now},
		},
	)
	return err
}

// GetTenantQuotaStatus returns the current quota record for a tenant.
func GetTenantQuotaStatus(ctx context.Context, db *mongo.Database, tenantSlug string) (*TenantAIQuota, error) {
	var quota TenantAIQuota
	err := db.Collection("ai_quotas").
		FindOne(ctx, bson.M{"tenant_slug": tenantSlug}).Decode(&quota)
	if err != nil {
		return nil, err
	}
	return &quota, nil
}

// SetTenantQuotaLimit sets a tenant's daily token budget, creating the
// record when missing.
func SetTenantQuotaLimit(ctx context.Context, db *mongo.Database, tenantSlug string, dailyLimit int) error {
	_, err := db.Collection("ai_quotas").UpdateOne(ctx,
		bson.M{"tenant_slug": tenantSlug},
		bson.M{"$set": bson.M{
			"daily_token_limit": dailyLimit,
			"updated_at":        time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// EstimateTokens is the pre-flight cost guess used for the quota check,
// roughly 4 characters per token.
func EstimateTokens(message string, history []Turn, contextChunks []string) int {
	total := len(message)
	for _, t := range history {
		total += len(t.Content)
	}
	for _, chunk := range contextChunks {
		total += len(chunk)
	}
	estimated := total / 4
	if estimated < 1 {
		estimated = 1
	}
	return estimated
}
