package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"hotel-concierge-platform/internal/config"
)

const (
	usageWarnPercent      = 80
	usageCriticalPercent  = 95
	usageExhaustedPercent = 100

	inactivityWindow = 14 * 24 * time.Hour
)

var alertHierarchy = map[string]int{
	"warn":      1,
	"critical":  2,
	"exhausted": 3,
}

// CronService runs the periodic maintenance jobs: AI usage scans with
// operator alerts, and inactivity reports for tenants whose widgets have
// gone quiet.
type CronService struct {
	cfg       *config.Config
	db        *mongo.Database
	mailer    *Mailer
	scheduler *gocron.Scheduler
}

func NewCronService(cfg *config.Config, db *mongo.Database, mailer *Mailer) *CronService {
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()
	return &CronService{cfg: cfg, db: db, mailer: mailer, scheduler: s}
}

func (c *CronService) Start() error {
	if _, err := c.scheduler.Cron(c.cfg.UsageScanCron).Tag("usage-scan").Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := c.ScanUsage(ctx); err != nil {
			slog.Error("usage scan failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule usage scan: %w", err)
	}

	if _, err := c.scheduler.Every(24 * time.Hour).Tag("inactivity-scan").Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := c.ScanInactiveTenants(ctx); err != nil {
			slog.Error("inactivity scan failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule inactivity scan: %w", err)
	}

	c.scheduler.StartAsync()
	slog.Info("cron scheduler started",
		"usage_scan", c.cfg.UsageScanCron, "jobs", len(c.scheduler.Jobs()))
	return nil
}

func (c *CronService) Stop() {
	c.scheduler.Stop()
}

// AlertLevelFor decides whether a usage level warrants a new alert given the
// highest level already sent. Alerts only escalate; the sent level resets
// with the daily quota.
func AlertLevelFor(used, limit int, lastSent string) (string, bool) {
	if limit <= 0 {
		return "", false
	}
	percent := float64(used) / float64(limit) * 100

	var level string
	switch {
	case percent >= usageExhaustedPercent:
		level = "exhausted"
	case percent >= usageCriticalPercent:
		level = "critical"
	case percent >= usageWarnPercent:
		level = "warn"
	default:
		return "", false
	}

	if alertHierarchy[lastSent] >= alertHierarchy[level] {
		return "", false
	}
	return level, true
}

type quotaScanRow struct {
	TenantSlug     string    `bson:"tenant_slug"`
	TokensUsed     int       `bson:"tokens_used_today"`
	DailyLimit     int       `bson:"daily_token_limit"`
	LastResetDate  time.Time `bson:"last_reset_date"`
	AlertLevelSent string    `bson:"alert_level_sent"`
}

// ScanUsage walks the daily AI quotas and mails the operators when a tenant
// crosses a usage threshold.
func (c *CronService) ScanUsage(ctx context.Context) error {
	cursor, err := c.db.Collection("ai_quotas").Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for cursor.Next(ctx) {
		var row quotaScanRow
		if err := cursor.Decode(&row); err != nil {
			slog.Warn("quota row decode failed", "error", err)
			continue
		}

		if row.LastResetDate.Before(today) {
			// stale row from a previous day, its usage no longer applies
			continue
		}

		level, ok := AlertLevelFor(row.TokensUsed, row.DailyLimit, row.AlertLevelSent)
		if !ok {
			continue
		}

		subject := fmt.Sprintf("[%s] AI usage alert for tenant %s", level, row.TenantSlug)
		body := fmt.Sprintf(
			"Tenant %s has used %d of %d daily AI tokens (%.0f%%).",
			row.TenantSlug, row.TokensUsed, row.DailyLimit,
			float64(row.TokensUsed)/float64(row.DailyLimit)*100)
		if err := c.mailer.SendOperatorAlert(subject, body); err != nil {
			slog.Error("usage alert delivery failed",
				"tenant", row.TenantSlug, "level", level, "error", err)
			continue
		}

		if _, err := c.db.Collection("ai_quotas").UpdateOne(ctx,
			bson.M{"tenant_slug": row.TenantSlug},
			bson.M{"$set": bson.M{"alert_level_sent": level, "alert_sent_at": time.Now()}},
		); err != nil {
			slog.Error("alert status update failed", "tenant", row.TenantSlug, "error", err)
		}
	}

	return cursor.Err()
}

// ScanInactiveTenants reports active tenants with no widget traffic in the
// inactivity window so operators can follow up before renewal.
func (c *CronService) ScanInactiveTenants(ctx context.Context) error {
	cutoff := time.Now().Add(-inactivityWindow)

	cursor, err := c.db.Collection("tenants").Find(ctx, bson.M{"status": "active"})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var quiet []string
	for cursor.Next(ctx) {
		var tenant struct {
			Slug string `bson:"slug"`
			ID   any    `bson:"_id"`
		}
		if err := cursor.Decode(&tenant); err != nil {
			continue
		}

		n, err := c.db.Collection("messages").CountDocuments(ctx, bson.M{
			"tenant_id": tenant.ID,
			"timestamp": bson.M{"$gte": cutoff},
		})
		if err != nil {
			slog.Warn("message count failed", "tenant", tenant.Slug, "error", err)
			continue
		}
		if n == 0 {
			quiet = append(quiet, tenant.Slug)
		}
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	if len(quiet) == 0 {
		return nil
	}

	body := "No widget messages in the last 14 days for:\n"
	for _, slug := range quiet {
		body += " - " + slug + "\n"
	}
	return c.mailer.SendOperatorAlert(
		fmt.Sprintf("%d inactive tenant(s)", len(quiet)), body)
}
