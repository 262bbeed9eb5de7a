package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotel-concierge-platform/internal/ai"
	"hotel-concierge-platform/internal/config"
	"hotel-concierge-platform/internal/telemetry"
	"hotel-concierge-platform/models"
	"hotel-concierge-platform/services"
)

const (
	TaskIngestDocument    = "document:ingest"
	TaskBulkVersionUpdate = "tenants:bulk_version_update"
	TaskSendEmail         = "email:send"
)

type DocumentIngestPayload struct {
	TenantID   string `json:"tenant_id"`
	DocumentID string `json:"document_id"`
	FilePath   string `json:"file_path"`
}

type BulkVersionUpdatePayload struct {
	TargetVersion string   `json:"target_version"`
	Selection     []string `json:"selection,omitempty"`
	RequestedBy   string   `json:"requested_by"`
}

type SendEmailPayload struct {
	TenantID   string `json:"tenant_id"`
	TemplateID string `json:"template_id"`
	Recipient  string `json:"recipient"`
}

func NewDocumentIngestTask(tenantID, documentID, filePath string) (*asynq.Task, error) {
	payload, err := json.Marshal(DocumentIngestPayload{
		TenantID:   tenantID,
		DocumentID: documentID,
		FilePath:   filePath,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskIngestDocument,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue("critical"),
	), nil
}

func NewBulkVersionUpdateTask(targetVersion string, selection []string, requestedBy string) (*asynq.Task, error) {
	payload, err := json.Marshal(BulkVersionUpdatePayload{
		TargetVersion: targetVersion,
		Selection:     selection,
		RequestedBy:   requestedBy,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskBulkVersionUpdate,
		payload,
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
		asynq.Queue("default"),
	), nil
}

func NewSendEmailTask(tenantID, templateID, recipient string) (*asynq.Task, error) {
	payload, err := json.Marshal(SendEmailPayload{
		TenantID:   tenantID,
		TemplateID: templateID,
		Recipient:  recipient,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskSendEmail,
		payload,
		asynq.MaxRetry(5),
		asynq.Timeout(1*time.Minute),
		asynq.Queue("default"),
	), nil
}

// TaskProcessor holds the handler dependencies for the background worker.
type TaskProcessor struct {
	cfg     *config.Config
	db      *mongo.Database
	metrics *telemetry.Metrics
	mailer  *services.Mailer
}

func NewTaskProcessor(cfg *config.Config, db *mongo.Database, metrics *telemetry.Metrics, mailer *services.Mailer) *TaskProcessor {
	return &TaskProcessor{
		cfg:     cfg,
		db:      db,
		metrics: metrics,
		mailer:  mailer,
	}
}

// IngestDocument extracts, chunks and embeds an uploaded knowledge-base PDF.
func (p *TaskProcessor) IngestDocument(ctx context.Context, t *asynq.Task) error {
	var payload DocumentIngestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	slog.Info("ingesting document",
		"tenant_id", payload.TenantID, "document_id", payload.DocumentID)
	start := time.Now()

	docID, err := primitive.ObjectIDFromHex(payload.DocumentID)
	if err != nil {
		return fmt.Errorf("bad document id: %v: %w", err, asynq.SkipRetry)
	}
	tenantID, err := primitive.ObjectIDFromHex(payload.TenantID)
	if err != nil {
		return fmt.Errorf("bad tenant id: %v: %w", err, asynq.SkipRetry)
	}

	p.setDocumentStatus(ctx, docID, "processing", 0)

	text, pages, err := p.documentText(ctx, docID, payload.FilePath)
	if err != nil {
		p.setDocumentStatus(ctx, docID, "failed", 0)
		p.metrics.RecordDocIngest(time.Since(start).Seconds(), "failed")
		return err
	}

	chunks := services.ChunkText(text, p.cfg.MaxChunkSize, p.cfg.ChunkOverlap)

	var tenant models.Tenant
	if err := p.db.Collection("tenants").
		FindOne(ctx, bson.M{"_id": tenantID}).Decode(&tenant); err != nil {
		p.setDocumentStatus(ctx, docID, "failed", pages)
		return err
	}

	keys := ai.ProviderKeys{
		OpenAI:   p.cfg.OpenAIAPIKey,
		Gemini:   p.cfg.GeminiAPIKey,
		DeepSeek: p.cfg.DeepSeekAPIKey,
	}

	batch := make([]mongo.WriteModel, 0, len(chunks))
	for i, chunk := range chunks {
		doc := bson.M{
			"tenant_id":   tenantID,
			"document_id": docID,
			"order":       i,
			"text":        chunk,
			"created_at":  time.Now(),
		}
		if vec, embErr := ai.GenerateEmbedding(ctx, tenant.AI, keys, chunk); embErr == nil {
			doc["vector"] = vec
		} else {
			slog.Warn("chunk embedding failed, storing text only",
				"document_id", payload.DocumentID, "chunk", i, "error", embErr)
		}
		batch = append(batch, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"document_id": docID, "order": i}).
			SetUpdate(bson.M{"$set": doc}).
			SetUpsert(true))
	}
	if len(batch) > 0 {
		if _, err := p.db.Collection("document_chunks").
			BulkWrite(ctx, batch, options.BulkWrite().SetOrdered(false)); err != nil {
			p.setDocumentStatus(ctx, docID, "failed", pages)
			return err
		}
	}

	p.setDocumentStatus(ctx, docID, "completed", pages)
	p.metrics.RecordDocIngest(time.Since(start).Seconds(), "completed")

	slog.Info("document ingested",
		"document_id", payload.DocumentID, "chunks", len(chunks), "pages", pages)
	return nil
}

// BulkVersionUpdate moves tenants to a target template version. An explicit
// selection wins; with none, every auto_update tenant is bumped. Only
// template_version changes, tenant settings are untouched.
func (p *TaskProcessor) BulkVersionUpdate(ctx context.Context, t *asynq.Task) error {
	var payload BulkVersionUpdatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	filter := bson.M{"auto_update": true}
	if len(payload.Selection) > 0 {
		ids := make([]primitive.ObjectID, 0, len(payload.Selection))
		for _, raw := range payload.Selection {
			oid, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				return fmt.Errorf("bad tenant id %q: %v: %w", raw, err, asynq.SkipRetry)
			}
			ids = append(ids, oid)
		}
		filter = bson.M{"_id": bson.M{"$in": ids}}
	}

	result, err := p.db.Collection("tenants").UpdateMany(ctx, filter, bson.M{
		"$set": bson.M{
			"template_version": payload.TargetVersion,
			"updated_at":       time.Now(),
		},
	})
	if err != nil {
		return err
	}

	slog.Info("bulk version update applied",
		"target_version", payload.TargetVersion,
		"matched", result.MatchedCount,
		"modified", result.ModifiedCount,
		"requested_by", payload.RequestedBy)
	return nil
}

// SendEmail renders a tenant email template and delivers it over SMTP.
func (p *TaskProcessor) SendEmail(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	templateID, err := primitive.ObjectIDFromHex(payload.TemplateID)
	if err != nil {
		return fmt.Errorf("bad template id: %v: %w", err, asynq.SkipRetry)
	}

	var tmpl models.EmailTemplate
	if err := p.db.Collection("email_templates").
		FindOne(ctx, bson.M{"_id": templateID}).Decode(&tmpl); err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("template %s not found: %w", payload.TemplateID, asynq.SkipRetry)
		}
		return err
	}

	return p.mailer.SendTemplate(ctx, tmpl, payload.Recipient)
}

// documentText resolves the raw text for a document: PDF extraction for
// uploads, the stored page text for site imports.
func (p *TaskProcessor) documentText(ctx context.Context, docID primitive.ObjectID, filePath string) (string, int, error) {
	if filePath != "" {
		return services.ExtractPDFText(filePath)
	}

	var doc models.Document
	if err := p.db.Collection("documents").
		FindOne(ctx, bson.M{"_id": docID}).Decode(&doc); err != nil {
		return "", 0, err
	}
	if doc.Text == "" {
		return "", 0, fmt.Errorf("document %s has no text to ingest: %w", docID.Hex(), asynq.SkipRetry)
	}
	return doc.Text, 0, nil
}

func (p *TaskProcessor) setDocumentStatus(ctx context.Context, docID primitive.ObjectID, status string, pages int) {
	update := bson.M{"status": status, "updated_at": time.Now()}
	if pages > 0 {
		update["pages"] = pages
	}
	if _, err := p.db.Collection("documents").
		UpdateOne(ctx, bson.M{"_id": docID}, bson.M{"$set": update}); err != nil {
		slog.Error("document status update failed",
			"document_id", docID.Hex(), "status", status, "error", err)
	}
}
