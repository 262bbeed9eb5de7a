package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter     metric.Int64Counter
	RequestDuration    metric.Float64Histogram
	ChatReplies        metric.Int64Counter
	TokensUsed         metric.Int64Counter
	DocIngestTime      metric.Float64Histogram
	AuditEventsLogged  metric.Int64Counter
	DatabaseOperations metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("hotel-concierge-platform")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	chatReplies, err := meter.Int64Counter(
		"chat.replies.total",
		metric.WithDescription("Assistant replies served, including degraded fallbacks"),
	)
	if err != nil {
		return nil, err
	}

	tokensUsed, err := meter.Int64Counter(
		"ai.tokens.used",
		metric.WithDescription("Total AI provider tokens used"),
	)
	if err != nil {
		return nil, err
	}

	docIngestTime, err := meter.Float64Histogram(
		"document.ingest.duration",
		metric.WithDescription("Knowledge-base document ingestion duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	auditEventsLogged, err := meter.Int64Counter(
		"audit.events.logged",
		metric.WithDescription("Total audit events logged"),
	)
	if err != nil {
		return nil, err
	}

	databaseOperations, err := meter.Int64Counter(
		"database.operations.total",
		metric.WithDescription("Total database operations"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:     requestCounter,
		RequestDuration:    requestDuration,
		ChatReplies:        chatReplies,
		TokensUsed:         tokensUsed,
		DocIngestTime:      docIngestTime,
		AuditEventsLogged:  auditEventsLogged,
		DatabaseOperations: databaseOperations,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordChatReply counts a served reply per tenant and degradation state
func (m *Metrics) RecordChatReply(tenantSlug string, degraded bool) {
	attrs := []attribute.KeyValue{
		attribute.String("tenant.slug", tenantSlug),
		attribute.Bool("chat.degraded", degraded),
	}

	m.ChatReplies.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordTokensUsed records AI provider token usage
func (m *Metrics) RecordTokensUsed(tokens int64, provider, model string) {
	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", provider),
		attribute.String("ai.model", model),
	}

	m.TokensUsed.Add(context.Background(), tokens, metric.WithAttributes(attrs...))
}

// RecordDocIngest records document pipeline metrics
func (m *Metrics) RecordDocIngest(duration float64, status string) {
	attrs := []attribute.KeyValue{
		attribute.String("document.status", status),
	}

	m.DocIngestTime.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordAuditEvent records audit event logging
func (m *Metrics) RecordAuditEvent(action, resource string) {
	attrs := []attribute.KeyValue{
		attribute.String("audit.action", action),
		attribute.String("audit.resource", resource),
	}

	m.AuditEventsLogged.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordDatabaseOperation records database operation metrics
func (m *Metrics) RecordDatabaseOperation(operation, collection string, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.String("db.collection", collection),
		attribute.Bool("db.success", success),
	}

	m.DatabaseOperations.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}
