package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotel-concierge-platform/models"
)

// ExportRequest scopes a conversation export.
type ExportRequest struct {
	Format    string    `json:"format" binding:"required,oneof=json excel"`
	DateFrom  time.Time `json:"date_from,omitempty"`
	DateTo    time.Time `json:"date_to,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Limit     int       `json:"limit,omitempty"`
}

// ExportResult carries the rendered file.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	RecordCount int
}

type exportSummary struct {
	TotalMessages  int    `json:"total_messages"`
	TotalTokens    int    `json:"total_tokens"`
	UniqueSessions int    `json:"unique_sessions"`
	DateRange      string `json:"date_range,omitempty"`
}

type exportDocument struct {
	ExportedAt time.Time        `json:"exported_at"`
	TenantID   string           `json:"tenant_id"`
	Summary    exportSummary    `json:"summary"`
	Messages   []models.Message `json:"messages"`
}

// ExportService renders tenant conversation logs to JSON or Excel.
type ExportService struct {
	messages *mongo.Collection
}

func NewExportService(db *mongo.Database) *ExportService {
	return &ExportService{messages: db.Collection("messages")}
}

func (es *ExportService) ExportConversations(ctx context.Context, tenantID primitive.ObjectID, req ExportRequest) (*ExportResult, error) {
	filter := bson.M{"tenant_id": tenantID}
	if req.SessionID != "" {
		filter["session_id"] = req.SessionID
	}
	if !req.DateFrom.IsZero() || !req.DateTo.IsZero() {
		dateFilter := bson.M{}
		if !req.DateFrom.IsZero() {
			dateFilter["$gte"] = req.DateFrom
		}
		if !req.DateTo.IsZero() {
			dateFilter["$lte"] = req.DateTo
		}
		filter["timestamp"] = dateFilter
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if req.Limit > 0 {
		opts.SetLimit(int64(req.Limit))
	}

	cursor, err := es.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	doc := exportDocument{
		ExportedAt: time.Now(),
		TenantID:   tenantID.Hex(),
		Summary:    summarize(messages, req),
		Messages:   messages,
	}

	switch req.Format {
	case "json":
		return renderJSONExport(doc)
	case "excel":
		return renderExcelExport(doc)
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
}

func summarize(messages []models.Message, req ExportRequest) exportSummary {
	summary := exportSummary{TotalMessages: len(messages)}

	sessions := make(map[string]bool)
	for _, msg := range messages {
		summary.TotalTokens += msg.TokenCost
		sessions[msg.SessionID] = true
	}
	summary.UniqueSessions = len(sessions)

	switch {
	case !req.DateFrom.IsZero() && !req.DateTo.IsZero():
		summary.DateRange = fmt.Sprintf("%s to %s",
			req.DateFrom.Format("2006-01-02"), req.DateTo.Format("2006-01-02"))
	case !req.DateFrom.IsZero():
		summary.DateRange = fmt.Sprintf("From %s", req.DateFrom.Format("2006-01-02"))
	case !req.DateTo.IsZero():
		summary.DateRange = fmt.Sprintf("Until %s", req.DateTo.Format("2006-01-02"))
	}
	return summary
}

func renderJSONExport(doc exportDocument) (*ExportResult, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return &ExportResult{
		Filename:    "conversations.json",
		ContentType: "application/json",
		Data:        data,
		RecordCount: doc.Summary.TotalMessages,
	}, nil
}

func renderExcelExport(doc exportDocument) (*ExportResult, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Conversations"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Session", "Role", "Channel", "Message", "Token Cost", "Timestamp"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIdx, msg := range doc.Messages {
		row := rowIdx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), msg.SessionID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), msg.Role)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), msg.Channel)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), msg.Content)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), msg.TokenCost)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), msg.Timestamp.Format("2006-01-02 15:04:05"))
	}

	for i := range headers {
		col := string(rune('A' + i))
		f.SetColWidth(sheetName, col, col, 18)
	}

	summarySheet := "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	summaryRows := [][]interface{}{
		{"Exported At", doc.ExportedAt.Format("2006-01-02 15:04:05")},
		{"Total Messages", doc.Summary.TotalMessages},
		{"Total Tokens", doc.Summary.TotalTokens},
		{"Unique Sessions", doc.Summary.UniqueSessions},
		{"Date Range", doc.Summary.DateRange},
	}
	for i, row := range summaryRows {
		for j, cell := range row {
			cellRef := fmt.Sprintf("%c%d", 'A'+j, i+1)
			f.SetCellValue(summarySheet, cellRef, cell)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel file: %w", err)
	}

	return &ExportResult{
		Filename:    "conversations.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
		RecordCount: doc.Summary.TotalMessages,
	}, nil
}
