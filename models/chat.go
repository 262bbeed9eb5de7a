package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one persisted chat turn. The widget keeps its transcript in
// memory; the backend stores turns per session so operators can review
// conversations.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID  primitive.ObjectID `bson:"tenant_id" json:"tenant_id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	Role      string             `bson:"role" json:"role"` // "user" or "assistant"
	Content   string             `bson:"content" json:"content"`
	Channel   string             `bson:"channel,omitempty" json:"channel,omitempty"` // widget, telegram, vk, whatsapp, max
	TokenCost int                `bson:"token_cost,omitempty" json:"token_cost,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// ChatTurn is the wire form of a transcript entry the widget sends back as
// conversation history.
type ChatTurn struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

type ChatRequest struct {
	TenantSlug      string     `json:"tenant_slug" binding:"required"`
	SessionID       string     `json:"session_id,omitempty"`
	Message         string     `json:"message" binding:"required,min=1,max=2000"`
	History         []ChatTurn `json:"history,omitempty"`
	ConsentAccepted bool       `json:"consent_accepted,omitempty"`
}

type ChatResponse struct {
	Reply     string    `json:"reply"`
	SessionID string    `json:"session_id"`
	Degraded  bool      `json:"degraded,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PublicPageSettings is the read-only slice of tenant configuration the chat
// iframe loads on startup.
type PublicPageSettings struct {
	TenantSlug  string          `json:"tenant_slug"`
	Title       string          `json:"title,omitempty"`
	Greeting    string          `json:"greeting"`
	Suggestions []string        `json:"suggestions,omitempty"`
	Consent     ConsentSettings `json:"consent"`
	Widget      WidgetSettings  `json:"widget"`
}
