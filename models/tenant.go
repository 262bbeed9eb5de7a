package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Tenant struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug            string             `bson:"slug" json:"slug" binding:"required,min=2,max=50"`
	Name            string             `bson:"name" json:"name" binding:"required,min=2,max=100"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	OwnerEmail      string             `bson:"owner_email,omitempty" json:"owner_email,omitempty"`
	OwnerPhone      string             `bson:"owner_phone,omitempty" json:"owner_phone,omitempty"`
	TariffID        string             `bson:"tariff_id" json:"tariff_id"`
	TemplateVersion string             `bson:"template_version" json:"template_version"`
	AutoUpdate      bool               `bson:"auto_update" json:"auto_update"`
	Status          string             `bson:"status,omitempty" json:"status,omitempty"` // active, inactive, suspended
	DocCount        int                `bson:"doc_count" json:"doc_count"`
	MessageCount    int                `bson:"message_count" json:"message_count"`
	// WidgetSecret keys the hosted widget page for tenants that restrict
	// embedding domains; the generated snippet carries it in the chat URL.
	WidgetSecret string `bson:"widget_secret" json:"widget_secret"`

	// Per-tenant configuration edited through the settings panels. Each
	// section is replaced wholesale on save, never patched field by field.
	Widget     WidgetSettings     `bson:"widget" json:"widget"`
	Consent    ConsentSettings    `bson:"consent" json:"consent"`
	AI         AISettings         `bson:"ai" json:"ai"`
	Page       PageContent        `bson:"page" json:"page"`
	Formatting FormattingSettings `bson:"formatting" json:"formatting"`
	Messengers MessengerSettings  `bson:"messengers" json:"messengers"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type CreateTenantRequest struct {
	Slug        string `json:"slug" binding:"required,min=2,max=50"`
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description,omitempty"`
	OwnerEmail  string `json:"owner_email,omitempty" binding:"omitempty,email"`
	OwnerPhone  string `json:"owner_phone,omitempty"`
	TariffID    string `json:"tariff_id,omitempty"`
	Status      string `json:"status,omitempty"`

	// Owner login created right after the tenant record. The two inserts are
	// not transactional: if this one fails the tenant stays without a user
	// and the operator retries user creation by hand.
	OwnerUser *OwnerUser `json:"owner_user,omitempty"`
}

type OwnerUser struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email,omitempty" binding:"omitempty,email"`
}

type UpdateTenantRequest struct {
	Name            *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Description     *string `json:"description,omitempty"`
	OwnerEmail      *string `json:"owner_email,omitempty" binding:"omitempty,email"`
	OwnerPhone      *string `json:"owner_phone,omitempty"`
	TariffID        *string `json:"tariff_id,omitempty"`
	TemplateVersion *string `json:"template_version,omitempty"`
	AutoUpdate      *bool   `json:"auto_update,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// BulkVersionUpdateRequest moves a set of tenants to a target template
// version. With an empty Selection every tenant flagged auto_update is
// updated. Tenant settings are preserved across the bump.
type BulkVersionUpdateRequest struct {
	TargetVersion string   `json:"target_version" binding:"required"`
	Selection     []string `json:"selection,omitempty"`
}

type TenantUsageStats struct {
	Tenant       Tenant    `json:"tenant"`
	LastActivity time.Time `json:"last_activity"`
	Messages30d  int       `json:"messages_30d"`
	Documents    int       `json:"documents"`
}
