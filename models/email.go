package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailTemplate is a tenant-authored template for outbound guest emails
// (booking follow-ups, quote replies). Bodies are html/template text with
// placeholders resolved from TemplateFields at send time.
type EmailTemplate struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID primitive.ObjectID `bson:"tenant_id" json:"tenant_id"`
	Type     string             `bson:"type" json:"type"` // "guest_followup", "quote", "booking_confirm"
	Name     string             `bson:"name" json:"name" binding:"required"`
	Subject  string             `bson:"subject" json:"subject" binding:"required"`
	HTMLBody string             `bson:"html_body" json:"html_body" binding:"required"`
	TextBody string             `bson:"text_body" json:"text_body" binding:"required"`

	TemplateFields EmailTemplateFields `bson:"template_fields" json:"template_fields"`

	IsActive  bool      `bson:"is_active" json:"is_active"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EmailTemplateFields are the dynamic values merged into a template body.
type EmailTemplateFields struct {
	HotelName     string `bson:"hotel_name" json:"hotel_name"`
	Greeting      string `bson:"greeting,omitempty" json:"greeting,omitempty"`
	Signature     string `bson:"signature,omitempty" json:"signature,omitempty"`
	BookingURL    string `bson:"booking_url,omitempty" json:"booking_url,omitempty"`
	ContactPhone  string `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	ContactEmail  string `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	WebsiteURL    string `bson:"website_url,omitempty" json:"website_url,omitempty"`
	OfferMessage  string `bson:"offer_message,omitempty" json:"offer_message,omitempty"`
	FooterAddress string `bson:"footer_address,omitempty" json:"footer_address,omitempty"`
}
