package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is a knowledge-base source for a tenant: an uploaded PDF or a page
// captured by the site importer. Extraction and chunking run in the
// background worker; Status tracks that pipeline.
type Document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID  primitive.ObjectID `bson:"tenant_id" json:"tenant_id"`
	Name      string             `bson:"name" json:"name"`
	Filename  string             `bson:"filename,omitempty" json:"filename,omitempty"`
	Source    string             `bson:"source" json:"source"` // upload, site_import
	SourceURL string             `bson:"source_url,omitempty" json:"source_url,omitempty"`
	Size      int64              `bson:"size,omitempty" json:"size,omitempty"`
	Pages     int                `bson:"pages,omitempty" json:"pages,omitempty"`
	Status    string             `bson:"status" json:"status"` // pending, processing, completed, failed
	Text      string             `bson:"text,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type DocumentChunk struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID   primitive.ObjectID `bson:"tenant_id" json:"tenant_id"`
	DocumentID primitive.ObjectID `bson:"document_id" json:"document_id"`
	Order      int                `bson:"order" json:"order"`
	Text       string             `bson:"text" json:"text"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
