package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditEvent records a master-panel or settings mutation: who changed what,
// on which tenant. Read-only traffic is not audited.
type AuditEvent struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ActorID   string              `bson:"actor_id" json:"actor_id"`
	ActorRole string              `bson:"actor_role" json:"actor_role"`
	TenantID  *primitive.ObjectID `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	Action    string              `bson:"action" json:"action"`     // e.g. "tenant.create", "settings.ai.save"
	Resource  string              `bson:"resource" json:"resource"` // request path
	Method    string              `bson:"method" json:"method"`
	Status    int                 `bson:"status" json:"status"`
	RequestID string              `bson:"request_id,omitempty" json:"request_id,omitempty"`
	IP        string              `bson:"ip,omitempty" json:"ip,omitempty"`
	Timestamp time.Time           `bson:"timestamp" json:"timestamp"`
}
