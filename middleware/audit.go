package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hotel-concierge-platform/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditMiddleware records mutations (POST, PUT, PATCH, DELETE) to the audit
// collection. Reads are not audited. The insert runs off the request
// goroutine so a slow audit write never delays the response.
func AuditMiddleware(auditCollection *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions {
			return
		}

		event := models.AuditEvent{
			ActorID:   GetUserID(c),
			ActorRole: GetRole(c),
			Action:    auditAction(c),
			Resource:  c.Request.URL.Path,
			Method:    c.Request.Method,
			Status:    c.Writer.Status(),
			RequestID: GetRequestID(c),
			IP:        c.ClientIP(),
			Timestamp: time.Now(),
		}

		if tenantID := GetTenantID(c); tenantID != "" {
			if oid, err := primitive.ObjectIDFromHex(tenantID); err == nil {
				event.TenantID = &oid
			}
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if _, err := auditCollection.InsertOne(ctx, event); err != nil {
				slog.Error("audit insert failed",
					"action", event.Action, "resource", event.Resource, "error", err)
			}
		}()
	}
}

// auditAction derives a dotted action name like "tenants.create" from the
// route and method.
func auditAction(c *gin.Context) string {
	verb := map[string]string{
		http.MethodPost:   "create",
		http.MethodPut:    "update",
		http.MethodPatch:  "update",
		http.MethodDelete: "delete",
	}[c.Request.Method]
	if verb == "" {
		verb = strings.ToLower(c.Request.Method)
	}

	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}

	// first two meaningful path segments, params stripped
	var segments []string
	for _, part := range strings.Split(path, "/") {
		if part == "" || part == "api" || strings.HasPrefix(part, ":") {
			continue
		}
		segments = append(segments, part)
		if len(segments) == 2 {
			break
		}
	}
	if len(segments) == 0 {
		return verb
	}
	return strings.Join(segments, ".") + "." + verb
}
