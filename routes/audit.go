package routes

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"hotel-concierge-platform/internal/config"
	"hotel-concierge-platform/middleware"
	"hotel-concierge-platform/models"
	"hotel-concierge-platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupAuditRoutes exposes the audit trail to the master panel.
func SetupAuditRoutes(router *gin.Engine, cfg *config.Config, db *mongo.Database, rdb *redis.Client,
	authMW *middleware.AuthMiddleware, roleMW *middleware.RoleMiddleware) {

	group := router.Group("/api/master/audit")
	group.Use(authMW.RequireAuth(), roleMW.SuperadminGuard(),
		middleware.RoleBasedRateLimit(rdb, cfg))

	events := db.Collection("audit_events")

	group.GET("", func(c *gin.Context) {
		filter, err := buildAuditFilter(
			c.Query("action"), c.Query("user_id"), c.Query("tenant_id"), c.Query("since"))
		if err != nil {
			utils.RespondWithBadRequest(c, err.Error(), nil)
			return
		}

		limit := int64(100)
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}

		cursor, err := events.Find(context.Background(), filter,
			options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to query audit trail", nil)
			return
		}
		defer cursor.Close(context.Background())

		var list []models.AuditEvent
		if err := cursor.All(context.Background(), &list); err != nil {
			utils.RespondWithInternalError(c, "Failed to decode audit events", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": list, "total": len(list)})
	})
}

// buildAuditFilter translates listing query params into the stored event
// shape: the actor is recorded as actor_id and the tenant as an ObjectID.
func buildAuditFilter(action, actorID, tenantID, since string) (bson.M, error) {
	filter := bson.M{}
	if action != "" {
		filter["action"] = action
	}
	if actorID != "" {
		filter["actor_id"] = actorID
	}
	if tenantID != "" {
		oid, err := primitive.ObjectIDFromHex(tenantID)
		if err != nil {
			return nil, errors.New("tenant_id must be a hex object id")
		}
		filter["tenant_id"] = oid
	}
	if since != "" {
		ts, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return nil, errors.New("since must be RFC3339")
		}
		filter["timestamp"] = bson.M{"$gte": ts}
	}
	return filter, nil
}
