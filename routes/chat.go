package routes

import (
	"context"
	"errors"
	"net/http"

	"hotel-concierge-platform/internal/config"
	"hotel-concierge-platform/internal/telemetry"
	"hotel-concierge-platform/internal/widget"
	"hotel-concierge-platform/middleware"
	"hotel-concierge-platform/models"
	"hotel-concierge-platform/services"
	"hotel-concierge-platform/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupChatRoutes wires the public chat endpoint the widget talks to.
// Provider failures come back as HTTP 200 with a degraded fallback reply;
// only consent gating and unknown tenants produce error statuses.
func SetupChatRoutes(router *gin.Engine, cfg *config.Config, db *mongo.Database,
	metrics *telemetry.Metrics, domainMW *middleware.DomainAuthMiddleware) {

	flow := services.NewChatFlow(cfg, db, metrics)

	router.POST("/api/public/chat", domainMW.Enforce(), func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondPublicError(c, http.StatusBadRequest, "invalid chat request")
			return
		}

		resp, err := flow.HandleMessage(context.Background(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrConsentRequired):
				utils.RespondPublicError(c, http.StatusForbidden, "consent required")
			case errors.Is(err, services.ErrTenantNotFound):
				utils.RespondPublicError(c, http.StatusNotFound, "unknown widget")
			default:
				utils.RespondPublicError(c, http.StatusInternalServerError, "something went wrong")
			}
			return
		}

		c.JSON(http.StatusOK, resp)
	})

	// Rendered reply preview for the widget: applies the tenant's formatting
	// transform to an assistant message.
	router.POST("/api/public/chat/render", domainMW.Enforce(), func(c *gin.Context) {
		var req struct {
			TenantSlug string `json:"tenant_slug" binding:"required"`
			Text       string `json:"text" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondPublicError(c, http.StatusBadRequest, "invalid render request")
			return
		}

		var tenant models.Tenant
		if err := db.Collection("tenants").
			FindOne(context.Background(), bson.M{"slug": req.TenantSlug}).
			Decode(&tenant); err != nil {
			utils.RespondPublicError(c, http.StatusNotFound, "unknown widget")
			return
		}

		html, err := widget.FormatAssistantHTML(req.Text, tenant.Formatting)
		if err != nil {
			utils.RespondPublicError(c, http.StatusInternalServerError, "render failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{"html": html})
	})
}
