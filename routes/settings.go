package routes

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"hotel-concierge-platform/internal/queue"
	"hotel-concierge-platform/internal/tariff"
	"hotel-concierge-platform/internal/widget"
	"hotel-concierge-platform/middleware"
	"hotel-concierge-platform/models"
	"hotel-concierge-platform/services"
	"hotel-concierge-platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupSettingsRoutes wires the tenant settings panels: one GET for the full
// draft state and one PUT per section. Sections gated by tariff run through
// the feature-check middleware.
func SetupSettingsRoutes(router *gin.Engine, db *mongo.Database, asynqClient *asynq.Client,
	authMW *middleware.AuthMiddleware, roleMW *middleware.RoleMiddleware,
	featureMW *middleware.FeatureCheckMiddleware) {

	group := router.Group("/api/tenant/settings")
	group.Use(authMW.RequireAuth(), roleMW.TenantGuard())

	tenants := db.Collection("tenants")
	templates := db.Collection("email_templates")
	store := services.NewSettingsStore(db)

	group.GET("", func(c *gin.Context) {
		tenant, ok := loadSessionTenant(c, tenants)
		if !ok {
			return
		}

		viewer := middleware.ViewerFromContext(c)
		c.JSON(http.StatusOK, gin.H{
			"widget":     tenant.Widget,
			"consent":    tenant.Consent,
			"ai":         tenant.AI,
			"page":       tenant.Page,
			"formatting": tenant.Formatting,
			"messengers": tenant.Messengers,
			"tariff": gin.H{
				"id":       tenant.TariffID,
				"limits":   tariff.Resolve(tenant.TariffID),
				"channels": tariff.EnabledChannels(viewer, tenant.Messengers, tenant.TariffID),
			},
		})
	})

	group.PUT("/widget", func(c *gin.Context) {
		tenant, ok := loadSessionTenant(c, tenants)
		if !ok {
			return
		}

		var draft models.WidgetSettings
		if err := c.ShouldBindJSON(&draft); err != nil {
			utils.RespondWithBadRequest(c, "Invalid widget settings", gin.H{"error": err.Error()})
			return
		}

		viewer := middleware.ViewerFromContext(c)
		if err := store.SaveWidget(context.Background(), tenant.ID, viewer, tenant.TariffID, draft); err != nil {
			utils.RespondWithBadRequest(c, err.Error(), nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"saved": true})
	})

	group.PUT("/consent", func(c *gin.Context) {
		tenant, ok := loadSessionTenant(c, tenants)
		if !ok {
			return
		}

		var draft models.ConsentSettings
		if err := c.ShouldBindJSON(&draft); err != nil {
			utils.RespondWithBadRequest(c, "Invalid consent settings", gin.H{"error": err.Error()})
			return
		}
		if err := store.SaveConsent(context.Background(), tenant.ID, draft); err != nil {
			utils.RespondWithInternalError(c, "Failed to save consent settings", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"saved": true})
	})

	group.PUT("/ai", func(c *gin.Context) {
		tenant, ok := loadSessionTenant(c, tenants)
		if !ok {
			return
		}

		var draft models.AISettings
		if err := c.ShouldBindJSON(&draft); err != nil {
			utils.RespondWithBadRequest(c, "Invalid AI settings", gin.H{"error": err.Error()})
			return
		}

		normalized, err := store.SaveAI(context.Background(), tenant.ID, draft)
		if err != nil {
			utils.RespondWithBadRequest(c, err.Error(), nil)
			return
		}
		// the editor reloads the normalized draft, the model may have been
		// reset on a provider switch
		c.JSON(http.StatusOK, gin.H{"saved": true, "ai": normalized})
	})

	group.PUT("/page", func(c *gin.Context) {
		tenant, ok := loadSessionTenant(c, tenants)
		if !ok {
			return
		}

		var draft models.PageContent
		if err := c.ShouldBindJSON(&draft); err != nil {
			utils.RespondWithBadRequest(c, "Invalid page content", gin.H{"error": err.Error()})
			return
		}
		if err := store.SavePage(context.Background(), tenant.ID, draft); err != nil {
			utils.RespondWithInternalError(c, "Failed to save page content", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"saved": true})
	})

	group.PUT("/formatting", func(c *gin.Context) {
		tenant, ok := loadSessionTenant(c, tenants)
		if !ok {
			return
		}

		var draft models.FormattingSettings
		if err := c.ShouldBindJSON(&draft); err != nil {
			utils.RespondWithBadRequest(c, "Invalid formatting settings", gin.H{"error": err.Error()})
			return
		}
		if err := store.SaveFormatting(context.Background(), tenant.ID, draft); err != nil {
			utils.RespondWithBadRequest(c, err.Error(), nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"saved": true})
	})

	group.PUT("/messengers", func(c *gin.Context) {
		tenant, ok := loadSessionTenant(c, tenants)
		if !ok {
			return
		}

		var draft models.MessengerSettings
		if err := c.ShouldBindJSON(&draft); err != nil {
			utils.RespondWithBadRequest(c, "Invalid messenger settings", gin.H{"error": err.Error()})
			return
		}

		viewer := middleware.ViewerFromContext(c)
		if err := store.SaveMessengers(context.Background(), tenant.ID, viewer, tenant.TariffID, draft); err != nil {
			utils.RespondWithError(c, http.StatusForbidden, "channel_not_in_tariff", err.Error(), nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"saved": true})
	})

	// Per-channel credential editors, each behind its own tariff gate so a
	// basic tenant sees exactly which channel its plan lacks.
	for _, channel := range []string{"telegram", "vk", "whatsapp", "max"} {
		ch := channel
		group.PUT("/messengers/"+ch, featureMW.RequireChannel(ch), func(c *gin.Context) {
			tenant := middleware.TenantFromContext(c)

			var draft models.MessengerChannel
			if err := c.ShouldBindJSON(&draft); err != nil {
				utils.RespondWithBadRequest(c, "Invalid channel settings", gin.H{"error": err.Error()})
				return
			}

			if _, err := tenants.UpdateOne(context.Background(),
				bson.M{"_id": tenant.ID},
				bson.M{"$set": bson.M{
					"messengers." + ch: draft,
					"updated_at":       time.Now(),
				}}); err != nil {
				utils.RespondWithInternalError(c, "Failed to save channel settings", nil)
				return
			}
			c.JSON(http.StatusOK, gin.H{"saved": true, "channel": ch})
		})
	}

	// Embed-code preview: the editor submits the hotel page URL and renders
	// the returned snippet in a copy box.
	group.POST("/embed-code", func(c *gin.Context) {
		tenant, ok := loadSessionTenant(c, tenants)
		if !ok {
			return
		}

		var req struct {
			PageURL string `json:"page_url" binding:"required,url"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid page URL", gin.H{"error": err.Error()})
			return
		}

		settings := tenant.Widget
		if settings.ChatURL == "" {
			chatURL, err := widget.DeriveChatURL(req.PageURL, tenant.Slug)
			if err != nil {
				utils.RespondWithBadRequest(c, "Could not derive chat URL", gin.H{"error": err.Error()})
				return
			}
			settings.ChatURL = chatURL
		}
		if !signChatURL(&settings, tenant) {
			utils.RespondWithInternalError(c, "Failed to render embed code", nil)
			return
		}

		code, err := widget.GenerateEmbedCode(settings, req.PageURL)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to render embed code", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"embed_code": code, "chat_url": settings.ChatURL})
	})

	// --- email templates, premium and up ---

	group.GET("/email-templates",
		featureMW.RequireFeature(tariff.FeatureEmailTemplates),
		func(c *gin.Context) {
			tenant := middleware.TenantFromContext(c)
			cursor, err := templates.Find(context.Background(),
				bson.M{"tenant_id": tenant.ID},
				options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
			if err != nil {
				utils.RespondWithInternalError(c, "Failed to list templates", nil)
				return
			}
			defer cursor.Close(context.Background())

			var list []models.EmailTemplate
			if err := cursor.All(context.Background(), &list); err != nil {
				utils.RespondWithInternalError(c, "Failed to decode templates", nil)
				return
			}
			c.JSON(http.StatusOK, gin.H{"templates": list})
		})

	group.POST("/email-templates",
		featureMW.RequireFeature(tariff.FeatureEmailTemplates),
		func(c *gin.Context) {
			tenant := middleware.TenantFromContext(c)

			var tmpl models.EmailTemplate
			if err := c.ShouldBindJSON(&tmpl); err != nil {
				utils.RespondWithBadRequest(c, "Invalid template", gin.H{"error": err.Error()})
				return
			}

			tmpl.ID = primitive.NilObjectID
			tmpl.TenantID = tenant.ID
			tmpl.CreatedAt = time.Now()
			tmpl.UpdatedAt = tmpl.CreatedAt

			if _, _, _, err := services.RenderEmailTemplate(tmpl); err != nil {
				utils.RespondWithBadRequest(c, "Template does not render", gin.H{"error": err.Error()})
				return
			}

			result, err := templates.InsertOne(context.Background(), tmpl)
			if err != nil {
				utils.RespondWithInternalError(c, "Failed to save template", nil)
				return
			}
			tmpl.ID = result.InsertedID.(primitive.ObjectID)
			c.JSON(http.StatusCreated, tmpl)
		})

	group.PUT("/email-templates/:template_id",
		featureMW.RequireFeature(tariff.FeatureEmailTemplates),
		func(c *gin.Context) {
			tenant := middleware.TenantFromContext(c)
			oid, err := primitive.ObjectIDFromHex(c.Param("template_id"))
			if err != nil {
				utils.RespondWithBadRequest(c, "Invalid template id", nil)
				return
			}

			var tmpl models.EmailTemplate
			if err := c.ShouldBindJSON(&tmpl); err != nil {
				utils.RespondWithBadRequest(c, "Invalid template", gin.H{"error": err.Error()})
				return
			}
			if _, _, _, err := services.RenderEmailTemplate(tmpl); err != nil {
				utils.RespondWithBadRequest(c, "Template does not render", gin.H{"error": err.Error()})
				return
			}

			result, err := templates.UpdateOne(context.Background(),
				bson.M{"_id": oid, "tenant_id": tenant.ID},
				bson.M{"$set": bson.M{
					"type":            tmpl.Type,
					"name":            tmpl.Name,
					"subject":         tmpl.Subject,
					"html_body":       tmpl.HTMLBody,
					"text_body":       tmpl.TextBody,
					"template_fields": tmpl.TemplateFields,
					"is_active":       tmpl.IsActive,
					"updated_at":      time.Now(),
				}})
			if err != nil {
				utils.RespondWithInternalError(c, "Failed to update template", nil)
				return
			}
			if result.MatchedCount == 0 {
				utils.RespondWithNotFound(c, "Template not found")
				return
			}
			c.JSON(http.StatusOK, gin.H{"updated": true})
		})

	group.POST("/email-templates/:template_id/preview",
		featureMW.RequireFeature(tariff.FeatureEmailTemplates),
		func(c *gin.Context) {
			tenant := middleware.TenantFromContext(c)
			tmpl, ok := loadTenantTemplate(c, templates, tenant.ID)
			if !ok {
				return
			}

			// the editor may try field values without saving them first
			var override models.EmailTemplateFields
			if err := c.ShouldBindJSON(&override); err == nil &&
				override != (models.EmailTemplateFields{}) {
				tmpl.TemplateFields = override
			}

			subject, htmlBody, textBody, err := services.RenderEmailTemplate(*tmpl)
			if err != nil {
				utils.RespondWithBadRequest(c, "Template does not render", gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"subject":   subject,
				"html_body": htmlBody,
				"text_body": textBody,
			})
		})

	group.POST("/email-templates/:template_id/test",
		featureMW.RequireFeature(tariff.FeatureEmailTemplates),
		func(c *gin.Context) {
			tenant := middleware.TenantFromContext(c)
			tmpl, ok := loadTenantTemplate(c, templates, tenant.ID)
			if !ok {
				return
			}

			var req struct {
				Recipient string `json:"recipient" binding:"required,email"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				utils.RespondWithBadRequest(c, "A recipient email is required", gin.H{"error": err.Error()})
				return
			}

			task, err := queue.NewSendEmailTask(tenant.ID.Hex(), tmpl.ID.Hex(), req.Recipient)
			if err != nil {
				utils.RespondWithInternalError(c, "Failed to build task", nil)
				return
			}
			info, err := asynqClient.Enqueue(task)
			if err != nil {
				utils.RespondWithInternalError(c, "Failed to enqueue test send", nil)
				return
			}
			c.JSON(http.StatusAccepted, gin.H{"task_id": info.ID, "recipient": req.Recipient})
		})

	group.DELETE("/email-templates/:template_id",
		featureMW.RequireFeature(tariff.FeatureEmailTemplates),
		func(c *gin.Context) {
			tenant := middleware.TenantFromContext(c)
			oid, err := primitive.ObjectIDFromHex(c.Param("template_id"))
			if err != nil {
				utils.RespondWithBadRequest(c, "Invalid template id", nil)
				return
			}

			result, err := templates.DeleteOne(context.Background(),
				bson.M{"_id": oid, "tenant_id": tenant.ID})
			if err != nil {
				utils.RespondWithInternalError(c, "Failed to delete template", nil)
				return
			}
			if result.DeletedCount == 0 {
				utils.RespondWithNotFound(c, "Template not found")
				return
			}
			c.JSON(http.StatusOK, gin.H{"deleted": true})
		})

	// --- conversation export, premium and up ---

	exporter := services.NewExportService(db)
	group.POST("/export",
		featureMW.RequireFeature(tariff.FeatureExport),
		func(c *gin.Context) {
			tenant := middleware.TenantFromContext(c)

			var req services.ExportRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				utils.RespondWithBadRequest(c, "Invalid export request", gin.H{"error": err.Error()})
				return
			}

			result, err := exporter.ExportConversations(context.Background(), tenant.ID, req)
			if err != nil {
				utils.RespondWithInternalError(c, "Export failed", gin.H{"error": err.Error()})
				return
			}

			c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
			c.Header("X-Record-Count", strconv.Itoa(result.RecordCount))
			c.Data(http.StatusOK, result.ContentType, result.Data)
		})
}

// loadTenantTemplate fetches one of the tenant's email templates by path id.
func loadTenantTemplate(c *gin.Context, templates *mongo.Collection,
	tenantID primitive.ObjectID) (*models.EmailTemplate, bool) {

	oid, err := primitive.ObjectIDFromHex(c.Param("template_id"))
	if err != nil {
		utils.RespondWithBadRequest(c, "Invalid template id", nil)
		return nil, false
	}

	var tmpl models.EmailTemplate
	if err := templates.FindOne(context.Background(),
		bson.M{"_id": oid, "tenant_id": tenantID}).Decode(&tmpl); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithNotFound(c, "Template not found")
		} else {
			utils.RespondWithInternalError(c, "Failed to load template", nil)
		}
		return nil, false
	}
	return &tmpl, true
}

// loadSessionTenant resolves the tenant bound to the session claims.
func loadSessionTenant(c *gin.Context, tenants *mongo.Collection) (*models.Tenant, bool) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == "" {
		utils.RespondWithForbidden(c, "Tenant scope required")
		return nil, false
	}
	oid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		utils.RespondWithBadRequest(c, "Malformed tenant id in session", nil)
		return nil, false
	}

	var tenant models.Tenant
	if err := tenants.FindOne(context.Background(), bson.M{"_id": oid}).Decode(&tenant); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithNotFound(c, "Tenant not found")
		} else {
			utils.RespondWithInternalError(c, "Failed to load tenant", nil)
		}
		return nil, false
	}
	return &tenant, true
}
