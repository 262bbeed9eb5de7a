package routes

import (
	"context"
	"net/http"

	"hotel-concierge-platform/internal/config"
	"hotel-concierge-platform/internal/widget"
	"hotel-concierge-platform/middleware"
	"hotel-concierge-platform/models"
	"hotel-concierge-platform/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupWidgetRoutes wires the unauthenticated widget surface: the settings
// the iframe loads on startup and the embed snippet. Errors use the flat
// public shape, never the admin envelope.
func SetupWidgetRoutes(router *gin.Engine, cfg *config.Config, db *mongo.Database,
	domainMW *middleware.DomainAuthMiddleware) {

	group := router.Group("/api/public/widget")
	group.Use(domainMW.Enforce())
	tenants := db.Collection("tenants")

	group.GET("/:slug", func(c *gin.Context) {
		tenant, ok := findActiveTenantBySlug(c, tenants)
		if !ok {
			return
		}

		greeting := tenant.Page.Greeting
		if greeting == "" {
			greeting = "Hello! How can I help you during your stay?"
		}

		c.JSON(http.StatusOK, models.PublicPageSettings{
			TenantSlug:  tenant.Slug,
			Title:       tenant.Page.Title,
			Greeting:    greeting,
			Suggestions: tenant.Page.Suggestions,
			Consent:     tenant.Consent,
			Widget:      publicWidgetSettings(tenant.Widget),
		})
	})

	group.GET("/:slug/embed", func(c *gin.Context) {
		tenant, ok := findActiveTenantBySlug(c, tenants)
		if !ok {
			return
		}

		pageURL := c.Query("page_url")
		if pageURL == "" {
			pageURL = cfg.PublicBaseURL
		}

		settings := tenant.Widget
		if settings.ChatURL == "" {
			chatURL, err := widget.DeriveChatURL(pageURL, tenant.Slug)
			if err != nil {
				utils.RespondPublicError(c, http.StatusBadRequest, "invalid page_url")
				return
			}
			settings.ChatURL = chatURL
		}
		if !signChatURL(&settings, tenant) {
			utils.RespondPublicError(c, http.StatusInternalServerError, "embed code unavailable")
			return
		}

		code, err := widget.GenerateEmbedCode(settings, pageURL)
		if err != nil {
			utils.RespondPublicError(c, http.StatusInternalServerError, "embed code unavailable")
			return
		}

		c.Header("Cache-Control", "public, max-age=300")
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(code))
	})

	// The hosted surface: the iframe chat page and the script-src variant of
	// the embed snippet live outside /api so the URLs stay short enough to
	// read aloud over the phone to a hotel IT contact.
	router.GET("/widget/:slug", domainMW.Enforce(), func(c *gin.Context) {
		tenant, ok := findActiveTenantBySlug(c, tenants)
		if !ok {
			return
		}

		// tenants behind a domain allow list also key the iframe itself;
		// generated snippets carry the key in the chat URL
		if len(tenant.Widget.AllowedDomains) > 0 && tenant.WidgetSecret != "" &&
			c.Query("k") != tenant.WidgetSecret {
			utils.RespondPublicError(c, http.StatusForbidden, "widget key required")
			return
		}

		page, err := widget.RenderChatPage(tenant.Slug, tenant.Page, tenant.Widget)
		if err != nil {
			utils.RespondPublicError(c, http.StatusInternalServerError, "chat page unavailable")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	})

	router.GET("/widget/:slug/widget.js", domainMW.Enforce(), func(c *gin.Context) {
		tenant, ok := findActiveTenantBySlug(c, tenants)
		if !ok {
			return
		}

		settings := tenant.Widget
		if settings.ChatURL == "" {
			chatURL, err := widget.DeriveChatURL(cfg.PublicBaseURL, tenant.Slug)
			if err == nil {
				settings.ChatURL = chatURL
			}
		}
		if !signChatURL(&settings, tenant) {
			utils.RespondPublicError(c, http.StatusInternalServerError, "embed script unavailable")
			return
		}

		js, err := widget.GenerateEmbedScript(settings, cfg.PublicBaseURL)
		if err != nil {
			utils.RespondPublicError(c, http.StatusInternalServerError, "embed script unavailable")
			return
		}
		c.Header("Cache-Control", "public, max-age=300")
		c.Data(http.StatusOK, "application/javascript; charset=utf-8", []byte(js))
	})
}

// signChatURL stamps the widget key onto the chat URL for tenants that
// restrict embedding domains. Reports false only when the stored URL cannot
// be parsed.
func signChatURL(settings *models.WidgetSettings, tenant *models.Tenant) bool {
	if len(settings.AllowedDomains) == 0 || tenant.WidgetSecret == "" || settings.ChatURL == "" {
		return true
	}
	signed, err := widget.SignedChatURL(settings.ChatURL, tenant.WidgetSecret)
	if err != nil {
		return false
	}
	settings.ChatURL = signed
	return true
}

func findActiveTenantBySlug(c *gin.Context, tenants *mongo.Collection) (*models.Tenant, bool) {
	var tenant models.Tenant
	err := tenants.FindOne(context.Background(), bson.M{"slug": c.Param("slug")}).Decode(&tenant)
	if err != nil || tenant.Status == "suspended" {
		utils.RespondPublicError(c, http.StatusNotFound, "unknown widget")
		return nil, false
	}
	return &tenant, true
}

// publicWidgetSettings strips the fields guests have no business seeing.
func publicWidgetSettings(s models.WidgetSettings) models.WidgetSettings {
	s.AllowedDomains = nil
	return s
}
