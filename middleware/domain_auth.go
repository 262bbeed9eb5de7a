package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"hotel-concierge-platform/models"
	"hotel-concierge-platform/utils"
)

// DomainAuthMiddleware restricts the public widget surface to the domains a
// tenant listed in its widget settings. Tenants with no list configured
// accept embeds from anywhere.
type DomainAuthMiddleware struct {
	tenants *mongo.Collection
	events  *mongo.Collection
}

func NewDomainAuthMiddleware(tenants, events *mongo.Collection) *DomainAuthMiddleware {
	return &DomainAuthMiddleware{tenants: tenants, events: events}
}

// Enforce checks the caller's domain against the tenant's allow list. Missing
// slugs and unknown tenants pass through so the handlers keep producing their
// own 400/404 responses.
func (m *DomainAuthMiddleware) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := m.requestSlug(c)
		if slug == "" {
			c.Next()
			return
		}

		var tenant models.Tenant
		if err := m.tenants.FindOne(context.Background(),
			bson.M{"slug": slug}).Decode(&tenant); err != nil {
			c.Next()
			return
		}
		if len(tenant.Widget.AllowedDomains) == 0 {
			c.Next()
			return
		}

		domain := RequestDomain(c)
		if domain == "" || !DomainAllowed(domain, tenant.Widget.AllowedDomains) {
			m.logBlockedEmbed(tenant, domain, c)
			utils.RespondPublicError(c, http.StatusForbidden, "domain not authorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

// requestSlug finds the tenant slug in the path or, for the chat endpoint,
// in the JSON body. The body is restored for the handler.
func (m *DomainAuthMiddleware) requestSlug(c *gin.Context) string {
	if slug := c.Param("slug"); slug != "" {
		return slug
	}
	if c.Request.Method != http.MethodPost || c.Request.Body == nil {
		return ""
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(strings.NewReader(string(body)))

	var payload struct {
		TenantSlug string `json:"tenant_slug"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.TenantSlug
}

// RequestDomain extracts the embedding page's domain from the request, the
// Referer first because iframes always carry it, then Origin.
func RequestDomain(c *gin.Context) string {
	for _, header := range []string{"Referer", "Origin"} {
		raw := c.GetHeader(header)
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			return NormalizeDomain(u.Host)
		}
	}
	return ""
}

// NormalizeDomain lowercases a host and strips the port and a www. prefix so
// stored allow-list entries match however the tenant wrote them.
func NormalizeDomain(host string) string {
	host = strings.ToLower(host)
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return strings.TrimPrefix(host, "www.")
}

// DomainAllowed reports whether a domain matches the allow list, either
// exactly or as a subdomain of an entry.
func DomainAllowed(domain string, allowed []string) bool {
	domain = NormalizeDomain(domain)
	for _, entry := range allowed {
		entry = NormalizeDomain(entry)
		if entry == "" {
			continue
		}
		if domain == entry || strings.HasSuffix(domain, "."+entry) {
			return true
		}
	}
	return false
}

func (m *DomainAuthMiddleware) logBlockedEmbed(tenant models.Tenant, domain string, c *gin.Context) {
	event := models.AuditEvent{
		ActorRole: "public",
		TenantID:  &tenant.ID,
		Action:    "widget.domain_blocked",
		Resource:  c.Request.URL.Path,
		Method:    c.Request.Method,
		Status:    http.StatusForbidden,
		RequestID: GetRequestID(c),
		IP:        c.ClientIP(),
		Timestamp: time.Now(),
	}
	if domain != "" {
		event.ActorID = domain
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := m.events.InsertOne(ctx, event); err != nil {
			// best effort, the rejection itself already happened
			return
		}
	}()
}
