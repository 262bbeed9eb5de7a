package middleware

import (
	"context"
	"net/http"

	"hotel-concierge-platform/internal/tariff"
	"hotel-concierge-platform/models"
	"hotel-concierge-platform/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FeatureCheckMiddleware gates routes on the tenant's tariff entitlements.
type FeatureCheckMiddleware struct {
	tenantsCollection *mongo.Collection
}

func NewFeatureCheckMiddleware(tenantsCollection *mongo.Collection) *FeatureCheckMiddleware {
	return &FeatureCheckMiddleware{
		tenantsCollection: tenantsCollection,
	}
}

// ViewerFromContext builds the entitlement viewer for the current session.
func ViewerFromContext(c *gin.Context) tariff.ViewerContext {
	return tariff.ViewerContext{IsImpersonating: IsImpersonating(c)}
}

// RequireFeature rejects the request with 403 when the tenant's tariff does
// not include the feature. Impersonating superadmins always pass.
func (f *FeatureCheckMiddleware) RequireFeature(feature tariff.Feature) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := f.loadTenant(c)
		if !ok {
			return
		}

		if !tariff.HasFeatureAccess(ViewerFromContext(c), feature, tenant.TariffID) {
			utils.RespondWithError(c, http.StatusForbidden,
				"feature_not_in_tariff",
				"This feature is not included in your plan.",
				gin.H{"feature": string(feature), "tariff_id": tenant.TariffID})
			c.Abort()
			return
		}

		c.Set("tenant", tenant)
		c.Next()
	}
}

// RequireChannel gates messenger channel configuration endpoints.
func (f *FeatureCheckMiddleware) RequireChannel(channel string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := f.loadTenant(c)
		if !ok {
			return
		}

		if !tariff.ChannelAllowed(ViewerFromContext(c), channel, tenant.TariffID) {
			utils.RespondWithError(c, http.StatusForbidden,
				"channel_not_in_tariff",
				"This messenger channel is not included in your plan.",
				gin.H{"channel": channel, "tariff_id": tenant.TariffID})
			c.Abort()
			return
		}

		c.Set("tenant", tenant)
		c.Next()
	}
}

func (f *FeatureCheckMiddleware) loadTenant(c *gin.Context) (*models.Tenant, bool) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		utils.RespondWithError(c, http.StatusUnauthorized,
			"unauthorized", "Tenant scope not found in session", nil)
		c.Abort()
		return nil, false
	}

	oid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest,
			"invalid_tenant_id", "Malformed tenant id in session", nil)
		c.Abort()
		return nil, false
	}

	var tenant models.Tenant
	if err := f.tenantsCollection.FindOne(context.Background(), bson.M{"_id": oid}).Decode(&tenant); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(c, http.StatusNotFound,
				"tenant_not_found", "Tenant not found", nil)
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError,
				"internal_error", "Failed to load tenant", nil)
		}
		c.Abort()
		return nil, false
	}

	return &tenant, true
}

// TenantFromContext returns the tenant loaded by a preceding feature check,
// nil when none ran.
func TenantFromContext(c *gin.Context) *models.Tenant {
	if v, exists := c.Get("tenant"); exists {
		if t, ok := v.(*models.Tenant); ok {
			return t
		}
	}
	return nil
}
