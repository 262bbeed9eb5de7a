package tariff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel-concierge-platform/models"
)

func TestResolveKnownPlans(t *testing.T) {
	assert.Equal(t, 5, Resolve("basic").MaxDocuments)
	assert.Equal(t, 20, Resolve("standard").MaxDocuments)
	assert.Equal(t, 100, Resolve("premium").MaxDocuments)
	assert.Equal(t, -1, Resolve("enterprise").MaxDocuments)
}

func TestResolveUnknownFallsBackToBasic(t *testing.T) {
	for _, id := range []string{"", "gold", "PREMIUM", "deleted-plan"} {
		limits := Resolve(id)
		assert.Equal(t, Resolve("basic"), limits, "tariff id %q", id)
		assert.False(t, limits.Telegram)
		assert.False(t, limits.Export)
	}
}

func TestHasFeatureAccessPerPlan(t *testing.T) {
	viewer := ViewerContext{}

	assert.False(t, HasFeatureAccess(viewer, FeatureTelegram, "basic"))
	assert.True(t, HasFeatureAccess(viewer, FeatureTelegram, "standard"))
	assert.False(t, HasFeatureAccess(viewer, FeatureWhatsApp, "standard"))
	assert.True(t, HasFeatureAccess(viewer, FeatureWhatsApp, "premium"))
	assert.True(t, HasFeatureAccess(viewer, FeatureEmailTemplates, "enterprise"))
	assert.False(t, HasFeatureAccess(viewer, FeatureSiteImport, "standard"))
}

func TestHasFeatureAccessUnknownFeatureDenied(t *testing.T) {
	assert.False(t, HasFeatureAccess(ViewerContext{}, Feature("time_travel"), "enterprise"))
}

func TestImpersonationBypassesEveryGate(t *testing.T) {
	viewer := ViewerContext{IsImpersonating: true}

	assert.True(t, HasFeatureAccess(viewer, FeatureWhatsApp, "basic"))
	assert.True(t, HasFeatureAccess(viewer, FeatureExport, ""))
	assert.True(t, CanUploadMoreDocuments(viewer, 10_000, "basic"))
	assert.True(t, ChannelAllowed(viewer, "max", "basic"))
}

func TestCanUploadMoreDocuments(t *testing.T) {
	viewer := ViewerContext{}

	assert.True(t, CanUploadMoreDocuments(viewer, 4, "basic"))
	assert.False(t, CanUploadMoreDocuments(viewer, 5, "basic"))
	assert.False(t, CanUploadMoreDocuments(viewer, 6, "basic"))
	assert.True(t, CanUploadMoreDocuments(viewer, 99, "premium"))
	assert.False(t, CanUploadMoreDocuments(viewer, 100, "premium"))
	assert.True(t, CanUploadMoreDocuments(viewer, 1_000_000, "enterprise"))
}

func TestEnabledChannelsFiltersByTariff(t *testing.T) {
	settings := models.MessengerSettings{
		Telegram: models.MessengerChannel{Enabled: true},
		VK:       models.MessengerChannel{Enabled: false},
		WhatsApp: models.MessengerChannel{Enabled: true},
		Max:      models.MessengerChannel{Enabled: true},
	}

	// standard unlocks telegram and vk only; vk is enabled:false so it
	// drops out, whatsapp and max are plan-gated.
	got := EnabledChannels(ViewerContext{}, settings, "standard")
	assert.Equal(t, []string{"telegram"}, got)

	got = EnabledChannels(ViewerContext{}, settings, "premium")
	assert.Equal(t, []string{"telegram", "whatsapp", "max"}, got)
}

func TestPlanIDsCoversTable(t *testing.T) {
	ids := PlanIDs()
	assert.ElementsMatch(t, []string{"basic", "standard", "premium", "enterprise"}, ids)
}
