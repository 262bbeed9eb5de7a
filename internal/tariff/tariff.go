package tariff

import "hotel-concierge-platform/models"

// Feature names a capability a tariff can unlock.
type Feature string

const (
	FeatureTelegram       Feature = "telegram"
	FeatureVK             Feature = "vk"
	FeatureWhatsApp       Feature = "whatsapp"
	FeatureMax            Feature = "max"
	FeatureCustomCSS      Feature = "custom_css"
	FeatureEmailTemplates Feature = "email_templates"
	FeatureSiteImport     Feature = "site_import"
	FeatureExport         Feature = "export"
)

// AI settings tiers control which provider options a tenant may pick.
const (
	AITierBasic    = "basic"
	AITierAdvanced = "advanced"
	AITierFull     = "full"
)

const basicPlanID = "basic"

// Limits is the capability record a tariff id resolves to. MaxDocuments of
// -1 means unlimited.
type Limits struct {
	MaxDocuments   int
	Telegram       bool
	VK             bool
	WhatsApp       bool
	Max            bool
	CustomCSS      bool
	EmailTemplates bool
	SiteImport     bool
	Export         bool
	AISettingsTier string
}

// ViewerContext identifies who is asking. A superadmin previewing a tenant
// through the master panel bypasses every feature gate; the flag is threaded
// explicitly instead of living in ambient session state.
type ViewerContext struct {
	IsImpersonating bool
}

// planLimits is the hand-authored tariff capability table. Every tariff id a
// tenant can reference must appear here; anything else falls back to basic.
var planLimits = map[string]Limits{
	"basic": {
		MaxDocuments:   5,
		AISettingsTier: AITierBasic,
	},
	"standard": {
		MaxDocuments:   20,
		Telegram:       true,
		VK:             true,
		CustomCSS:      true,
		AISettingsTier: AITierAdvanced,
	},
	"premium": {
		MaxDocuments:   100,
		Telegram:       true,
		VK:             true,
		WhatsApp:       true,
		Max:            true,
		CustomCSS:      true,
		EmailTemplates: true,
		SiteImport:     true,
		Export:         true,
		AISettingsTier: AITierFull,
	},
	"enterprise": {
		MaxDocuments:   -1,
		Telegram:       true,
		VK:             true,
		WhatsApp:       true,
		Max:            true,
		CustomCSS:      true,
		EmailTemplates: true,
		SiteImport:     true,
		Export:         true,
		AISettingsTier: AITierFull,
	},
}

// Resolve maps a tariff id to its capability record. Unknown or empty ids
// resolve to the basic tier: advanced features are denied rather than
// erroring out on a stale plan reference.
func Resolve(tariffID string) Limits {
	if limits, ok := planLimits[tariffID]; ok {
		return limits
	}
	return planLimits[basicPlanID]
}

// HasFeatureAccess reports whether a feature is unlocked for the tariff. An
// impersonating superadmin passes every gate unconditionally so operators
// can inspect tenant panels regardless of plan.
func HasFeatureAccess(viewer ViewerContext, feature Feature, tariffID string) bool {
	if viewer.IsImpersonating {
		return true
	}

	limits := Resolve(tariffID)
	switch feature {
	case FeatureTelegram:
		return limits.Telegram
	case FeatureVK:
		return limits.VK
	case FeatureWhatsApp:
		return limits.WhatsApp
	case FeatureMax:
		return limits.Max
	case FeatureCustomCSS:
		return limits.CustomCSS
	case FeatureEmailTemplates:
		return limits.EmailTemplates
	case FeatureSiteImport:
		return limits.SiteImport
	case FeatureExport:
		return limits.Export
	default:
		return false
	}
}

// CanUploadMoreDocuments checks the document quota for the tariff. A quota
// of -1 is unlimited.
func CanUploadMoreDocuments(viewer ViewerContext, currentCount int, tariffID string) bool {
	if viewer.IsImpersonating {
		return true
	}

	limits := Resolve(tariffID)
	if limits.MaxDocuments == -1 {
		return true
	}
	return currentCount < limits.MaxDocuments
}

// ChannelAllowed maps a messenger channel name from MessengerSettings to its
// feature gate.
func ChannelAllowed(viewer ViewerContext, channel string, tariffID string) bool {
	switch channel {
	case "telegram":
		return HasFeatureAccess(viewer, FeatureTelegram, tariffID)
	case "vk":
		return HasFeatureAccess(viewer, FeatureVK, tariffID)
	case "whatsapp":
		return HasFeatureAccess(viewer, FeatureWhatsApp, tariffID)
	case "max":
		return HasFeatureAccess(viewer, FeatureMax, tariffID)
	default:
		return false
	}
}

// EnabledChannels filters a tenant's messenger settings down to the channels
// its tariff actually allows.
func EnabledChannels(viewer ViewerContext, m models.MessengerSettings, tariffID string) []string {
	channels := []struct {
		name string
		cfg  models.MessengerChannel
	}{
		{"telegram", m.Telegram},
		{"vk", m.VK},
		{"whatsapp", m.WhatsApp},
		{"max", m.Max},
	}

	var enabled []string
	for _, ch := range channels {
		if ch.cfg.Enabled && ChannelAllowed(viewer, ch.name, tariffID) {
			enabled = append(enabled, ch.name)
		}
	}
	return enabled
}

// PlanIDs lists the tariff ids present in the capability table, for
// validation in the master tariff editor.
func PlanIDs() []string {
	ids := make([]string, 0, len(planLimits))
	for id := range planLimits {
		ids = append(ids, id)
	}
	return ids
}
