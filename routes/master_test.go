package routes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hotel-concierge-platform/models"
)

func TestTariffPlanViewsMergesRecords(t *testing.T) {
	records := []models.Tariff{
		{PlanID: "premium", Name: "Premium", Price: 99, Active: true},
	}

	views := tariffPlanViews(records)

	require.Len(t, views, 4)
	byID := make(map[string]map[string]interface{}, len(views))
	for _, v := range views {
		byID[v["id"].(string)] = v
	}

	// every capability plan appears even without a stored record
	for _, id := range []string{"basic", "standard", "premium", "enterprise"} {
		require.Contains(t, byID, id)
		assert.NotNil(t, byID[id]["limits"])
	}

	record, ok := byID["premium"]["record"].(models.Tariff)
	require.True(t, ok)
	assert.Equal(t, 99.0, record.Price)
	assert.NotContains(t, byID["basic"], "record")
}

func TestExportRequestFromQuery(t *testing.T) {
	req, err := exportRequestFromQuery("excel", "2026-08-01T00:00:00Z", "", "sess-1", "500")
	require.NoError(t, err)
	assert.Equal(t, "excel", req.Format)
	assert.Equal(t, "sess-1", req.SessionID)
	assert.Equal(t, 500, req.Limit)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), req.DateFrom)
	assert.True(t, req.DateTo.IsZero())
}

func TestExportRequestFromQueryRejectsBadInput(t *testing.T) {
	_, err := exportRequestFromQuery("csv", "", "", "", "")
	assert.Error(t, err)

	_, err = exportRequestFromQuery("json", "yesterday", "", "", "")
	assert.Error(t, err)

	_, err = exportRequestFromQuery("json", "", "", "", "-5")
	assert.Error(t, err)
}

func TestBuildAuditFilter(t *testing.T) {
	tenantID := primitive.NewObjectID()

	filter, err := buildAuditFilter("tenant.create", "user-1", tenantID.Hex(), "2026-08-01T00:00:00Z")
	require.NoError(t, err)

	assert.Equal(t, "tenant.create", filter["action"])
	assert.Equal(t, "user-1", filter["actor_id"], "actors are stored as actor_id")
	assert.Equal(t, tenantID, filter["tenant_id"], "tenant ids are stored as ObjectID")
	assert.Contains(t, filter, "timestamp")
}

func TestBuildAuditFilterRejectsBadInput(t *testing.T) {
	_, err := buildAuditFilter("", "", "not-a-hex-id", "")
	assert.Error(t, err)

	_, err = buildAuditFilter("", "", "", "last tuesday")
	assert.Error(t, err)
}

func TestBuildAuditFilterEmpty(t *testing.T) {
	filter, err := buildAuditFilter("", "", "", "")
	require.NoError(t, err)
	assert.Empty(t, filter)
}

func TestBulkScope(t *testing.T) {
	assert.Equal(t, "all_auto_update", bulkScope(nil))
	assert.Equal(t, "selection", bulkScope([]string{"a"}))
}

func TestValidTariffID(t *testing.T) {
	assert.True(t, validTariffID("basic"))
	assert.True(t, validTariffID("enterprise"))
	assert.False(t, validTariffID("platinum"))
	assert.False(t, validTariffID(""))
}
