package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlertLevelForThresholds(t *testing.T) {
	tests := []struct {
		name     string
		used     int
		limit    int
		lastSent string
		want     string
		fire     bool
	}{
		{"below warn", 100, 1000, "", "", false},
		{"at warn", 800, 1000, "", "warn", true},
		{"at critical", 950, 1000, "", "critical", true},
		{"exhausted", 1000, 1000, "", "exhausted", true},
		{"over limit", 1200, 1000, "", "exhausted", true},
		{"no limit", 500, 0, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fire := AlertLevelFor(tt.used, tt.limit, tt.lastSent)
			assert.Equal(t, tt.fire, fire)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAlertLevelForOnlyEscalates(t *testing.T) {
	// warn already sent, still in warn band
	_, fire := AlertLevelFor(850, 1000, "warn")
	assert.False(t, fire)

	// warn sent, usage climbs into critical
	level, fire := AlertLevelFor(960, 1000, "warn")
	assert.True(t, fire)
	assert.Equal(t, "critical", level)

	// exhausted sent, nothing further
	_, fire = AlertLevelFor(2000, 1000, "exhausted")
	assert.False(t, fire)
}
