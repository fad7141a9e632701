// pkg/mutate/mutate_test.go

package mutate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiops-tools/aiopsgen/pkg/insight"
	"github.com/aiops-tools/aiopsgen/pkg/inventory"
	"github.com/aiops-tools/aiopsgen/pkg/templates"
)

type fixedDevices struct {
	device inventory.Device
}

func (f fixedDevices) Next() inventory.Device { return f.device }

var testDevice = inventory.Device{UID: "dev-1", Name: "firewall_hq_001", Type: "FTD"}

func fixedNow() time.Time {
	return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
}

func newTestMutator(seed int64) *Mutator {
	return New(fixedDevices{device: testDevice}, rand.New(rand.NewSource(seed))).WithClock(fixedNow)
}

func forecastTemplate() insight.Record {
	return insight.Record{
		"uid":      "template-uid",
		"title":    "RAVPN session limit breach forecast",
		"severity": "CRITICAL",
		"type":     "forecast",
		"impactedResources": []any{
			map[string]any{"uid": "old-dev", "name": "old-name", "type": "FTD"},
		},
		"data": map[string]any{
			"breachDate": "2025-01-01T00:00:00.000+00:00",
			"metric":     "sessions",
		},
	}
}

func TestMutateCommonFields(t *testing.T) {
	tpl := forecastTemplate()
	rec := newTestMutator(1).Mutate(tpl, templates.Forecast, ForecastNext0To7)

	// Fresh UID every emission.
	assert.NotEqual(t, "template-uid", rec.UID())
	_, err := uuid.Parse(rec.UID())
	assert.NoError(t, err)

	assert.Contains(t, insight.Severities, rec["severity"])

	resources := rec["impactedResources"].([]any)
	require.Len(t, resources, 1)
	assert.Equal(t, "dev-1", resources[0].(map[string]any)["uid"])
	assert.Equal(t, "firewall_hq_001", resources[0].(map[string]any)["name"])

	// Untouched fields pass through.
	assert.Equal(t, "RAVPN session limit breach forecast", rec.Title())
	assert.Equal(t, "forecast", rec["type"])
	assert.Equal(t, "sessions", rec["data"].(map[string]any)["metric"])

	// The template itself is never modified.
	assert.Equal(t, "template-uid", tpl.UID())
	assert.Equal(t, "old-dev", tpl["impactedResources"].([]any)[0].(map[string]any)["uid"])
}

func TestMutateForecastBreachDateWindow(t *testing.T) {
	windows := []Window{ForecastNext0To7, ForecastNext7To30, ForecastNext30To90}

	for _, w := range windows {
		m := newTestMutator(42)
		for i := 0; i < 50; i++ {
			rec := m.Mutate(forecastTemplate(), templates.Forecast, w)

			stamp, ok := rec["breachDate"].(string)
			require.True(t, ok)
			breach, err := insight.ParseTimestamp(stamp)
			require.NoError(t, err)

			lo := fixedNow().Add(time.Duration(w.Min) * 24 * time.Hour)
			hi := fixedNow().Add(time.Duration(w.Max) * 24 * time.Hour)
			assert.False(t, breach.Before(lo), "breachDate %s below window %d-%d days", stamp, w.Min, w.Max)
			assert.False(t, breach.After(hi), "breachDate %s above window %d-%d days", stamp, w.Min, w.Max)

			// Nested copy mirrors the top-level field.
			assert.Equal(t, stamp, rec["data"].(map[string]any)["breachDate"])
		}
	}
}

func TestMutateForecastWithoutNestedDataField(t *testing.T) {
	tpl := insight.Record{"uid": "x", "title": "t", "data": map[string]any{"metric": "cpu"}}
	rec := newTestMutator(1).Mutate(tpl, templates.Forecast, ForecastNext0To7)

	assert.Contains(t, rec, "breachDate")
	// No breachDate key existed under data, so none is introduced.
	assert.NotContains(t, rec["data"].(map[string]any), "breachDate")
}

func TestMutatePastSetsUpdatedTimeAndResolves(t *testing.T) {
	tpl := insight.Record{"uid": "x", "title": "resolved one", "status": "ACTIVE"}

	m := newTestMutator(7)
	for i := 0; i < 50; i++ {
		rec := m.Mutate(tpl, templates.Past, PastLast24To48)

		assert.Equal(t, insight.StatusResolved, rec["status"])

		stamp, ok := rec["updatedTime"].(string)
		require.True(t, ok)
		updated, err := insight.ParseTimestamp(stamp)
		require.NoError(t, err)

		lo := fixedNow().Add(-48 * time.Hour)
		hi := fixedNow().Add(-24 * time.Hour)
		assert.False(t, updated.Before(lo), "updatedTime %s older than 48h", stamp)
		assert.False(t, updated.After(hi), "updatedTime %s newer than 24h", stamp)
	}
}

func TestMutateCurrentLeavesTimestampsAlone(t *testing.T) {
	tpl := insight.Record{"uid": "x", "title": "active", "updatedTime": "2026-01-01T00:00:00.000+00:00"}
	rec := newTestMutator(1).Mutate(tpl, templates.Current, Window{})

	assert.Equal(t, "2026-01-01T00:00:00.000+00:00", rec["updatedTime"])
	assert.NotContains(t, rec, "breachDate")
	assert.NotContains(t, rec, "status")
}

func TestMutateWithoutImpactedResources(t *testing.T) {
	tpl := insight.Record{"uid": "x", "title": "no resources"}
	rec := newTestMutator(1).Mutate(tpl, templates.Current, Window{})
	assert.NotContains(t, rec, "impactedResources")
}

func TestMutateSeededIsReproducible(t *testing.T) {
	run := func() []any {
		m := newTestMutator(1234)
		var out []any
		for i := 0; i < 10; i++ {
			rec := m.Mutate(forecastTemplate(), templates.Forecast, ForecastNext7To30)
			out = append(out, rec["severity"], rec["breachDate"])
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestWithDevicesPinsDevice(t *testing.T) {
	pinned := inventory.Device{UID: "pinned", Name: "pinned_device", Type: "FTD"}
	m := newTestMutator(1).WithDevices(fixedDevices{device: pinned})

	rec := m.Mutate(forecastTemplate(), templates.Current, Window{})
	resources := rec["impactedResources"].([]any)
	assert.Equal(t, "pinned", resources[0].(map[string]any)["uid"])
}
