// pkg/mutate/mutate.go

// Package mutate turns a loaded template into a postable insight: fresh
// UID, randomized severity, an impacted device from the inventory, and a
// timestamp placed inside the requested window.
package mutate

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/aiops-tools/aiopsgen/pkg/insight"
	"github.com/aiops-tools/aiopsgen/pkg/inventory"
	"github.com/aiops-tools/aiopsgen/pkg/templates"
)

// DeviceSource supplies the device bound to each mutated insight. The
// inventory implements it; device-mode generation pins it to one device.
type DeviceSource interface {
	Next() inventory.Device
}

// Window is a time range relative to now. Forecast windows count in days
// into the future, past windows in hours back. Bounds are inclusive.
type Window struct {
	Min int
	Max int
}

// Standard windows, matching the generation plan's count fields.
var (
	ForecastNext0To7   = Window{Min: 0, Max: 7}
	ForecastNext7To30  = Window{Min: 7, Max: 30}
	ForecastNext30To90 = Window{Min: 30, Max: 90}

	PastLast0To12  = Window{Min: 0, Max: 12}
	PastLast12To24 = Window{Min: 12, Max: 24}
	PastLast24To48 = Window{Min: 24, Max: 48}
)

// Mutator applies the field mutations. The clock is injectable so tests
// can pin "now".
type Mutator struct {
	devices DeviceSource
	rng     *rand.Rand
	now     func() time.Time
}

// New builds a mutator over the given device source and random source.
func New(devices DeviceSource, rng *rand.Rand) *Mutator {
	return &Mutator{devices: devices, rng: rng, now: time.Now}
}

// WithClock overrides the mutator's clock; intended for tests.
func (m *Mutator) WithClock(now func() time.Time) *Mutator {
	m.now = now
	return m
}

// WithDevices returns a mutator bound to a different device source,
// sharing the clock and random source. Used by device-mode generation to
// pin every insight of a pass to one device.
func (m *Mutator) WithDevices(devices DeviceSource) *Mutator {
	return &Mutator{devices: devices, rng: m.rng, now: m.now}
}

// Mutate produces a postable insight from a template. The template itself
// is never modified. All fields the mutator does not touch pass through
// unchanged.
func (m *Mutator) Mutate(tpl insight.Record, cat templates.Category, w Window) insight.Record {
	rec := tpl.Clone()

	rec["uid"] = uuid.NewString()
	rec["severity"] = insight.Severities[m.rng.Intn(len(insight.Severities))]

	// Only rebind the device when the template actually carries an
	// impacted-resource list.
	if resources, ok := rec["impactedResources"].([]any); ok && len(resources) > 0 {
		device := m.devices.Next()
		rec["impactedResources"] = []any{map[string]any{
			"uid":  device.UID,
			"name": device.Name,
			"type": device.Type,
		}}
	}

	switch cat {
	case templates.Forecast:
		m.setBreachDate(rec, w)
	case templates.Past:
		m.setUpdatedTime(rec, w)
		rec["status"] = insight.StatusResolved
	}

	return rec
}

// setBreachDate places breachDate a uniform whole number of days into the
// future, mirroring the value into data.breachDate when the template
// nests one there.
func (m *Mutator) setBreachDate(rec insight.Record, w Window) {
	days := w.Min + m.rng.Intn(w.Max-w.Min+1)
	stamp := insight.FormatTimestamp(m.now().Add(time.Duration(days) * 24 * time.Hour))

	rec["breachDate"] = stamp
	if data, ok := rec["data"].(map[string]any); ok {
		if _, ok := data["breachDate"]; ok {
			data["breachDate"] = stamp
		}
	}
}

// setUpdatedTime places updatedTime a uniform whole number of hours into
// the past.
func (m *Mutator) setUpdatedTime(rec insight.Record, w Window) {
	hours := w.Min + m.rng.Intn(w.Max-w.Min+1)
	rec["updatedTime"] = insight.FormatTimestamp(m.now().Add(-time.Duration(hours) * time.Hour))
}
