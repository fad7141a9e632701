// pkg/generator/generator.go

// Package generator walks the generation plan, drawing templates,
// mutating them, and posting the results one at a time. It supports two
// modes: "insight" makes a single pass over the plan, "device" repeats the
// full pass once per inventory device with every insight of the pass bound
// to that device.
package generator

import (
	"math/rand"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/aiops-tools/aiopsgen/pkg/aiops_io"
	"github.com/aiops-tools/aiopsgen/pkg/apiclient"
	"github.com/aiops-tools/aiopsgen/pkg/config"
	"github.com/aiops-tools/aiopsgen/pkg/inventory"
	"github.com/aiops-tools/aiopsgen/pkg/mutate"
	"github.com/aiops-tools/aiopsgen/pkg/templates"
)

// Stats summarizes a generation run.
type Stats struct {
	Posted   int
	Failed   int
	ByWindow map[string]int
}

func newStats() *Stats {
	return &Stats{ByWindow: make(map[string]int)}
}

// window pairs a plan count with its template category, mutation window
// and display label. The slice fixes the posting order: forecast windows
// ascending, then current, then past windows ascending.
type window struct {
	category templates.Category
	label    string
	span     mutate.Window
	count    func(p *config.Plan) int
}

var windows = []window{
	{templates.Forecast, "FORECAST: Next 0-7 days", mutate.ForecastNext0To7, func(p *config.Plan) int { return p.Forecast.Next0To7 }},
	{templates.Forecast, "FORECAST: Next 7-30 days", mutate.ForecastNext7To30, func(p *config.Plan) int { return p.Forecast.Next7To30 }},
	{templates.Forecast, "FORECAST: Next 30-90 days", mutate.ForecastNext30To90, func(p *config.Plan) int { return p.Forecast.Next30To90 }},
	{templates.Current, "CURRENT: Active insights", mutate.Window{}, func(p *config.Plan) int { return p.Present }},
	{templates.Past, "PAST: Last 0-12 hours", mutate.PastLast0To12, func(p *config.Plan) int { return p.Past.Last0To12 }},
	{templates.Past, "PAST: Last 12-24 hours", mutate.PastLast12To24, func(p *config.Plan) int { return p.Past.Last12To24 }},
	{templates.Past, "PAST: Last 24-48 hours", mutate.PastLast24To48, func(p *config.Plan) int { return p.Past.Last24To48 }},
}

// Generator drives one run of the plan against the insights API.
type Generator struct {
	settings *config.Settings
	plan     *config.Plan
	picker   *templates.Picker
	inv      *inventory.Inventory
	mutator  *mutate.Mutator
	client   *apiclient.Client
}

// New wires a generator from its parts. The random source is shared with
// the mutator so a seeded run is fully reproducible.
func New(settings *config.Settings, plan *config.Plan, picker *templates.Picker, inv *inventory.Inventory, client *apiclient.Client, rng *rand.Rand) *Generator {
	return &Generator{
		settings: settings,
		plan:     plan,
		picker:   picker,
		inv:      inv,
		mutator:  mutate.New(inv, rng),
		client:   client,
	}
}

// Mutator exposes the generator's mutator so callers can pin its clock.
func (g *Generator) Mutator() *mutate.Mutator {
	return g.mutator
}

// Run executes the plan and returns the posting summary. Individual post
// failures are counted, never fatal.
func (g *Generator) Run(rc *aiops_io.RuntimeContext) *Stats {
	log := otelzap.Ctx(rc.Ctx)
	stats := newStats()

	log.Info("Starting insight generation",
		zap.String("mode", string(g.settings.GenerationMode)),
		zap.String("endpoint", g.client.Endpoint()),
		zap.String("inventory_source", string(g.inv.Source())),
		zap.Int("inventory_devices", g.inv.Count()),
		zap.Int("planned_per_pass", g.plan.Total()))

	if g.settings.GenerationMode == config.ModeDevice {
		for _, device := range g.inv.All() {
			log.Info("Generating insight set for device",
				zap.String("device_uid", device.UID),
				zap.String("device_name", device.Name))
			g.runPass(rc, g.mutator.WithDevices(pinnedDevice{device}), stats)
		}
	} else {
		g.runPass(rc, g.mutator, stats)
	}

	log.Info("Insight generation completed",
		zap.Int("posted", stats.Posted),
		zap.Int("failed", stats.Failed))
	return stats
}

// runPass walks every window in posting order once.
func (g *Generator) runPass(rc *aiops_io.RuntimeContext, mut *mutate.Mutator, stats *Stats) {
	log := otelzap.Ctx(rc.Ctx)

	for _, w := range windows {
		n := w.count(g.plan)
		if n == 0 {
			continue
		}

		for i := 0; i < n; i++ {
			tpl, ok := g.picker.Next(w.category)
			if !ok {
				log.Warn("No templates available for window, skipping",
					zap.String("window", w.label),
					zap.Int("requested", n))
				break
			}

			rec := mut.Mutate(tpl, w.category, w.span)
			if g.client.Post(rc, rec, w.label) {
				stats.Posted++
				stats.ByWindow[w.label]++
			} else {
				stats.Failed++
			}
		}
	}
}

// pinnedDevice satisfies mutate.DeviceSource with a single fixed device.
type pinnedDevice struct {
	device inventory.Device
}

func (p pinnedDevice) Next() inventory.Device {
	return p.device
}
