/* cmd/generate.go */

package cmd

import (
	"math/rand"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/aiops-tools/aiopsgen/pkg/aiops_io"
	"github.com/aiops-tools/aiopsgen/pkg/apiclient"
	"github.com/aiops-tools/aiopsgen/pkg/config"
	"github.com/aiops-tools/aiopsgen/pkg/generator"
	"github.com/aiops-tools/aiopsgen/pkg/inventory"
	"github.com/aiops-tools/aiopsgen/pkg/templates"
)

// runGenerate wires the generation pipeline: plan, templates, inventory,
// API client, then one generator run. Fatal setup errors (bad plan) return
// an error; everything past setup is counted, not raised.
func runGenerate(rc *aiops_io.RuntimeContext, settings *config.Settings, planPath string) error {
	log := otelzap.Ctx(rc.Ctx)

	plan, err := config.LoadPlan(rc, planPath)
	if err != nil {
		return err
	}

	clientCfg := apiclient.DefaultConfig()
	clientCfg.Domain = settings.Domain
	clientCfg.Token = settings.Token
	clientCfg.DryRun = settings.DryRun
	client, err := apiclient.NewClient(clientCfg)
	if err != nil {
		return err
	}

	log.Info("Target endpoint resolved",
		zap.String("endpoint", client.Endpoint()),
		zap.String("token", client.TokenPreview()))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Dry-run means no network I/O at all, including the device API.
	var inv *inventory.Inventory
	if settings.DryRun {
		inv = inventory.NewSynthetic(settings.DeviceCount, settings.DeviceSelection, rng)
	} else {
		inv = inventory.NewRemote(rc, settings, client.HTTPClient(), rng)
	}
	if inv.Source() != inventory.SourceRemote {
		log.Warn("Running on a non-remote device inventory",
			zap.String("source", string(inv.Source())),
			zap.Int("device_count", inv.Count()))
	}

	set := templates.LoadSet(rc, plan.BaseDir)
	picker := templates.NewPicker(set, settings.PickerMode, rng)

	stats := generator.New(settings, plan, picker, inv, client, rng).Run(rc)

	log.Info("Generation summary",
		zap.Int("posted", stats.Posted),
		zap.Int("failed", stats.Failed))
	for label, n := range stats.ByWindow {
		log.Info("Window summary", zap.String("window", label), zap.Int("posted", n))
	}

	return nil
}
