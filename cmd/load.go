/* cmd/load.go */

package cmd

import (
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/aiops-tools/aiopsgen/pkg/aiops_io"
	"github.com/aiops-tools/aiopsgen/pkg/apiclient"
	"github.com/aiops-tools/aiopsgen/pkg/config"
	"github.com/aiops-tools/aiopsgen/pkg/tenant"
)

// runLoad copies insights from a source tenant to the configured target
// tenant. Only the initial source fetch is fatal; per-insight transfer
// failures are reported in the summary.
func runLoad(rc *aiops_io.RuntimeContext, settings *config.Settings, sourceDomain string) error {
	log := otelzap.Ctx(rc.Ctx)

	sourceCfg := apiclient.DefaultConfig()
	sourceCfg.Domain = strings.TrimRight(sourceDomain, "/")
	sourceCfg.Token = settings.Token
	source, err := apiclient.NewClient(sourceCfg)
	if err != nil {
		return err
	}

	targetCfg := apiclient.DefaultConfig()
	targetCfg.Domain = settings.Domain
	targetCfg.Token = settings.Token
	targetCfg.DryRun = settings.DryRun
	target, err := apiclient.NewClient(targetCfg)
	if err != nil {
		return err
	}

	result, err := tenant.Load(rc, source, target)
	if err != nil {
		return err
	}

	log.Info("Tenant load summary", zap.String("result", result.String()))
	return nil
}
