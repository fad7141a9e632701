/* cmd/clear.go */

package cmd

import (
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/aiops-tools/aiopsgen/pkg/aiops_err"
	"github.com/aiops-tools/aiopsgen/pkg/aiops_io"
	"github.com/aiops-tools/aiopsgen/pkg/apiclient"
	"github.com/aiops-tools/aiopsgen/pkg/config"
	"github.com/aiops-tools/aiopsgen/pkg/interaction"
)

// runClear deletes every insight on the configured tenant, after an
// explicit confirmation unless --yes was given.
func runClear(rc *aiops_io.RuntimeContext, settings *config.Settings) error {
	log := otelzap.Ctx(rc.Ctx)

	clientCfg := apiclient.DefaultConfig()
	clientCfg.Domain = settings.Domain
	clientCfg.Token = settings.Token
	clientCfg.DryRun = settings.DryRun
	client, err := apiclient.NewClient(clientCfg)
	if err != nil {
		return err
	}

	log.Warn("This will delete ALL insights from the tenant",
		zap.String("endpoint", client.Endpoint()))

	if !flagYes && !settings.DryRun {
		if !interaction.ConfirmDestructive("Are you sure you want to continue?", nil) {
			return aiops_err.NewExpectedError(cerr.New("operation cancelled"))
		}
	}

	if !client.DeleteAll(rc) {
		return cerr.New("failed to clear insights")
	}
	return nil
}
