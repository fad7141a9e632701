/* cmd/root.go */

package cmd

import (
	"fmt"
	"os"

	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/aiops-tools/aiopsgen/pkg/aiops_cli"
	"github.com/aiops-tools/aiopsgen/pkg/aiops_err"
	"github.com/aiops-tools/aiopsgen/pkg/aiops_io"
	"github.com/aiops-tools/aiopsgen/pkg/config"
	"github.com/aiops-tools/aiopsgen/pkg/logger"
)

var (
	flagEndpoint string
	flagToken    string
	flagDryRun   bool
	flagClear    bool
	flagYes      bool
	flagLoad     string
)

// RootCmd is the aiopsgen entry point. The tool has one surface with three
// modes: generate from a plan file, clear a tenant, or load insights from
// another tenant.
var RootCmd = &cobra.Command{
	Use:   "aiopsgen [config-file]",
	Short: "Generate synthetic AI-Ops insights against a tenant API",
	Long: `aiopsgen fills insight templates with fresh identifiers, severities,
devices and time windows, and posts the results to the AI-Ops insights API.

Modes:
  aiopsgen plan.json            generate insights per the plan file
  aiopsgen --clear              delete every insight on the tenant
  aiopsgen --load <domain>      copy insights from another tenant`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: aiops_cli.Wrap(func(rc *aiops_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		settings, err := config.ResolveSettings(rc, config.Overrides{
			Endpoint: flagEndpoint,
			Token:    flagToken,
			DryRun:   flagDryRun,
		})
		if err != nil {
			return err
		}

		switch {
		case flagClear:
			return runClear(rc, settings)
		case flagLoad != "":
			return runLoad(rc, settings, flagLoad)
		case len(args) == 1:
			return runGenerate(rc, settings, args[0])
		default:
			rc.Log.Warn("No plan file or mode flag given")
			_ = cmd.Help()
			return aiops_err.NewExpectedError(cerr.New("a config file, --clear, or --load is required"))
		}
	}),
}

func registerFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flagEndpoint, "endpoint", "", "insights API base URL (overrides AIOPS_DOMAIN)")
	fs.StringVar(&flagToken, "token", "", "bearer token (overrides AIOPS_TOKEN)")
	fs.BoolVar(&flagDryRun, "dry-run", false, "log would-be payloads without making API calls")
	fs.BoolVar(&flagClear, "clear", false, "delete all insights from the tenant")
	fs.BoolVar(&flagYes, "yes", false, "skip the --clear confirmation prompt")
	fs.StringVar(&flagLoad, "load", "", "source tenant domain to copy insights from")
}

func init() {
	registerFlags(RootCmd.Flags())
}

// Execute runs the CLI and exits with the classified status code.
func Execute() {
	defer func() {
		_ = logger.Sync()
	}()

	if err := RootCmd.Execute(); err != nil {
		if aiops_err.IsExpectedUserError(err) {
			logger.L().Warn("Run ended with user error", zap.Error(err))
		} else {
			logger.L().Error("Run failed", zap.Error(err))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(aiops_err.ExitCode(err))
	}
}
