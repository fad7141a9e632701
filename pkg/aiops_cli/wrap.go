// pkg/aiops_cli/wrap.go

package aiops_cli

import (
	"context"

	"github.com/aiops-tools/aiopsgen/pkg/aiops_err"
	"github.com/aiops-tools/aiopsgen/pkg/aiops_io"
	"github.com/aiops-tools/aiopsgen/pkg/logger"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Wrap adapts a RuntimeContext-style handler into a cobra RunE, ensuring
// panic recovery, telemetry, and outcome logging.
func Wrap(fn func(rc *aiops_io.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		logger.InitFallback()

		rc := aiops_io.NewContext(context.Background(), cmd.Name())
		defer rc.End(&err)

		defer func() {
			if r := recover(); r != nil {
				err = cerr.AssertionFailedf("panic: %v", r)
				rc.Log.Error("Panic recovered", zap.Any("panic", r))
			}
		}()

		err = fn(rc, cmd, args)
		if err != nil && !aiops_err.IsExpectedUserError(err) {
			err = cerr.WithStack(err)
		}
		return err
	}
}
