// pkg/tenant/loader.go

// Package tenant copies insights between tenant domains: one fetch from
// the source, one replay against the target, no intermediate state.
package tenant

import (
	"fmt"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/aiops-tools/aiopsgen/pkg/aiops_io"
	"github.com/aiops-tools/aiopsgen/pkg/apiclient"
)

// FetchLimit caps how many insights one load pulls from the source.
const FetchLimit = 300

// Result summarizes a tenant load.
type Result struct {
	Total       int
	Transferred int
	Failed      int
}

// SuccessRate is transferred/total; 0% when nothing was fetched.
func (r Result) SuccessRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Transferred) / float64(r.Total) * 100
}

func (r Result) String() string {
	return fmt.Sprintf("transferred=%d failed=%d success_rate=%.1f%%", r.Transferred, r.Failed, r.SuccessRate())
}

// Load fetches insights from the source tenant and replays them, in
// received order and unmodified, against the target tenant. Only a failed
// source fetch is fatal; per-insight transfer failures are counted and the
// loop continues.
func Load(rc *aiops_io.RuntimeContext, source, target *apiclient.Client) (Result, error) {
	log := otelzap.Ctx(rc.Ctx)

	log.Info("Loading insights from source tenant",
		zap.String("source", source.Endpoint()),
		zap.String("target", target.Endpoint()),
		zap.Int("limit", FetchLimit))

	records, err := source.List(rc, FetchLimit)
	if err != nil {
		return Result{}, cerr.Wrap(err, "failed to fetch insights from source tenant")
	}

	result := Result{Total: len(records)}
	if result.Total == 0 {
		log.Info("Source tenant has no insights, nothing to transfer")
		return result, nil
	}

	for _, rec := range records {
		if target.Post(rc, rec, "TENANT LOAD") {
			result.Transferred++
		} else {
			result.Failed++
		}
	}

	log.Info("Tenant load completed",
		zap.Int("total", result.Total),
		zap.Int("transferred", result.Transferred),
		zap.Int("failed", result.Failed),
		zap.Float64("success_rate_pct", result.SuccessRate()))

	return result, nil
}
