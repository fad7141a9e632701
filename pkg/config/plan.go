// pkg/config/plan.go

package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/aiops-tools/aiopsgen/pkg/aiops_io"
)

// ForecastCounts configures how many forecast insights to emit per window.
type ForecastCounts struct {
	Next0To7   int `json:"next_0_to_7" validate:"min=0"`
	Next7To30  int `json:"next_7_to_30" validate:"min=0"`
	Next30To90 int `json:"next_30_to_90" validate:"min=0"`
}

// PastCounts configures how many resolved insights to emit per window.
type PastCounts struct {
	Last0To12  int `json:"last_0_to_12" validate:"min=0"`
	Last12To24 int `json:"last_12_to_24" validate:"min=0"`
	Last24To48 int `json:"last_24_to_48" validate:"min=0"`
}

// Plan is the generation plan loaded from the JSON file named on the
// command line. Missing keys default to zero counts.
type Plan struct {
	Forecast ForecastCounts `json:"forecast_insight"`
	Present  int            `json:"present" validate:"min=0"`
	Past     PastCounts     `json:"past"`

	// BaseDir is the plan file's directory; template categories are
	// sibling folders of the plan.
	BaseDir string `json:"-"`
}

// Total returns the number of insights one full pass over the plan emits.
func (p *Plan) Total() int {
	return p.Forecast.Next0To7 + p.Forecast.Next7To30 + p.Forecast.Next30To90 +
		p.Present +
		p.Past.Last0To12 + p.Past.Last12To24 + p.Past.Last24To48
}

var planKeys = []string{"forecast_insight", "present", "past"}

// LoadPlan reads and validates the generation plan. Any failure here is a
// fatal setup error: the run must not proceed on a bad plan.
func LoadPlan(rc *aiops_io.RuntimeContext, path string) (*Plan, error) {
	log := otelzap.Ctx(rc.Ctx)

	log.Info("Loading generation plan", zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cerr.Wrapf(err, "failed to read plan file %s", path)
	}

	// Probe for at least one recognized key so an unrelated JSON document
	// fails loudly instead of silently generating nothing.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, cerr.Wrapf(err, "invalid JSON in plan file %s", path)
	}
	known := false
	for _, key := range planKeys {
		if _, ok := probe[key]; ok {
			known = true
			break
		}
	}
	if !known {
		return nil, cerr.Newf("plan file %s contains none of the expected keys %v", path, planKeys)
	}

	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, cerr.Wrapf(err, "invalid plan structure in %s", path)
	}
	if err := validate.Struct(&plan); err != nil {
		return nil, cerr.Wrapf(err, "invalid counts in plan file %s", path)
	}

	plan.BaseDir = filepath.Dir(path)

	log.Info("Generation plan loaded",
		zap.Int("total_insights", plan.Total()),
		zap.String("base_dir", plan.BaseDir))

	return &plan, nil
}
