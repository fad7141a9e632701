// pkg/templates/templates.go

// Package templates loads the per-category insight template files and
// hands them out round-robin or at random. Each category (forecast,
// current, past) lives in a sibling directory of the generation plan.
package templates

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/aiops-tools/aiopsgen/pkg/aiops_io"
	"github.com/aiops-tools/aiopsgen/pkg/insight"
)

// Category names a template set; the value doubles as the directory name.
type Category string

const (
	Forecast Category = "forecast"
	Current  Category = "current"
	Past     Category = "past"
)

// Categories lists every template category in posting order.
var Categories = []Category{Forecast, Current, Past}

// Set holds the parsed templates per category, in file-name order.
type Set struct {
	byCategory map[Category][]insight.Record
}

// LoadSet parses every *.json template beneath baseDir's category
// directories. A missing or empty category is a warning, not an error:
// that category simply yields no insights. An unparseable file is skipped
// with a warning so one bad template cannot sink the run.
func LoadSet(rc *aiops_io.RuntimeContext, baseDir string) *Set {
	log := otelzap.Ctx(rc.Ctx)
	set := &Set{byCategory: make(map[Category][]insight.Record)}

	for _, cat := range Categories {
		dir := filepath.Join(baseDir, string(cat))

		paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil || len(paths) == 0 {
			log.Warn("Template category is missing or empty, it will yield no insights",
				zap.String("category", string(cat)),
				zap.String("dir", dir))
			continue
		}
		sort.Strings(paths)

		var records []insight.Record
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Warn("Could not read template file",
					zap.String("path", path), zap.Error(err))
				continue
			}
			var rec insight.Record
			if err := json.Unmarshal(data, &rec); err != nil {
				log.Warn("Could not parse template file",
					zap.String("path", path), zap.Error(err))
				continue
			}
			records = append(records, rec)
		}

		if len(records) == 0 {
			log.Warn("Template category has no usable templates",
				zap.String("category", string(cat)),
				zap.String("dir", dir))
			continue
		}
		set.byCategory[cat] = records
		log.Info("Templates loaded",
			zap.String("category", string(cat)),
			zap.Int("count", len(records)))
	}

	return set
}

// NewSetFromRecords builds a Set directly from in-memory templates.
func NewSetFromRecords(byCategory map[Category][]insight.Record) *Set {
	set := &Set{byCategory: make(map[Category][]insight.Record, len(byCategory))}
	for cat, records := range byCategory {
		set.byCategory[cat] = records
	}
	return set
}

// Len returns how many templates a category holds.
func (s *Set) Len(cat Category) int {
	return len(s.byCategory[cat])
}
