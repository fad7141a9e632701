// pkg/templates/picker.go

package templates

import (
	"math/rand"

	"github.com/aiops-tools/aiopsgen/pkg/config"
	"github.com/aiops-tools/aiopsgen/pkg/insight"
)

// Picker selects the next template within a category. Round-robin cursors
// are instance state, constructed fresh per run; random mode draws from the
// injected source and mutates nothing.
type Picker struct {
	set     *Set
	mode    config.PickerMode
	cursors map[Category]int
	rng     *rand.Rand
}

// NewPicker wires a picker over a loaded template set.
func NewPicker(set *Set, mode config.PickerMode, rng *rand.Rand) *Picker {
	return &Picker{
		set:     set,
		mode:    mode,
		cursors: make(map[Category]int),
		rng:     rng,
	}
}

// Next returns a deep copy of the selected template, or false when the
// category holds no templates. Sequential mode indexes cursor mod count
// and increments afterwards, wrapping indefinitely.
func (p *Picker) Next(cat Category) (insight.Record, bool) {
	records := p.set.byCategory[cat]
	if len(records) == 0 {
		return nil, false
	}

	var idx int
	if p.mode == config.PickerRandom {
		idx = p.rng.Intn(len(records))
	} else {
		idx = p.cursors[cat] % len(records)
		p.cursors[cat]++
	}
	return records[idx].Clone(), true
}
