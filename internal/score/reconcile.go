package score

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ppiankov/railvoice/internal/catalog"
	"github.com/ppiankov/railvoice/internal/model"
)

// ErrEmptyGate is returned when no label may carry a quantity
var ErrEmptyGate = errors.New("attribute gate is empty")

// Gate is the set of labels allowed to carry a quantity
type Gate struct {
	labels []int
	set    map[int]struct{}
}

// NewGate builds a gate from label identifiers
func NewGate(labels ...int) (Gate, error) {
	if len(labels) == 0 {
		return Gate{}, ErrEmptyGate
	}

	g := Gate{set: make(map[int]struct{}, len(labels))}
	for _, id := range labels {
		if _, dup := g.set[id]; dup {
			continue
		}
		g.set[id] = struct{}{}
		g.labels = append(g.labels, id)
	}
	sort.Ints(g.labels)

	return g, nil
}

// DefaultGate is the gate of the built-in catalog: backing up and pulling
// forward by a number of wagons
func DefaultGate() Gate {
	g, _ := NewGate(4, 10)
	return g
}

// Contains reports whether label may carry a quantity
func (g Gate) Contains(label int) bool {
	_, ok := g.set[label]
	return ok
}

// Labels returns the gated labels in ascending order
func (g Gate) Labels() []int {
	out := make([]int, len(g.labels))
	copy(out, g.labels)
	return out
}

// Validate checks every gated label exists in c
func (g Gate) Validate(c *catalog.Catalog) error {
	if len(g.labels) == 0 {
		return ErrEmptyGate
	}
	for _, id := range g.labels {
		if _, ok := c.Phrase(id); !ok {
			return fmt.Errorf("gate label %d is not in the catalog", id)
		}
	}
	return nil
}

// Reconcile enforces that only gated labels carry a quantity.
//
// When a quantity was heard but the matched label cannot carry it, the label
// is replaced by a random gated label. The returned attribute is the input
// attribute for gated labels and model.NoAttribute otherwise.
func Reconcile(rawLabel, attribute int, gate Gate, rng Chooser) (int, int) {
	label := rawLabel
	if !gate.Contains(rawLabel) && attribute != model.NoAttribute {
		i := 0
		if rng != nil {
			i = pick(rng, len(gate.labels))
		}
		label = gate.labels[i]
	}

	if gate.Contains(label) {
		return label, attribute
	}
	return label, model.NoAttribute
}
