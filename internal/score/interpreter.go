// Package score interprets a transcript: the command label, the spoken
// quantity, and the reconciliation between the two.
package score

import (
	"context"
	"fmt"

	"github.com/ppiankov/railvoice/internal/catalog"
	"github.com/ppiankov/railvoice/internal/lemma"
	"github.com/ppiankov/railvoice/internal/lexicon"
)

// Interpretation is the outcome for one transcript
type Interpretation struct {
	Text      string
	RawLabel  int // Label before reconciliation
	Label     int
	Attribute int
}

// Interpreter combines the aggregator, matcher and gate.
// It holds no mutable state and is safe for concurrent use.
type Interpreter struct {
	aggregator *Aggregator
	matcher    *Matcher
	gate       Gate
	catalog    *catalog.Catalog
}

// NewInterpreter validates the tables and builds an interpreter
func NewInterpreter(c *catalog.Catalog, lx *lexicon.Lexicon, lm lemma.Lemmatizer, gate Gate) (*Interpreter, error) {
	matcher, err := NewMatcher(c)
	if err != nil {
		return nil, err
	}
	if lx == nil {
		return nil, fmt.Errorf("number lexicon is required")
	}
	if err := gate.Validate(c); err != nil {
		return nil, err
	}

	return &Interpreter{
		aggregator: NewAggregator(lx, lm),
		matcher:    matcher,
		gate:       gate,
		catalog:    c,
	}, nil
}

// Interpret reads the label and quantity from text. rng breaks ties and
// drives reconciliation; pass a seeded source for reproducible output.
func (in *Interpreter) Interpret(text string, rng Chooser) Interpretation {
	return in.InterpretContext(context.Background(), text, rng)
}

// InterpretContext is Interpret with lemma lookups bounded by ctx
func (in *Interpreter) InterpretContext(ctx context.Context, text string, rng Chooser) Interpretation {
	attribute := in.aggregator.AggregateContext(ctx, text)
	raw := in.matcher.Classify(text, rng)
	label, attr := Reconcile(raw, attribute, in.gate, rng)

	return Interpretation{
		Text:      text,
		RawLabel:  raw,
		Label:     label,
		Attribute: attr,
	}
}

// Matcher exposes the label matcher
func (in *Interpreter) Matcher() *Matcher {
	return in.matcher
}

// Gate exposes the attribute gate
func (in *Interpreter) Gate() Gate {
	return in.gate
}

// Catalog exposes the phrase catalog
func (in *Interpreter) Catalog() *catalog.Catalog {
	return in.catalog
}
