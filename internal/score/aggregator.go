package score

import (
	"context"
	"strings"

	"github.com/ppiankov/railvoice/internal/lemma"
	"github.com/ppiankov/railvoice/internal/lexicon"
	"github.com/ppiankov/railvoice/internal/model"
)

// Aggregator folds the number words of a transcript into one quantity
type Aggregator struct {
	lexicon    *lexicon.Lexicon
	lemmatizer lemma.Lemmatizer
}

// NewAggregator creates an aggregator over lx, resolving words through lm
func NewAggregator(lx *lexicon.Lexicon, lm lemma.Lemmatizer) *Aggregator {
	if lm == nil {
		lm = lemma.Identity
	}
	return &Aggregator{lexicon: lx, lemmatizer: lm}
}

// Aggregate returns the spoken quantity in text, or model.NoAttribute.
//
// Unit and ten values add into a running total. A hundreds word zeroes the
// running total, so its own value and everything before it are dropped; only
// number words after the last hundreds word count. Repeated words add up
// ("два два" is 4). A total of zero reads as no quantity.
func (a *Aggregator) Aggregate(text string) int {
	return a.AggregateContext(context.Background(), text)
}

// AggregateContext is Aggregate with lemma lookups bounded by ctx
func (a *Aggregator) AggregateContext(ctx context.Context, text string) int {
	lm := lemma.WithContext(ctx, a.lemmatizer)
	current := 0

	for _, word := range strings.Fields(strings.ToLower(text)) {
		value, tier, ok := a.lexicon.Lookup(lm.Lemmatize(word))
		if !ok {
			continue
		}

		switch tier {
		case lexicon.TierUnit, lexicon.TierTen:
			current += value
		case lexicon.TierHundred:
			// TODO: "сто сорок" reads as 40; confirm whether hundreds should carry into a separate total
			current = 0
		}
	}

	if current == 0 {
		return model.NoAttribute
	}
	return current
}
