// Package lexicon holds the number-word table used to read spoken quantities.
//
// Lemmas are partitioned into three tiers. A lemma may live in exactly one
// tier; tables violating that are rejected at construction.
package lexicon

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateLemma is returned when a lemma appears more than once across tiers
var ErrDuplicateLemma = errors.New("lemma present in more than one tier")

// Tier is the place-value class of a number lemma
type Tier int

const (
	TierUnit Tier = iota
	TierTen
	TierHundred
)

func (t Tier) String() string {
	switch t {
	case TierUnit:
		return "unit"
	case TierTen:
		return "ten"
	case TierHundred:
		return "hundred"
	default:
		return "unknown"
	}
}

// Entry maps one lemma to its value within a tier
type Entry struct {
	Lemma string
	Value int
	Tier  Tier
}

// Lexicon is an immutable lemma -> value table
type Lexicon struct {
	units    map[string]int
	tens     map[string]int
	hundreds map[string]int
}

// New builds a lexicon from entries
func New(entries []Entry) (*Lexicon, error) {
	l := &Lexicon{
		units:    make(map[string]int),
		tens:     make(map[string]int),
		hundreds: make(map[string]int),
	}

	seen := make(map[string]Tier, len(entries))
	for _, e := range entries {
		if e.Lemma == "" {
			return nil, fmt.Errorf("empty lemma in %s tier", e.Tier)
		}
		if prev, ok := seen[e.Lemma]; ok {
			return nil, fmt.Errorf("%w: %q (%s, %s)", ErrDuplicateLemma, e.Lemma, prev, e.Tier)
		}
		seen[e.Lemma] = e.Tier

		switch e.Tier {
		case TierUnit:
			l.units[e.Lemma] = e.Value
		case TierTen:
			l.tens[e.Lemma] = e.Value
		case TierHundred:
			l.hundreds[e.Lemma] = e.Value
		default:
			return nil, fmt.Errorf("lemma %q: unknown tier %d", e.Lemma, e.Tier)
		}
	}

	return l, nil
}

// Lookup resolves a lemma, checking units, then tens, then hundreds
func (l *Lexicon) Lookup(lemma string) (int, Tier, bool) {
	if v, ok := l.units[lemma]; ok {
		return v, TierUnit, true
	}
	if v, ok := l.tens[lemma]; ok {
		return v, TierTen, true
	}
	if v, ok := l.hundreds[lemma]; ok {
		return v, TierHundred, true
	}
	return 0, 0, false
}

// Len returns the number of lemmas across all tiers
func (l *Lexicon) Len() int {
	return len(l.units) + len(l.tens) + len(l.hundreds)
}

// Entries returns all entries ordered by tier, then value, then lemma
func (l *Lexicon) Entries() []Entry {
	entries := make([]Entry, 0, l.Len())
	for tier, m := range []map[string]int{l.units, l.tens, l.hundreds} {
		for lemma, v := range m {
			entries = append(entries, Entry{Lemma: lemma, Value: v, Tier: Tier(tier)})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Tier != entries[j].Tier {
			return entries[i].Tier < entries[j].Tier
		}
		if entries[i].Value != entries[j].Value {
			return entries[i].Value < entries[j].Value
		}
		return entries[i].Lemma < entries[j].Lemma
	})

	return entries
}
