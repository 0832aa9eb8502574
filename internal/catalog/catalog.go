// Package catalog maps canonical command phrases to label identifiers.
//
// The mapping is many-to-one. The reverse direction (label -> phrase) is fixed
// when the catalog is built and never derived at lookup time.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// ErrEmptyCatalog is returned when a catalog has no phrases
var ErrEmptyCatalog = errors.New("phrase catalog is empty")

// Phrase is one canonical command phrase
type Phrase struct {
	Text  string
	Label int
}

// Words returns the phrase split on whitespace
func (p Phrase) Words() []string {
	return strings.Fields(p.Text)
}

// Catalog is an immutable bidirectional phrase <-> label table
type Catalog struct {
	phrases  []Phrase
	label2id map[string]int
	id2label map[int]string
}

// New builds a catalog. Phrases keep their declaration order.
// representatives pins the id2label choice per label; labels without an entry
// use the first phrase declared for them.
func New(phrases []Phrase, representatives map[int]string) (*Catalog, error) {
	if len(phrases) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		phrases:  make([]Phrase, 0, len(phrases)),
		label2id: make(map[string]int, len(phrases)),
		id2label: make(map[int]string),
	}

	for _, p := range phrases {
		text := Normalize(p.Text)
		if text == "" {
			return nil, fmt.Errorf("label %d: empty phrase", p.Label)
		}
		if prev, ok := c.label2id[text]; ok {
			return nil, fmt.Errorf("phrase %q declared twice (labels %d and %d)", text, prev, p.Label)
		}

		c.label2id[text] = p.Label
		c.phrases = append(c.phrases, Phrase{Text: text, Label: p.Label})
		if _, ok := c.id2label[p.Label]; !ok {
			c.id2label[p.Label] = text
		}
	}

	for label, rep := range representatives {
		text := Normalize(rep)
		got, ok := c.label2id[text]
		if !ok || got != label {
			return nil, fmt.Errorf("label %d: representative %q is not one of its phrases", label, rep)
		}
		c.id2label[label] = text
	}

	return c, nil
}

// Normalize lowercases a phrase and collapses whitespace
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Phrases returns all phrases in declaration order
func (c *Catalog) Phrases() []Phrase {
	out := make([]Phrase, len(c.phrases))
	copy(out, c.phrases)
	return out
}

// Len returns the number of phrases
func (c *Catalog) Len() int {
	return len(c.phrases)
}

// LabelID resolves a phrase to its label (label2id)
func (c *Catalog) LabelID(phrase string) (int, bool) {
	id, ok := c.label2id[Normalize(phrase)]
	return id, ok
}

// Phrase returns the representative phrase of a label (id2label)
func (c *Catalog) Phrase(label int) (string, bool) {
	p, ok := c.id2label[label]
	return p, ok
}

// Labels returns the distinct label identifiers in ascending order
func (c *Catalog) Labels() []int {
	labels := lo.Keys(c.id2label)
	sort.Ints(labels)
	return labels
}

// Variants returns every phrase mapped to label, in declaration order
func (c *Catalog) Variants(label int) []string {
	return lo.FilterMap(c.phrases, func(p Phrase, _ int) (string, bool) {
		return p.Text, p.Label == label
	})
}
