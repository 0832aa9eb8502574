package score

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/railvoice/internal/catalog"
)

// Chooser picks an index in [0, n). *math/rand.Rand satisfies it.
type Chooser interface {
	Intn(n int) int
}

// PhraseScore is the match of one catalog phrase against a transcript
type PhraseScore struct {
	Phrase catalog.Phrase
	Score  float64 // Fraction of the phrase's words found in the transcript
	Words  int
}

// Matcher picks the catalog label best matching a transcript
type Matcher struct {
	phrases []catalog.Phrase
	words   [][]string
}

// NewMatcher prepares a matcher over c
func NewMatcher(c *catalog.Catalog) (*Matcher, error) {
	if c == nil || c.Len() == 0 {
		return nil, catalog.ErrEmptyCatalog
	}

	phrases := c.Phrases()
	words := make([][]string, len(phrases))
	for i, p := range phrases {
		words[i] = p.Words()
	}

	return &Matcher{phrases: phrases, words: words}, nil
}

// Scores returns the presence score of every phrase, in catalog order.
// A phrase word counts as present when it occurs anywhere in the lowercased
// transcript as a substring.
func (m *Matcher) Scores(text string) []PhraseScore {
	text = strings.ToLower(text)

	scores := make([]PhraseScore, len(m.phrases))
	for i, p := range m.phrases {
		hits := 0
		for _, w := range m.words[i] {
			if strings.Contains(text, w) {
				hits++
			}
		}
		scores[i] = PhraseScore{
			Phrase: p,
			Score:  float64(hits) / float64(len(m.words[i])),
			Words:  len(m.words[i]),
		}
	}

	return scores
}

type scoreGroup struct {
	score    float64
	maxChars int
	phrases  []PhraseScore
}

// Candidates returns the phrases eligible for a random pick: the top score
// group, narrowed to its phrases with the most words. Never empty.
func (m *Matcher) Candidates(text string) []PhraseScore {
	scores := m.Scores(text)

	index := make(map[float64]int)
	var groups []*scoreGroup
	for _, s := range scores {
		i, ok := index[s.Score]
		if !ok {
			i = len(groups)
			index[s.Score] = i
			groups = append(groups, &scoreGroup{score: s.Score})
		}
		g := groups[i]
		g.phrases = append(g.phrases, s)
		if n := utf8.RuneCountInString(s.Phrase.Text); n > g.maxChars {
			g.maxChars = n
		}
	}

	// by score, then by the longest phrase in characters
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].score != groups[j].score {
			return groups[i].score > groups[j].score
		}
		return groups[i].maxChars > groups[j].maxChars
	})

	top := groups[0].phrases

	maxWords := 0
	for _, s := range top {
		if s.Words > maxWords {
			maxWords = s.Words
		}
	}

	candidates := make([]PhraseScore, 0, len(top))
	for _, s := range top {
		if s.Words == maxWords {
			candidates = append(candidates, s)
		}
	}

	return candidates
}

// Classify returns the label of the best matching phrase. Ties are broken
// uniformly at random through rng; a nil rng takes the first candidate.
func (m *Matcher) Classify(text string, rng Chooser) int {
	candidates := m.Candidates(text)
	if rng == nil || len(candidates) == 1 {
		return candidates[0].Phrase.Label
	}
	return candidates[pick(rng, len(candidates))].Phrase.Label
}

func pick(rng Chooser, n int) int {
	i := rng.Intn(n)
	if i < 0 || i >= n {
		panic(fmt.Sprintf("score: chooser returned %d for n=%d", i, n))
	}
	return i
}
