// Package lemma provides the word -> base form capability used to read number words.
//
// The interpreter depends only on Lemmatizer. Backends range from a static form
// table to a remote morphological analyzer.
package lemma

import (
	"context"
	"strings"
)

// Lemmatizer maps an inflected word to its dictionary form.
// Implementations must be deterministic and safe for concurrent use.
type Lemmatizer interface {
	Lemmatize(word string) string
}

// ContextLemmatizer is implemented by backends whose lookups block.
// A cancelled ctx ends the lookup and the word is returned normalized.
type ContextLemmatizer interface {
	LemmatizeContext(ctx context.Context, word string) string
}

// WithContext binds ctx to lm's lookups when lm supports it
func WithContext(ctx context.Context, lm Lemmatizer) Lemmatizer {
	if cl, ok := lm.(ContextLemmatizer); ok {
		return Func(func(word string) string { return cl.LemmatizeContext(ctx, word) })
	}
	return lm
}

// Func adapts a function to Lemmatizer
type Func func(word string) string

// Lemmatize calls f
func (f Func) Lemmatize(word string) string {
	return f(word)
}

// Identity returns the lowercased word unchanged
var Identity Lemmatizer = Func(normalize)

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
