package lemma

import (
	"context"

	"go.uber.org/zap"

	"github.com/ppiankov/railvoice/internal/cache"
)

const cacheNamespace = "lemma"

// resolver is implemented by backends that can fail; failed lookups are not cached
type resolver interface {
	ResolveContext(ctx context.Context, word string) (string, error)
}

// Cached memoizes another lemmatizer
type Cached struct {
	next   Lemmatizer
	store  cache.Cache
	logger *zap.Logger
}

// NewCached wraps next with store
func NewCached(next Lemmatizer, store cache.Cache, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, store: store, logger: logger.Named("lemma-cache")}
}

// Lemmatize serves from the cache or delegates and stores the answer
func (c *Cached) Lemmatize(word string) string {
	return c.LemmatizeContext(context.Background(), word)
}

// LemmatizeContext is Lemmatize with ctx passed to the wrapped backend
func (c *Cached) LemmatizeContext(ctx context.Context, word string) string {
	w := normalize(word)
	key := cache.Key(cacheNamespace, w)

	if lemma, ok := c.store.Get(key); ok {
		return lemma
	}

	if r, ok := c.next.(resolver); ok {
		lemma, err := r.ResolveContext(ctx, w)
		if err != nil {
			c.logger.Warn("lemmatize failed, using surface form", zap.String("word", w), zap.Error(err))
			return w
		}
		c.put(key, w, lemma)
		return lemma
	}

	lemma := WithContext(ctx, c.next).Lemmatize(w)
	c.put(key, w, lemma)
	return lemma
}

func (c *Cached) put(key, word, lemma string) {
	if err := c.store.Set(key, lemma, 0); err != nil {
		c.logger.Debug("cache write failed", zap.String("word", word), zap.Error(err))
	}
}
