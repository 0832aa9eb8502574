package lemma

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/railvoice/internal/cache"
	"github.com/ppiankov/railvoice/internal/model"
)

// New creates the configured lemmatizer, wrapped in a cache when enabled
func New(cfg model.LemmatizerConfig, httpCfg model.HTTPConfig, logger *zap.Logger) (Lemmatizer, error) {
	var base Lemmatizer

	switch strings.ToLower(cfg.Provider) {
	case "", "dictionary", "dict":
		// the in-memory table is already a map lookup
		return Default(), nil

	case "http":
		l, err := NewHTTPLemmatizer(HTTPConfig{
			BaseURL:    cfg.BaseURL,
			Timeout:    cfg.Timeout,
			HTTPProxy:  httpCfg.HTTPProxy,
			HTTPSProxy: httpCfg.HTTPSProxy,
			NoProxy:    httpCfg.NoProxy,
		}, logger)
		if err != nil {
			return nil, err
		}
		base = l

	default:
		return nil, fmt.Errorf("unknown lemmatizer provider: %s (supported: dictionary, http)", cfg.Provider)
	}

	if !cfg.Cache.Enabled {
		return base, nil
	}

	var store cache.Cache
	if cfg.Cache.DiskDir != "" {
		store = cache.NewMemoryDiskCache(cfg.Cache.MemoryTTL, cfg.Cache.DiskDir, cfg.Cache.DiskTTL)
	} else {
		store = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
	}

	return NewCached(base, store, logger), nil
}
