package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/railvoice/internal/asr"
	"github.com/ppiankov/railvoice/internal/catalog"
	"github.com/ppiankov/railvoice/internal/lemma"
	"github.com/ppiankov/railvoice/internal/lexicon"
	"github.com/ppiankov/railvoice/internal/model"
	"github.com/ppiankov/railvoice/internal/score"
)

// LoadTables returns the configured catalog and lexicon, falling back to the built-in tables
func LoadTables(cfg model.TablesConfig) (*catalog.Catalog, *lexicon.Lexicon, error) {
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		c, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, nil, err
		}
		cat = c
	}

	lex := lexicon.Default()
	if cfg.LexiconPath != "" {
		l, err := lexicon.LoadFile(cfg.LexiconPath)
		if err != nil {
			return nil, nil, err
		}
		lex = l
	}

	return cat, lex, nil
}

// NewInterpreter builds the interpreter described by cfg
func NewInterpreter(cfg *model.Config, logger *zap.Logger) (*score.Interpreter, error) {
	cat, lex, err := LoadTables(cfg.Tables)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}

	lm, err := lemma.New(cfg.Lemmatizer, cfg.HTTP, logger)
	if err != nil {
		return nil, fmt.Errorf("lemmatizer: %w", err)
	}

	gate := score.DefaultGate()
	if len(cfg.Tables.Gate) > 0 {
		if gate, err = score.NewGate(cfg.Tables.Gate...); err != nil {
			return nil, err
		}
	}

	in, err := score.NewInterpreter(cat, lex, lm, gate)
	if err != nil {
		return nil, fmt.Errorf("interpreter: %w", err)
	}
	return in, nil
}

// NewFromConfig builds a pipeline with the configured transcriber
func NewFromConfig(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	in, err := NewInterpreter(cfg, logger)
	if err != nil {
		return nil, err
	}

	tr, err := asr.NewTranscriber(cfg.ASR, cfg.HTTP, logger)
	if err != nil {
		return nil, fmt.Errorf("transcriber: %w", err)
	}

	return New(tr, in, cfg.Seed, logger), nil
}
