// Package asr turns audio clips into transcripts.
//
// Backends sit behind Transcriber; the interpreter only ever sees the
// resulting text.
package asr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/railvoice/internal/model"
)

// Backend names
const (
	EngineOpenAI = "openai"
	EngineVosk   = "vosk"
	EngineText   = "text"
)

// ErrEngineUnavailable is returned for a backend not compiled into this binary
var ErrEngineUnavailable = errors.New("transcription engine not available in this build")

// Transcriber converts one audio clip into text
type Transcriber interface {
	// Name returns the backend name
	Name() string

	// Transcribe returns the transcript of the clip at path
	Transcribe(ctx context.Context, path string) (string, error)

	// Close releases engine resources
	Close() error
}

// NewTranscriber creates a transcriber based on configuration
func NewTranscriber(cfg model.ASRConfig, httpCfg model.HTTPConfig, logger *zap.Logger) (Transcriber, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(cfg.Provider) {
	case EngineOpenAI, "whisper":
		t, err := NewOpenAITranscriber(cfg, httpCfg, logger)
		if err != nil {
			return nil, err
		}
		return t, nil

	case EngineVosk:
		t, err := NewVoskTranscriber(cfg, logger)
		if err != nil {
			return nil, err
		}
		return t, nil

	case EngineText, "":
		return NewTextTranscriber(), nil

	default:
		return nil, fmt.Errorf("unknown ASR provider: %s (supported: openai, vosk, text)", cfg.Provider)
	}
}
