//go:build !vosk

package asr

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/railvoice/internal/model"
)

// NewVoskTranscriber reports that Vosk support was not compiled in.
// Build with -tags vosk and libvosk available to enable it.
func NewVoskTranscriber(cfg model.ASRConfig, logger *zap.Logger) (Transcriber, error) {
	return nil, fmt.Errorf("%w: vosk (model %s); rebuild with -tags vosk", ErrEngineUnavailable, cfg.ModelPath)
}
