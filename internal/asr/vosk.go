//go:build vosk

package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	vosk "github.com/alphacep/vosk-api/go"
	"go.uber.org/zap"

	"github.com/ppiankov/railvoice/internal/model"
)

// VoskTranscriber runs offline recognition with a Vosk model.
// The model is shared; every clip gets its own recognizer.
type VoskTranscriber struct {
	model      *vosk.VoskModel
	sampleRate int
	chunkMs    int
	logger     *zap.Logger
}

type voskResult struct {
	Text string `json:"text"`
}

// NewVoskTranscriber loads the model at cfg.ModelPath
func NewVoskTranscriber(cfg model.ASRConfig, logger *zap.Logger) (*VoskTranscriber, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("vosk model path is required")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("vosk model not found: %w", err)
	}

	m, err := vosk.NewModel(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load vosk model: %w", err)
	}

	chunkMs := cfg.ChunkMs
	if chunkMs <= 0 {
		chunkMs = 4000
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &VoskTranscriber{
		model:      m,
		sampleRate: cfg.SampleRate,
		chunkMs:    chunkMs,
		logger:     logger.Named("asr.vosk"),
	}, nil
}

// Name returns the backend name
func (t *VoskTranscriber) Name() string {
	return EngineVosk
}

// Transcribe feeds the clip to a fresh recognizer chunk by chunk. Completed
// utterances are joined with a space, followed by the final result.
func (t *VoskTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open clip: %w", err)
	}
	defer f.Close()

	format, pcm, err := ReadWAV(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	rate := t.sampleRate
	if rate == 0 {
		rate = format.SampleRate
	} else if rate != format.SampleRate {
		t.logger.Warn("clip sample rate differs from recognizer rate",
			zap.String("clip", path),
			zap.Int("clip_rate", format.SampleRate),
			zap.Int("recognizer_rate", rate))
	}

	rec, err := vosk.NewRecognizer(t.model, float64(rate))
	if err != nil {
		return "", fmt.Errorf("create recognizer: %w", err)
	}
	defer rec.Free()

	var sb strings.Builder
	for _, chunk := range chunkPCM(pcm, format.BytesPerMs()*t.chunkMs) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if rec.AcceptWaveform(chunk) != 0 {
			text, err := parseVoskResult(rec.Result())
			if err != nil {
				return "", err
			}
			sb.WriteString(text)
			sb.WriteString(" ")
		}
	}

	final, err := parseVoskResult(rec.FinalResult())
	if err != nil {
		return "", err
	}
	sb.WriteString(final)

	return strings.TrimSpace(sb.String()), nil
}

// Close frees the model
func (t *VoskTranscriber) Close() error {
	if t.model != nil {
		t.model.Free()
		t.model = nil
	}
	return nil
}

func parseVoskResult(raw string) (string, error) {
	var r voskResult
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return "", fmt.Errorf("parse vosk result: %w", err)
	}
	return r.Text, nil
}
