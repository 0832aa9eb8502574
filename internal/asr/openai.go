package asr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ppiankov/railvoice/internal/model"
	"github.com/ppiankov/railvoice/internal/util"
)

// OpenAITranscriber transcribes clips with the Whisper API
type OpenAITranscriber struct {
	client   *openai.Client
	model    string
	language string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewOpenAITranscriber creates a Whisper transcriber
func NewOpenAITranscriber(cfg model.ASRConfig, httpCfg model.HTTPConfig, logger *zap.Logger) (*OpenAITranscriber, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	// request deadlines come from the per-call context
	clientConfig.HTTPClient = util.NewHTTPClient(0, httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy)

	modelName := cfg.Model
	if modelName == "" {
		modelName = openai.Whisper1
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAITranscriber{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    modelName,
		language: cfg.Language,
		timeout:  timeout,
		logger:   logger.Named("asr.openai"),
	}, nil
}

// Name returns the backend name
func (t *OpenAITranscriber) Name() string {
	return EngineOpenAI
}

// Transcribe uploads the clip to the transcription endpoint
func (t *OpenAITranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("clip not readable: %w", err)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	start := time.Now()
	resp, err := t.client.CreateTranscription(ctxWithTimeout, openai.AudioRequest{
		Model:    t.model,
		FilePath: path,
		Language: t.language,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI transcription error: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	t.logger.Debug("transcribed",
		zap.String("clip", path),
		zap.String("model", t.model),
		zap.Duration("took", time.Since(start)),
		zap.Int("chars", len(text)))

	return text, nil
}

// Close is a no-op
func (t *OpenAITranscriber) Close() error {
	return nil
}
