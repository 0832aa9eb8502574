package lemma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/railvoice/internal/util"
)

// HTTPLemmatizer asks a remote morphology service for base forms.
//
//	POST {baseURL}/lemmatize  {"word": "двух"}  ->  {"lemma": "два"}
//
// Failures are logged and absorbed: the normalized word is returned unchanged.
type HTTPLemmatizer struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// HTTPConfig configures an HTTPLemmatizer
type HTTPConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

type lemmatizeRequest struct {
	Word string `json:"word"`
}

type lemmatizeResponse struct {
	Lemma string `json:"lemma"`
}

// NewHTTPLemmatizer creates a client for the morphology service
func NewHTTPLemmatizer(cfg HTTPConfig, logger *zap.Logger) (*HTTPLemmatizer, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("lemmatizer base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPLemmatizer{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: util.NewHTTPClient(cfg.Timeout, cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		timeout:    cfg.Timeout,
		logger:     logger.Named("lemma"),
	}, nil
}

// Lemmatize returns the service's lemma for word
func (l *HTTPLemmatizer) Lemmatize(word string) string {
	return l.LemmatizeContext(context.Background(), word)
}

// LemmatizeContext is Lemmatize bounded by ctx as well as the client timeout
func (l *HTTPLemmatizer) LemmatizeContext(ctx context.Context, word string) string {
	w := normalize(word)
	lemma, err := l.ResolveContext(ctx, w)
	if err != nil {
		l.logger.Warn("lemmatize failed, using surface form", zap.String("word", w), zap.Error(err))
		return w
	}
	return lemma
}

// Resolve is Lemmatize with the failure reported
func (l *HTTPLemmatizer) Resolve(word string) (string, error) {
	return l.ResolveContext(context.Background(), word)
}

// ResolveContext is Resolve bounded by ctx
func (l *HTTPLemmatizer) ResolveContext(ctx context.Context, word string) (string, error) {
	w := normalize(word)
	if w == "" {
		return w, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	return l.lookup(ctx, w)
}

func (l *HTTPLemmatizer) lookup(ctx context.Context, word string) (string, error) {
	body, err := json.Marshal(lemmatizeRequest{Word: word})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/lemmatize", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out lemmatizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	lemma := normalize(out.Lemma)
	if lemma == "" {
		return "", fmt.Errorf("empty lemma in response")
	}
	return lemma, nil
}
