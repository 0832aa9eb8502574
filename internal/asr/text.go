package asr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TextTranscriber replays stored transcripts. The transcript of clip.wav is
// read from clip.txt next to it; a .txt path is read directly.
type TextTranscriber struct{}

// NewTextTranscriber creates a sidecar transcript reader
func NewTextTranscriber() *TextTranscriber {
	return &TextTranscriber{}
}

// Name returns the backend name
func (t *TextTranscriber) Name() string {
	return EngineText
}

// Transcribe reads the sidecar transcript of path
func (t *TextTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(SidecarPath(path))
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	return strings.Join(strings.Fields(string(data)), " "), nil
}

// Close is a no-op
func (t *TextTranscriber) Close() error {
	return nil
}

// SidecarPath returns the transcript file holding the text of clip
func SidecarPath(clip string) string {
	ext := filepath.Ext(clip)
	if strings.EqualFold(ext, ".txt") {
		return clip
	}
	return strings.TrimSuffix(clip, ext) + ".txt"
}
