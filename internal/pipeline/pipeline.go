// Package pipeline wires transcription and interpretation into per-clip results.
package pipeline

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/railvoice/internal/asr"
	"github.com/ppiankov/railvoice/internal/model"
	"github.com/ppiankov/railvoice/internal/score"
)

// Pipeline turns clips into results
type Pipeline struct {
	transcriber asr.Transcriber
	interpreter *score.Interpreter
	renderer    *Renderer
	seed        int64
	logger      *zap.Logger
}

// New creates a pipeline. A zero seed draws tie-breaks from the clock.
func New(transcriber asr.Transcriber, interpreter *score.Interpreter, seed int64, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		transcriber: transcriber,
		interpreter: interpreter,
		renderer:    NewRenderer(),
		seed:        seed,
		logger:      logger,
	}
}

// ClassifyFile transcribes the clip at path and interprets the transcript
func (p *Pipeline) ClassifyFile(ctx context.Context, path string) (*model.Result, error) {
	if p.transcriber == nil {
		return nil, fmt.Errorf("no transcriber configured")
	}

	start := time.Now()
	text, err := p.transcriber.Transcribe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", filepath.Base(path), err)
	}

	p.logger.Debug("clip transcribed",
		zap.String("clip", path),
		zap.String("engine", p.transcriber.Name()),
		zap.Duration("took", time.Since(start)))

	return p.ClassifyTextContext(ctx, filepath.Base(path), text), nil
}

// ClassifyText interprets an existing transcript. audio names the clip in
// the result and seeds its tie-breaks.
func (p *Pipeline) ClassifyText(audio, text string) *model.Result {
	return p.ClassifyTextContext(context.Background(), audio, text)
}

// ClassifyTextContext is ClassifyText with lemma lookups bounded by ctx
func (p *Pipeline) ClassifyTextContext(ctx context.Context, audio, text string) *model.Result {
	in := p.interpreter.InterpretContext(ctx, text, p.rngFor(audio))

	fields := []zap.Field{
		zap.String("audio", audio),
		zap.String("text", text),
		zap.Int("label", in.Label),
		zap.Int("attribute", in.Attribute),
	}
	if in.RawLabel != in.Label {
		fields = append(fields, zap.Int("matched_label", in.RawLabel))
	}
	p.logger.Debug("clip interpreted", fields...)

	return &model.Result{
		Audio:     audio,
		Text:      text,
		Label:     in.Label,
		Attribute: in.Attribute,
	}
}

// Interpreter returns the interpreter in use
func (p *Pipeline) Interpreter() *score.Interpreter {
	return p.interpreter
}

// Renderer returns the result renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Close releases the transcriber
func (p *Pipeline) Close() error {
	if p.transcriber == nil {
		return nil
	}
	return p.transcriber.Close()
}

// rngFor returns the tie-break source of one clip. With a seed the same
// clip name always yields the same sequence, independent of batch order.
func (p *Pipeline) rngFor(audio string) *rand.Rand {
	if p.seed == 0 {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(audio))
	return rand.New(rand.NewSource(p.seed + int64(h.Sum64())))
}
