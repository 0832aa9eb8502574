package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/railvoice/internal/watch"
	"github.com/ppiankov/railvoice/internal/worker"
)

var (
	watchOut      string
	watchDebounce time.Duration
	watchExisting bool
	watchTimeout  time.Duration
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Classify clips as they appear in a directory",
	Long: `Watch monitors a directory and classifies each new clip once its
writes settle. Records are printed as JSON lines.

Example:
  railvoice watch ./incoming --asr vosk
  railvoice watch ./incoming --existing --out results.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchOut, "out", "", "append JSON lines to this file instead of stdout")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before a clip is processed")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "classify clips already in the directory first")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 2*time.Minute, "timeout per clip")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var existing []string
	if watchExisting {
		existing, err = worker.ReadClips(dir, cfg.Output.Extension)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if watchOut != "" {
		f, err := os.OpenFile(watchOut, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := newLimiter(cfg)
	enc := json.NewEncoder(out)

	handle := func(path string) {
		job := &worker.ClipJob{Path: path, Classifier: p, Limiter: limiter, LimitKey: cfg.ASR.Provider}

		clipCtx, cancel := context.WithTimeout(ctx, watchTimeout)
		defer cancel()

		r := job.Execute(clipCtx).(*worker.ClipResult)
		if r.Error != nil {
			failMark.Fprintf(os.Stderr, "✗ %s: %v\n", filepath.Base(path), r.Error)
			logger.Warn("clip failed", zap.String("clip", path), zap.Error(r.Error))
			return
		}
		if err := enc.Encode(r.Result); err != nil {
			logger.Error("write record", zap.Error(err))
		}
	}

	w, err := watch.New(dir, cfg.Output.Extension, watchDebounce, logger)
	if err != nil {
		return err
	}

	for _, clip := range existing {
		if ctx.Err() != nil {
			break
		}
		handle(clip)
	}

	fmt.Fprintf(os.Stderr, "Watching %s for *.%s clips (Ctrl+C to stop)\n", w.Dir(), cfg.Output.Extension)
	return w.Run(ctx, handle)
}
