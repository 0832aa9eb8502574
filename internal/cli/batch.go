package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/railvoice/internal/asr"
	"github.com/ppiankov/railvoice/internal/model"
	"github.com/ppiankov/railvoice/internal/pipeline"
	"github.com/ppiankov/railvoice/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	clipExt      string
	clipList     string
	writeCSV     bool
	batchTimeout time.Duration
)

var (
	okMark   = color.New(color.FgGreen)
	failMark = color.New(color.FgRed)
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Classify every clip in a directory in parallel",
	Long: `Batch transcribes and classifies clips concurrently:
- Read clips from a directory (by extension) or from a list file
- Process clips in parallel with configurable worker count
- Throttle remote transcription with the configured rate limit
- Write submission.json (and optionally a CSV report) to the output directory

Example:
  railvoice batch ./voices
  railvoice batch ./voices --ext mp3 --asr openai --workers 8 --output-dir ./out
  railvoice batch --list clips.txt --csv --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "workers", 0, "number of concurrent workers (default: config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", ".", "directory for submission.json and reports")
	batchCmd.Flags().StringVar(&clipExt, "ext", "", "clip file extension (default: config, wav)")
	batchCmd.Flags().StringVar(&clipList, "list", "", "file with clip paths, one per line")
	batchCmd.Flags().BoolVar(&writeCSV, "csv", false, "also write voices_<timestamp>.csv")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && clipList == "" {
		return fmt.Errorf("a clip directory or --list is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Concurrency.Workers = concurrency
	}
	if clipExt != "" {
		cfg.Output.Extension = clipExt
	}
	if writeCSV {
		cfg.Output.CSV = true
	}

	clips, source, err := collectClips(args, cfg.Output.Extension)
	if err != nil {
		return err
	}
	if len(clips) == 0 {
		return fmt.Errorf("no *.%s clips found in %s", strings.TrimPrefix(cfg.Output.Extension, "."), source)
	}

	runID := uuid.New().String()
	logger = logger.With(zap.String("run_id", runID))

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  railvoice Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Run:          %s\n", runID)
	fmt.Fprintf(os.Stderr, "  Source:       %s (%d clips)\n", source, len(clips))
	fmt.Fprintf(os.Stderr, "  Engine:       %s\n", cfg.ASR.Provider)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, newLimiter(cfg), cfg.ASR.Provider)
	processor.OnResult(func(r *worker.ClipResult) {
		if r.Error != nil {
			failMark.Fprintf(os.Stderr, "✗ %s: %v\n", filepath.Base(r.Path), r.Error)
			return
		}
		if verbose {
			okMark.Fprintf(os.Stderr, "✓ %s\n", filepath.Base(r.Path))
		}
	})

	start := time.Now()
	clipResults := processor.ProcessClips(ctx, clips)

	results := make([]model.Result, 0, len(clipResults))
	failed := 0
	for _, r := range clipResults {
		if r.Error != nil {
			failed++
			logger.Warn("clip failed", zap.String("clip", r.Path), zap.Error(r.Error))
			continue
		}
		results = append(results, *r.Result)
	}
	logger.Info("batch finished",
		zap.Int("clips", len(clips)),
		zap.Int("failed", failed),
		zap.Duration("took", time.Since(start)))

	if len(results) == 0 {
		return fmt.Errorf("no clips classified (%d failed)", failed)
	}

	renderer := p.Renderer()
	submissionPath := filepath.Join(outputDir, pipeline.SubmissionFile)
	if err := renderer.RenderJSON(results, submissionPath); err != nil {
		return fmt.Errorf("render submission: %w", err)
	}
	okMark.Fprintf(os.Stderr, "✓ Wrote submission: %s\n", submissionPath)

	if cfg.Output.CSV {
		csvPath := filepath.Join(outputDir, pipeline.CSVName(time.Now()))
		if err := renderer.RenderCSV(results, csvPath); err != nil {
			return fmt.Errorf("render CSV: %w", err)
		}
		okMark.Fprintf(os.Stderr, "✓ Wrote CSV: %s\n", csvPath)
	}

	renderer.RenderSummary(os.Stderr, results, failed)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// collectClips resolves the clip set from a directory argument or --list
func collectClips(args []string, ext string) ([]string, string, error) {
	if clipList != "" {
		clips, err := worker.ReadClipList(clipList)
		if err != nil {
			return nil, "", fmt.Errorf("read clip list: %w", err)
		}
		return clips, clipList, nil
	}

	clips, err := worker.ReadClips(args[0], ext)
	if err != nil {
		return nil, "", err
	}
	return clips, args[0], nil
}

// newLimiter throttles remote engines; local engines run unthrottled
func newLimiter(cfg *model.Config) *worker.Limiter {
	if !strings.EqualFold(cfg.ASR.Provider, asr.EngineOpenAI) && !strings.EqualFold(cfg.ASR.Provider, "whisper") {
		return nil
	}
	return worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
}

func newPipeline(cfg *model.Config) (*pipeline.Pipeline, error) {
	if verbose {
		fmt.Fprintf(os.Stderr, "Engine: %s, lemmatizer: %s, seed: %d\n", cfg.ASR.Provider, cfg.Lemmatizer.Provider, cfg.Seed)
	}
	p, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}
