package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	runTimeout time.Duration
	runJSON    bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <clip>",
	Short: "Transcribe and classify a single clip",
	Long: `Run transcribes one audio clip with the configured engine and prints
the resulting record.

Example:
  railvoice run data/voice/test.wav --asr vosk
  railvoice run clip.wav --asr openai --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().DurationVar(&runTimeout, "timeout", 2*time.Minute, "timeout for the clip")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the record as JSON")
}

func runRun(cmd *cobra.Command, args []string) error {
	clip := args[0]
	if _, err := os.Stat(clip); err != nil {
		return fmt.Errorf("clip: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	res, err := p.ClassifyFile(ctx, clip)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if runJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	p.Renderer().RenderResult(out, res)
	return nil
}
