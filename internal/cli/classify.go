package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/railvoice/internal/pipeline"
	"github.com/ppiankov/railvoice/internal/score"
)

var (
	classifyJSON    bool
	classifyExplain bool
	classifyAudio   string
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify [transcript...]",
	Short: "Interpret a transcript without audio",
	Long: `Classify reads the command label and wagon count from transcript text.
With no arguments, every non-empty line of stdin is classified.

Example:
  railvoice classify осадить на сорок два вагона
  railvoice classify --explain "стоп два"
  cat transcripts.txt | railvoice classify --json --seed 7`,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "print results as JSON lines")
	classifyCmd.Flags().BoolVar(&classifyExplain, "explain", false, "print the matched phrases")
	classifyCmd.Flags().StringVar(&classifyAudio, "audio", "stdin", "clip name recorded in results")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	in, err := pipeline.NewInterpreter(cfg, logger)
	if err != nil {
		return err
	}
	p := pipeline.New(nil, in, cfg.Seed, logger)

	out := cmd.OutOrStdout()

	if len(args) > 0 {
		return classifyOne(out, p, classifyAudio, strings.Join(args, " "))
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	n := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		n++
		if err := classifyOne(out, p, fmt.Sprintf("%s-%d", classifyAudio, n), line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}

func classifyOne(w io.Writer, p *pipeline.Pipeline, audio, text string) error {
	res := p.ClassifyText(audio, text)

	if classifyJSON {
		data, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Fprintln(w, string(data))
	} else {
		p.Renderer().RenderResult(w, res)
	}

	if classifyExplain {
		explain(w, p.Interpreter(), text)
	}
	return nil
}

func explain(w io.Writer, in *score.Interpreter, text string) {
	for _, c := range in.Matcher().Candidates(text) {
		fmt.Fprintf(w, "  candidate: %q -> %d (score %.2f, %d words)\n", c.Phrase.Text, c.Phrase.Label, c.Score, c.Words)
	}
	fmt.Fprintf(w, "  gate: %v\n", in.Gate().Labels())
}
