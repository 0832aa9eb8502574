package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/ppiankov/railvoice/internal/model"
)

// SubmissionFile is the name of the JSON results file written by batch runs
const SubmissionFile = "submission.json"

// CSVHeader lists the report columns
var CSVHeader = []string{"audio_filepath", "recognized_text", "pred_label", "pred_attribute"}

const utf8BOM = "\ufeff"

// Renderer writes results to files and terminals
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes results as a JSON array of {audio, text, label, attribute}
func (r *Renderer) RenderJSON(results []model.Result, path string) error {
	if results == nil {
		results = []model.Result{}
	}

	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	return writeFile(path, data)
}

// RenderCSV writes the tabular report, UTF-8 with BOM for spreadsheet tools
func (r *Renderer) RenderCSV(results []model.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	if err := r.WriteCSV(f, results); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes the report to w
func (r *Renderer) WriteCSV(w io.Writer, results []model.Result) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, res := range results {
		record := []string{
			res.Audio,
			res.Text,
			strconv.Itoa(res.Label),
			strconv.Itoa(res.Attribute),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// CSVName returns the timestamped report file name for t
func CSVName(t time.Time) string {
	return "voices_" + t.Format("2006-01-02_15-04-05") + ".csv"
}

// RenderSummary prints per-label counts for a finished run
func (r *Renderer) RenderSummary(w io.Writer, results []model.Result, failed int) {
	counts := lo.CountValuesBy(results, func(res model.Result) int { return res.Label })
	withAttr := lo.CountBy(results, func(res model.Result) bool { return res.HasAttribute() })

	labels := lo.Keys(counts)
	sort.Ints(labels)

	fmt.Fprintf(w, "\nClips classified: %d", len(results))
	if failed > 0 {
		fmt.Fprintf(w, " (%d failed)", failed)
	}
	fmt.Fprintf(w, "\nWith quantity:    %d\n", withAttr)
	for _, id := range labels {
		fmt.Fprintf(w, "  label %2d: %d\n", id, counts[id])
	}
}

// RenderResult prints one result as a single line
func (r *Renderer) RenderResult(w io.Writer, res *model.Result) {
	attr := "-"
	if res.HasAttribute() {
		attr = strconv.Itoa(res.Attribute)
	}
	fmt.Fprintf(w, "%s\tlabel=%d\tattribute=%s\t%q\n", res.Audio, res.Label, attr, res.Text)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
