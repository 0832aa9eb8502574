package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/railvoice/internal/model"
)

var sampleResults = []model.Result{
	{Audio: "001.wav", Text: "осадить на сорок два вагона", Label: 4, Attribute: 42},
	{Audio: "002.wav", Text: "стоп", Label: 14, Attribute: model.NoAttribute},
}

func TestRenderer_RenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", SubmissionFile)
	require.NoError(t, NewRenderer().RenderJSON(sampleResults, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, map[string]any{"audio": "001.wav", "text": "осадить на сорок два вагона", "label": 4.0, "attribute": 42.0}, got[0])
	assert.Equal(t, -1.0, got[1]["attribute"])
}

func TestRenderer_RenderJSON_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), SubmissionFile)
	require.NoError(t, NewRenderer().RenderJSON(nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestRenderer_WriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().WriteCSV(&buf, sampleResults))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"), "missing BOM")

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\ufeff")), "\n")
	assert.Equal(t, []string{
		"audio_filepath,recognized_text,pred_label,pred_attribute",
		"001.wav,осадить на сорок два вагона,4,42",
		"002.wav,стоп,14,-1",
	}, lines)
}

func TestRenderer_RenderCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results", CSVName(time.Date(2024, 6, 1, 9, 5, 7, 0, time.UTC)))
	require.NoError(t, NewRenderer().RenderCSV(sampleResults, path))

	assert.Equal(t, "voices_2024-06-01_09-05-07.csv", filepath.Base(path))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestRenderer_RenderSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer().RenderSummary(&buf, sampleResults, 1)

	out := buf.String()
	assert.Contains(t, out, "Clips classified: 2 (1 failed)")
	assert.Contains(t, out, "With quantity:    1")
	assert.Contains(t, out, "label  4: 1")
	assert.Contains(t, out, "label 14: 1")
}

func TestRenderer_RenderResult(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer()
	r.RenderResult(&buf, &sampleResults[0])
	r.RenderResult(&buf, &sampleResults[1])

	assert.Equal(t,
		"001.wav\tlabel=4\tattribute=42\t\"осадить на сорок два вагона\"\n"+
			"002.wav\tlabel=14\tattribute=-\t\"стоп\"\n",
		buf.String())
}
