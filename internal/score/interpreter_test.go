package score

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/railvoice/internal/catalog"
	"github.com/ppiankov/railvoice/internal/lemma"
	"github.com/ppiankov/railvoice/internal/lexicon"
	"github.com/ppiankov/railvoice/internal/model"
)

func newDefaultInterpreter(t *testing.T) *Interpreter {
	t.Helper()
	in, err := NewInterpreter(catalog.Default(), lexicon.Default(), lemma.Default(), DefaultGate())
	require.NoError(t, err)
	return in
}

func TestNewInterpreter_Errors(t *testing.T) {
	_, err := NewInterpreter(nil, lexicon.Default(), nil, DefaultGate())
	assert.ErrorIs(t, err, catalog.ErrEmptyCatalog)

	_, err = NewInterpreter(catalog.Default(), nil, nil, DefaultGate())
	assert.Error(t, err)

	g, _ := NewGate(42)
	_, err = NewInterpreter(catalog.Default(), lexicon.Default(), nil, g)
	assert.Error(t, err)
}

func TestInterpreter_Interpret(t *testing.T) {
	in := newDefaultInterpreter(t)

	got := in.Interpret("осадить на сорок два вагона", fixedChooser(0))
	assert.Equal(t, Interpretation{Text: "осадить на сорок два вагона", RawLabel: 4, Label: 4, Attribute: 42}, got)

	got = in.Interpret("протяни на три вагона", fixedChooser(1))
	assert.Equal(t, 10, got.Label)
	assert.Equal(t, 3, got.Attribute)

	got = in.Interpret("тише", fixedChooser(0))
	assert.Equal(t, 18, got.Label)
	assert.Equal(t, model.NoAttribute, got.Attribute)
}

func TestInterpreter_NumberOnUngatedCommand(t *testing.T) {
	in := newDefaultInterpreter(t)

	got := in.Interpret("стоп два", fixedChooser(1))
	assert.Equal(t, 14, got.RawLabel)
	assert.Equal(t, 10, got.Label)
	assert.Equal(t, 2, got.Attribute)
}

func TestInterpreter_Deterministic(t *testing.T) {
	in := newDefaultInterpreter(t)
	texts := []string{"", "стоп пять", "назад", "вперед на башмак", "отмена сорок"}

	run := func() []Interpretation {
		rng := rand.New(rand.NewSource(7))
		out := make([]Interpretation, 0, len(texts))
		for _, text := range texts {
			out = append(out, in.Interpret(text, rng))
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestInterpreter_OutputInvariants(t *testing.T) {
	in := newDefaultInterpreter(t)
	labels := make(map[int]bool)
	for _, id := range catalog.Default().Labels() {
		labels[id] = true
	}

	rng := rand.New(rand.NewSource(3))
	texts := []string{"", "стоп", "стоп два", "сорок", "отказ сто", "вперед с башмака девять", "зарядка", "сто сорок"}
	for i := 0; i < 50; i++ {
		for _, text := range texts {
			got := in.Interpret(text, rng)
			require.True(t, labels[got.Label], "unknown label %d", got.Label)
			if got.Attribute != model.NoAttribute {
				require.True(t, in.Gate().Contains(got.Label))
				require.Greater(t, got.Attribute, 0)
			}
		}
	}
}
