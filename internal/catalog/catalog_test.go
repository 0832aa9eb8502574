package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNew_Empty(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = FromCommands(nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestNew_ManyToOne(t *testing.T) {
	c, err := New([]Phrase{
		{Text: "включи свет", Label: 1},
		{Text: "зажги  свет", Label: 1},
		{Text: "включи", Label: 2},
	}, nil)
	require.NoError(t, err)

	id, ok := c.LabelID("Зажги свет")
	require.True(t, ok)
	assert.Equal(t, 1, id)

	// first declared phrase wins without an explicit representative
	p, ok := c.Phrase(1)
	require.True(t, ok)
	assert.Equal(t, "включи свет", p)

	assert.Equal(t, []int{1, 2}, c.Labels())
	assert.Equal(t, []string{"включи свет", "зажги свет"}, c.Variants(1))
	assert.Equal(t, 3, c.Len())
}

func TestNew_ExplicitRepresentative(t *testing.T) {
	c, err := New([]Phrase{
		{Text: "включи свет", Label: 1},
		{Text: "зажги свет", Label: 1},
	}, map[int]string{1: "зажги свет"})
	require.NoError(t, err)

	p, _ := c.Phrase(1)
	assert.Equal(t, "зажги свет", p)
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		phrases []Phrase
		reps    map[int]string
	}{
		{"blank phrase", []Phrase{{Text: "  ", Label: 1}}, nil},
		{"duplicate phrase", []Phrase{{Text: "стоп", Label: 1}, {Text: "стоп", Label: 2}}, nil},
		{"foreign representative", []Phrase{{Text: "стоп", Label: 1}, {Text: "тише", Label: 2}}, map[int]string{1: "тише"}},
		{"unknown representative", []Phrase{{Text: "стоп", Label: 1}}, map[int]string{1: "вперед"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.phrases, tt.reps)
			assert.Error(t, err)
		})
	}
}

func TestDefault_RoundTrip(t *testing.T) {
	c := Default()

	labels := c.Labels()
	require.Len(t, labels, 23)
	for i, id := range labels {
		assert.Equal(t, i, id)
	}

	for _, id := range labels {
		phrase, ok := c.Phrase(id)
		require.True(t, ok, "label %d has no phrase", id)

		back, ok := c.LabelID(phrase)
		require.True(t, ok)
		assert.Equal(t, id, back, "id2label/label2id mismatch for %q", phrase)
	}
}

func TestPhrases_ReturnsCopy(t *testing.T) {
	c := Default()
	ps := c.Phrases()
	ps[0].Text = "изменено"

	assert.Equal(t, "отказ", c.Phrases()[0].Text)
}

func TestPhraseWords(t *testing.T) {
	assert.Equal(t, []string{"назад", "на", "башмак"}, Phrase{Text: "назад на башмак"}.Words())
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
commands:
  - id: 1
    name: включи свет
    phrases: [зажги свет]
  - id: 2
    name: включи
`))
	require.NoError(t, err)

	p, _ := c.Phrase(1)
	assert.Equal(t, "включи свет", p)
	id, _ := c.LabelID("зажги свет")
	assert.Equal(t, 1, id)

	_, err = Parse([]byte("commands: []\n"))
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = Parse([]byte("commands: {"))
	assert.Error(t, err)
}

func TestCommands_RoundTripThroughYAML(t *testing.T) {
	orig := Default()

	data, err := yaml.Marshal(fileFormat{Commands: orig.Commands()})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, orig.Phrases(), sortedLike(orig, loaded.Phrases()))
	for _, id := range orig.Labels() {
		want, _ := orig.Phrase(id)
		got, _ := loaded.Phrase(id)
		assert.Equal(t, want, got)
	}
}

// sortedLike reorders got to follow want's phrase order
func sortedLike(want *Catalog, got []Phrase) []Phrase {
	index := make(map[string]Phrase, len(got))
	for _, p := range got {
		index[p.Text] = p
	}
	out := make([]Phrase, 0, len(got))
	for _, p := range want.Phrases() {
		if g, ok := index[p.Text]; ok {
			out = append(out, g)
		}
	}
	return out
}
