package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileFormat is the YAML layout of a lexicon override file
type fileFormat struct {
	Units    map[string]int `yaml:"units"`
	Tens     map[string]int `yaml:"tens"`
	Hundreds map[string]int `yaml:"hundreds"`
}

// LoadFile reads a lexicon from a YAML file
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML lexicon. Lemmas are lowercased.
func Parse(data []byte) (*Lexicon, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}

	l, err := New(FromTiers(lower(f.Units), lower(f.Tens), lower(f.Hundreds)))
	if err != nil {
		return nil, err
	}
	if l.Len() == 0 {
		return nil, fmt.Errorf("parse lexicon: no entries")
	}
	return l, nil
}

func lower(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}
