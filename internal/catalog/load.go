package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileFormat struct {
	Commands []Command `yaml:"commands"`
}

// LoadFile reads a catalog from a YAML file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog:
//
//	commands:
//	  - id: 4
//	    name: осадить на вагон
//	    phrases: [осади на вагон]
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c, err := FromCommands(f.Commands)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return c, nil
}

// Commands returns the catalog grouped per label, representative first
func (c *Catalog) Commands() []Command {
	labels := c.Labels()
	cmds := make([]Command, 0, len(labels))
	for _, id := range labels {
		name, _ := c.Phrase(id)
		cmd := Command{ID: id, Name: name}
		for _, v := range c.Variants(id) {
			if v != name {
				cmd.Phrases = append(cmd.Phrases, v)
			}
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}
