package search

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Category groups related suggestion keywords.
type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Catalog is the keyword catalogue: suggestion categories plus the keywords
// a new session starts with.
type Catalog struct {
	Categories []Category `yaml:"categories" json:"categories"`
	Active     []string   `yaml:"active" json:"active"`
}

// Suggestion is one catalogue keyword not yet active.
type Suggestion struct {
	Category string `json:"category"`
	Keyword  string `json:"keyword"`
}

// ParseCatalog decodes a catalogue from YAML.
func ParseCatalog(data []byte) (Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Catalog{}, fmt.Errorf("catalog: payload is empty")
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("catalog: decode: %w", err)
	}
	for i, cat := range c.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return Catalog{}, fmt.Errorf("catalog: category %d has no name", i)
		}
	}
	return c, nil
}

// DefaultCatalog returns the built-in catalogue.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog reads a catalogue file. An empty path yields DefaultCatalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Suggestions lists catalogue keywords in category order, skipping those in
// active.
func (c Catalog) Suggestions(active *KeywordSet) []Suggestion {
	out := make([]Suggestion, 0)
	for _, cat := range c.Categories {
		for _, kw := range cat.Keywords {
			if active != nil && active.Contains(kw) {
				continue
			}
			out = append(out, Suggestion{Category: cat.Name, Keyword: kw})
		}
	}
	return out
}
