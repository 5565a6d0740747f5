package services

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// CatalogEntry is one provider and the models the widget offers for it.
type CatalogEntry struct {
	Kind   ProviderKind
	Models []string
}

// Catalog is the read-only provider -> models table.
type Catalog struct {
	entries []CatalogEntry
	index   map[ProviderKind]map[string]struct{}
}

type catalogFile struct {
	Providers []struct {
		ID     string   `yaml:"id"`
		Models []string `yaml:"models"`
	} `yaml:"providers"`
}

// LoadCatalog parses the catalog compiled into the binary.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// ParseCatalog parses a YAML catalog. Every provider kind must appear exactly
// once with at least one model.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse model catalog: %w", err)
	}

	c := &Catalog{index: make(map[ProviderKind]map[string]struct{})}
	for _, p := range file.Providers {
		kind, ok := ParseProviderKind(p.ID)
		if !ok {
			return nil, fmt.Errorf("model catalog: unknown provider %q", p.ID)
		}
		if _, dup := c.index[kind]; dup {
			return nil, fmt.Errorf("model catalog: provider %q listed twice", p.ID)
		}
		if len(p.Models) == 0 {
			return nil, fmt.Errorf("model catalog: provider %q has no models", p.ID)
		}

		models := make(map[string]struct{}, len(p.Models))
		for _, m := range p.Models {
			if m == "" {
				return nil, fmt.Errorf("model catalog: provider %q has an empty model name", p.ID)
			}
			models[m] = struct{}{}
		}
		c.index[kind] = models
		c.entries = append(c.entries, CatalogEntry{Kind: kind, Models: append([]string(nil), p.Models...)})
	}

	for _, kind := range AllKinds {
		if _, ok := c.index[kind]; !ok {
			return nil, fmt.Errorf("model catalog: provider %q missing", kind.ID())
		}
	}

	sort.SliceStable(c.entries, func(i, j int) bool {
		return c.entries[i].Kind < c.entries[j].Kind
	})

	return c, nil
}

// Entries returns the catalog in provider order. Callers get their own copy.
func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = CatalogEntry{Kind: e.Kind, Models: append([]string(nil), e.Models...)}
	}
	return out
}

// Contains reports whether model is listed for kind.
func (c *Catalog) Contains(kind ProviderKind, model string) bool {
	_, ok := c.index[kind][model]
	return ok
}
