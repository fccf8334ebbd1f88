// Package scenarios exposes the read-only reference scenarios. The dataset
// is embedded and decoded once at process start.
package scenarios

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/chrisdamba/seatyield/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var embedded []byte

type catalogFile struct {
	Scenarios []models.Scenario `yaml:"scenarios"`
}

// Catalog is an immutable keyed collection of scenarios.
type Catalog struct {
	byID map[string]models.Scenario
	ids  []string
}

var defaultCatalog = mustParse(embedded)

// Default returns the embedded catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode scenario catalog: %w", err)
	}
	return New(file.Scenarios...)
}

// New builds a catalog from scenarios, rejecting empty or repeated ids.
func New(list ...models.Scenario) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]models.Scenario, len(list))}
	for _, s := range list {
		if s.ID == "" {
			return nil, fmt.Errorf("scenario %q has no id", s.Name)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate scenario id %q", s.ID)
		}
		c.byID[s.ID] = s.Clone()
		c.ids = append(c.ids, s.ID)
	}
	sort.Strings(c.ids)
	return c, nil
}

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns a copy of the scenario with the given id.
func (c *Catalog) Get(id string) (models.Scenario, bool) {
	s, ok := c.byID[id]
	if !ok {
		return models.Scenario{}, false
	}
	return s.Clone(), true
}

// IDs lists scenario ids in ascending order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// All returns copies of every scenario ordered by id.
func (c *Catalog) All() []models.Scenario {
	out := make([]models.Scenario, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id].Clone())
	}
	return out
}

func (c *Catalog) Len() int { return len(c.ids) }
