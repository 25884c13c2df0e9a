// Package metrics serves the built-in metric catalog: curated series
// definitions that dashboards can browse and chart without writing a query.
package metrics

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"pulseboard/internal/domain"
)

//go:embed fixtures/metrics.yaml
var fixturesYAML []byte

// Point is one labeled sample in a metric series.
type Point struct {
	Label string  `yaml:"label" json:"label"`
	Value float64 `yaml:"value" json:"value"`
}

// Metric is a curated series definition.
type Metric struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Unit        string  `yaml:"unit" json:"unit"`
	Points      []Point `yaml:"points" json:"points"`
}

// Table renders the series in the tabular shape dashboards consume.
func (m Metric) Table() domain.TableData {
	rows := make([]map[string]any, len(m.Points))
	for i, p := range m.Points {
		rows[i] = map[string]any{"label": p.Label, "value": p.Value}
	}
	return domain.TableData{Columns: []string{"label", "value"}, Rows: rows}
}

// Catalog holds the loaded metric definitions.
type Catalog struct {
	metrics map[string]Metric
	names   []string
}

type catalogDoc struct {
	Metrics []Metric `yaml:"metrics"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return parse(fixturesYAML)
}

func parse(raw []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse metric catalog: %w", err)
	}

	c := &Catalog{metrics: make(map[string]Metric, len(doc.Metrics))}
	for _, m := range doc.Metrics {
		if m.Name == "" {
			return nil, fmt.Errorf("metric catalog entry is missing a name")
		}
		if _, dup := c.metrics[m.Name]; dup {
			return nil, fmt.Errorf("duplicate metric %q in catalog", m.Name)
		}
		c.metrics[m.Name] = m
		c.names = append(c.names, m.Name)
	}
	sort.Strings(c.names)
	return c, nil
}

// Names returns the sorted metric names.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Get returns one metric by name.
func (c *Catalog) Get(name string) (Metric, error) {
	m, ok := c.metrics[name]
	if !ok {
		return Metric{}, domain.ErrNotFound("metric %q not found", name)
	}
	return m, nil
}
