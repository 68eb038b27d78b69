package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Container ids known to the dashboard.
const (
	ScoreButtons        = "score-buttons"
	LegendContainer     = "legend-container"
	GraphContainer      = "graph-container"
	ComparisonContainer = "comparison-container"
	RadarContainer      = "radar-container"
	Tooltip             = "tooltip"
	FilmCount           = "film-count"
	SortMethod          = "sort-method"
	LoadingOverlay      = "loading-overlay"
)

// AllContainers lists every container in page order.
var AllContainers = []string{
	LoadingOverlay,
	ScoreButtons,
	LegendContainer,
	GraphContainer,
	FilmCount,
	SortMethod,
	ComparisonContainer,
	RadarContainer,
	Tooltip,
}

// Layout declares which containers exist on the page. Containers left out are
// never rendered.
type Layout struct {
	Title      string   `yaml:"title"`
	Containers []string `yaml:"containers"`
}

// DefaultLayout has every container.
func DefaultLayout() *Layout {
	return &Layout{
		Title:      "Critics vs Audiences",
		Containers: append([]string(nil), AllContainers...),
	}
}

// Has reports whether id is part of the layout.
func (l *Layout) Has(id string) bool {
	for _, c := range l.Containers {
		if c == id {
			return true
		}
	}
	return false
}

// LoadLayout reads a YAML layout file. A missing file yields the default
// layout; unknown container ids are rejected.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultLayout(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("layout config: %w", err)
	}
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("layout config: %w", err)
	}
	if l.Title == "" {
		l.Title = DefaultLayout().Title
	}
	if l.Containers == nil {
		l.Containers = DefaultLayout().Containers
	}
	known := make(map[string]bool, len(AllContainers))
	for _, id := range AllContainers {
		known[id] = true
	}
	for i, id := range l.Containers {
		if !known[id] {
			return nil, fmt.Errorf("layout config: containers[%d] unknown id %q", i, id)
		}
	}
	return &l, nil
}
