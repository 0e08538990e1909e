// Package config handles pipeline configuration loading.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LayerRef points at a shapefile on disk by directory and layer name.
type LayerRef struct {
	Dir   string `yaml:"dir"`
	Layer string `yaml:"layer"`
}

// Config describes one run of the batch pipeline: inputs, the
// transformations to apply, and outputs.
type Config struct {
	// Points is the point layer to aggregate (e.g. crime incidents).
	Points LayerRef `yaml:"points"`

	// Boundary is the polygon layer used for clipping, aggregation
	// and grid trimming (e.g. borough outlines).
	Boundary LayerRef `yaml:"boundary"`

	// TargetCRS is the working reference system for the spatial
	// steps. Empty means keep the boundary layer's CRS.
	TargetCRS string `yaml:"target_crs,omitempty"`

	// ClipMode selects the clip semantic: "within" (default) or
	// "bounds".
	ClipMode string `yaml:"clip_mode,omitempty"`

	// CountField names the aggregation output column.
	CountField string `yaml:"count_field,omitempty"`

	Grid   GridConfig   `yaml:"grid"`
	Map    MapConfig    `yaml:"map"`
	Output OutputConfig `yaml:"output"`
}

// GridConfig controls the regular grid step.
type GridConfig struct {
	// Cells is the cell count per axis. Zero skips the grid step.
	Cells int `yaml:"cells,omitempty"`
}

// MapConfig controls the choropleth step.
type MapConfig struct {
	// Output is the HTML file path. Empty skips rendering.
	Output      string     `yaml:"output,omitempty"`
	Bins        int        `yaml:"bins,omitempty"`
	Palette     string     `yaml:"palette,omitempty"`
	Method      string     `yaml:"method,omitempty"` // "equal" or "quantile"
	Center      [2]float64 `yaml:"center,omitempty"` // [lon, lat]
	Zoom        int        `yaml:"zoom,omitempty"`
	Title       string     `yaml:"title,omitempty"`
	Attribution string     `yaml:"attribution,omitempty"`
	Minify      bool       `yaml:"minify,omitempty"`
}

// OutputConfig controls the final shapefile export.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	Layer     string `yaml:"layer"`
	Overwrite bool   `yaml:"overwrite,omitempty"`
}

// Load reads and parses the YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ClipMode == "" {
		c.ClipMode = "within"
	}
	if c.CountField == "" {
		c.CountField = "count"
	}
	if c.Map.Bins == 0 {
		c.Map.Bins = 5
	}
	if c.Map.Palette == "" {
		c.Map.Palette = "YlOrRd"
	}
	if c.Map.Method == "" {
		c.Map.Method = "equal"
	}
	if c.Map.Zoom == 0 {
		c.Map.Zoom = 12
	}
	if c.Output.Layer == "" {
		c.Output.Layer = "result"
	}
}

func (c *Config) validate() error {
	if c.Points.Dir == "" || c.Points.Layer == "" {
		return fmt.Errorf("points layer is required")
	}
	if c.Boundary.Dir == "" || c.Boundary.Layer == "" {
		return fmt.Errorf("boundary layer is required")
	}
	switch c.ClipMode {
	case "within", "bounds":
	default:
		return fmt.Errorf("clip_mode must be \"within\" or \"bounds\", got %q", c.ClipMode)
	}
	switch c.Map.Method {
	case "equal", "quantile":
	default:
		return fmt.Errorf("map method must be \"equal\" or \"quantile\", got %q", c.Map.Method)
	}
	if c.Grid.Cells < 0 {
		return fmt.Errorf("grid cells must be non-negative, got %d", c.Grid.Cells)
	}
	return nil
}
