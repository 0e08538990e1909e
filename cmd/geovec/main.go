// Command geovec runs the shapefile batch pipeline described by a
// YAML configuration: load, inspect, clip, reproject, aggregate,
// render a choropleth, grid and intersect, and export the result.
package main

import (
	"os"

	"github.com/cartona/geovec/internal/config"
	"github.com/cartona/geovec/pkg/geovec"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Options struct {
	ConfigFile string `short:"c" long:"config"    env:"CONFIG_FILE" description:"Path to pipeline configuration file" default:"pipeline.yaml"`
	LogLevel   string `short:"l" long:"log-level" env:"LOG_LEVEL"   description:"Log level (trace, debug, info, warn, error)" default:"info"`
	Overwrite  bool   `short:"f" long:"force"     description:"Force overwrite of existing output files"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	setupLogger(opts.LogLevel)

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Overwrite {
		cfg.Output.Overwrite = true
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Pipeline failed")
	}
	log.Info().Msg("Pipeline finished")
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// run executes the pipeline steps in order. The first failing step
// terminates the run; there are no retries.
func run(cfg *config.Config) error {
	// Load and inspect.
	points, err := geovec.Open(cfg.Points.Dir, cfg.Points.Layer)
	if err != nil {
		return err
	}
	logSummary("Loaded points", points)

	boundary, err := geovec.Open(cfg.Boundary.Dir, cfg.Boundary.Layer)
	if err != nil {
		return err
	}
	logSummary("Loaded boundary", boundary)

	// Bring both layers onto the working reference system.
	workCRS := cfg.TargetCRS
	if workCRS == "" {
		workCRS = boundary.CRS()
	}
	if points, err = geovec.Reproject(points, workCRS); err != nil {
		return err
	}
	if boundary, err = geovec.Reproject(boundary, workCRS); err != nil {
		return err
	}
	log.Info().Str("crs", workCRS).Msg("Reprojected layers")

	// Clip points to the boundary.
	mode := geovec.ClipWithin
	if cfg.ClipMode == "bounds" {
		mode = geovec.ClipBounds
	}
	clipped, err := geovec.Clip(points, boundary, mode)
	if err != nil {
		return err
	}
	log.Info().
		Int("kept", clipped.Len()).
		Int("dropped", points.Len()-clipped.Len()).
		Stringer("mode", mode).
		Msg("Clipped points to boundary")

	// Aggregate point counts into the boundary polygons.
	counted, err := geovec.CountIn(clipped, boundary, cfg.CountField)
	if err != nil {
		return err
	}
	if n := geovec.Normalize(counted, cfg.CountField); n > 0 {
		log.Debug().Int("rows", n).Msg("Normalized empty counts to zero")
	}
	log.Info().Str("field", cfg.CountField).Msg("Aggregated points into polygons")

	result := counted

	// Optional grid: tile the boundary extent, re-aggregate, and trim
	// the cells to the boundary outline.
	if cfg.Grid.Cells > 0 {
		grid, err := geovec.BuildGrid(boundary.Bound(), cfg.Grid.Cells, workCRS)
		if err != nil {
			return err
		}
		log.Info().Int("cells", grid.Len()).Msg("Built grid")

		gridCounts, err := geovec.CountIn(clipped, grid, cfg.CountField)
		if err != nil {
			return err
		}
		geovec.Normalize(gridCounts, cfg.CountField)

		trimmed, err := geovec.Intersect(gridCounts, boundary)
		if err != nil {
			return err
		}
		log.Info().
			Int("kept", trimmed.Len()).
			Int("dropped", gridCounts.Len()-trimmed.Len()).
			Msg("Trimmed grid to boundary")

		result = trimmed
	}

	// Optional choropleth.
	if cfg.Map.Output != "" {
		renderable := result
		if renderable.CRS() != geovec.EPSG4326 {
			if renderable, err = geovec.Reproject(renderable, geovec.EPSG4326); err != nil {
				return err
			}
		}

		mapOpts := geovec.ChoroplethOptions{
			Field:       cfg.CountField,
			Bins:        cfg.Map.Bins,
			Palette:     cfg.Map.Palette,
			Zoom:        cfg.Map.Zoom,
			Title:       cfg.Map.Title,
			Attribution: cfg.Map.Attribution,
			Minify:      cfg.Map.Minify,
		}
		if cfg.Map.Method == "quantile" {
			mapOpts.Method = geovec.Quantile
		}
		if cfg.Map.Center != [2]float64{} {
			mapOpts.Center[0] = cfg.Map.Center[0]
			mapOpts.Center[1] = cfg.Map.Center[1]
		}

		if err := geovec.WriteChoropleth(renderable, cfg.Map.Output, mapOpts); err != nil {
			return err
		}
		log.Info().Str("path", cfg.Map.Output).Msg("Rendered choropleth")
	}

	// Export.
	if cfg.Output.Dir != "" {
		if err := geovec.Write(result, cfg.Output.Dir, cfg.Output.Layer, cfg.Output.Overwrite); err != nil {
			return err
		}
		log.Info().
			Str("dir", cfg.Output.Dir).
			Str("layer", cfg.Output.Layer).
			Msg("Wrote result shapefile")
	}

	return nil
}

func logSummary(msg string, l *geovec.Layer) {
	s := l.Summary()
	log.Info().
		Str("layer", s.Name).
		Str("crs", s.CRS).
		Stringer("type", s.GeometryType).
		Int("shapes", s.Shapes).
		Int("fields", s.FieldCount).
		Msg(msg)
}
