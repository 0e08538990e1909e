package geovec

import (
	"fmt"
	"sort"
)

// Sequential color ramps (light to dark), after the ColorBrewer
// schemes commonly used for choropleths.
var palettes = map[string][]string{
	"YlOrRd": {"#ffffcc", "#ffeda0", "#fed976", "#feb24c", "#fd8d3c", "#fc4e2a", "#e31a1c", "#bd0026", "#800026"},
	"YlGnBu": {"#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4", "#1d91c0", "#225ea8", "#253494", "#081d58"},
	"Blues":  {"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"},
	"Greens": {"#f7fcf5", "#e5f5e0", "#c7e9c0", "#a1d99b", "#74c476", "#41ab5d", "#238b45", "#006d2c", "#00441b"},
	"Reds":   {"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#a50f15", "#67000d"},
}

// Palettes returns the available palette names, sorted.
func Palettes() []string {
	out := make([]string, 0, len(palettes))
	for name := range palettes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// paletteColors picks n colors evenly spread across the named ramp.
func paletteColors(name string, n int) ([]string, error) {
	ramp, ok := palettes[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette %q (available: %v)", name, Palettes())
	}
	if n < 1 {
		return nil, fmt.Errorf("palette needs at least 1 color, got %d", n)
	}
	if n > len(ramp) {
		return nil, fmt.Errorf("palette %q supports at most %d classes, got %d", name, len(ramp), n)
	}

	colors := make([]string, n)
	if n == 1 {
		colors[0] = ramp[len(ramp)/2]
		return colors, nil
	}
	for i := 0; i < n; i++ {
		colors[i] = ramp[i*(len(ramp)-1)/(n-1)]
	}
	return colors, nil
}
