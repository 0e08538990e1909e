package geovec

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
)

// BinMethod selects how attribute values are divided into classes.
type BinMethod int

const (
	// EqualInterval splits the value range into equally wide classes.
	EqualInterval BinMethod = iota

	// Quantile puts an equal number of shapes in each class.
	Quantile
)

// ChoroplethOptions configures the interactive map output. Palette
// and bin configuration are explicit parameters; the renderer keeps
// no implicit styling state.
type ChoroplethOptions struct {
	// Field is the numeric attribute to color by. Required.
	Field string

	// Bins is the number of color classes. Default 5.
	Bins int

	// Palette names the color ramp. Default "YlOrRd". See Palettes.
	Palette string

	// Method selects the classification. Default EqualInterval.
	Method BinMethod

	// Center is the initial map center as lon/lat. The zero value
	// centers on the layer extent.
	Center orb.Point

	// Zoom is the initial zoom level. Default 12.
	Zoom int

	// Title is shown above the map.
	Title string

	// Attribution is appended to the base layer attribution.
	Attribution string

	// Minify compacts the generated HTML.
	Minify bool
}

// DefaultChoroplethOptions returns render defaults for a field.
func DefaultChoroplethOptions(field string) ChoroplethOptions {
	return ChoroplethOptions{
		Field:   field,
		Bins:    5,
		Palette: "YlOrRd",
		Method:  EqualInterval,
		Zoom:    12,
	}
}

// RenderChoropleth renders the layer as a self-contained interactive
// HTML map: polygons colored by the binned attribute, a legend, and
// per-polygon tooltips.
//
// The layer must be a polygon layer in EPSG:4326 (web maps speak
// lon/lat; Reproject first if needed) and every row must carry a
// non-nil value for the field — run Normalize after aggregation.
func RenderChoropleth(l *Layer, opts ChoroplethOptions) ([]byte, error) {
	if l.geomType != GeometryPolygon {
		return nil, fmt.Errorf("choropleth requires a polygon layer, got %v", l.geomType)
	}
	if l.crs != EPSG4326 {
		return nil, fmt.Errorf("choropleth requires %s coordinates, layer is %s", EPSG4326, l.crs)
	}
	if l.Len() == 0 {
		return nil, fmt.Errorf("cannot render an empty layer")
	}
	if opts.Field == "" {
		return nil, fmt.Errorf("choropleth field is required")
	}
	if opts.Bins == 0 {
		opts.Bins = 5
	}
	if opts.Palette == "" {
		opts.Palette = "YlOrRd"
	}
	if opts.Zoom == 0 {
		opts.Zoom = 12
	}

	values := make([]float64, l.Len())
	for i := range l.rows {
		v, ok := numericValue(l.rows[i][opts.Field])
		if !ok {
			return nil, fmt.Errorf("shape %d has no value for %q; normalize before rendering", i, opts.Field)
		}
		values[i] = v
	}

	edges, err := binEdges(values, opts.Bins, opts.Method)
	if err != nil {
		return nil, err
	}
	colors, err := paletteColors(opts.Palette, len(edges)-1)
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for i, g := range l.geoms {
		if g == nil {
			continue
		}
		feature := geojson.NewFeature(g)
		for k, v := range l.rows[i] {
			feature.Properties[k] = v
		}
		feature.Properties["__value"] = values[i]
		feature.Properties["__color"] = colors[binIndex(edges, values[i])]
		fc.Append(feature)
	}
	payload, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal features: %w", err)
	}

	center := opts.Center
	if center == (orb.Point{}) {
		center = l.Bound().Center()
	}

	legend := make([]legendEntry, len(colors))
	for i := range colors {
		legend[i] = legendEntry{
			Color: colors[i],
			Label: fmt.Sprintf("%s – %s", formatBreak(edges[i]), formatBreak(edges[i+1])),
		}
	}

	var buf bytes.Buffer
	err = mapTemplate.Execute(&buf, mapPage{
		Title:       opts.Title,
		Field:       opts.Field,
		Lat:         center[1],
		Lon:         center[0],
		Zoom:        opts.Zoom,
		Attribution: opts.Attribution,
		GeoJSON:     template.JS(payload),
		Legend:      legend,
	})
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	if !opts.Minify {
		return buf.Bytes(), nil
	}
	m := minify.New()
	m.AddFunc("text/html", minhtml.Minify)
	out, err := m.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify: %w", err)
	}
	return out, nil
}

// WriteChoropleth renders the map and writes it to a file.
func WriteChoropleth(l *Layer, path string, opts ChoroplethOptions) error {
	data, err := RenderChoropleth(l, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// numericValue coerces an attribute value to float64.
func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// binEdges computes bins+1 class edges over the values.
func binEdges(values []float64, bins int, method BinMethod) ([]float64, error) {
	if bins < 1 {
		return nil, fmt.Errorf("need at least 1 bin, got %d", bins)
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if min == max {
		// All values equal: one degenerate class.
		return []float64{min, max}, nil
	}

	edges := make([]float64, bins+1)
	switch method {
	case EqualInterval:
		for i := 0; i <= bins; i++ {
			t := float64(i) / float64(bins)
			edges[i] = min*(1-t) + max*t
		}
	case Quantile:
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		for i := 0; i <= bins; i++ {
			pos := float64(i) / float64(bins) * float64(len(sorted)-1)
			edges[i] = sorted[int(pos)]
		}
	default:
		return nil, fmt.Errorf("unknown bin method %d", method)
	}
	return edges, nil
}

// binIndex returns the class index of a value; the last class is
// closed on both ends.
func binIndex(edges []float64, v float64) int {
	last := len(edges) - 2
	for i := 0; i < last; i++ {
		if v < edges[i+1] {
			return i
		}
	}
	if last < 0 {
		return 0
	}
	return last
}

func formatBreak(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

type legendEntry struct {
	Color string
	Label string
}

type mapPage struct {
	Title       string
	Field       string
	Lat         float64
	Lon         float64
	Zoom        int
	Attribution string
	GeoJSON     template.JS
	Legend      []legendEntry
}

var mapTemplate = template.Must(template.New("choropleth").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{if .Title}}{{.Title}}{{else}}Choropleth{{end}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
html, body, #map { height: 100%; margin: 0; }
.map-title { position: absolute; top: 10px; left: 50px; z-index: 1000;
  background: rgba(255,255,255,.9); padding: 6px 12px; border-radius: 4px;
  font: 16px/1.4 sans-serif; }
.legend { background: rgba(255,255,255,.9); padding: 8px 10px;
  border-radius: 4px; font: 12px/1.5 sans-serif; }
.legend i { width: 14px; height: 14px; float: left; margin-right: 6px;
  opacity: .8; }
</style>
</head>
<body>
{{if .Title}}<div class="map-title">{{.Title}}</div>{{end}}
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.Lat}}, {{.Lon}}], {{.Zoom}});
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors{{if .Attribution}} | {{.Attribution}}{{end}}'
}).addTo(map);

var data = {{.GeoJSON}};

L.geoJSON(data, {
  style: function (feature) {
    return {
      fillColor: feature.properties.__color,
      fillOpacity: 0.7,
      color: '#555',
      weight: 1
    };
  },
  onEachFeature: function (feature, layer) {
    layer.bindTooltip('{{.Field}}: ' + feature.properties.__value);
  }
}).addTo(map);

var legend = L.control({position: 'bottomright'});
legend.onAdd = function () {
  var div = L.DomUtil.create('div', 'legend');
  div.innerHTML = '<strong>{{.Field}}</strong><br>';
  {{range .Legend}}div.innerHTML += '<i style="background:{{.Color}}"></i> {{.Label}}<br>';
  {{end}}return div;
};
legend.addTo(map);
</script>
</body>
</html>
`))
