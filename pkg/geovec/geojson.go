package geovec

import (
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection converts the layer to a GeoJSON feature
// collection. Every attribute row becomes the matching feature's
// properties.
func FeatureCollection(l *Layer) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, g := range l.geoms {
		if g == nil {
			continue
		}
		feature := geojson.NewFeature(g)
		for k, v := range l.rows[i] {
			feature.Properties[k] = v
		}
		fc.Append(feature)
	}
	return fc
}

// MarshalGeoJSON serializes the layer as a GeoJSON document.
func MarshalGeoJSON(l *Layer) ([]byte, error) {
	return FeatureCollection(l).MarshalJSON()
}
