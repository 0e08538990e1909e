package main

import (
	"fmt"
	"log"

	"github.com/cartona/geovec/pkg/geovec"
)

func main() {
	// Point events and the polygons to aggregate them into, both in
	// lon/lat.
	points, err := geovec.Open("data", "incidents")
	if err != nil {
		log.Fatal(err)
	}
	boroughs, err := geovec.Open("data", "boroughs")
	if err != nil {
		log.Fatal(err)
	}

	// Drop points outside the study area
	clipped, err := geovec.Clip(points, boroughs, geovec.ClipWithin)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Points: %d of %d inside\n", clipped.Len(), points.Len())

	// Count points per polygon, fill gaps with zero
	counted, err := geovec.CountIn(clipped, boroughs, "count")
	if err != nil {
		log.Fatal(err)
	}
	geovec.Normalize(counted, "count")

	// Render an interactive map
	opts := geovec.DefaultChoroplethOptions("count")
	opts.Title = "Incidents per borough"
	opts.Palette = "YlOrRd"
	opts.Method = geovec.Quantile

	if err := geovec.WriteChoropleth(counted, "map.html", opts); err != nil {
		log.Fatal(err)
	}
	fmt.Println("wrote map.html")
}
