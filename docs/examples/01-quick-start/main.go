package main

import (
	"fmt"
	"log"

	"github.com/cartona/geovec/pkg/geovec"
)

func main() {
	// Read the shapefile triple data/boroughs.{shp,shx,dbf}
	layer, err := geovec.Open("data", "boroughs")
	if err != nil {
		log.Fatal(err)
	}

	// Print layer info
	fmt.Println(layer.Summary())

	// Reproject to web mercator
	projected, err := geovec.Reproject(layer, geovec.EPSG3857)
	if err != nil {
		log.Fatal(err)
	}

	// Write the result alongside a .prj sidecar
	if err := geovec.Write(projected, "out", "boroughs_3857", true); err != nil {
		log.Fatal(err)
	}
	fmt.Println("wrote out/boroughs_3857.{shp,shx,dbf,prj}")
}
