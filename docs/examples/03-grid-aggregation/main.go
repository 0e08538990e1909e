package main

import (
	"fmt"
	"log"

	"github.com/cartona/geovec/pkg/geovec"
)

func main() {
	points, err := geovec.Open("data", "incidents")
	if err != nil {
		log.Fatal(err)
	}
	boundary, err := geovec.Open("data", "boroughs")
	if err != nil {
		log.Fatal(err)
	}

	// Work in a planar CRS so cells are square in meters
	points, err = geovec.Reproject(points, geovec.EPSG27700)
	if err != nil {
		log.Fatal(err)
	}
	boundary, err = geovec.Reproject(boundary, geovec.EPSG27700)
	if err != nil {
		log.Fatal(err)
	}

	// A 20x20 grid over the boundary extent
	grid, err := geovec.BuildGrid(boundary.Bound(), 20, geovec.EPSG27700)
	if err != nil {
		log.Fatal(err)
	}

	// Count points per cell
	counted, err := geovec.CountIn(points, grid, "count")
	if err != nil {
		log.Fatal(err)
	}
	geovec.Normalize(counted, "count")

	// Trim cells to the irregular boundary
	trimmed, err := geovec.Intersect(counted, boundary)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Cells: %d of %d intersect the boundary\n", trimmed.Len(), grid.Len())

	if err := geovec.Write(trimmed, "out", "density_grid", true); err != nil {
		log.Fatal(err)
	}
	fmt.Println("wrote out/density_grid.{shp,shx,dbf,prj}")
}
