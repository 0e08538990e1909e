package geovec

// OpenOptions configures shapefile reading behavior.
type OpenOptions struct {
	// ValidateGeometry checks every record for finite coordinates,
	// minimum vertex counts and closed polygon rings.
	ValidateGeometry bool

	// SkipBrokenRecords drops records that fail validation instead of
	// failing the whole read. Attribute rows of dropped records are
	// dropped with them.
	SkipBrokenRecords bool

	// CRS overrides the reference system when the .prj sidecar is
	// missing or unrecognized. Empty means assume EPSG:4326.
	CRS string
}

// DefaultOpenOptions returns default options: validation on, broken
// records fatal.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{
		ValidateGeometry:  true,
		SkipBrokenRecords: false,
	}
}
