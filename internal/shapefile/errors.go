package shapefile

import "fmt"

// NotFoundError indicates a required component file of the shapefile
// triple is missing.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("shapefile component not found: %s", e.Path)
}

// FormatError indicates the component files are malformed or disagree
// with each other (bad magic, truncated record, mismatched counts).
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("malformed shapefile %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("malformed shapefile: %s", e.Reason)
}

// AlreadyExistsError indicates the write destination exists and
// overwrite was not requested.
type AlreadyExistsError struct {
	Path string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("destination already exists: %s (pass overwrite to replace)", e.Path)
}

// GeometryError indicates a geometry record cannot be represented in
// the target shape type.
type GeometryError struct {
	Record int
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Record, e.Reason)
}
