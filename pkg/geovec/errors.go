package geovec

import "fmt"

// NotFoundError indicates a required shapefile component is missing.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("shapefile component not found: %s", e.Path)
}

// FormatError indicates the shapefile component files are malformed
// or inconsistent with each other.
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

// UnsupportedProjectionError indicates an unknown CRS identifier.
type UnsupportedProjectionError struct {
	CRS string
}

func (e *UnsupportedProjectionError) Error() string {
	return fmt.Sprintf("unsupported projection %q (supported: %v)", e.CRS, SupportedCRS())
}

// CRSMismatchError indicates two layers in one operation carry
// different reference systems. Reproject one of them first.
type CRSMismatchError struct {
	A, B string
}

func (e *CRSMismatchError) Error() string {
	return fmt.Sprintf("layers use different reference systems: %s vs %s", e.A, e.B)
}
