package analyzer

import "fmt"

// UnsupportedFormatError means no normalizer can handle the file: either the
// extension is unregistered or the registered normalizer's runtime dependency
// is unavailable.
type UnsupportedFormatError struct {
	Path   string
	Ext    string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported format %q for %s: %s", e.Ext, e.Path, e.Reason)
	}
	return fmt.Sprintf("unsupported format %q for %s", e.Ext, e.Path)
}

// FormatError means the normalizer for a recognized format could not parse
// the file.
type FormatError struct {
	Format string
	Path   string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: invalid %s model: %v", e.Path, e.Format, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
