// Package comicarchive provides access to comic book container files. An
// Archiver exposes the archive as a flat namespace of named entries; tag
// adapters layer their metadata formats on top of that contract and never
// touch the container directly.
package comicarchive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Archiver is the contract every container format implements.
type Archiver interface {
	// Name identifies the container format ("zip", ...).
	Name() string
	// Path returns the container's filesystem path.
	Path() string
	// GetFilenameList returns entry names in archive order.
	GetFilenameList() ([]string, error)
	// ReadFile returns the contents of a named entry.
	ReadFile(name string) ([]byte, error)
	// WriteFile creates or replaces a named entry.
	WriteFile(name string, data []byte) error
	// RemoveFile deletes a named entry.
	RemoveFile(name string) error
	// SupportsFiles reports whether the container can store arbitrary
	// named files. Formats that cannot (e.g. single-image containers)
	// cannot hold file-based metadata.
	SupportsFiles() bool
}

// Open selects an Archiver implementation by file extension.
func Open(path string) (Archiver, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cbz", ".zip":
		return OpenZip(path)
	default:
		return nil, fmt.Errorf("unsupported archive type: %s", filepath.Ext(path))
	}
}
