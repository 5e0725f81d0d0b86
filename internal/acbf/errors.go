package acbf

import "errors"

var (
	// ErrNotACBF means the document's root tag is not ACBF at all.
	ErrNotACBF = errors.New("not an ACBF document")

	// ErrUnsupportedVersion means the root tag is ACBF but the namespace
	// is not one of the supported schema versions. Merging into such a
	// document could violate structural assumptions, so it is never
	// treated as "no metadata".
	ErrUnsupportedVersion = errors.New("unsupported ACBF version")

	// ErrMalformed means the entry could not be parsed as XML.
	ErrMalformed = errors.New("malformed ACBF document")

	// ErrUnsupportedArchive means the archive cannot store named files,
	// so it cannot hold ACBF metadata.
	ErrUnsupportedArchive = errors.New("archive does not support file metadata")
)
