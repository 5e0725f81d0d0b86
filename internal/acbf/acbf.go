// Package acbf reads and writes Advanced Comic Book Format metadata
// (http://www.acbf.info) stored as an .acbf entry inside a comic archive.
// Reads extract into the normalized metadata record; writes merge the
// record into any existing document so hand-authored structure survives.
package acbf

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"comictag/internal/comicarchive"
	"comictag/internal/metadata"
)

// Tag is the ACBF format adapter. It holds no per-archive state: the
// metadata entry name is rediscovered on every call, so one Tag can serve
// many archives and concurrent calls against independent archives are
// safe.
type Tag struct {
	logger *slog.Logger
}

// New returns an ACBF tag adapter. A nil logger falls back to
// slog.Default.
func New(logger *slog.Logger) *Tag {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tag{logger: logger}
}

// Name returns the format's display name.
func (t *Tag) Name() string { return "ACBF" }

// SupportsTags reports whether the archive can hold ACBF metadata at all.
func (t *Tag) SupportsTags(archive comicarchive.Archiver) bool {
	return archive.SupportsFiles()
}

// findMetadataEntry scans the archive for the first entry with the ACBF
// extension. Discovery is a pure function of the archive's current
// listing; nothing is cached between calls.
func findMetadataEntry(archive comicarchive.Archiver) (string, bool) {
	names, err := archive.GetFilenameList()
	if err != nil {
		return "", false
	}
	for _, n := range names {
		if strings.HasSuffix(n, FileExtension) {
			return n, true
		}
	}
	return "", false
}

// HasTags reports whether the archive contains a well-formed ACBF entry.
func (t *Tag) HasTags(archive comicarchive.Archiver) bool {
	if !t.SupportsTags(archive) {
		return false
	}
	name, ok := findMetadataEntry(archive)
	if !ok {
		return false
	}
	data, err := archive.ReadFile(name)
	if err != nil {
		return false
	}
	return isACBFBytes(data)
}

// ReadTags extracts the archive's ACBF metadata into a normalized record.
// A missing, malformed or non-ACBF entry yields an empty record, not an
// error; callers asking "what metadata does this archive have" should not
// fail because an entry is broken. An ACBF entry under an unsupported
// schema version is different: the metadata exists but cannot be trusted,
// so ErrUnsupportedVersion surfaces instead of an empty record.
func (t *Tag) ReadTags(archive comicarchive.Archiver) (*metadata.Metadata, error) {
	if !t.SupportsTags(archive) {
		return metadata.New(), nil
	}
	name, ok := findMetadataEntry(archive)
	if !ok {
		return metadata.New(), nil
	}

	data, err := archive.ReadFile(name)
	if err != nil {
		t.logger.Debug("failed to read ACBF entry", "archive", archive.Path(), "entry", name, "error", err)
		return metadata.New(), nil
	}

	doc, err := loadDocument(data)
	if err != nil {
		if errors.Is(err, ErrUnsupportedVersion) {
			return nil, fmt.Errorf("entry %s: %w", name, err)
		}
		t.logger.Debug("ignoring unreadable ACBF entry", "archive", archive.Path(), "entry", name, "error", err)
		return metadata.New(), nil
	}

	names, err := archive.GetFilenameList()
	if err != nil {
		names = nil
	}
	return extractMetadata(doc.Root(), metadata.FilterPageNames(names)), nil
}

// ReadRawTags returns the parsed-and-normalized document re-serialized as
// text, for display rather than storage. Unlike ReadTags, a broken entry
// surfaces as an error here; empty text means no entry exists.
func (t *Tag) ReadRawTags(archive comicarchive.Archiver) (string, error) {
	name, ok := findMetadataEntry(archive)
	if !ok {
		return "", nil
	}

	data, err := archive.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read entry %s: %w", name, err)
	}
	doc, err := loadDocument(data)
	if err != nil {
		return "", err
	}

	out, err := serializeRoot(doc.Root())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// WriteTags merges the record into the archive's ACBF entry, creating the
// entry under the default name when none exists. An existing entry that
// cannot be parsed, or that carries an unsupported schema version,
// surfaces as an error rather than being overwritten.
func (t *Tag) WriteTags(md *metadata.Metadata, archive comicarchive.Archiver) error {
	if !t.SupportsTags(archive) {
		t.logger.Warn("archive does not support ACBF metadata",
			"archive", archive.Path(), "format", archive.Name())
		return ErrUnsupportedArchive
	}

	data, name, err := t.renderTags(md, archive)
	if err != nil {
		return err
	}
	if err := archive.WriteFile(name, data); err != nil {
		return fmt.Errorf("failed to write entry %s: %w", name, err)
	}
	return nil
}

// renderTags produces the serialized document a write would store, plus
// the entry name it would use, without touching the archive. The diff
// command uses this for dry runs.
func (t *Tag) renderTags(md *metadata.Metadata, archive comicarchive.Archiver) ([]byte, string, error) {
	var existing []byte
	name, ok := findMetadataEntry(archive)
	if ok {
		data, err := archive.ReadFile(name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read existing entry %s: %w", name, err)
		}
		existing = data
	} else {
		name = DefaultFileName
	}

	root, err := mergeMetadata(md, existing)
	if err != nil {
		return nil, "", err
	}
	out, err := serializeRoot(root)
	if err != nil {
		return nil, "", err
	}
	return out, name, nil
}

// RenderTags is the exported dry-run surface: the bytes and entry name a
// WriteTags call would produce for this archive.
func (t *Tag) RenderTags(md *metadata.Metadata, archive comicarchive.Archiver) ([]byte, string, error) {
	if !t.SupportsTags(archive) {
		return nil, "", ErrUnsupportedArchive
	}
	return t.renderTags(md, archive)
}

// RemoveTags deletes the archive's ACBF entry. An entry that does not
// hold an ACBF document is left alone: removal only destroys what this
// format owns.
func (t *Tag) RemoveTags(archive comicarchive.Archiver) error {
	if !t.SupportsTags(archive) {
		return ErrUnsupportedArchive
	}
	name, ok := findMetadataEntry(archive)
	if !ok {
		return fmt.Errorf("no ACBF metadata entry in %s", archive.Path())
	}
	data, err := archive.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read entry %s: %w", name, err)
	}
	if !isACBFBytes(data) {
		return fmt.Errorf("refusing to remove entry %s: %w", name, ErrNotACBF)
	}
	if err := archive.RemoveFile(name); err != nil {
		return fmt.Errorf("failed to remove entry %s: %w", name, err)
	}
	return nil
}
