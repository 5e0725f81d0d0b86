package comicarchive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ZipArchiver reads and rewrites zip containers (.cbz, .zip). Writes go
// through a temp sibling that is renamed over the original, so a failed
// write never corrupts the archive.
type ZipArchiver struct {
	path string
}

// OpenZip opens path as a zip archive, verifying it is readable.
func OpenZip(path string) (*ZipArchiver, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive %s: %w", path, err)
	}
	zr.Close()
	return &ZipArchiver{path: path}, nil
}

func (z *ZipArchiver) Name() string { return "zip" }

func (z *ZipArchiver) Path() string { return z.path }

func (z *ZipArchiver) SupportsFiles() bool { return true }

// GetFilenameList returns entry names in their archive order.
func (z *ZipArchiver) GetFilenameList() ([]string, error) {
	zr, err := zip.OpenReader(z.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive %s: %w", z.path, err)
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// ReadFile returns the contents of the named entry.
func (z *ZipArchiver) ReadFile(name string) ([]byte, error) {
	zr, err := zip.OpenReader(z.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive %s: %w", z.path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open entry %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read entry %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("entry not found: %s", name)
}

// WriteFile creates or replaces the named entry.
func (z *ZipArchiver) WriteFile(name string, data []byte) error {
	return z.rewrite(name, data, true)
}

// RemoveFile deletes the named entry. Removing a missing entry is an error.
func (z *ZipArchiver) RemoveFile(name string) error {
	names, err := z.GetFilenameList()
	if err != nil {
		return err
	}
	found := false
	for _, n := range names {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("entry not found: %s", name)
	}
	return z.rewrite(name, nil, false)
}

// rewrite copies the archive to a temp sibling, skipping the named entry,
// optionally appending a replacement, then renames it over the original.
// Untouched entries are copied raw so their compression is preserved.
func (z *ZipArchiver) rewrite(name string, data []byte, add bool) error {
	zr, err := zip.OpenReader(z.path)
	if err != nil {
		return fmt.Errorf("failed to open zip archive %s: %w", z.path, err)
	}
	defer zr.Close()

	tmpPath := filepath.Join(filepath.Dir(z.path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(z.path), uuid.New().String()))
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp archive: %w", err)
	}
	defer os.Remove(tmpPath)

	zw := zip.NewWriter(tmp)
	for _, f := range zr.File {
		if f.Name == name {
			continue
		}
		if err := copyRaw(zw, f); err != nil {
			zw.Close()
			tmp.Close()
			return err
		}
	}

	if add {
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
		hdr.SetMode(0o644)
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			zw.Close()
			tmp.Close()
			return fmt.Errorf("failed to create entry %s: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			tmp.Close()
			return fmt.Errorf("failed to write entry %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to finalize temp archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp archive: %w", err)
	}
	// zr holds the original open; close before the rename on platforms
	// that lock open files.
	zr.Close()
	if err := os.Rename(tmpPath, z.path); err != nil {
		return fmt.Errorf("failed to replace archive: %w", err)
	}
	return nil
}

// copyRaw copies an entry without recompressing it.
func copyRaw(zw *zip.Writer, f *zip.File) error {
	rc, err := f.OpenRaw()
	if err != nil {
		return fmt.Errorf("failed to open entry %s: %w", f.Name, err)
	}
	hdr := f.FileHeader
	w, err := zw.CreateRaw(&hdr)
	if err != nil {
		return fmt.Errorf("failed to copy entry %s: %w", f.Name, err)
	}
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("failed to copy entry %s: %w", f.Name, err)
	}
	return nil
}
