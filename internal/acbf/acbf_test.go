package acbf

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"comictag/internal/comicarchive"
	"comictag/internal/metadata"
)

// memArchive is an in-memory Archiver for exercising the tag adapter
// without touching the filesystem.
type memArchive struct {
	files    map[string][]byte
	supports bool
}

func newMemArchive(files map[string][]byte) *memArchive {
	if files == nil {
		files = map[string][]byte{}
	}
	return &memArchive{files: files, supports: true}
}

func (m *memArchive) Name() string { return "mem" }
func (m *memArchive) Path() string { return "mem://archive" }

func (m *memArchive) GetFilenameList() ([]string, error) {
	names := make([]string, 0, len(m.files))
	for n := range m.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (m *memArchive) ReadFile(name string) ([]byte, error) {
	data, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("no such entry: %s", name)
	}
	return data, nil
}

func (m *memArchive) WriteFile(name string, data []byte) error {
	m.files[name] = data
	return nil
}

func (m *memArchive) RemoveFile(name string) error {
	if _, ok := m.files[name]; !ok {
		return fmt.Errorf("no such entry: %s", name)
	}
	delete(m.files, name)
	return nil
}

func (m *memArchive) SupportsFiles() bool { return m.supports }

var _ comicarchive.Archiver = (*memArchive)(nil)

const sampleDoc = `<ACBF xmlns="http://www.acbf.info/xml/acbf/1.1">
	<meta-data><book-info>
		<sequence title="Sample">3</sequence>
		<book-title>Third Time Lucky</book-title>
	</book-info></meta-data>
	<body><page><image href="p01.jpg"/></page></body>
</ACBF>`

func TestHasTags(t *testing.T) {
	tag := New(nil)

	t.Run("well-formed entry", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{
			"p01.jpg":       {0xff},
			"metadata.acbf": []byte(sampleDoc),
		})
		if !tag.HasTags(archive) {
			t.Error("HasTags = false, want true")
		}
	})

	t.Run("no entry", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{"p01.jpg": {0xff}})
		if tag.HasTags(archive) {
			t.Error("HasTags = true, want false")
		}
	})

	t.Run("entry is not ACBF", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{
			"metadata.acbf": []byte(`<Comic/>`),
		})
		if tag.HasTags(archive) {
			t.Error("HasTags = true for a non-ACBF root")
		}
	})

	t.Run("unsupported archive", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{
			"metadata.acbf": []byte(sampleDoc),
		})
		archive.supports = false
		if tag.HasTags(archive) {
			t.Error("HasTags = true for an archive without file support")
		}
	})
}

func TestReadTags(t *testing.T) {
	tag := New(nil)

	t.Run("populated entry", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{
			"cover.jpg":     {0xff},
			"p01.jpg":       {0xff},
			"metadata.acbf": []byte(sampleDoc),
		})
		md, err := tag.ReadTags(archive)
		if err != nil {
			t.Fatalf("ReadTags: %v", err)
		}
		if md.IsEmpty {
			t.Fatal("record is empty")
		}
		if md.Series != "Sample" || md.Issue != "3" || md.Title != "Third Time Lucky" {
			t.Errorf("series/issue/title = %q/%q/%q", md.Series, md.Issue, md.Title)
		}
	})

	t.Run("missing entry yields empty record", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{"p01.jpg": {0xff}})
		md, err := tag.ReadTags(archive)
		if err != nil {
			t.Fatalf("ReadTags: %v", err)
		}
		if !md.IsEmpty {
			t.Error("record should be empty when no entry exists")
		}
	})

	t.Run("malformed entry yields empty record", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{
			"metadata.acbf": []byte(`<ACBF><broken`),
		})
		md, err := tag.ReadTags(archive)
		if err != nil {
			t.Fatalf("ReadTags: %v", err)
		}
		if !md.IsEmpty {
			t.Error("record should be empty for a malformed entry")
		}
	})

	t.Run("unsupported version surfaces an error", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{
			"metadata.acbf": []byte(`<ACBF xmlns="http://www.acbf.info/xml/acbf/9.9"><meta-data/></ACBF>`),
		})
		_, err := tag.ReadTags(archive)
		if !errors.Is(err, ErrUnsupportedVersion) {
			t.Fatalf("err = %v, want ErrUnsupportedVersion; a newer-format entry must not look like no metadata", err)
		}
	})
}

func TestReadRawTags(t *testing.T) {
	tag := New(nil)

	t.Run("no entry is empty text, no error", func(t *testing.T) {
		archive := newMemArchive(nil)
		raw, err := tag.ReadRawTags(archive)
		if err != nil || raw != "" {
			t.Errorf("raw = %q, err = %v", raw, err)
		}
	})

	t.Run("entry is re-serialized without namespace prefixes", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{
			"metadata.acbf": []byte(`<ns:ACBF xmlns:ns="http://www.acbf.info/xml/acbf/1.2"><ns:meta-data/></ns:ACBF>`),
		})
		raw, err := tag.ReadRawTags(archive)
		if err != nil {
			t.Fatalf("ReadRawTags: %v", err)
		}
		if strings.Contains(raw, "ns:") {
			t.Errorf("raw still carries prefixes:\n%s", raw)
		}
		if !strings.Contains(raw, "<ACBF") || !strings.Contains(raw, "<meta-data") {
			t.Errorf("raw missing expected elements:\n%s", raw)
		}
	})

	t.Run("malformed entry surfaces an error", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{
			"metadata.acbf": []byte(`<ACBF><broken`),
		})
		if _, err := tag.ReadRawTags(archive); !errors.Is(err, ErrMalformed) {
			t.Errorf("err = %v, want ErrMalformed", err)
		}
	})
}

func TestWriteTags(t *testing.T) {
	tag := New(nil)

	t.Run("creates entry under the default name", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{
			"cover.jpg": {0xff},
			"p01.jpg":   {0xff},
		})
		md := metadata.New()
		md.Series = "Fresh"
		md.Issue = "1"
		md.IsEmpty = false

		if err := tag.WriteTags(md, archive); err != nil {
			t.Fatalf("WriteTags: %v", err)
		}
		if _, ok := archive.files[DefaultFileName]; !ok {
			t.Fatalf("entry %s not created; archive holds %v", DefaultFileName, archive.files)
		}

		got, err := tag.ReadTags(archive)
		if err != nil {
			t.Fatalf("ReadTags: %v", err)
		}
		if got.Series != "Fresh" || got.Issue != "1" {
			t.Errorf("read back = %q/%q", got.Series, got.Issue)
		}
	})

	t.Run("reuses the existing entry name", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{
			"custom_name.acbf": []byte(sampleDoc),
		})
		md := metadata.New()
		md.Series = "Sample"
		md.Issue = "4"

		if err := tag.WriteTags(md, archive); err != nil {
			t.Fatalf("WriteTags: %v", err)
		}
		if _, ok := archive.files["custom_name.acbf"]; !ok {
			t.Error("existing entry name was not reused")
		}
		if _, ok := archive.files[DefaultFileName]; ok {
			t.Error("a second entry was created under the default name")
		}
	})

	t.Run("malformed existing entry refuses the write", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{
			"metadata.acbf": []byte(`<ACBF><broken`),
		})
		md := metadata.New()
		md.Series = "X"

		err := tag.WriteTags(md, archive)
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("err = %v, want ErrMalformed", err)
		}
		if string(archive.files["metadata.acbf"]) != `<ACBF><broken` {
			t.Error("broken entry was modified by a failed write")
		}
	})

	t.Run("unsupported archive", func(t *testing.T) {
		archive := newMemArchive(nil)
		archive.supports = false
		md := metadata.New()

		if err := tag.WriteTags(md, archive); !errors.Is(err, ErrUnsupportedArchive) {
			t.Errorf("err = %v, want ErrUnsupportedArchive", err)
		}
	})
}

func TestRenderTags(t *testing.T) {
	tag := New(nil)
	archive := newMemArchive(map[string][]byte{
		"existing.acbf": []byte(sampleDoc),
	})
	md := metadata.New()
	md.Series = "Sample"
	md.Issue = "5"

	data, name, err := tag.RenderTags(md, archive)
	if err != nil {
		t.Fatalf("RenderTags: %v", err)
	}
	if name != "existing.acbf" {
		t.Errorf("entry name = %q", name)
	}
	if !strings.Contains(string(data), ">5</sequence>") {
		t.Error("rendered document missing the new issue number")
	}
	// Dry run: the archive itself is untouched.
	if string(archive.files["existing.acbf"]) != sampleDoc {
		t.Error("RenderTags modified the archive")
	}
}

func TestRemoveTags(t *testing.T) {
	tag := New(nil)

	t.Run("removes the entry", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{
			"metadata.acbf": []byte(sampleDoc),
			"p01.jpg":       {0xff},
		})
		if err := tag.RemoveTags(archive); err != nil {
			t.Fatalf("RemoveTags: %v", err)
		}
		if _, ok := archive.files["metadata.acbf"]; ok {
			t.Error("entry still present")
		}
		if _, ok := archive.files["p01.jpg"]; !ok {
			t.Error("unrelated entry was removed")
		}
	})

	t.Run("no entry is an error", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{"p01.jpg": {0xff}})
		if err := tag.RemoveTags(archive); err == nil {
			t.Error("expected an error when no entry exists")
		}
	})

	t.Run("refuses to remove a non-ACBF entry", func(t *testing.T) {
		archive := newMemArchive(map[string][]byte{
			"metadata.acbf": []byte(`<Comic/>`),
		})
		if err := tag.RemoveTags(archive); !errors.Is(err, ErrNotACBF) {
			t.Fatalf("err = %v, want ErrNotACBF", err)
		}
		if _, ok := archive.files["metadata.acbf"]; !ok {
			t.Error("non-ACBF entry was destroyed")
		}
	})
}
