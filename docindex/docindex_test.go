package docindex

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/pixel-reader/epubcore/archive"
	"github.com/pixel-reader/epubcore/epubxml"
)

func buildTestZip(t *testing.T, files map[string]string) *archive.Zip {
	t.Helper()
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "book.epub")

	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	f.Close()

	z, err := archive.Open(zipPath, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("archive.Open: %v", err)
	}
	t.Cleanup(func() { z.Close() })
	return z
}

func TestTokenCountAndEmpty(t *testing.T) {
	z := buildTestZip(t, map[string]string{
		"c0.xhtml": `<html xmlns="http://www.w3.org/1999/xhtml"><body><p>one two three</p></body></html>`,
		"c1.xhtml": `<html xmlns="http://www.w3.org/1999/xhtml"><body></body></html>`,
	})
	spine := []epubxml.ManifestItem{
		{ID: "c0", HrefAbsolute: "c0.xhtml", MediaType: epubxml.MediaTypeXHTML},
		{ID: "c1", HrefAbsolute: "c1.xhtml", MediaType: epubxml.MediaTypeXHTML},
	}

	idx := New(z, spine, nil, zaptest.NewLogger(t))

	if idx.SpineSize() != 2 {
		t.Fatalf("SpineSize = %d, want 2", idx.SpineSize())
	}
	if idx.TokenCount(0) != 1 {
		t.Errorf("TokenCount(0) = %d, want 1", idx.TokenCount(0))
	}
	if !idx.Empty(1) {
		t.Errorf("Empty(1) = false, want true")
	}
	if idx.Empty(0) {
		t.Errorf("Empty(0) = true, want false")
	}
}

func TestAddressWidthComputedLazily(t *testing.T) {
	z := buildTestZip(t, map[string]string{
		"c0.xhtml": `<html xmlns="http://www.w3.org/1999/xhtml"><body><p>hello</p></body></html>`,
	})
	spine := []epubxml.ManifestItem{{ID: "c0", HrefAbsolute: "c0.xhtml", MediaType: epubxml.MediaTypeXHTML}}

	idx := New(z, spine, nil, zaptest.NewLogger(t))

	if w := idx.AddressWidth(0); w != 5 {
		t.Errorf("AddressWidth(0) = %d, want 5", w)
	}
}

func TestAddressWidthUsesSeededCacheWithoutTokenizing(t *testing.T) {
	spine := []epubxml.ManifestItem{{ID: "c0", HrefAbsolute: "missing.xhtml", MediaType: epubxml.MediaTypeXHTML}}
	idx := New(nil, spine, []uint32{42}, zaptest.NewLogger(t))

	if w := idx.AddressWidth(0); w != 42 {
		t.Errorf("AddressWidth(0) = %d, want 42 (seeded cache)", w)
	}
}

func TestMissingSpineItemTreatedAsEmpty(t *testing.T) {
	z := buildTestZip(t, map[string]string{"c0.xhtml": "<html/>"})
	spine := []epubxml.ManifestItem{{}}

	idx := New(z, spine, nil, zaptest.NewLogger(t))

	if !idx.Empty(0) {
		t.Error("expected unresolved spine slot to be treated as empty")
	}
	if idx.AddressWidth(0) != 0 {
		t.Errorf("AddressWidth(0) = %d, want 0", idx.AddressWidth(0))
	}
}

func TestUnreadableChapterTreatedAsEmpty(t *testing.T) {
	z := buildTestZip(t, map[string]string{"other.xhtml": "hi"})
	spine := []epubxml.ManifestItem{{ID: "c0", HrefAbsolute: "c0.xhtml", MediaType: epubxml.MediaTypeXHTML}}

	idx := New(z, spine, nil, zaptest.NewLogger(t))

	if !idx.Empty(0) {
		t.Error("expected unreadable chapter to be treated as empty")
	}
}

func TestOutOfRangeChapterIsEmptyNotPanic(t *testing.T) {
	idx := New(nil, nil, nil, zaptest.NewLogger(t))

	if idx.TokenCount(5) != 0 {
		t.Errorf("TokenCount(5) = %d, want 0", idx.TokenCount(5))
	}
	if idx.AddressWidth(5) != 0 {
		t.Errorf("AddressWidth(5) = %d, want 0", idx.AddressWidth(5))
	}
	if got := idx.Tokens(5); got != nil {
		t.Errorf("Tokens(5) = %v, want nil", got)
	}
	if got := idx.ElemIDToAddress(5); len(got) != 0 {
		t.Errorf("ElemIDToAddress(5) = %v, want empty", got)
	}
}

func TestElemIDToAddress(t *testing.T) {
	z := buildTestZip(t, map[string]string{
		"c0.xhtml": `<html xmlns="http://www.w3.org/1999/xhtml"><body><h2 id="s1">Intro</h2></body></html>`,
	})
	spine := []epubxml.ManifestItem{{ID: "c0", HrefAbsolute: "c0.xhtml", MediaType: epubxml.MediaTypeXHTML}}

	idx := New(z, spine, nil, zaptest.NewLogger(t))
	ids := idx.ElemIDToAddress(0)
	addr, ok := ids["s1"]
	if !ok {
		t.Fatal("expected id s1 in map")
	}
	if addr.Chapter() != 0 || addr.Offset() != 0 {
		t.Errorf("address for s1 = %v, want chapter 0 offset 0", addr)
	}
}
