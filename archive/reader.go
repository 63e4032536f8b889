// Package archive provides named-entry byte reads from a ZIP archive,
// indexed up front by normalized path so repeated lookups by a reader don't
// pay for a linear scan of the central directory each time.
package archive

import (
	"archive/zip"
	"io"
	"path"
	"strings"

	"go.uber.org/zap"
)

// Zip wraps an open zip archive and indexes its entries by normalized path
// so lookups tolerate the small naming inconsistencies real-world EPUB
// producers emit (leading "/", leading "./", backslashes).
type Zip struct {
	rc      *zip.ReadCloser
	entries map[string]*zip.File
	log     *zap.Logger
}

// Open opens the zip archive at path.
func Open(zipPath string, log *zap.Logger) (*Zip, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rc, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	z := &Zip{rc: rc, log: log, entries: make(map[string]*zip.File, len(rc.File))}
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		z.entries[normalize(f.Name)] = f
	}
	return z, nil
}

// Close releases the underlying archive handle. Safe to call on a nil Zip.
func (z *Zip) Close() error {
	if z == nil || z.rc == nil {
		return nil
	}
	return z.rc.Close()
}

// normalize collapses the cosmetic path variations archive producers use so
// that lookups don't have to care whether a name was stored with a leading
// slash, a leading "./", or backslashes.
func normalize(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimPrefix(name, "/")
	return path.Clean(name)
}

// ReadEntry returns the bytes of the named archive entry. Per the zip
// access contract, it never returns an error for a missing or unreadable
// entry: it logs a diagnostic and returns an empty slice instead, so callers
// can treat "absent" and "corrupt" identically as "no content here".
func (z *Zip) ReadEntry(entryPath string) []byte {
	if z == nil || z.rc == nil {
		return nil
	}

	f, ok := z.entries[normalize(entryPath)]
	if !ok {
		z.log.Warn("zip entry not found", zap.String("path", entryPath))
		return nil
	}

	rc, err := f.Open()
	if err != nil {
		z.log.Warn("unable to open zip entry", zap.String("path", entryPath), zap.Error(err))
		return nil
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		z.log.Warn("unable to read zip entry", zap.String("path", entryPath), zap.Error(err))
		return nil
	}
	return data
}

// Has reports whether entryPath exists in the archive.
func (z *Zip) Has(entryPath string) bool {
	if z == nil {
		return false
	}
	_, ok := z.entries[normalize(entryPath)]
	return ok
}
