// Package booksettings implements the two persisted stores a reader needs: a
// per-book cache file (keyed by package_md5, currently just the chapter
// widths vector) and the app-wide settings file, both built on kvstore's
// flat key=value format.
package booksettings

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pixel-reader/epubcore/common"
	"github.com/pixel-reader/epubcore/kvstore"
)

// PackageMD5 returns the cache key for a book: the hex MD5 digest of its
// raw OPF package document bytes.
func PackageMD5(opfBytes []byte) string {
	sum := md5.Sum(opfBytes)
	return hex.EncodeToString(sum[:])
}

// BookCache is the per-book cache file, named after the book's package_md5.
type BookCache struct {
	store *kvstore.Store
	log   *zap.Logger
}

// OpenBookCache loads (or initializes) the cache file for the book
// identified by packageMD5 under baseDir.
func OpenBookCache(baseDir, packageMD5 string, log *zap.Logger) *BookCache {
	if log == nil {
		log = zap.NewNop()
	}
	path := filepath.Join(baseDir, packageMD5+".cache")
	return &BookCache{store: kvstore.Load(path, log), log: log}
}

// Widths returns the cached chapter-width vector and whether it was present
// and well-formed. A present-but-corrupt value is treated as absent and
// logged rather than propagated as an error.
func (bc *BookCache) Widths() ([]uint32, bool) {
	raw, ok := bc.store.Get(widthsKey)
	if !ok {
		return nil, false
	}
	widths, ok := decodeWidths(raw)
	if !ok {
		bc.log.Warn("widths cache failed to decode, will recompute", zap.Error(common.ErrCacheDecodeFailed))
		return nil, false
	}
	return widths, true
}

// SetWidths stores widths, encoded, marking the cache dirty if changed.
func (bc *BookCache) SetWidths(widths []uint32) {
	bc.store.Set(widthsKey, encodeWidths(widths))
}

// Flush writes the cache file if it has unflushed changes.
func (bc *BookCache) Flush() error {
	return bc.store.Flush()
}
