// Package reader implements the EPUB reader façade: it composes the zip,
// XML parsers, doc index, TOC index, and per-book cache into the single
// entry point a consumer opens a book through.
package reader

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/pixel-reader/epubcore/archive"
	"github.com/pixel-reader/epubcore/booksettings"
	"github.com/pixel-reader/epubcore/common"
	"github.com/pixel-reader/epubcore/docaddr"
	"github.com/pixel-reader/epubcore/docindex"
	"github.com/pixel-reader/epubcore/epubxml"
	"github.com/pixel-reader/epubcore/tocindex"
)

const containerPath = "META-INF/container.xml"

// TocItem is the user-visible, flattened table-of-contents entry.
type TocItem struct {
	DisplayName string
	IndentLevel uint32
}

// TocPosition answers "where in the TOC is this address".
type TocPosition struct {
	TocIndex uint32
	Percent  uint32
}

// Reader is the EPUB reader façade. Its zero value is a valid, unopened
// reader; Open must succeed before any other method does useful work.
type Reader struct {
	zipPath string
	cacheDir string
	log     *zap.Logger

	zip  *archive.Zip
	pkg  *epubxml.PackageContents
	docs *docindex.Index
	toc  *tocindex.Index
	cache *booksettings.BookCache

	id      string
	userToc []TocItem
	isOpen  bool
}

// New constructs a Reader for the EPUB at zipPath. cacheDir is where the
// per-book widths cache is stored, keyed by package_md5.
func New(zipPath, cacheDir string, log *zap.Logger) *Reader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reader{zipPath: zipPath, cacheDir: cacheDir, log: log}
}

// Open walks the archive, container, package, TOC source, and cache into a
// ready-to-use reader. It returns false for any of the three fatal
// conditions (ZipOpenFailed, InvalidContainer, InvalidPackage), logging the
// detail; every other oddity is non-fatal and absorbed into an empty slot or
// dropped entry. Calling Open on an already-open reader is a no-op that
// returns true.
func (r *Reader) Open() bool {
	if r.isOpen {
		return true
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}

	zipFile, err := archive.Open(r.zipPath, r.log)
	if err != nil {
		r.log.Warn("failed to open archive", zap.String("path", r.zipPath), zap.Error(common.ErrZipOpenFailed), zap.Error(err))
		return false
	}

	containerData := zipFile.ReadEntry(containerPath)
	if len(containerData) == 0 {
		r.log.Warn("container.xml missing or empty", zap.Error(common.ErrInvalidContainer))
		zipFile.Close()
		return false
	}

	rootfilePath, err := epubxml.ParseContainer(containerData, r.log)
	if err != nil {
		r.log.Warn("failed to parse container.xml", zap.Error(err))
		zipFile.Close()
		return false
	}

	opfData := zipFile.ReadEntry(rootfilePath)
	if len(opfData) == 0 {
		r.log.Warn("OPF package document missing or empty", zap.String("path", rootfilePath), zap.Error(common.ErrInvalidPackage))
		zipFile.Close()
		return false
	}

	pkg, err := epubxml.ParsePackage(rootfilePath, opfData, zipFile.ReadEntry, r.log)
	if err != nil {
		r.log.Warn("failed to parse OPF package document", zap.Error(err))
		zipFile.Close()
		return false
	}

	packageMD5 := booksettings.PackageMD5(opfData)
	bookCache := booksettings.OpenBookCache(r.cacheDir, packageMD5, r.log)

	navPoints := r.parseNav(zipFile, pkg)

	spine := buildSpine(pkg)

	widths, widthsOK := bookCache.Widths()
	if widthsOK && len(widths) != len(spine) {
		r.log.Warn("widths cache length mismatch, recomputing", zap.Error(common.ErrCacheDecodeFailed))
		widthsOK = false
		widths = nil
	}

	docs := docindex.New(zipFile, spine, widths, r.log)
	toc := tocindex.New(pkg, navPoints, docs, r.log)

	if !widthsOK {
		recomputed := make([]uint32, len(spine))
		for i := range spine {
			recomputed[i] = docs.AddressWidth(uint32(i))
		}
		bookCache.SetWidths(recomputed)
	}

	r.zip = zipFile
	r.pkg = pkg
	r.docs = docs
	r.toc = toc
	r.cache = bookCache
	r.id = resolveID(pkg)
	r.userToc = materializeUserToc(toc)
	r.isOpen = true
	return true
}

// IsOpen reports whether Open has succeeded and Close hasn't been called.
func (r *Reader) IsOpen() bool {
	return r.isOpen
}

// ID returns the book's dc:identifier, or a freshly generated UUID if the
// OPF carried none.
func (r *Reader) ID() string {
	return r.id
}

// GetTableOfContents returns the flattened, user-visible TOC.
func (r *Reader) GetTableOfContents() []TocItem {
	return r.userToc
}

// GetTocItemAddress returns TOC entry i's address, or the zero address if
// i is out of range or the reader isn't open.
func (r *Reader) GetTocItemAddress(i uint32) docaddr.Addr {
	if !r.isOpen {
		return docaddr.Addr(0)
	}
	return r.toc.GetTocItemAddress(i)
}

// GetTocPosition locates address within the TOC: its enclosing entry and
// the percent progress through that entry. An address before the first TOC
// item, or a reader with no TOC, reports index 0 and percent 100 — there is
// no meaningful enclosing entry, so progress through it is reported as done.
func (r *Reader) GetTocPosition(address docaddr.Addr) TocPosition {
	if !r.isOpen || r.toc.TocSize() == 0 {
		return TocPosition{TocIndex: 0, Percent: 100}
	}
	i, ok := r.toc.GetTocItemIndex(address)
	if !ok {
		return TocPosition{TocIndex: 0, Percent: 100}
	}
	pos, size := r.toc.GetTocItemProgress(address)
	return TocPosition{TocIndex: i, Percent: tocindex.ProgressPercent(pos, size)}
}

// GetGlobalProgressPercent returns address's progress across the whole
// book as a percent in [0,100].
func (r *Reader) GetGlobalProgressPercent(address docaddr.Addr) uint32 {
	if !r.isOpen {
		return 100
	}
	pos, size := r.toc.GetGlobalProgress(address)
	return tocindex.ProgressPercent(pos, size)
}

// GetIter returns a token iterator seeked to address.
func (r *Reader) GetIter(address docaddr.Addr) *TokenIterator {
	it := newTokenIterator(r.docs)
	it.Seek(address)
	return it
}

// LoadResource reads an arbitrary archive entry (images, stylesheets)
// through to the underlying zip.
func (r *Reader) LoadResource(path string) []byte {
	if !r.isOpen {
		return nil
	}
	return r.zip.ReadEntry(path)
}

// Close flushes the per-book cache and releases the zip handle. Safe to
// call on a never-opened or already-closed reader. Close on a
// never-opened reader is the corrected counterpart of a destructor that
// must never dereference a handle it was never given.
func (r *Reader) Close() error {
	if !r.isOpen {
		return nil
	}

	var err error
	if r.cache != nil {
		err = multierr.Append(err, r.cache.Flush())
	}
	if r.zip != nil {
		err = multierr.Append(err, r.zip.Close())
	}

	r.isOpen = false
	return err
}

// parseNav resolves the TOC source: NCX first if the spine names a toc id
// whose manifest media type is NCX, otherwise the first manifest item (in
// document order) whose properties include "nav". Document order, rather
// than map iteration, keeps the result deterministic when a manifest
// carries more than one nav-flagged item.
func (r *Reader) parseNav(zipFile *archive.Zip, pkg *epubxml.PackageContents) []epubxml.NavPoint {
	if pkg.TocID != "" {
		if item, ok := pkg.IDToManifestItem[pkg.TocID]; ok && item.MediaType == epubxml.MediaTypeNCX {
			data := zipFile.ReadEntry(item.HrefAbsolute)
			if len(data) > 0 {
				return epubxml.ParseNCX(item.HrefAbsolute, data, r.log)
			}
		}
	}

	for _, id := range pkg.ManifestOrder {
		item := pkg.IDToManifestItem[id]
		if hasProperty(item.Properties, "nav") {
			data := zipFile.ReadEntry(item.HrefAbsolute)
			if len(data) > 0 {
				return epubxml.ParseNav(item.HrefAbsolute, data, r.log)
			}
		}
	}

	return nil
}

func hasProperty(properties, want string) bool {
	for _, p := range strings.Fields(properties) {
		if p == want {
			return true
		}
	}
	return false
}

// buildSpine resolves pkg's spine ids against its manifest, preserving
// spine indexing: an id that doesn't resolve, or resolves to a non-XHTML
// item, becomes a zero-value ManifestItem so the doc index treats it as a
// skipped, always-empty slot rather than shifting later indices.
func buildSpine(pkg *epubxml.PackageContents) []epubxml.ManifestItem {
	spine := make([]epubxml.ManifestItem, len(pkg.SpineIDs))
	for i, id := range pkg.SpineIDs {
		item, ok := pkg.IDToManifestItem[id]
		if !ok || item.MediaType != epubxml.MediaTypeXHTML {
			continue
		}
		spine[i] = item
	}
	return spine
}

func resolveID(pkg *epubxml.PackageContents) string {
	if pkg.Identifier != "" {
		return pkg.Identifier
	}
	return uuid.NewString()
}

func materializeUserToc(toc *tocindex.Index) []TocItem {
	items := make([]TocItem, toc.TocSize())
	for i := range items {
		items[i] = TocItem{
			DisplayName: toc.TocItemDisplayName(uint32(i)),
			IndentLevel: toc.TocItemIndentLevel(uint32(i)),
		}
	}
	return items
}
