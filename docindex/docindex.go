// Package docindex provides a lazy, memoizing view over an EPUB's spine
// chapters: each chapter's token stream is tokenized from the archive only
// on first access and then cached for the lifetime of the index.
package docindex

import (
	"go.uber.org/zap"

	"github.com/pixel-reader/epubcore/archive"
	"github.com/pixel-reader/epubcore/common"
	"github.com/pixel-reader/epubcore/docaddr"
	"github.com/pixel-reader/epubcore/doctoken"
	"github.com/pixel-reader/epubcore/epubxml"
)

// chapterCache holds the memoized tokenization result for one spine slot.
// tokensValid flips true the first time the slot is actually tokenized,
// whether or not that produced any tokens, so a parse failure is cached as
// "empty" rather than retried on every call. widthValid is separate: a
// width seeded from a persisted cache satisfies AddressWidth without ever
// tokenizing, but Tokens/ElemIDToAddress still force tokenization the first
// time they're asked for: fragment resolution needs the actual id map, which
// a width-only cache entry never carries.
type chapterCache struct {
	widthValid  bool
	width       uint32
	tokensValid bool
	tokens      []doctoken.Token
	idToAddr    map[string]docaddr.Addr
}

// Index is the lazy per-chapter token cache described by the spine of one
// open EPUB. It assumes single-threaded access: its public methods are
// logically read-only but mutate the cache behind the scenes.
type Index struct {
	zip      *archive.Zip
	spine    []epubxml.ManifestItem
	caches   []chapterCache
	log      *zap.Logger
}

// New builds an Index over spine (spine order, one entry per spine itemref
// resolved against the manifest; a zero-value ManifestItem marks a slot that
// was dropped because its itemref didn't resolve or wasn't XHTML). widths,
// if non-nil, must have the same length as spine; its entries seed the
// per-chapter width cache so chapters already known from a prior run are not
// re-tokenized.
func New(zipFile *archive.Zip, spine []epubxml.ManifestItem, widths []uint32, log *zap.Logger) *Index {
	if log == nil {
		log = zap.NewNop()
	}

	caches := make([]chapterCache, len(spine))
	if widths != nil && len(widths) == len(spine) {
		for i := range caches {
			caches[i].widthValid = true
			caches[i].width = widths[i]
		}
	}

	return &Index{zip: zipFile, spine: spine, caches: caches, log: log}
}

// SpineSize returns the total number of spine entries, including empty slots.
func (idx *Index) SpineSize() uint32 {
	return uint32(len(idx.spine))
}

// TokenCount ensures chapter i is tokenized and returns its token count.
func (idx *Index) TokenCount(i uint32) uint32 {
	return uint32(len(idx.Tokens(i)))
}

// Empty reports whether chapter i has no tokens.
func (idx *Index) Empty(i uint32) bool {
	return idx.TokenCount(i) == 0
}

// AddressWidth returns the number of address units chapter i occupies,
// tokenizing lazily if the width isn't already cached.
func (idx *Index) AddressWidth(i uint32) uint32 {
	if i >= uint32(len(idx.caches)) {
		idx.log.Warn("address width requested for out-of-range chapter", zap.Uint32("chapter", i))
		return 0
	}
	c := &idx.caches[i]
	if c.widthValid {
		return c.width
	}
	idx.ensure(i)
	c = &idx.caches[i]
	if len(c.tokens) > 0 {
		last := c.tokens[len(c.tokens)-1]
		c.width = last.Address.Offset() + doctoken.Width(last)
	} else {
		c.width = 0
	}
	c.widthValid = true
	return c.width
}

// Tokens returns chapter i's token sequence, tokenizing lazily. An
// out-of-range i returns nil.
func (idx *Index) Tokens(i uint32) []doctoken.Token {
	if i >= uint32(len(idx.caches)) {
		idx.log.Warn("tokens requested for out-of-range chapter", zap.Uint32("chapter", i))
		return nil
	}
	idx.ensure(i)
	return idx.caches[i].tokens
}

// ElemIDToAddress returns chapter i's id-to-address map, tokenizing lazily.
// An out-of-range i returns an empty, non-nil map.
func (idx *Index) ElemIDToAddress(i uint32) map[string]docaddr.Addr {
	if i >= uint32(len(idx.caches)) {
		idx.log.Warn("id map requested for out-of-range chapter", zap.Uint32("chapter", i))
		return map[string]docaddr.Addr{}
	}
	idx.ensure(i)
	return idx.caches[i].idToAddr
}

// ensure tokenizes chapter i if it hasn't been resolved yet. A chapter that
// was dropped during spine/manifest resolution, is unreadable, or parses to
// no tokens is cached as empty rather than retried.
func (idx *Index) ensure(i uint32) {
	c := &idx.caches[i]
	if c.tokensValid {
		return
	}
	c.tokensValid = true
	c.idToAddr = map[string]docaddr.Addr{}

	item := idx.spine[i]
	if item.HrefAbsolute == "" {
		idx.log.Warn("spine slot has no resolved manifest item, treating as empty", zap.Uint32("chapter", i), zap.Error(common.ErrMissingSpineItem))
		return
	}

	data := idx.zip.ReadEntry(item.HrefAbsolute)
	if len(data) == 0 {
		idx.log.Warn("chapter unreadable, treating as empty", zap.Uint32("chapter", i), zap.String("path", item.HrefAbsolute), zap.Error(common.ErrUnreadableChapter))
		return
	}

	tokens, idToAddr := epubxml.Tokenize(data, item.HrefAbsolute, i, idx.log)
	if len(tokens) == 0 {
		idx.log.Info("chapter produced no tokens, treating as empty", zap.Uint32("chapter", i), zap.String("path", item.HrefAbsolute), zap.Error(common.ErrMalformedChapter))
	}
	c.tokens = tokens
	c.idToAddr = idToAddr
}
