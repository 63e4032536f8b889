// Package tocindex flattens an EPUB's hierarchical table of contents (as
// parsed from NCX or nav XHTML) into an ordered, address-resolved sequence,
// and answers position/progress queries against it.
package tocindex

import (
	"sort"

	"go.uber.org/zap"

	"github.com/pixel-reader/epubcore/common"
	"github.com/pixel-reader/epubcore/docaddr"
	"github.com/pixel-reader/epubcore/docindex"
	"github.com/pixel-reader/epubcore/epubxml"
)

// Item is one flattened table-of-contents entry.
type Item struct {
	DisplayName string
	IndentLevel uint32
	Address     docaddr.Addr
}

// Index is the flattened, address-resolved table of contents for one book.
type Index struct {
	items []Item
	docs  *docindex.Index
}

// New flattens navPoints (the NCX or nav tree) against pkg's manifest/spine
// and doc's lazy token index, dropping any entry whose target isn't on the
// spine.
func New(pkg *epubxml.PackageContents, navPoints []epubxml.NavPoint, doc *docindex.Index, log *zap.Logger) *Index {
	if log == nil {
		log = zap.NewNop()
	}

	pathToSpineIndex := make(map[string]uint32, len(pkg.SpineIDs))
	for i, id := range pkg.SpineIDs {
		if item, ok := pkg.IDToManifestItem[id]; ok {
			pathToSpineIndex[item.HrefAbsolute] = uint32(i)
		}
	}

	idx := &Index{docs: doc}
	var flatten func(points []epubxml.NavPoint, indent uint32)
	flatten = func(points []epubxml.NavPoint, indent uint32) {
		for _, np := range points {
			spineIndex, ok := pathToSpineIndex[np.TargetPath]
			if !ok {
				log.Warn("toc entry target not on spine, dropping", zap.String("target", np.TargetPath), zap.Error(common.ErrUnknownTocTarget))
				flatten(np.Children, indent)
				continue
			}

			addr := docaddr.Make(spineIndex)
			if np.TargetFrag != "" {
				if a, ok := doc.ElemIDToAddress(spineIndex)[np.TargetFrag]; ok {
					addr = a
				}
			}

			idx.items = append(idx.items, Item{
				DisplayName: np.Label,
				IndentLevel: indent,
				Address:     addr,
			})
			flatten(np.Children, indent+1)
		}
	}
	flatten(navPoints, 0)

	return idx
}

// TocSize returns the number of flattened entries.
func (idx *Index) TocSize() uint32 {
	return uint32(len(idx.items))
}

// TocItemDisplayName returns entry i's label, or "" if out of range.
func (idx *Index) TocItemDisplayName(i uint32) string {
	if i >= idx.TocSize() {
		return ""
	}
	return idx.items[i].DisplayName
}

// TocItemIndentLevel returns entry i's nesting depth, or 0 if out of range.
func (idx *Index) TocItemIndentLevel(i uint32) uint32 {
	if i >= idx.TocSize() {
		return 0
	}
	return idx.items[i].IndentLevel
}

// GetTocItemAddress returns entry i's address, or the zero address if out
// of range.
func (idx *Index) GetTocItemAddress(i uint32) docaddr.Addr {
	if i >= idx.TocSize() {
		return docaddr.Addr(0)
	}
	return idx.items[i].Address
}

// GetTocItemIndex returns the index of the last TOC item whose address is
// <= address, and true; if address precedes the first entry, it returns
// (0, false).
func (idx *Index) GetTocItemIndex(address docaddr.Addr) (uint32, bool) {
	n := len(idx.items)
	if n == 0 {
		return 0, false
	}
	// sort.Search finds the first index for which items[i].Address > address;
	// one before that is the last item <= address.
	i := sort.Search(n, func(i int) bool {
		return address < idx.items[i].Address
	})
	if i == 0 {
		return 0, false
	}
	return uint32(i - 1), true
}

// GetTocItemProgress returns address's position within its enclosing TOC
// item as (pos, size): pos is the offset from the item's own address; size
// is the address span up to the next TOC item, or the end of the book for
// the last one.
func (idx *Index) GetTocItemProgress(address docaddr.Addr) (uint64, uint64) {
	i, ok := idx.GetTocItemIndex(address)
	if !ok {
		return 0, 0
	}

	start := idx.items[i].Address
	var end docaddr.Addr
	if int(i)+1 < len(idx.items) {
		end = idx.items[i+1].Address
	} else {
		end = endOfBook(idx.docs)
	}

	pos := linearOffset(start, address, idx.docs)
	size := linearOffset(start, end, idx.docs)
	return pos, size
}

// GetGlobalProgress returns address's position across the whole book as
// (pos, size): pos is the total address units preceding address; size is
// the sum of every chapter's width.
func (idx *Index) GetGlobalProgress(address docaddr.Addr) (uint64, uint64) {
	pos := linearOffset(docaddr.Make(0), address, idx.docs)
	size := linearOffset(docaddr.Make(0), endOfBook(idx.docs), idx.docs)
	return pos, size
}

// ProgressPercent reduces a (pos, size) fraction to a clamped [0,100]
// percent; size == 0 (nothing to measure against) is defined as 100%.
func ProgressPercent(pos, size uint64) uint32 {
	if size == 0 {
		return 100
	}
	pct := pos * 100 / size
	if pct > 100 {
		pct = 100
	}
	return uint32(pct)
}

// endOfBook returns the upper bound of the book's address range: the last
// spine slot's address at an offset equal to that slot's width (offset 0 when
// the last slot is empty).
func endOfBook(doc *docindex.Index) docaddr.Addr {
	if doc == nil || doc.SpineSize() == 0 {
		return docaddr.Make(0)
	}
	last := doc.SpineSize() - 1
	return docaddr.MakeOffset(last, doc.AddressWidth(last))
}

// linearOffset converts the address range [from, to) into a count of
// address units, accounting for chapter widths when the range spans more
// than one chapter.
func linearOffset(from, to docaddr.Addr, doc *docindex.Index) uint64 {
	if to.Less(from) {
		return 0
	}
	if from.Chapter() == to.Chapter() {
		return uint64(to.Offset() - from.Offset())
	}

	var total uint64
	total += uint64(doc.AddressWidth(from.Chapter())) - uint64(from.Offset())
	for c := from.Chapter() + 1; c < to.Chapter(); c++ {
		total += uint64(doc.AddressWidth(c))
	}
	total += uint64(to.Offset())
	return total
}
