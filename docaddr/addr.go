// Package docaddr implements the book-global ordered address scalar used to
// identify a position in the virtual concatenation of a book's chapter token
// streams.
//
// An Addr packs a chapter index into the high 32 bits and an offset within
// that chapter into the low 32 bits, so that plain numeric comparison
// (<, <=, ==) equals the intended reading-order comparison: two addresses in
// the same chapter compare by offset, addresses in different chapters
// compare by chapter index.
package docaddr

import "fmt"

// Addr is an opaque, totally ordered position within a book.
type Addr uint64

// Make returns the address of the start of chapter.
func Make(chapter uint32) Addr {
	return MakeOffset(chapter, 0)
}

// MakeOffset returns the address of the given offset within chapter.
func MakeOffset(chapter, offset uint32) Addr {
	return Addr(uint64(chapter)<<32 | uint64(offset))
}

// Chapter returns the chapter component of a.
func (a Addr) Chapter() uint32 {
	return uint32(a >> 32)
}

// Offset returns the in-chapter offset component of a.
func (a Addr) Offset() uint32 {
	return uint32(a)
}

// Add returns the address n units past a, within the same chapter.
func (a Addr) Add(n uint32) Addr {
	return MakeOffset(a.Chapter(), a.Offset()+n)
}

// Less reports whether a comes strictly before b in reading order.
func (a Addr) Less(b Addr) bool {
	return a < b
}

func (a Addr) String() string {
	return fmt.Sprintf("%d:%d", a.Chapter(), a.Offset())
}
