// Package doctoken defines the atomic units of readable content produced by
// tokenizing a chapter, and the address-unit width each one occupies.
package doctoken

import (
	"unicode/utf8"

	"github.com/pixel-reader/epubcore/docaddr"
)

// Kind identifies which variant of Token is populated.
//
// ENUM(text, header, listItem, image)
type Kind int

const (
	KindText Kind = iota
	KindHeader
	KindListItem
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHeader:
		return "header"
	case KindListItem:
		return "listItem"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// ImageWidth is the constant address-unit width assigned to every Image
// token. The exact value is unspecified by the source format; we only need
// it to be >= 1 and stable across a book's lifetime, including widths-cache
// reuse across runs.
const ImageWidth = 1

// Token is a tagged variant holding one piece of chapter content. Exactly
// one of the Kind-specific fields is meaningful, selected by Kind, matching
// the original TokenType/DocToken hierarchy (pixel-reader/src/doc_api/doc_token.h)
// without per-token heap allocation: all variants are inlined into one
// struct stored by value in a chapter's token slice.
type Token struct {
	Kind    Kind
	Address docaddr.Addr

	Text string // KindText, KindHeader, KindListItem

	NestLevel int // KindListItem: depth of enclosing ol/ul, outermost == 0

	Path string // KindImage: resolved archive path of the image resource
}

// Width returns the number of address units t occupies. For text-bearing
// variants this is the code point count of Text; images occupy ImageWidth.
func Width(t Token) uint32 {
	switch t.Kind {
	case KindText, KindHeader, KindListItem:
		return uint32(utf8.RuneCountInString(t.Text))
	case KindImage:
		return ImageWidth
	default:
		return 0
	}
}

// NewText constructs a Text token.
func NewText(addr docaddr.Addr, text string) Token {
	return Token{Kind: KindText, Address: addr, Text: text}
}

// NewHeader constructs a Header token.
func NewHeader(addr docaddr.Addr, text string) Token {
	return Token{Kind: KindHeader, Address: addr, Text: text}
}

// NewListItem constructs a ListItem token.
func NewListItem(addr docaddr.Addr, text string, nestLevel int) Token {
	return Token{Kind: KindListItem, Address: addr, Text: text, NestLevel: nestLevel}
}

// NewImage constructs an Image token.
func NewImage(addr docaddr.Addr, path string) Token {
	return Token{Kind: KindImage, Address: addr, Path: path}
}
