package reader

import (
	"sort"

	"github.com/pixel-reader/epubcore/docaddr"
	"github.com/pixel-reader/epubcore/docindex"
	"github.com/pixel-reader/epubcore/doctoken"
)

// TokenIterator is a bidirectional cursor over the virtual concatenation of
// a book's chapter token streams. Its state is a (chapter, token index)
// pair, or the distinguished "end" position one past the last token of the
// last chapter.
type TokenIterator struct {
	doc     *docindex.Index
	chapter uint32
	index   int
	atEnd   bool
}

func newTokenIterator(doc *docindex.Index) *TokenIterator {
	return &TokenIterator{doc: doc, atEnd: true}
}

// Seek positions the iterator on the token whose half-open address range
// contains address. If address falls past the last token of its chapter,
// the iterator advances to the first token of the next non-empty chapter;
// if address is past every chapter, the iterator lands on the end position.
func (it *TokenIterator) Seek(address docaddr.Addr) {
	n := it.doc.SpineSize()
	chapter := address.Chapter()
	if n == 0 || chapter >= n {
		it.setEnd()
		return
	}

	tokens := it.doc.Tokens(chapter)
	idx := sort.Search(len(tokens), func(i int) bool {
		return tokens[i].Address.Offset()+doctoken.Width(tokens[i]) > address.Offset()
	})
	if idx < len(tokens) {
		it.chapter = chapter
		it.index = idx
		it.atEnd = false
		return
	}

	it.advanceToNextNonEmptyChapter(chapter + 1)
}

// Current returns the token at the cursor, and false at the end position.
func (it *TokenIterator) Current() (doctoken.Token, bool) {
	if it.atEnd {
		return doctoken.Token{}, false
	}
	tokens := it.doc.Tokens(it.chapter)
	if it.index >= len(tokens) {
		return doctoken.Token{}, false
	}
	return tokens[it.index], true
}

// Address returns the current token's address, or one past the last token
// of the book when at the end position.
func (it *TokenIterator) Address() docaddr.Addr {
	if t, ok := it.Current(); ok {
		return t.Address
	}
	return endOfBook(it.doc)
}

// Advance moves the cursor forward by one token, crossing chapter
// boundaries by skipping empty chapters. A no-op at the end position.
func (it *TokenIterator) Advance() {
	if it.atEnd {
		return
	}
	tokens := it.doc.Tokens(it.chapter)
	if it.index+1 < len(tokens) {
		it.index++
		return
	}
	it.advanceToNextNonEmptyChapter(it.chapter + 1)
}

// Retreat moves the cursor backward by one token, crossing chapter
// boundaries by skipping empty chapters. From the end position it lands on
// the last token of the last non-empty chapter. A no-op at the very first
// token of the book.
func (it *TokenIterator) Retreat() {
	if it.atEnd {
		it.retreatToPrevNonEmptyChapter(it.doc.SpineSize())
		return
	}
	if it.index > 0 {
		it.index--
		return
	}
	if it.chapter > 0 {
		it.retreatToPrevNonEmptyChapter(it.chapter)
	}
}

func (it *TokenIterator) advanceToNextNonEmptyChapter(from uint32) {
	for c := from; c < it.doc.SpineSize(); c++ {
		if !it.doc.Empty(c) {
			it.chapter = c
			it.index = 0
			it.atEnd = false
			return
		}
	}
	it.setEnd()
}

// retreatToPrevNonEmptyChapter searches chapters strictly before exclusiveUpTo
// for the last one with tokens, landing on its final token.
func (it *TokenIterator) retreatToPrevNonEmptyChapter(exclusiveUpTo uint32) {
	for c := int(exclusiveUpTo) - 1; c >= 0; c-- {
		if !it.doc.Empty(uint32(c)) {
			tokens := it.doc.Tokens(uint32(c))
			it.chapter = uint32(c)
			it.index = len(tokens) - 1
			it.atEnd = false
			return
		}
	}
	// no non-empty chapter before exclusiveUpTo; nothing to retreat to.
}

// endOfBook is the address one past the last token of the last chapter
// (zero for an empty spine).
func endOfBook(doc *docindex.Index) docaddr.Addr {
	n := doc.SpineSize()
	if n == 0 {
		return docaddr.Make(0)
	}
	last := n - 1
	return docaddr.MakeOffset(last, doc.AddressWidth(last))
}
