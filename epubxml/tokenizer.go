package epubxml

import (
	"io"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	xcharset "golang.org/x/net/html/charset"

	"github.com/pixel-reader/epubcore/docaddr"
	"github.com/pixel-reader/epubcore/doctoken"
)

// paragraphTags are block-level elements whose own direct text forms one
// logical paragraph: a Text token is emitted per non-empty text run inside
// a <p>, <div>, table cell, or blockquote.
var paragraphTags = map[string]bool{
	"p": true, "div": true, "blockquote": true, "td": true, "th": true,
}

// structuralTags nest other tokens (headers, lists, images, further
// paragraphs) and are excluded from a paragraph's own flattened text so
// their content isn't counted twice; Tokenize recurses into them
// separately.
var structuralTags = map[string]bool{
	"div": true, "p": true, "blockquote": true, "td": true, "th": true,
	"tr": true, "table": true, "ol": true, "ul": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"img": true, "image": true,
}

var headerTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

type tokenizer struct {
	chapterIndex uint32
	chapterPath  string
	offset       uint32
	listDepth    int
	tokens       []doctoken.Token
	idToAddr     map[string]docaddr.Addr
	log          *zap.Logger
}

// Tokenize walks chapterData (the XHTML bytes of one spine item) in
// document order and returns its ordered token sequence plus a map from
// element id to the address of the first token emitted inside that
// element. A malformed document yields a nil/empty result and a logged
// diagnostic rather than an error.
func Tokenize(chapterData []byte, chapterPath string, chapterIndex uint32, log *zap.Logger) ([]doctoken.Token, map[string]docaddr.Addr) {
	if log == nil {
		log = zap.NewNop()
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = func(cs string, input io.Reader) (io.Reader, error) {
		return xcharset.NewReaderLabel(cs, input)
	}
	if err := doc.ReadFromBytes(chapterData); err != nil {
		log.Warn("chapter did not parse as XHTML", zap.String("path", chapterPath), zap.Error(err))
		return nil, map[string]docaddr.Addr{}
	}

	root := doc.Root()
	if root == nil {
		log.Warn("chapter has no root element", zap.String("path", chapterPath))
		return nil, map[string]docaddr.Addr{}
	}

	tk := &tokenizer{
		chapterIndex: chapterIndex,
		chapterPath:  chapterPath,
		idToAddr:     make(map[string]docaddr.Addr),
		log:          log,
	}
	tk.walk(root)

	if len(tk.tokens) == 0 {
		log.Warn("chapter produced no tokens", zap.String("path", chapterPath))
	}

	return tk.tokens, tk.idToAddr
}

func (tk *tokenizer) addr() docaddr.Addr {
	return docaddr.MakeOffset(tk.chapterIndex, tk.offset)
}

func (tk *tokenizer) emit(t doctoken.Token) {
	tk.tokens = append(tk.tokens, t)
	tk.offset += doctoken.Width(t)
}

// recordID records the current running address as the address belonging to
// el's id attribute, whether or not a token ends up being emitted inside
// el. Because it runs before el's content is processed, it always equals
// either the address of the first token el's subtree emits, or the address
// that would have been emitted next.
func (tk *tokenizer) recordID(el *etree.Element) {
	if id := el.SelectAttrValue("id", ""); id != "" {
		if _, exists := tk.idToAddr[id]; !exists {
			tk.idToAddr[id] = tk.addr()
		}
	}
}

// recordNestedIDs records ids on every descendant of el whose content is
// collapsed into el's own flattened text (inline elements like <a>, <span>,
// <em> nested inside a header, paragraph, or list item), since those
// descendants are never reached by walk. A descendant tagged in exclude is
// skipped along with its whole subtree; walk visits it (and records its own
// ids) separately.
func (tk *tokenizer) recordNestedIDs(el *etree.Element, exclude map[string]bool) {
	for _, c := range el.ChildElements() {
		if exclude[localName(c.Tag)] {
			continue
		}
		tk.recordID(c)
		tk.recordNestedIDs(c, exclude)
	}
}

func (tk *tokenizer) walk(el *etree.Element) {
	if hasHiddenAttr(el) {
		tk.recordID(el)
		return
	}

	tag := localName(el.Tag)
	if tag == "script" || tag == "style" {
		tk.recordID(el)
		return
	}

	tk.recordID(el)

	switch {
	case tag == "head":
		for _, c := range el.ChildElements() {
			if localName(c.Tag) == "title" {
				tk.emitHeader(c)
			} else {
				tk.recordID(c)
			}
		}
	case headerTags[tag] || tag == "title":
		tk.emitHeader(el)
	case tag == "li":
		tk.emitListItem(el)
	case tag == "ol" || tag == "ul":
		tk.listDepth++
		for _, c := range el.ChildElements() {
			tk.walk(c)
		}
		tk.listDepth--
	case tag == "img" || tag == "image":
		tk.emitImage(el)
	case paragraphTags[tag]:
		tk.emitParagraph(el)
	default:
		for _, c := range el.ChildElements() {
			tk.walk(c)
		}
	}
}

func (tk *tokenizer) emitHeader(el *etree.Element) {
	tk.recordNestedIDs(el, nil)
	text := collapseWhitespace(flattenText(el, nil))
	if text == "" {
		return
	}
	tk.emit(doctoken.NewHeader(tk.addr(), text))
}

func (tk *tokenizer) emitListItem(el *etree.Element) {
	nestLevel := tk.listDepth - 1
	if nestLevel < 0 {
		nestLevel = 0
	}

	tk.recordNestedIDs(el, map[string]bool{"ol": true, "ul": true, "img": true, "image": true})
	text := collapseWhitespace(flattenText(el, map[string]bool{"ol": true, "ul": true}))
	if text != "" {
		tk.emit(doctoken.NewListItem(tk.addr(), text, nestLevel))
	}

	for _, c := range el.ChildElements() {
		switch localName(c.Tag) {
		case "ol", "ul", "img", "image":
			tk.walk(c)
		}
	}
}

func (tk *tokenizer) emitParagraph(el *etree.Element) {
	tk.recordNestedIDs(el, structuralTags)
	text := collapseWhitespace(flattenText(el, structuralTags))
	if text != "" {
		tk.emit(doctoken.NewText(tk.addr(), text))
	}

	for _, c := range el.ChildElements() {
		if structuralTags[localName(c.Tag)] {
			tk.walk(c)
		}
	}
}

func (tk *tokenizer) emitImage(el *etree.Element) {
	src := attrValue(el, "src")
	if src == "" {
		src = attrValue(el, "href") // xlink:href on <image> (SVG)
	}
	if src == "" {
		return
	}
	tk.emit(doctoken.NewImage(tk.addr(), resolveHref(tk.chapterPath, src)))
}

// flattenText concatenates the visible text of el's subtree in document
// order, skipping hidden/script/style content and anything tagged in
// exclude, and turning <br> into a paragraph break. It does not collapse
// whitespace; callers do that afterward so bare concatenation of adjacent
// inline runs stays a single logical paragraph.
func flattenText(el *etree.Element, exclude map[string]bool) string {
	var sb strings.Builder
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if hasHiddenAttr(e) {
			return
		}
		tag := localName(e.Tag)
		if tag == "script" || tag == "style" {
			return
		}
		if tag == "br" {
			sb.WriteString(" ")
			sb.WriteString(e.Tail())
			return
		}
		if exclude[tag] {
			return
		}
		sb.WriteString(e.Text())
		for _, c := range e.ChildElements() {
			walk(c)
			sb.WriteString(c.Tail())
		}
	}
	sb.WriteString(el.Text())
	for _, c := range el.ChildElements() {
		walk(c)
		sb.WriteString(c.Tail())
	}
	return sb.String()
}

// collapseWhitespace turns any run of whitespace (spaces, tabs, newlines)
// into a single space and trims the ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasHiddenAttr(el *etree.Element) bool {
	for _, a := range el.Attr {
		if localName(a.Key) == "hidden" {
			return true
		}
	}
	return false
}

func attrValue(el *etree.Element, localKey string) string {
	for _, a := range el.Attr {
		if localName(a.Key) == localKey {
			return a.Value
		}
	}
	return ""
}
