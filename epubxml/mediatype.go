package epubxml

import (
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// SniffMediaType returns a best-guess media type for content when a
// manifest item's declared media-type is empty or unrecognized, so a mistyped or omitted
// OPF @media-type attribute doesn't silently turn a real XHTML chapter or
// image into a skipped spine slot.
//
// It only returns a value for the handful of types this reader cares about
// (XHTML, NCX/XML, common image formats); anything else yields "" and the
// caller keeps treating the item as unrecognized.
func SniffMediaType(content []byte) string {
	if looksLikeXML(content) {
		if looksLikeXHTML(content) {
			return MediaTypeXHTML
		}
		if looksLikeNCX(content) {
			return MediaTypeNCX
		}
		return "application/xml"
	}

	kind, err := filetype.Match(content)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	switch kind {
	case matchers.TypeJpeg, matchers.TypePng, matchers.TypeGif, matchers.TypeSvg, matchers.TypeWebp:
		return kind.MIME.Value
	default:
		return ""
	}
}

func looksLikeXML(content []byte) bool {
	trimmed := strings.TrimLeft(string(trimBOM(content)), " \t\r\n")
	return strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<")
}

func looksLikeXHTML(content []byte) bool {
	s := string(content)
	return strings.Contains(s, "<html") || strings.Contains(s, "<!DOCTYPE html")
}

func looksLikeNCX(content []byte) bool {
	return strings.Contains(string(content), "<ncx")
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
