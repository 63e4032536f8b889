package epubxml

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// ParseNav reads the first nav[@epub:type='toc'] element of an EPUB 3 XHTML
// navigation document into a NavPoint tree, built from its nested ol/li/a
// structure: each nested <ol> increases depth by one level.
func ParseNav(navPath string, data []byte, log *zap.Logger) []NavPoint {
	if log == nil {
		log = zap.NewNop()
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		log.Warn("nav document did not parse as XML", zap.String("path", navPath), zap.Error(err))
		return nil
	}

	root := doc.Root()
	if root == nil {
		return nil
	}

	navEl := findTocNav(root)
	if navEl == nil {
		log.Warn("nav document has no nav[epub:type=toc] element", zap.String("path", navPath))
		return nil
	}

	ol := findChild(navEl, "ol")
	if ol == nil {
		return nil
	}
	return parseNavOl(navPath, ol)
}

// findTocNav searches the whole tree (nav[@epub:type='toc'] need not be a
// direct child of the document root) for the navigation element marked as
// the table of contents.
func findTocNav(el *etree.Element) *etree.Element {
	if localName(el.Tag) == "nav" && hasEpubType(el, "toc") {
		return el
	}
	for _, c := range el.ChildElements() {
		if found := findTocNav(c); found != nil {
			return found
		}
	}
	return nil
}

func hasEpubType(el *etree.Element, want string) bool {
	for _, attr := range el.Attr {
		if localName(attr.Key) == "type" && attr.Value == want {
			return true
		}
	}
	return false
}

func parseNavOl(navPath string, ol *etree.Element) []NavPoint {
	var points []NavPoint
	for _, li := range ol.ChildElements() {
		if localName(li.Tag) != "li" {
			continue
		}
		points = append(points, parseNavLi(navPath, li))
	}
	return points
}

func parseNavLi(navPath string, li *etree.Element) NavPoint {
	np := NavPoint{}

	if a := findChild(li, "a"); a != nil {
		np.Label = a.Text()
		href := a.SelectAttrValue("href", "")
		p, frag := splitFragment(href)
		np.TargetPath = resolveHref(navPath, p)
		np.TargetFrag = frag
	}

	if childOl := findChild(li, "ol"); childOl != nil {
		np.Children = parseNavOl(navPath, childOl)
	}

	return np
}
