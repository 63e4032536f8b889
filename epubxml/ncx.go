package epubxml

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// ParseNCX flattens navMap/navPoint into a tree of NavPoint preserving
// document order. A malformed or unparseable NCX document yields an empty
// tree and a logged diagnostic rather than an error, matching the
// best-effort contract shared by all four parsers.
func ParseNCX(ncxPath string, data []byte, log *zap.Logger) []NavPoint {
	if log == nil {
		log = zap.NewNop()
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		log.Warn("NCX did not parse as XML", zap.String("path", ncxPath), zap.Error(err))
		return nil
	}

	root := doc.Root()
	if root == nil {
		return nil
	}

	navMap := findChild(root, "navMap")
	if navMap == nil {
		log.Warn("NCX has no navMap", zap.String("path", ncxPath))
		return nil
	}

	return parseNavPoints(ncxPath, navMap.ChildElements())
}

func parseNavPoints(ncxPath string, els []*etree.Element) []NavPoint {
	var points []NavPoint
	for _, el := range els {
		if localName(el.Tag) != "navPoint" {
			continue
		}
		points = append(points, parseNavPoint(ncxPath, el))
	}
	return points
}

func parseNavPoint(ncxPath string, el *etree.Element) NavPoint {
	np := NavPoint{}

	if label := findChild(el, "navLabel"); label != nil {
		if text := findChild(label, "text"); text != nil {
			np.Label = text.Text()
		}
	}

	if content := findChild(el, "content"); content != nil {
		src := content.SelectAttrValue("src", "")
		p, frag := splitFragment(src)
		np.TargetPath = resolveHref(ncxPath, p)
		np.TargetFrag = frag
	}

	np.Children = parseNavPoints(ncxPath, el.ChildElements())
	return np
}
