package epubxml

import (
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/pixel-reader/epubcore/common"
)

// ParsePackage parses the OPF package document at opfPath into
// PackageContents. Fails with common.ErrInvalidPackage only when the bytes
// don't parse as XML at all or carry no manifest/spine element. A manifest
// item missing its id or href, or repeating an earlier id, is logged and
// skipped. Spine itemrefs are recorded in order whether or not they resolve
// against the manifest; only an itemref with no idref is skipped.
//
// resolveEntry reads an archive entry's bytes by path (e.g.
// (*archive.Zip).ReadEntry) and is used to sniff a manifest item's content
// when its declared media-type is empty or not one this package recognizes,
// so a mistyped or omitted @media-type attribute doesn't silently turn a
// real chapter or image into a skipped spine slot. Pass nil to skip sniffing
// entirely.
func ParsePackage(opfPath string, data []byte, resolveEntry func(string) []byte, log *zap.Logger) (*PackageContents, error) {
	if log == nil {
		log = zap.NewNop()
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidPackage, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, common.ErrInvalidPackage
	}

	manifestEl := findChild(root, "manifest")
	spineEl := findChild(root, "spine")
	if manifestEl == nil || spineEl == nil {
		return nil, common.ErrInvalidPackage
	}

	pkg := &PackageContents{
		IDToManifestItem: make(map[string]ManifestItem),
	}

	for _, item := range manifestEl.ChildElements() {
		if localName(item.Tag) != "item" {
			continue
		}
		id := item.SelectAttrValue("id", "")
		href := item.SelectAttrValue("href", "")
		if id == "" || href == "" {
			log.Warn("manifest item missing id or href, skipping")
			continue
		}
		if _, dup := pkg.IDToManifestItem[id]; dup {
			log.Warn("duplicate manifest item id, keeping first", zap.String("id", id))
			continue
		}

		hrefAbsolute := resolveHref(opfPath, href)
		mediaType := item.SelectAttrValue("media-type", "")
		if !recognizedMediaType(mediaType) && resolveEntry != nil {
			if sniffed := SniffMediaType(resolveEntry(hrefAbsolute)); sniffed != "" {
				if mediaType == "" {
					log.Debug("sniffed media type for manifest item with no media-type attribute",
						zap.String("id", id), zap.String("sniffed", sniffed))
				} else {
					log.Warn("manifest item declared an unrecognized media-type, using sniffed content type instead",
						zap.String("id", id), zap.String("declared", mediaType), zap.String("sniffed", sniffed))
				}
				mediaType = sniffed
			}
		}

		pkg.ManifestOrder = append(pkg.ManifestOrder, id)
		pkg.IDToManifestItem[id] = ManifestItem{
			ID:           id,
			HrefAbsolute: hrefAbsolute,
			MediaType:    mediaType,
			Properties:   item.SelectAttrValue("properties", ""),
		}
	}

	pkg.TocID = spineEl.SelectAttrValue("toc", "")

	if metadataEl := findChild(root, "metadata"); metadataEl != nil {
		for _, c := range metadataEl.ChildElements() {
			if localName(c.Tag) == "identifier" {
				pkg.Identifier = c.Text()
				break
			}
		}
	}

	for _, itemref := range spineEl.ChildElements() {
		if localName(itemref.Tag) != "itemref" {
			continue
		}
		idref := itemref.SelectAttrValue("idref", "")
		if idref == "" {
			continue
		}
		// linear="no" items (supplementary content, e.g. footnotes) stay on
		// the spine at their declared position; only a reading app's default
		// navigation order would skip them, not this package.
		pkg.SpineIDs = append(pkg.SpineIDs, idref)
	}

	return pkg, nil
}

// recognizedMediaType reports whether mediaType is one this module has any
// use for; an empty or unrecognized value triggers a content sniff instead
// of being trusted as-is.
func recognizedMediaType(mediaType string) bool {
	switch mediaType {
	case MediaTypeXHTML, MediaTypeNCX, "application/xml",
		"image/jpeg", "image/png", "image/gif", "image/svg+xml", "image/webp",
		"text/css":
		return true
	default:
		return false
	}
}

// findChild returns the first direct child of el with the given local
// (namespace-stripped) tag name, or nil.
func findChild(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if localName(c.Tag) == tag {
			return c
		}
	}
	return nil
}

// localName strips a namespace prefix ("ns:tag" -> "tag"); OPF/NCX/nav
// documents are frequently produced with varying default-namespace setups
// and etree exposes prefixed tags verbatim.
func localName(tag string) string {
	for i := len(tag) - 1; i >= 0; i-- {
		if tag[i] == ':' {
			return tag[i+1:]
		}
	}
	return tag
}
