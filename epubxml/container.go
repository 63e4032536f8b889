package epubxml

import (
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/pixel-reader/epubcore/common"
)

// ParseContainer reads META-INF/container.xml and returns the full-path of
// the first rootfile element. Fails with common.ErrInvalidContainer if no
// rootfile element is present.
func ParseContainer(data []byte, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		log.Warn("container.xml did not parse as XML", zap.Error(err))
		return "", fmt.Errorf("%w: %v", common.ErrInvalidContainer, err)
	}

	rootfile := doc.FindElement("//rootfiles/rootfile")
	if rootfile == nil {
		return "", common.ErrInvalidContainer
	}

	fullPath := rootfile.SelectAttrValue("full-path", "")
	if fullPath == "" {
		return "", common.ErrInvalidContainer
	}
	return fullPath, nil
}
