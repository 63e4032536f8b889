package epubxml

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

const sampleNCX = `<?xml version="1.0"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/">
  <navMap>
    <navPoint id="np1">
      <navLabel><text>Chapter 1</text></navLabel>
      <content src="c1.xhtml"/>
      <navPoint id="np1-1">
        <navLabel><text>Section 1.1</text></navLabel>
        <content src="c1.xhtml#s1"/>
      </navPoint>
    </navPoint>
    <navPoint id="np2">
      <navLabel><text>Chapter 2</text></navLabel>
      <content src="sub/c2.xhtml"/>
    </navPoint>
  </navMap>
</ncx>`

func TestParseNCX(t *testing.T) {
	points := ParseNCX("OEBPS/toc.ncx", []byte(sampleNCX), zaptest.NewLogger(t))

	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(points))
	}
	if points[0].Label != "Chapter 1" {
		t.Errorf("points[0].Label = %q", points[0].Label)
	}
	if points[0].TargetPath != "OEBPS/c1.xhtml" {
		t.Errorf("points[0].TargetPath = %q", points[0].TargetPath)
	}
	if len(points[0].Children) != 1 {
		t.Fatalf("points[0] should have one child, got %d", len(points[0].Children))
	}
	child := points[0].Children[0]
	if child.TargetFrag != "s1" {
		t.Errorf("child.TargetFrag = %q, want %q", child.TargetFrag, "s1")
	}

	if points[1].TargetPath != "OEBPS/sub/c2.xhtml" {
		t.Errorf("points[1].TargetPath = %q", points[1].TargetPath)
	}
}

func TestParseNCXMalformed(t *testing.T) {
	points := ParseNCX("toc.ncx", []byte("<<<bad"), zaptest.NewLogger(t))
	if points != nil {
		t.Errorf("expected nil result for malformed NCX, got %v", points)
	}
}

func TestParseNCXMissingNavMap(t *testing.T) {
	points := ParseNCX("toc.ncx", []byte("<ncx/>"), zaptest.NewLogger(t))
	if len(points) != 0 {
		t.Errorf("expected empty result, got %v", points)
	}
}
