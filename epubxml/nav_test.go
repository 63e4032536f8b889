package epubxml

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

const sampleNav = `<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
  <body>
    <nav epub:type="toc">
      <ol>
        <li><a href="c1.xhtml">Chapter 1</a>
          <ol>
            <li><a href="c1.xhtml#s1">Section 1.1</a></li>
          </ol>
        </li>
        <li><a href="sub/c2.xhtml">Chapter 2</a></li>
      </ol>
    </nav>
  </body>
</html>`

func TestParseNav(t *testing.T) {
	points := ParseNav("OEBPS/nav.xhtml", []byte(sampleNav), zaptest.NewLogger(t))

	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(points))
	}
	if points[0].Label != "Chapter 1" {
		t.Errorf("points[0].Label = %q", points[0].Label)
	}
	if points[0].TargetPath != "OEBPS/c1.xhtml" {
		t.Errorf("points[0].TargetPath = %q", points[0].TargetPath)
	}
	if len(points[0].Children) != 1 || points[0].Children[0].TargetFrag != "s1" {
		t.Errorf("expected nested section with fragment s1, got %+v", points[0].Children)
	}
	if points[1].TargetPath != "OEBPS/sub/c2.xhtml" {
		t.Errorf("points[1].TargetPath = %q", points[1].TargetPath)
	}
}

func TestParseNavNoTocElement(t *testing.T) {
	points := ParseNav("nav.xhtml", []byte(`<html><body><nav epub:type="landmarks"><ol><li><a href="x">X</a></li></ol></nav></body></html>`), zaptest.NewLogger(t))
	if len(points) != 0 {
		t.Errorf("expected empty result when no toc nav present, got %v", points)
	}
}
