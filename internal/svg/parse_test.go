package svg

import (
	"strings"
	"testing"
)

func TestParse_PathAndViewBox(t *testing.T) {
	doc, err := Parse(`<svg viewBox="0 0 24 16"><path d="M0 0L10 10Z" fill="#ff0000"/></svg>`)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Width != 24 || doc.Height != 16 {
		t.Fatalf("dimensions = %gx%g", doc.Width, doc.Height)
	}
	if len(doc.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(doc.Elements))
	}
	el := doc.Elements[0]
	if el.Path != "M0 0L10 10Z" {
		t.Fatalf("path = %q", el.Path)
	}
	if el.Fill == nil || el.Fill.R != 1 || el.Fill.G != 0 {
		t.Fatalf("fill = %+v", el.Fill)
	}
}

func TestParse_RectToPath(t *testing.T) {
	doc, err := Parse(`<svg width="100" height="100"><rect x="10" y="20" width="30" height="40"/></svg>`)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Elements[0].Path != "M10 20H40V60H10Z" {
		t.Fatalf("path = %q", doc.Elements[0].Path)
	}
}

func TestParse_NestedGroupsFlattened(t *testing.T) {
	doc, err := Parse(`<svg width="10" height="10"><g><g><circle cx="5" cy="5" r="2"/></g><line x1="0" y1="0" x2="9" y2="9"/></g></svg>`)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(doc.Elements))
	}
}

func TestParse_PolygonClosed(t *testing.T) {
	doc, err := Parse(`<svg width="10" height="10"><polygon points="0,0 10,0 5,8"/></svg>`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(doc.Elements[0].Path, "Z") {
		t.Fatalf("polygon path should close: %q", doc.Elements[0].Path)
	}
}

func TestParse_ShortHexColor(t *testing.T) {
	doc, err := Parse(`<svg width="10" height="10"><rect width="5" height="5" fill="#fff"/></svg>`)
	if err != nil {
		t.Fatal(err)
	}
	f := doc.Elements[0].Fill
	if f == nil || f.R != 1 || f.G != 1 || f.B != 1 {
		t.Fatalf("fill = %+v", f)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse(`not xml`); err == nil {
		t.Fatal("expected error for invalid xml")
	}
	if _, err := Parse(`<div/>`); err == nil {
		t.Fatal("expected error for non-svg root")
	}
	if _, err := Parse(`<svg width="10" height="10"><text>hi</text></svg>`); err == nil {
		t.Fatal("expected error when no importable shapes")
	}
}
