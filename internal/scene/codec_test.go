package scene

import (
	"testing"

	"drawbridge/internal/domain"
)

func buildSampleDoc(t *testing.T) *Graph {
	t.Helper()
	g := New("sample", testLogger())

	frame, err := g.CreateNode(domain.NodeFrame, "Hero", "")
	if err != nil {
		t.Fatal(err)
	}
	lf := frame.(domain.LayoutContainer)
	lf.SetLayoutMode("VERTICAL")
	lf.SetPadding(16, 16, 16, 16)
	lf.SetItemSpacing(8)

	rect, _ := g.CreateNode(domain.NodeRectangle, "Card", frame.ID())
	rect.(domain.CornerRadiused).SetCornerRadius(12)
	rect.(domain.Fillable).SetFills([]domain.Paint{domain.SolidPaint(domain.RGBA{R: 0.2, G: 0.4, B: 0.9, A: 1})})

	text, _ := g.CreateNode(domain.NodeText, "Title", frame.ID())
	tn := text.(domain.TextNode)
	tn.SetCharacters("Hello")
	tn.SetFontSize(24)

	g.SetEditable(false)
	return g
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	g := buildSampleDoc(t)
	data, err := g.Snapshot()
	if err != nil {
		t.Fatal(err)
	}

	restored := New("", testLogger())
	if err := restored.Restore(data); err != nil {
		t.Fatal(err)
	}

	if restored.Name() != "sample" {
		t.Fatalf("name = %s", restored.Name())
	}
	if restored.Editable() {
		t.Fatal("editable flag lost")
	}

	kids := restored.Root().Children()
	if len(kids) != 1 || kids[0].Name() != "Hero" {
		t.Fatalf("unexpected root children: %v", kids)
	}
	frame := kids[0].(domain.LayoutContainer)
	if frame.LayoutMode() != "VERTICAL" {
		t.Fatalf("layout mode = %s", frame.LayoutMode())
	}
	if frame.ItemSpacing() != 8 {
		t.Fatalf("item spacing = %v", frame.ItemSpacing())
	}

	inner := frame.Children()
	if len(inner) != 2 {
		t.Fatalf("expected 2 children, got %d", len(inner))
	}
	rect := inner[0].(domain.CornerRadiused)
	if rect.CornerRadius() != 12 {
		t.Fatalf("corner radius = %v", rect.CornerRadius())
	}
	text := inner[1].(domain.TextNode)
	if text.Characters() != "Hello" || text.FontSize() != 24 {
		t.Fatalf("text lost: %q size %v", text.Characters(), text.FontSize())
	}

	// Ids survive the round trip and the index is rebuilt.
	if _, ok := restored.NodeByID(inner[1].ID()); !ok {
		t.Fatal("restored node missing from index")
	}
	if parent, ok := restored.ParentOf(inner[0].ID()); !ok || parent.ID() != kids[0].ID() {
		t.Fatal("parent links not rebuilt")
	}
}

func TestRestore_RejectsNonPageRoot(t *testing.T) {
	g := New("doc", testLogger())
	err := g.Restore([]byte("name: bad\nroot:\n  type: RECTANGLE\n  name: nope\n"))
	if err == nil {
		t.Fatal("expected error for non-PAGE root")
	}
}
