package scene

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCreateNode_UnderRoot(t *testing.T) {
	g := New("doc", testLogger())
	n, err := g.CreateNode(domain.NodeRectangle, "Box", "")
	if err != nil {
		t.Fatal(err)
	}
	if n.Type() != domain.NodeRectangle {
		t.Fatalf("type = %s", n.Type())
	}
	if got, ok := g.NodeByID(n.ID()); !ok || got != n {
		t.Fatal("node not indexed")
	}
	if g.Root().IndexOf(n.ID()) != 0 {
		t.Fatal("node not attached to root")
	}
	parent, ok := g.ParentOf(n.ID())
	if !ok || parent.ID() != g.Root().ID() {
		t.Fatal("parent link missing")
	}
}

func TestCreateNode_UnknownParent(t *testing.T) {
	g := New("doc", testLogger())
	_, err := g.CreateNode(domain.NodeRectangle, "Box", "nope")
	if cmderr.KindOf(err) != cmderr.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCreateNode_ParentNotContainer(t *testing.T) {
	g := New("doc", testLogger())
	rect, _ := g.CreateNode(domain.NodeRectangle, "Box", "")
	_, err := g.CreateNode(domain.NodeEllipse, "Dot", rect.ID())
	if cmderr.KindOf(err) != cmderr.Unsupported {
		t.Fatalf("expected Unsupported, got %v", err)
	}
}

func TestRemoveNode_Subtree(t *testing.T) {
	g := New("doc", testLogger())
	frame, _ := g.CreateNode(domain.NodeFrame, "Frame", "")
	child, _ := g.CreateNode(domain.NodeRectangle, "Box", frame.ID())
	g.SetSelection([]string{child.ID()})

	if err := g.RemoveNode(frame.ID()); err != nil {
		t.Fatal(err)
	}
	if _, ok := g.NodeByID(child.ID()); ok {
		t.Fatal("descendant should be forgotten")
	}
	if len(g.Selection()) != 0 {
		t.Fatal("selection should drop removed nodes")
	}
}

func TestRemoveNode_RootRefused(t *testing.T) {
	g := New("doc", testLogger())
	err := g.RemoveNode(g.Root().ID())
	if cmderr.KindOf(err) != cmderr.Unsupported {
		t.Fatalf("expected Unsupported, got %v", err)
	}
}

func TestMoveNode_ReorderWithinParent(t *testing.T) {
	g := New("doc", testLogger())
	a, _ := g.CreateNode(domain.NodeRectangle, "A", "")
	b, _ := g.CreateNode(domain.NodeRectangle, "B", "")
	c, _ := g.CreateNode(domain.NodeRectangle, "C", "")

	if err := g.MoveNode(c.ID(), "", 0); err != nil {
		t.Fatal(err)
	}
	kids := g.Root().Children()
	if kids[0].ID() != c.ID() || kids[1].ID() != a.ID() || kids[2].ID() != b.ID() {
		t.Fatalf("unexpected order: %s %s %s", kids[0].Name(), kids[1].Name(), kids[2].Name())
	}
}

func TestMoveNode_CycleRefused(t *testing.T) {
	g := New("doc", testLogger())
	outer, _ := g.CreateNode(domain.NodeFrame, "Outer", "")
	inner, _ := g.CreateNode(domain.NodeFrame, "Inner", outer.ID())

	err := g.MoveNode(outer.ID(), inner.ID(), -1)
	if cmderr.KindOf(err) != cmderr.Unsupported {
		t.Fatalf("expected Unsupported for cycle, got %v", err)
	}
}

func TestFonts_UnknownFamilyFails(t *testing.T) {
	g := New("doc", testLogger())
	_, err := g.Fonts().Load(context.Background(), "Comic Sans", "Regular")
	var ce *cmderr.Error
	if !errors.As(err, &ce) || ce.Kind != cmderr.Font {
		t.Fatalf("expected FontError, got %v", err)
	}
}

func TestFonts_UnknownStyleFallsBackToRegular(t *testing.T) {
	g := New("doc", testLogger())
	f, err := g.Fonts().Load(context.Background(), "Inter", "Black Condensed")
	if err != nil {
		t.Fatal(err)
	}
	if f.Style != "Regular" {
		t.Fatalf("expected Regular fallback, got %s", f.Style)
	}
}

func TestExportNode_PNGSignature(t *testing.T) {
	g := New("doc", testLogger())
	n, _ := g.CreateNode(domain.NodeRectangle, "Box", "")
	data, err := g.ExportNode(context.Background(), n.ID(), domain.ExportOptions{Format: "PNG", Scale: 2})
	if err != nil {
		t.Fatal(err)
	}
	sig := []byte{0x89, 'P', 'N', 'G'}
	if len(data) < 4 || string(data[:4]) != string(sig) {
		t.Fatal("expected PNG magic bytes")
	}
}

func TestExportNode_UnsupportedFormat(t *testing.T) {
	g := New("doc", testLogger())
	n, _ := g.CreateNode(domain.NodeRectangle, "Box", "")
	_, err := g.ExportNode(context.Background(), n.ID(), domain.ExportOptions{Format: "TIFF"})
	if cmderr.KindOf(err) != cmderr.Unsupported {
		t.Fatalf("expected Unsupported, got %v", err)
	}
}

func TestAnnotations_ReplaceByLabel(t *testing.T) {
	g := New("doc", testLogger())
	n, _ := g.CreateNode(domain.NodeRectangle, "Box", "")

	if err := g.SetAnnotation(n.ID(), domain.Annotation{Label: "spec", Value: "v1"}); err != nil {
		t.Fatal(err)
	}
	if err := g.SetAnnotation(n.ID(), domain.Annotation{Label: "spec", Value: "v2"}); err != nil {
		t.Fatal(err)
	}
	anns := g.Annotations(n.ID())
	if len(anns) != 1 || anns[0].Value != "v2" {
		t.Fatalf("unexpected annotations: %+v", anns)
	}
}
