// Package scene is an in-memory scene graph: an acyclic node tree rooted at
// a PAGE node, with the structural bookkeeping (id index, parent links,
// selection) owned by the Graph. It carries no mutex; the command loop
// dispatches one request at a time and any further synchronization belongs
// to the document owner.
package scene

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/domain"
)

// mutableContainer is the package-internal mutation surface of containers.
type mutableContainer interface {
	domain.Container
	insertChild(i int, n domain.Node)
	removeChild(id string) domain.Node
}

// Graph implements domain.Document.
type Graph struct {
	name        string
	root        *Page
	editable    bool
	nodes       map[string]domain.Node
	parents     map[string]string
	selection   []string
	fonts       *Catalog
	styles      []domain.StyleInfo
	annotations map[string][]domain.Annotation
	logger      *slog.Logger
}

// New creates an empty document with a PAGE root.
func New(name string, logger *slog.Logger) *Graph {
	if name == "" {
		name = "Untitled"
	}
	root := &Page{baseNode: newBase(uuid.NewString(), "Page 1", domain.NodePage)}
	g := &Graph{
		name:        name,
		root:        root,
		editable:    true,
		nodes:       map[string]domain.Node{root.ID(): root},
		parents:     map[string]string{},
		fonts:       NewCatalog(),
		styles:      defaultStyles(),
		annotations: map[string][]domain.Annotation{},
		logger:      logger,
	}
	return g
}

func defaultStyles() []domain.StyleInfo {
	black := domain.SolidPaint(domain.RGBA{A: 1})
	white := domain.SolidPaint(domain.RGBA{R: 1, G: 1, B: 1, A: 1})
	accent := domain.SolidPaint(domain.RGBA{R: 0.1, G: 0.45, B: 0.9, A: 1})
	return []domain.StyleInfo{
		{ID: "S:paint-black", Name: "Black", Kind: "PAINT", Paint: &black},
		{ID: "S:paint-white", Name: "White", Kind: "PAINT", Paint: &white},
		{ID: "S:paint-accent", Name: "Accent", Kind: "PAINT", Paint: &accent},
		{ID: "S:text-body", Name: "Body", Kind: "TEXT"},
		{ID: "S:text-heading", Name: "Heading", Kind: "TEXT"},
	}
}

func (g *Graph) Name() string           { return g.name }
func (g *Graph) Root() domain.Container { return g.root }
func (g *Graph) Editable() bool         { return g.editable }

// SetEditable toggles whether mutating commands are permitted.
func (g *Graph) SetEditable(v bool) { g.editable = v }

func (g *Graph) NodeByID(id string) (domain.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *Graph) ParentOf(id string) (domain.Container, bool) {
	pid, ok := g.parents[id]
	if !ok {
		return nil, false
	}
	p, ok := g.nodes[pid]
	if !ok {
		return nil, false
	}
	c, ok := p.(domain.Container)
	return c, ok
}

func (g *Graph) Fonts() domain.FontCatalog { return g.fonts }
func (g *Graph) Styles() []domain.StyleInfo {
	out := make([]domain.StyleInfo, len(g.styles))
	copy(out, g.styles)
	return out
}

func (g *Graph) Selection() []string {
	out := make([]string, len(g.selection))
	copy(out, g.selection)
	return out
}

func (g *Graph) SetSelection(ids []string) {
	g.selection = append([]string(nil), ids...)
}

// defaultShapeFill is the paint new shapes are created with.
var defaultShapeFill = domain.SolidPaint(domain.RGBA{R: 0.85, G: 0.85, B: 0.85, A: 1})

// CreateNode creates a node of the given type under parentID (empty = root).
func (g *Graph) CreateNode(typ domain.NodeType, name, parentID string) (domain.Node, error) {
	parent, err := g.container(parentID)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	var n domain.Node
	switch typ {
	case domain.NodeFrame:
		f := &Frame{shapeNode: shapeNode{baseNode: newBase(id, name, typ)}, layoutMode: "NONE"}
		f.w, f.h = 100, 100
		f.fills = []domain.Paint{domain.SolidPaint(domain.RGBA{R: 1, G: 1, B: 1, A: 1})}
		f.sizingH, f.sizingV = "FIXED", "FIXED"
		n = f
	case domain.NodeGroup:
		n = &Group{baseNode: newBase(id, name, typ)}
	case domain.NodeBoolean:
		n = &Boolean{baseNode: newBase(id, name, typ), operation: "UNION"}
	case domain.NodeRectangle:
		r := &Rectangle{shapeNode: shapeNode{baseNode: newBase(id, name, typ)}}
		r.w, r.h = 100, 100
		r.fills = []domain.Paint{defaultShapeFill}
		n = r
	case domain.NodeEllipse:
		e := &Ellipse{shapeNode{baseNode: newBase(id, name, typ)}}
		e.w, e.h = 100, 100
		e.fills = []domain.Paint{defaultShapeFill}
		n = e
	case domain.NodePolygon:
		p := &Polygon{shapeNode: shapeNode{baseNode: newBase(id, name, typ)}, pointCount: 3}
		p.w, p.h = 100, 100
		p.fills = []domain.Paint{defaultShapeFill}
		n = p
	case domain.NodeStar:
		s := &Star{shapeNode: shapeNode{baseNode: newBase(id, name, typ)}, pointCount: 5, innerRadius: 0.5}
		s.w, s.h = 100, 100
		s.fills = []domain.Paint{defaultShapeFill}
		n = s
	case domain.NodeLine:
		l := &Line{shapeNode{baseNode: newBase(id, name, typ)}}
		l.w, l.h = 100, 0
		l.strokes = []domain.Paint{domain.SolidPaint(domain.RGBA{A: 1})}
		l.strokeWeight = 1
		n = l
	case domain.NodeVector:
		v := &Vector{shapeNode: shapeNode{baseNode: newBase(id, name, typ)}}
		v.w, v.h = 100, 100
		v.fills = []domain.Paint{domain.SolidPaint(domain.RGBA{A: 1})}
		n = v
	case domain.NodeText:
		t := &Text{shapeNode: shapeNode{baseNode: newBase(id, name, typ)}}
		t.w, t.h = 100, 20
		t.fills = []domain.Paint{domain.SolidPaint(domain.RGBA{A: 1})}
		t.font = g.fonts.Default()
		t.fontSize = 14
		t.textCase = "ORIGINAL"
		t.textDecoration = "NONE"
		n = t
	default:
		return nil, cmderr.Newf(cmderr.Unsupported, "cannot create node of type %s", typ)
	}

	parent.insertChild(-1, n)
	g.nodes[id] = n
	g.parents[id] = parent.ID()
	return n, nil
}

// RemoveNode detaches the node and its subtree from the document.
func (g *Graph) RemoveNode(id string) error {
	n, ok := g.nodes[id]
	if !ok {
		return cmderr.Newf(cmderr.NotFound, "node not found: %s", id)
	}
	if n == domain.Node(g.root) {
		return cmderr.New(cmderr.Unsupported, "cannot remove the page root")
	}
	parent, err := g.container(g.parents[id])
	if err != nil {
		return err
	}
	parent.removeChild(id)
	g.forget(n)
	return nil
}

func (g *Graph) forget(n domain.Node) {
	delete(g.nodes, n.ID())
	delete(g.parents, n.ID())
	delete(g.annotations, n.ID())
	for i, sel := range g.selection {
		if sel == n.ID() {
			g.selection = append(g.selection[:i], g.selection[i+1:]...)
			break
		}
	}
	if c, ok := n.(domain.Container); ok {
		for _, child := range c.Children() {
			g.forget(child)
		}
	}
}

// MoveNode reparents the node under newParentID at the given child index
// (negative = append). Moving within the same parent reorders.
func (g *Graph) MoveNode(id, newParentID string, index int) error {
	n, ok := g.nodes[id]
	if !ok {
		return cmderr.Newf(cmderr.NotFound, "node not found: %s", id)
	}
	if n == domain.Node(g.root) {
		return cmderr.New(cmderr.Unsupported, "cannot move the page root")
	}
	target, err := g.container(newParentID)
	if err != nil {
		return err
	}
	// Reparenting a node into its own subtree would detach it from the
	// tree entirely.
	for cursor := target.ID(); cursor != ""; cursor = g.parents[cursor] {
		if cursor == id {
			return cmderr.Newf(cmderr.Unsupported, "cannot move node %s into its own subtree", id)
		}
	}
	old, err := g.container(g.parents[id])
	if err != nil {
		return err
	}
	old.removeChild(id)
	target.insertChild(index, n)
	g.parents[id] = target.ID()
	return nil
}

// container resolves an id (empty = root) to a mutable container.
func (g *Graph) container(id string) (mutableContainer, error) {
	if id == "" {
		return g.root, nil
	}
	n, ok := g.nodes[id]
	if !ok {
		return nil, cmderr.Newf(cmderr.NotFound, "parent node not found: %s", id)
	}
	c, ok := n.(mutableContainer)
	if !ok {
		return nil, cmderr.Newf(cmderr.Unsupported, "node %s (%s) cannot hold children", id, n.Type())
	}
	return c, nil
}

func (g *Graph) Annotations(nodeID string) []domain.Annotation {
	return append([]domain.Annotation(nil), g.annotations[nodeID]...)
}

func (g *Graph) SetAnnotation(nodeID string, a domain.Annotation) error {
	if _, ok := g.nodes[nodeID]; !ok {
		return cmderr.Newf(cmderr.NotFound, "node not found: %s", nodeID)
	}
	// Replace an existing annotation with the same label.
	for i, existing := range g.annotations[nodeID] {
		if existing.Label == a.Label {
			g.annotations[nodeID][i] = a
			return nil
		}
	}
	g.annotations[nodeID] = append(g.annotations[nodeID], a)
	return nil
}

// ExportNode rasterizes a node to image bytes.
func (g *Graph) ExportNode(ctx context.Context, id string, opts domain.ExportOptions) ([]byte, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, cmderr.Newf(cmderr.NotFound, "node not found: %s", id)
	}
	r, ok := n.(domain.Resizable)
	if !ok {
		return nil, cmderr.Newf(cmderr.Unsupported, "node %s (%s) cannot be exported", id, n.Type())
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return renderFlat(r, opts)
}

var _ domain.Document = (*Graph)(nil)
var _ domain.Snapshotter = (*Graph)(nil)
