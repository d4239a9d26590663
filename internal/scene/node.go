package scene

import "drawbridge/internal/domain"

// baseNode carries the properties every node kind shares.
type baseNode struct {
	id       string
	name     string
	typ      domain.NodeType
	visible  bool
	locked   bool
	opacity  float64
	x, y     float64
	rotation float64
}

func newBase(id, name string, typ domain.NodeType) baseNode {
	return baseNode{id: id, name: name, typ: typ, visible: true, opacity: 1}
}

func (n *baseNode) ID() string                { return n.id }
func (n *baseNode) Name() string              { return n.name }
func (n *baseNode) SetName(name string)       { n.name = name }
func (n *baseNode) Type() domain.NodeType     { return n.typ }
func (n *baseNode) Visible() bool             { return n.visible }
func (n *baseNode) SetVisible(v bool)         { n.visible = v }
func (n *baseNode) Locked() bool              { return n.locked }
func (n *baseNode) SetLocked(v bool)          { n.locked = v }
func (n *baseNode) Opacity() float64          { return n.opacity }
func (n *baseNode) SetOpacity(o float64)      { n.opacity = o }
func (n *baseNode) Position() (x, y float64)  { return n.x, n.y }
func (n *baseNode) MoveTo(x, y float64)       { n.x, n.y = x, y }
func (n *baseNode) Rotation() float64         { return n.rotation }
func (n *baseNode) SetRotation(deg float64)   { n.rotation = deg }

// shapeNode adds geometry and paint to baseNode.
type shapeNode struct {
	baseNode
	w, h         float64
	fills        []domain.Paint
	strokes      []domain.Paint
	strokeWeight float64
	effects      []domain.Effect
}

func (n *shapeNode) Size() (w, h float64)              { return n.w, n.h }
func (n *shapeNode) Resize(w, h float64)               { n.w, n.h = w, h }
func (n *shapeNode) Fills() []domain.Paint             { return n.fills }
func (n *shapeNode) SetFills(p []domain.Paint)         { n.fills = p }
func (n *shapeNode) Strokes() []domain.Paint           { return n.strokes }
func (n *shapeNode) SetStrokes(p []domain.Paint)       { n.strokes = p }
func (n *shapeNode) StrokeWeight() float64             { return n.strokeWeight }
func (n *shapeNode) SetStrokeWeight(w float64)         { n.strokeWeight = w }
func (n *shapeNode) Effects() []domain.Effect          { return n.effects }
func (n *shapeNode) SetEffects(e []domain.Effect)      { n.effects = e }

// childList is the child bookkeeping shared by container kinds.
type childList struct {
	children []domain.Node
}

func (c *childList) Children() []domain.Node {
	out := make([]domain.Node, len(c.children))
	copy(out, c.children)
	return out
}

func (c *childList) IndexOf(id string) int {
	for i, n := range c.children {
		if n.ID() == id {
			return i
		}
	}
	return -1
}

func (c *childList) insertChild(i int, n domain.Node) {
	if i < 0 || i > len(c.children) {
		i = len(c.children)
	}
	c.children = append(c.children, nil)
	copy(c.children[i+1:], c.children[i:])
	c.children[i] = n
}

func (c *childList) removeChild(id string) domain.Node {
	i := c.IndexOf(id)
	if i < 0 {
		return nil
	}
	n := c.children[i]
	c.children = append(c.children[:i], c.children[i+1:]...)
	return n
}

// Page is the document root.
type Page struct {
	baseNode
	childList
}

// Frame is a container with optional auto-layout.
type Frame struct {
	shapeNode
	childList
	cornerRadius  float64
	layoutMode    string
	padTop        float64
	padRight      float64
	padBottom     float64
	padLeft       float64
	itemSpacing   float64
	primaryAlign  string
	counterAlign  string
	sizingH       string
	sizingV       string
}

func (f *Frame) CornerRadius() float64          { return f.cornerRadius }
func (f *Frame) SetCornerRadius(r float64)      { f.cornerRadius = r }
func (f *Frame) LayoutMode() string             { return f.layoutMode }
func (f *Frame) SetLayoutMode(m string)         { f.layoutMode = m }
func (f *Frame) Padding() (t, r, b, l float64)  { return f.padTop, f.padRight, f.padBottom, f.padLeft }
func (f *Frame) SetPadding(t, r, b, l float64)  { f.padTop, f.padRight, f.padBottom, f.padLeft = t, r, b, l }
func (f *Frame) ItemSpacing() float64           { return f.itemSpacing }
func (f *Frame) SetItemSpacing(s float64)       { f.itemSpacing = s }
func (f *Frame) PrimaryAxisAlign() string       { return f.primaryAlign }
func (f *Frame) SetPrimaryAxisAlign(a string)   { f.primaryAlign = a }
func (f *Frame) CounterAxisAlign() string       { return f.counterAlign }
func (f *Frame) SetCounterAxisAlign(a string)   { f.counterAlign = a }
func (f *Frame) LayoutSizing() (string, string) { return f.sizingH, f.sizingV }
func (f *Frame) SetLayoutSizing(h, v string)    { f.sizingH, f.sizingV = h, v }

// Group is a plain container without paint of its own.
type Group struct {
	baseNode
	childList
}

// Boolean combines its children with a set operation.
type Boolean struct {
	baseNode
	childList
	operation string
}

func (b *Boolean) Operation() string      { return b.operation }
func (b *Boolean) SetOperation(op string) { b.operation = op }

// Rectangle is a rectangle shape with a uniform corner radius.
type Rectangle struct {
	shapeNode
	cornerRadius float64
}

func (r *Rectangle) CornerRadius() float64     { return r.cornerRadius }
func (r *Rectangle) SetCornerRadius(v float64) { r.cornerRadius = v }

// Ellipse is an ellipse shape.
type Ellipse struct{ shapeNode }

// Polygon is a regular polygon.
type Polygon struct {
	shapeNode
	pointCount int
}

func (p *Polygon) PointCount() int       { return p.pointCount }
func (p *Polygon) SetPointCount(n int)   { p.pointCount = n }

// Star is a star shape.
type Star struct {
	shapeNode
	pointCount  int
	innerRadius float64
}

func (s *Star) PointCount() int            { return s.pointCount }
func (s *Star) SetPointCount(n int)        { s.pointCount = n }
func (s *Star) InnerRadius() float64       { return s.innerRadius }
func (s *Star) SetInnerRadius(r float64)   { s.innerRadius = r }

// Line is a straight line segment.
type Line struct{ shapeNode }

// Vector carries path geometry in SVG path syntax.
type Vector struct {
	shapeNode
	path string
}

func (v *Vector) Path() string        { return v.path }
func (v *Vector) SetPath(path string) { v.path = path }

// Text is a text layer.
type Text struct {
	shapeNode
	characters     string
	font           domain.FontName
	fontSize       float64
	letterSpacing  float64
	lineHeight     float64
	textCase       string
	textDecoration string
}

func (t *Text) Characters() string            { return t.characters }
func (t *Text) SetCharacters(s string)        { t.characters = s }
func (t *Text) Font() domain.FontName         { return t.font }
func (t *Text) SetFont(f domain.FontName)     { t.font = f }
func (t *Text) FontSize() float64             { return t.fontSize }
func (t *Text) SetFontSize(s float64)         { t.fontSize = s }
func (t *Text) LetterSpacing() float64        { return t.letterSpacing }
func (t *Text) SetLetterSpacing(s float64)    { t.letterSpacing = s }
func (t *Text) LineHeight() float64           { return t.lineHeight }
func (t *Text) SetLineHeight(h float64)       { t.lineHeight = h }
func (t *Text) TextCase() string              { return t.textCase }
func (t *Text) SetTextCase(c string)          { t.textCase = c }
func (t *Text) TextDecoration() string        { return t.textDecoration }
func (t *Text) SetTextDecoration(d string)    { t.textDecoration = d }

// Interface conformance checks.
var (
	_ domain.Container       = (*Page)(nil)
	_ domain.LayoutContainer = (*Frame)(nil)
	_ domain.CornerRadiused  = (*Frame)(nil)
	_ domain.Container       = (*Group)(nil)
	_ domain.BooleanNode     = (*Boolean)(nil)
	_ domain.Fillable        = (*Rectangle)(nil)
	_ domain.Strokable       = (*Rectangle)(nil)
	_ domain.CornerRadiused  = (*Rectangle)(nil)
	_ domain.Resizable       = (*Ellipse)(nil)
	_ domain.Effectable      = (*Rectangle)(nil)
	_ domain.VectorNode      = (*Vector)(nil)
	_ domain.TextNode        = (*Text)(nil)
)
