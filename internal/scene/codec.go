package scene

import (
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"drawbridge/internal/domain"
)

// documentDoc is the YAML snapshot form of a document.
type documentDoc struct {
	Name     string  `yaml:"name"`
	Editable bool    `yaml:"editable"`
	Root     nodeDoc `yaml:"root"`
}

type nodeDoc struct {
	ID       string          `yaml:"id"`
	Type     domain.NodeType `yaml:"type"`
	Name     string          `yaml:"name"`
	Visible  *bool           `yaml:"visible,omitempty"`
	Locked   bool            `yaml:"locked,omitempty"`
	Opacity  *float64        `yaml:"opacity,omitempty"`
	X        float64         `yaml:"x,omitempty"`
	Y        float64         `yaml:"y,omitempty"`
	Width    float64         `yaml:"width,omitempty"`
	Height   float64         `yaml:"height,omitempty"`
	Rotation float64         `yaml:"rotation,omitempty"`

	Fills        []domain.Paint  `yaml:"fills,omitempty"`
	Strokes      []domain.Paint  `yaml:"strokes,omitempty"`
	StrokeWeight float64         `yaml:"strokeWeight,omitempty"`
	Effects      []domain.Effect `yaml:"effects,omitempty"`
	CornerRadius float64         `yaml:"cornerRadius,omitempty"`

	Characters     string  `yaml:"characters,omitempty"`
	FontFamily     string  `yaml:"fontFamily,omitempty"`
	FontStyle      string  `yaml:"fontStyle,omitempty"`
	FontSize       float64 `yaml:"fontSize,omitempty"`
	LetterSpacing  float64 `yaml:"letterSpacing,omitempty"`
	LineHeight     float64 `yaml:"lineHeight,omitempty"`
	TextCase       string  `yaml:"textCase,omitempty"`
	TextDecoration string  `yaml:"textDecoration,omitempty"`

	Operation  string `yaml:"operation,omitempty"`
	Path       string `yaml:"path,omitempty"`
	PointCount int    `yaml:"pointCount,omitempty"`

	Layout *layoutDoc `yaml:"layout,omitempty"`

	Children []nodeDoc `yaml:"children,omitempty"`
}

type layoutDoc struct {
	Mode         string  `yaml:"mode"`
	PadTop       float64 `yaml:"padTop,omitempty"`
	PadRight     float64 `yaml:"padRight,omitempty"`
	PadBottom    float64 `yaml:"padBottom,omitempty"`
	PadLeft      float64 `yaml:"padLeft,omitempty"`
	ItemSpacing  float64 `yaml:"itemSpacing,omitempty"`
	PrimaryAlign string  `yaml:"primaryAlign,omitempty"`
	CounterAlign string  `yaml:"counterAlign,omitempty"`
	SizingH      string  `yaml:"sizingH,omitempty"`
	SizingV      string  `yaml:"sizingV,omitempty"`
}

// Snapshot serializes the full tree to YAML.
func (g *Graph) Snapshot() ([]byte, error) {
	doc := documentDoc{
		Name:     g.name,
		Editable: g.editable,
		Root:     encodeNode(g.root),
	}
	return yaml.Marshal(doc)
}

// Restore replaces the tree with the snapshot's contents.
func (g *Graph) Restore(data []byte) error {
	var doc documentDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse document snapshot: %w", err)
	}
	if doc.Root.Type != domain.NodePage {
		return fmt.Errorf("document root must be a PAGE node, got %s", doc.Root.Type)
	}

	nodes := map[string]domain.Node{}
	parents := map[string]string{}
	root, err := decodeNode(doc.Root, nodes, parents, g.fonts)
	if err != nil {
		return err
	}

	g.name = doc.Name
	g.editable = doc.Editable
	g.root = root.(*Page)
	g.nodes = nodes
	g.parents = parents
	g.selection = nil
	g.annotations = map[string][]domain.Annotation{}
	return nil
}

func encodeNode(n domain.Node) nodeDoc {
	visible := n.Visible()
	opacity := n.Opacity()
	d := nodeDoc{
		ID:      n.ID(),
		Type:    n.Type(),
		Name:    n.Name(),
		Visible: &visible,
		Locked:  n.Locked(),
		Opacity: &opacity,
	}
	if p, ok := n.(domain.Positioned); ok {
		d.X, d.Y = p.Position()
	}
	if r, ok := n.(domain.Resizable); ok {
		d.Width, d.Height = r.Size()
	}
	if r, ok := n.(domain.Rotatable); ok {
		d.Rotation = r.Rotation()
	}
	if f, ok := n.(domain.Fillable); ok {
		d.Fills = f.Fills()
	}
	if s, ok := n.(domain.Strokable); ok {
		d.Strokes = s.Strokes()
		d.StrokeWeight = s.StrokeWeight()
	}
	if e, ok := n.(domain.Effectable); ok {
		d.Effects = e.Effects()
	}
	if c, ok := n.(domain.CornerRadiused); ok {
		d.CornerRadius = c.CornerRadius()
	}
	if t, ok := n.(domain.TextNode); ok {
		d.Characters = t.Characters()
		d.FontFamily = t.Font().Family
		d.FontStyle = t.Font().Style
		d.FontSize = t.FontSize()
		d.LetterSpacing = t.LetterSpacing()
		d.LineHeight = t.LineHeight()
		d.TextCase = t.TextCase()
		d.TextDecoration = t.TextDecoration()
	}
	if b, ok := n.(domain.BooleanNode); ok {
		d.Operation = b.Operation()
	}
	if v, ok := n.(domain.VectorNode); ok {
		d.Path = v.Path()
	}
	switch t := n.(type) {
	case *Polygon:
		d.PointCount = t.PointCount()
	case *Star:
		d.PointCount = t.PointCount()
	}
	if l, ok := n.(domain.LayoutContainer); ok {
		pt, pr, pb, pl := l.Padding()
		sh, sv := l.LayoutSizing()
		d.Layout = &layoutDoc{
			Mode:         l.LayoutMode(),
			PadTop:       pt,
			PadRight:     pr,
			PadBottom:    pb,
			PadLeft:      pl,
			ItemSpacing:  l.ItemSpacing(),
			PrimaryAlign: l.PrimaryAxisAlign(),
			CounterAlign: l.CounterAxisAlign(),
			SizingH:      sh,
			SizingV:      sv,
		}
	}
	if c, ok := n.(domain.Container); ok {
		for _, child := range c.Children() {
			d.Children = append(d.Children, encodeNode(child))
		}
	}
	return d
}

func decodeNode(d nodeDoc, nodes map[string]domain.Node, parents map[string]string, fonts *Catalog) (domain.Node, error) {
	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}
	base := newBase(id, d.Name, d.Type)
	if d.Visible != nil {
		base.visible = *d.Visible
	}
	base.locked = d.Locked
	if d.Opacity != nil {
		base.opacity = *d.Opacity
	}
	base.x, base.y = d.X, d.Y
	base.rotation = d.Rotation

	shape := shapeNode{
		baseNode:     base,
		w:            d.Width,
		h:            d.Height,
		fills:        d.Fills,
		strokes:      d.Strokes,
		strokeWeight: d.StrokeWeight,
		effects:      d.Effects,
	}

	var n domain.Node
	switch d.Type {
	case domain.NodePage:
		n = &Page{baseNode: base}
	case domain.NodeFrame:
		f := &Frame{shapeNode: shape, cornerRadius: d.CornerRadius, layoutMode: "NONE"}
		f.sizingH, f.sizingV = "FIXED", "FIXED"
		if d.Layout != nil {
			f.layoutMode = d.Layout.Mode
			f.padTop, f.padRight, f.padBottom, f.padLeft = d.Layout.PadTop, d.Layout.PadRight, d.Layout.PadBottom, d.Layout.PadLeft
			f.itemSpacing = d.Layout.ItemSpacing
			f.primaryAlign = d.Layout.PrimaryAlign
			f.counterAlign = d.Layout.CounterAlign
			if d.Layout.SizingH != "" {
				f.sizingH = d.Layout.SizingH
			}
			if d.Layout.SizingV != "" {
				f.sizingV = d.Layout.SizingV
			}
		}
		n = f
	case domain.NodeGroup:
		n = &Group{baseNode: base}
	case domain.NodeBoolean:
		op := d.Operation
		if op == "" {
			op = "UNION"
		}
		n = &Boolean{baseNode: base, operation: op}
	case domain.NodeRectangle:
		n = &Rectangle{shapeNode: shape, cornerRadius: d.CornerRadius}
	case domain.NodeEllipse:
		n = &Ellipse{shape}
	case domain.NodePolygon:
		pc := d.PointCount
		if pc == 0 {
			pc = 3
		}
		n = &Polygon{shapeNode: shape, pointCount: pc}
	case domain.NodeStar:
		pc := d.PointCount
		if pc == 0 {
			pc = 5
		}
		n = &Star{shapeNode: shape, pointCount: pc, innerRadius: 0.5}
	case domain.NodeLine:
		n = &Line{shape}
	case domain.NodeVector:
		n = &Vector{shapeNode: shape, path: d.Path}
	case domain.NodeText:
		t := &Text{
			shapeNode:      shape,
			characters:     d.Characters,
			font:           domain.FontName{Family: d.FontFamily, Style: d.FontStyle},
			fontSize:       d.FontSize,
			letterSpacing:  d.LetterSpacing,
			lineHeight:     d.LineHeight,
			textCase:       d.TextCase,
			textDecoration: d.TextDecoration,
		}
		if t.font.Family == "" {
			t.font = fonts.Default()
		}
		if t.fontSize == 0 {
			t.fontSize = 14
		}
		if t.textCase == "" {
			t.textCase = "ORIGINAL"
		}
		if t.textDecoration == "" {
			t.textDecoration = "NONE"
		}
		n = t
	default:
		return nil, fmt.Errorf("snapshot contains unknown node type %q", d.Type)
	}

	nodes[id] = n
	container, isContainer := n.(mutableContainer)
	for _, childDoc := range d.Children {
		if !isContainer {
			return nil, fmt.Errorf("node %s (%s) cannot hold children", id, d.Type)
		}
		child, err := decodeNode(childDoc, nodes, parents, fonts)
		if err != nil {
			return nil, err
		}
		container.insertChild(-1, child)
		parents[child.ID()] = id
	}
	return n, nil
}
