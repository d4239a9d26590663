package domain

// NodeType identifies the kind of a scene node.
type NodeType string

const (
	NodePage      NodeType = "PAGE"
	NodeFrame     NodeType = "FRAME"
	NodeGroup     NodeType = "GROUP"
	NodeRectangle NodeType = "RECTANGLE"
	NodeEllipse   NodeType = "ELLIPSE"
	NodePolygon   NodeType = "POLYGON"
	NodeStar      NodeType = "STAR"
	NodeLine      NodeType = "LINE"
	NodeText      NodeType = "TEXT"
	NodeVector    NodeType = "VECTOR"
	NodeBoolean   NodeType = "BOOLEAN_OPERATION"
)

// RGBA is a normalized color (each component in [0,1]).
type RGBA struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
	A float64 `json:"a" yaml:"a"`
}

// Paint is a single fill or stroke entry.
type Paint struct {
	Type      string `json:"type" yaml:"type"` // "SOLID" | "IMAGE"
	Color     RGBA   `json:"color,omitempty" yaml:"color,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	ImageData []byte `json:"-" yaml:"-"`
}

// SolidPaint builds a SOLID paint from a color.
func SolidPaint(c RGBA) Paint { return Paint{Type: "SOLID", Color: c} }

// Effect is a visual effect applied to a node (shadow, blur).
type Effect struct {
	Type    string  `json:"type" yaml:"type"` // "DROP_SHADOW" | "INNER_SHADOW" | "LAYER_BLUR"
	Radius  float64 `json:"radius" yaml:"radius"`
	Color   RGBA    `json:"color,omitempty" yaml:"color,omitempty"`
	OffsetX float64 `json:"offsetX,omitempty" yaml:"offsetX,omitempty"`
	OffsetY float64 `json:"offsetY,omitempty" yaml:"offsetY,omitempty"`
}

// FontName names a font family and style.
type FontName struct {
	Family string `json:"family" yaml:"family"`
	Style  string `json:"style" yaml:"style"`
}

// Node is the minimal surface every scene node exposes.
type Node interface {
	ID() string
	Name() string
	SetName(string)
	Type() NodeType
	Visible() bool
	SetVisible(bool)
	Locked() bool
	SetLocked(bool)
	Opacity() float64
	SetOpacity(float64)
}

// Positioned nodes have an x/y offset relative to their parent.
type Positioned interface {
	Node
	Position() (x, y float64)
	MoveTo(x, y float64)
}

// Resizable nodes have a width and height.
type Resizable interface {
	Node
	Size() (w, h float64)
	Resize(w, h float64)
}

// Rotatable nodes carry a rotation in degrees.
type Rotatable interface {
	Node
	Rotation() float64
	SetRotation(deg float64)
}

// Fillable nodes carry fill paints.
type Fillable interface {
	Node
	Fills() []Paint
	SetFills([]Paint)
}

// Strokable nodes carry stroke paints and a stroke weight.
type Strokable interface {
	Node
	Strokes() []Paint
	SetStrokes([]Paint)
	StrokeWeight() float64
	SetStrokeWeight(float64)
}

// CornerRadiused nodes have a uniform corner radius.
type CornerRadiused interface {
	Node
	CornerRadius() float64
	SetCornerRadius(float64)
}

// Effectable nodes carry a list of visual effects.
type Effectable interface {
	Node
	Effects() []Effect
	SetEffects([]Effect)
}

// TextNode is the capability surface of text layers.
type TextNode interface {
	Node
	Characters() string
	SetCharacters(string)
	Font() FontName
	SetFont(FontName)
	FontSize() float64
	SetFontSize(float64)
	LetterSpacing() float64
	SetLetterSpacing(float64)
	LineHeight() float64
	SetLineHeight(float64)
	TextCase() string // "ORIGINAL" | "UPPER" | "LOWER" | "TITLE"
	SetTextCase(string)
	TextDecoration() string // "NONE" | "UNDERLINE" | "STRIKETHROUGH"
	SetTextDecoration(string)
}

// Container nodes hold an ordered list of children. Structural mutation
// (reparenting, reordering) goes through Document.MoveNode so the document
// index stays consistent.
type Container interface {
	Node
	Children() []Node
	IndexOf(id string) int
}

// LayoutContainer is a container with auto-layout properties.
type LayoutContainer interface {
	Container
	LayoutMode() string // "NONE" | "HORIZONTAL" | "VERTICAL"
	SetLayoutMode(string)
	Padding() (top, right, bottom, left float64)
	SetPadding(top, right, bottom, left float64)
	ItemSpacing() float64
	SetItemSpacing(float64)
	PrimaryAxisAlign() string // "MIN" | "CENTER" | "MAX" | "SPACE_BETWEEN"
	SetPrimaryAxisAlign(string)
	CounterAxisAlign() string // "MIN" | "CENTER" | "MAX"
	SetCounterAxisAlign(string)
	LayoutSizing() (horizontal, vertical string) // "FIXED" | "HUG" | "FILL"
	SetLayoutSizing(horizontal, vertical string)
}

// VectorNode carries path geometry in SVG path syntax.
type VectorNode interface {
	Node
	Path() string
	SetPath(string)
}

// BooleanNode combines its children with a boolean operation.
type BooleanNode interface {
	Container
	Operation() string // "UNION" | "SUBTRACT" | "INTERSECT" | "EXCLUDE"
	SetOperation(string)
}
