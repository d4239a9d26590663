package domain

import "context"

// ExportOptions controls rasterization of a node.
type ExportOptions struct {
	Format string  // "PNG" | "JPG"
	Scale  float64 // 1.0 = node size
}

// StyleInfo describes a reusable style defined on the document.
type StyleInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kind  string `json:"kind"` // "PAINT" | "TEXT" | "EFFECT"
	Paint *Paint `json:"paint,omitempty"`
}

// Annotation is a best-effort metadata note attached to a node.
type Annotation struct {
	Label    string `json:"label" yaml:"label"`
	Value    string `json:"value" yaml:"value"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// FontCatalog resolves font families available to text nodes. Load blocks
// until the font is usable and fails if the family is unknown.
type FontCatalog interface {
	Load(ctx context.Context, family, style string) (FontName, error)
	Default() FontName
	List() []FontName
}

// Document is the scene-graph surface command handlers operate on. The
// document owns all structural bookkeeping; handlers never mutate the tree
// except through CreateNode, RemoveNode, and MoveNode.
type Document interface {
	Name() string
	Root() Container

	// Editable reports whether structural mutation is currently permitted.
	Editable() bool

	NodeByID(id string) (Node, bool)
	ParentOf(id string) (Container, bool)

	// CreateNode creates a node of the given type under parentID
	// (empty = root) and returns it.
	CreateNode(typ NodeType, name, parentID string) (Node, error)

	// RemoveNode detaches the node and its subtree from the document.
	RemoveNode(id string) error

	// MoveNode reparents the node under newParentID at the given child
	// index (negative = append). Moving within the same parent reorders.
	MoveNode(id, newParentID string, index int) error

	Selection() []string
	SetSelection(ids []string)

	Fonts() FontCatalog
	Styles() []StyleInfo

	Annotations(nodeID string) []Annotation
	SetAnnotation(nodeID string, a Annotation) error

	// ExportNode rasterizes a node to image bytes.
	ExportNode(ctx context.Context, id string, opts ExportOptions) ([]byte, error)
}

// Snapshotter is implemented by documents that can serialize and restore
// their full tree.
type Snapshotter interface {
	Snapshot() ([]byte, error)
	Restore(data []byte) error
}
