// Package params normalizes the loosely-typed parameter bags that accompany
// controller commands. Each logical field may arrive under several alternate
// keys; alias lists and defaults are data, resolved by one shared accessor
// instead of per-handler probing.
package params

import (
	"fmt"
	"strconv"
	"strings"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/domain"
)

// Field names a logical parameter and the ordered list of keys it may
// arrive under. The first listed key always wins.
type Field struct {
	Name    string
	Aliases []string
}

// F builds a Field whose canonical name is also its first alias.
func F(name string, aliases ...string) Field {
	return Field{Name: name, Aliases: append([]string{name}, aliases...)}
}

// Canonical fields shared across handlers. The alias lists are part of the
// wire contract and must not be reordered.
var (
	NodeID   = F("nodeId", "node_id", "NodeId", "Node_ID", "id")
	NodeIDs  = F("nodeIds", "node_ids", "Node_Ids", "NodeIds", "ids")
	ParentID = F("parentId", "parent_id", "ParentId", "parent")
	Name     = F("name", "Name", "title")
	X        = F("x", "X")
	Y        = F("y", "Y")
	Width    = F("width", "w", "Width")
	Height   = F("height", "h", "Height")
	Text     = F("text", "content", "characters")
	Color    = F("color", "colour", "rgba")
)

// Bag is one request's parameter map.
type Bag map[string]any

// New wraps a raw parameter map; a nil map yields an empty bag.
func New(m map[string]any) Bag {
	if m == nil {
		return Bag{}
	}
	return Bag(m)
}

// Lookup returns the first defined value among the field's aliases.
func (b Bag) Lookup(f Field) (any, bool) {
	for _, key := range f.Aliases {
		if v, ok := b[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether any alias of the field is present.
func (b Bag) Has(f Field) bool {
	_, ok := b.Lookup(f)
	return ok
}

func missing(f Field) error {
	return cmderr.Newf(cmderr.MissingParameter, "missing required parameter %q", f.Name)
}

// String returns the field as a string, or def when absent.
func (b Bag) String(f Field, def string) string {
	v, ok := b.Lookup(f)
	if !ok {
		return def
	}
	s, ok := asString(v)
	if !ok {
		return def
	}
	return s
}

// RequireString returns the field as a string or a MissingParameter error.
func (b Bag) RequireString(f Field) (string, error) {
	v, ok := b.Lookup(f)
	if !ok {
		return "", missing(f)
	}
	s, ok := asString(v)
	if !ok || s == "" {
		return "", missing(f)
	}
	return s, nil
}

// Float returns the field as a float64, or def when absent or uncoercible.
func (b Bag) Float(f Field, def float64) float64 {
	v, ok := b.Lookup(f)
	if !ok {
		return def
	}
	n, ok := asFloat(v)
	if !ok {
		return def
	}
	return n
}

// RequireFloat returns the field as a float64 or a MissingParameter error.
func (b Bag) RequireFloat(f Field) (float64, error) {
	v, ok := b.Lookup(f)
	if !ok {
		return 0, missing(f)
	}
	n, ok := asFloat(v)
	if !ok {
		return 0, missing(f)
	}
	return n, nil
}

// Int returns the field as an int, or def when absent or uncoercible.
func (b Bag) Int(f Field, def int) int {
	v, ok := b.Lookup(f)
	if !ok {
		return def
	}
	n, ok := asFloat(v)
	if !ok {
		return def
	}
	return int(n)
}

// RequireInt returns the field as an int or a MissingParameter error.
func (b Bag) RequireInt(f Field) (int, error) {
	n, err := b.RequireFloat(f)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Bool returns the field as a bool, or def when absent.
func (b Bag) Bool(f Field, def bool) bool {
	v, ok := b.Lookup(f)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if p, err := strconv.ParseBool(t); err == nil {
			return p
		}
	}
	return def
}

// StringList returns the field as a list of strings. Accepts a native list
// or a comma-separated string; segments are trimmed and empties dropped.
func (b Bag) StringList(f Field) []string {
	v, ok := b.Lookup(f)
	if !ok {
		return nil
	}
	return asStringList(v)
}

// RequireStringList returns a non-empty string list or a MissingParameter
// error.
func (b Bag) RequireStringList(f Field) ([]string, error) {
	v, ok := b.Lookup(f)
	if !ok {
		return nil, missing(f)
	}
	list := asStringList(v)
	if len(list) == 0 {
		return nil, missing(f)
	}
	return list, nil
}

// Object returns a nested parameter object as a Bag.
func (b Bag) Object(f Field) (Bag, bool) {
	v, ok := b.Lookup(f)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return Bag(m), true
}

// ObjectList returns a nested list of parameter objects.
func (b Bag) ObjectList(f Field) []Bag {
	v, ok := b.Lookup(f)
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Bag, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Bag(m))
		}
	}
	return out
}

// RGBA resolves a color from either a nested color object or loose r/g/b/a
// components at the top level. Alpha defaults to 1 when omitted.
func (b Bag) RGBA(def domain.RGBA) domain.RGBA {
	src := b
	if nested, ok := b.Object(Color); ok {
		src = nested
	}
	r, rok := src.lookupFloat("r")
	g, gok := src.lookupFloat("g")
	bl, bok := src.lookupFloat("b")
	if !rok && !gok && !bok {
		return def
	}
	a, aok := src.lookupFloat("a")
	if !aok {
		a = 1
	}
	return domain.RGBA{R: r, G: g, B: bl, A: a}
}

func (b Bag) lookupFloat(key string) (float64, bool) {
	v, ok := b[key]
	if !ok || v == nil {
		return 0, false
	}
	return asFloat(v)
}

// --- coercions ---

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func asStringList(v any) []string {
	switch t := v.(type) {
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := asString(item)
			if !ok {
				s = fmt.Sprintf("%v", item)
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		parts := strings.Split(t, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}
