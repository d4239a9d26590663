// Package svg parses a bounded subset of SVG markup into path elements for
// vector import: path, rect, circle, ellipse, line, polygon, and polyline,
// with fill colors and document dimensions. Transforms, gradients, and text
// are not supported.
package svg

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"drawbridge/internal/domain"
)

// Element is one importable shape, normalized to SVG path syntax.
type Element struct {
	Name string
	Path string
	Fill *domain.RGBA
}

// SVG is the parsed import: overall dimensions plus the flattened elements.
type SVG struct {
	Width    float64
	Height   float64
	Elements []Element
}

type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []xmlNode  `xml:",any"`
}

func (n *xmlNode) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (n *xmlNode) floatAttr(name string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(n.attr(name)), "px"), 64)
	return v
}

// Parse reads SVG markup and flattens the supported shapes.
func Parse(markup string) (*SVG, error) {
	var root xmlNode
	if err := xml.Unmarshal([]byte(markup), &root); err != nil {
		return nil, fmt.Errorf("parse svg markup: %w", err)
	}
	if root.XMLName.Local != "svg" {
		return nil, fmt.Errorf("root element is %q, expected svg", root.XMLName.Local)
	}

	out := &SVG{Width: root.floatAttr("width"), Height: root.floatAttr("height")}
	if vb := root.attr("viewBox"); vb != "" {
		parts := strings.Fields(strings.ReplaceAll(vb, ",", " "))
		if len(parts) == 4 {
			w, _ := strconv.ParseFloat(parts[2], 64)
			h, _ := strconv.ParseFloat(parts[3], 64)
			if out.Width == 0 {
				out.Width = w
			}
			if out.Height == 0 {
				out.Height = h
			}
		}
	}
	if out.Width == 0 {
		out.Width = 100
	}
	if out.Height == 0 {
		out.Height = 100
	}

	collect(&root, out)
	if len(out.Elements) == 0 {
		return nil, fmt.Errorf("svg markup contains no importable shapes")
	}
	return out, nil
}

func collect(n *xmlNode, out *SVG) {
	for i := range n.Nodes {
		child := &n.Nodes[i]
		switch child.XMLName.Local {
		case "g", "svg":
			collect(child, out)
			continue
		}
		path, ok := toPath(child)
		if !ok {
			continue
		}
		el := Element{Name: child.XMLName.Local, Path: path}
		if c, ok := parseColor(child.attr("fill")); ok {
			el.Fill = &c
		}
		out.Elements = append(out.Elements, el)
	}
}

// toPath converts a basic shape element to path syntax. Grounded on the
// usual shape-to-path equivalences: a rect becomes M/H/V/Z, a circle two
// arcs, and so on.
func toPath(n *xmlNode) (string, bool) {
	f := func(name string) float64 { return n.floatAttr(name) }
	switch n.XMLName.Local {
	case "path":
		d := strings.TrimSpace(n.attr("d"))
		return d, d != ""
	case "rect":
		x, y, w, h := f("x"), f("y"), f("width"), f("height")
		if w <= 0 || h <= 0 {
			return "", false
		}
		return fmt.Sprintf("M%g %gH%gV%gH%gZ", x, y, x+w, y+h, x), true
	case "circle":
		cx, cy, r := f("cx"), f("cy"), f("r")
		if r <= 0 {
			return "", false
		}
		return fmt.Sprintf("M%g %gA%g %g 0 1 0 %g %gA%g %g 0 1 0 %g %gZ",
			cx-r, cy, r, r, cx+r, cy, r, r, cx-r, cy), true
	case "ellipse":
		cx, cy, rx, ry := f("cx"), f("cy"), f("rx"), f("ry")
		if rx <= 0 || ry <= 0 {
			return "", false
		}
		return fmt.Sprintf("M%g %gA%g %g 0 1 0 %g %gA%g %g 0 1 0 %g %gZ",
			cx-rx, cy, rx, ry, cx+rx, cy, rx, ry, cx-rx, cy), true
	case "line":
		return fmt.Sprintf("M%g %gL%g %g", f("x1"), f("y1"), f("x2"), f("y2")), true
	case "polygon", "polyline":
		points := strings.Fields(strings.ReplaceAll(n.attr("points"), ",", " "))
		if len(points) < 4 || len(points)%2 != 0 {
			return "", false
		}
		var sb strings.Builder
		for i := 0; i < len(points); i += 2 {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&sb, "%s%s %s", cmd, points[i], points[i+1])
		}
		if n.XMLName.Local == "polygon" {
			sb.WriteString("Z")
		}
		return sb.String(), true
	default:
		return "", false
	}
}

// parseColor handles #rgb, #rrggbb, and a few named colors; everything else
// (none, url refs, rgb() syntax) is skipped.
func parseColor(s string) (domain.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none", "transparent":
		return domain.RGBA{}, false
	case "black":
		return domain.RGBA{A: 1}, true
	case "white":
		return domain.RGBA{R: 1, G: 1, B: 1, A: 1}, true
	case "red":
		return domain.RGBA{R: 1, A: 1}, true
	case "green":
		return domain.RGBA{G: 0.5, A: 1}, true
	case "blue":
		return domain.RGBA{B: 1, A: 1}, true
	}
	if !strings.HasPrefix(s, "#") {
		return domain.RGBA{}, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return domain.RGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return domain.RGBA{}, false
	}
	return domain.RGBA{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
		A: 1,
	}, true
}
