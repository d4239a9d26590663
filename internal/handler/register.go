// Package handler implements the command surface: thin adapters that
// normalize parameters, call into the document, and shape a result map.
package handler

import (
	"log/slog"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/command"
	"drawbridge/internal/domain"
	"drawbridge/internal/fetch"
	"drawbridge/internal/params"
)

// Deps carries the collaborators handlers close over.
type Deps struct {
	Fetch  *fetch.Client
	Logger *slog.Logger
}

// RegisterAll installs every command into the registry.
func RegisterAll(reg *command.Registry, d Deps) {
	registerShapes(reg, d)
	registerText(reg, d)
	registerStyle(reg, d)
	registerLayout(reg, d)
	registerManipulate(reg, d)
	registerGroupOps(reg, d)
	registerOrder(reg, d)
	registerInfo(reg, d)
	registerVector(reg, d)
	registerDocument(reg, d)
}

// --- shared lookups ---

// resolveNode reads the node id parameter and looks the node up.
func resolveNode(doc domain.Document, p params.Bag) (domain.Node, error) {
	id, err := p.RequireString(params.NodeID)
	if err != nil {
		return nil, err
	}
	n, ok := doc.NodeByID(id)
	if !ok {
		return nil, cmderr.Newf(cmderr.NotFound, "node not found: %s", id)
	}
	return n, nil
}

func unsupported(n domain.Node, what string) error {
	return cmderr.Newf(cmderr.Unsupported, "node %s (%s) does not support %s", n.ID(), n.Type(), what)
}

func asFillable(n domain.Node) (domain.Fillable, error) {
	f, ok := n.(domain.Fillable)
	if !ok {
		return nil, unsupported(n, "fills")
	}
	return f, nil
}

func asStrokable(n domain.Node) (domain.Strokable, error) {
	s, ok := n.(domain.Strokable)
	if !ok {
		return nil, unsupported(n, "strokes")
	}
	return s, nil
}

func asResizable(n domain.Node) (domain.Resizable, error) {
	r, ok := n.(domain.Resizable)
	if !ok {
		return nil, unsupported(n, "resizing")
	}
	return r, nil
}

func asPositioned(n domain.Node) (domain.Positioned, error) {
	p, ok := n.(domain.Positioned)
	if !ok {
		return nil, unsupported(n, "positioning")
	}
	return p, nil
}

func asText(n domain.Node) (domain.TextNode, error) {
	t, ok := n.(domain.TextNode)
	if !ok {
		return nil, unsupported(n, "text")
	}
	return t, nil
}

func asLayout(n domain.Node) (domain.LayoutContainer, error) {
	l, ok := n.(domain.LayoutContainer)
	if !ok {
		return nil, unsupported(n, "auto-layout")
	}
	return l, nil
}

func asContainer(n domain.Node) (domain.Container, error) {
	c, ok := n.(domain.Container)
	if !ok {
		return nil, unsupported(n, "children")
	}
	return c, nil
}

// requireColor resolves a color parameter, failing when no components were
// provided at all.
func requireColor(p params.Bag) (domain.RGBA, error) {
	sentinel := domain.RGBA{R: -1}
	c := p.RGBA(sentinel)
	if c == sentinel {
		return domain.RGBA{}, cmderr.New(cmderr.MissingParameter, `missing required parameter "color"`)
	}
	return c, nil
}

// nodeBrief is the compact result shape shared by creation handlers.
func nodeBrief(n domain.Node) command.Result {
	res := command.Result{
		"success": true,
		"id":      n.ID(),
		"name":    n.Name(),
		"type":    string(n.Type()),
	}
	if pos, ok := n.(domain.Positioned); ok {
		x, y := pos.Position()
		res["x"], res["y"] = x, y
	}
	if r, ok := n.(domain.Resizable); ok {
		w, h := r.Size()
		res["width"], res["height"] = w, h
	}
	return res
}
