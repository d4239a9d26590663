package handler

import (
	"context"

	"drawbridge/internal/command"
	"drawbridge/internal/domain"
	"drawbridge/internal/params"
)

func registerShapes(reg *command.Registry, d Deps) {
	reg.Register(command.Command{
		Name: "create_rectangle", Doc: "Create a rectangle",
		RequiresEditable: true, Handler: createShape(domain.NodeRectangle, "Rectangle"),
	})
	reg.Register(command.Command{
		Name: "create_ellipse", Doc: "Create an ellipse",
		RequiresEditable: true, Handler: createShape(domain.NodeEllipse, "Ellipse"),
	})
	reg.Register(command.Command{
		Name: "create_polygon", Doc: "Create a regular polygon",
		RequiresEditable: true, Handler: createShape(domain.NodePolygon, "Polygon"),
	})
	reg.Register(command.Command{
		Name: "create_star", Doc: "Create a star",
		RequiresEditable: true, Handler: createShape(domain.NodeStar, "Star"),
	})
	reg.Register(command.Command{
		Name: "create_line", Doc: "Create a line",
		RequiresEditable: true, Handler: createShape(domain.NodeLine, "Line"),
	})
	reg.Register(command.Command{
		Name: "create_frame", Doc: "Create a frame",
		RequiresEditable: true, Handler: createFrame,
	})
}

// createShape builds the handler for one shape kind. Defaults: 100x100 at
// the origin, named after the kind.
func createShape(typ domain.NodeType, defaultName string) command.HandlerFunc {
	return func(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
		name := p.String(params.Name, defaultName)
		parentID := p.String(params.ParentID, "")

		n, err := doc.CreateNode(typ, name, parentID)
		if err != nil {
			return nil, err
		}
		applyGeometry(n, p)

		if c, err := requireColor(p); err == nil {
			if f, ok := n.(domain.Fillable); ok {
				f.SetFills([]domain.Paint{domain.SolidPaint(c)})
			}
		}
		if p.Has(fieldRadius) {
			if cr, ok := n.(domain.CornerRadiused); ok {
				cr.SetCornerRadius(p.Float(fieldRadius, 0))
			}
		}
		if p.Has(fieldSides) {
			if pc, ok := n.(interface{ SetPointCount(int) }); ok {
				if sides := p.Int(fieldSides, 0); sides >= 3 {
					pc.SetPointCount(sides)
				}
			}
		}
		return nodeBrief(n), nil
	}
}

func createFrame(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	name := p.String(params.Name, "Frame")
	parentID := p.String(params.ParentID, "")

	n, err := doc.CreateNode(domain.NodeFrame, name, parentID)
	if err != nil {
		return nil, err
	}
	applyGeometry(n, p)

	if c, err := requireColor(p); err == nil {
		n.(domain.Fillable).SetFills([]domain.Paint{domain.SolidPaint(c)})
	}
	if mode := p.String(fieldLayoutMode, ""); mode != "" {
		if err := validLayoutMode(mode); err != nil {
			return nil, err
		}
		n.(domain.LayoutContainer).SetLayoutMode(mode)
	}
	return nodeBrief(n), nil
}

// applyGeometry applies x/y/width/height when the node supports them.
func applyGeometry(n domain.Node, p params.Bag) {
	if pos, ok := n.(domain.Positioned); ok {
		pos.MoveTo(p.Float(params.X, 0), p.Float(params.Y, 0))
	}
	if r, ok := n.(domain.Resizable); ok {
		w, h := r.Size()
		r.Resize(p.Float(params.Width, w), p.Float(params.Height, h))
	}
}
