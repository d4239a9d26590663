package handler

import (
	"context"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/command"
	"drawbridge/internal/domain"
	"drawbridge/internal/params"
	"drawbridge/internal/svg"
)

func registerVector(reg *command.Registry, d Deps) {
	reg.Register(command.Command{
		Name: "create_vector", Doc: "Import SVG markup as a frame of vector layers",
		RequiresEditable: true, Handler: createVector(d),
	})
}

// createVector parses the markup before touching the document, so invalid
// SVG never leaves a half-built frame behind.
func createVector(d Deps) command.HandlerFunc {
	return func(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
		markup, err := p.RequireString(fieldSVG)
		if err != nil {
			return nil, err
		}
		parsed, err := svg.Parse(markup)
		if err != nil {
			return nil, cmderr.Wrap(cmderr.Generic, err, "invalid svg")
		}
		if len(parsed.Elements) == 0 {
			return nil, cmderr.New(cmderr.Generic, "svg markup contains no drawable elements")
		}

		name := p.String(params.Name, "Vector")
		parentID := p.String(params.ParentID, "")

		frame, err := doc.CreateNode(domain.NodeFrame, name, parentID)
		if err != nil {
			return nil, err
		}
		applyGeometry(frame, p)
		if r, ok := frame.(domain.Resizable); ok && !p.Has(params.Width) && !p.Has(params.Height) {
			r.Resize(parsed.Width, parsed.Height)
		}

		children := make([]string, 0, len(parsed.Elements))
		for _, el := range parsed.Elements {
			vn, err := doc.CreateNode(domain.NodeVector, el.Name, frame.ID())
			if err != nil {
				return nil, err
			}
			vn.(domain.VectorNode).SetPath(el.Path)
			if el.Fill != nil {
				if f, ok := vn.(domain.Fillable); ok {
					f.SetFills([]domain.Paint{domain.SolidPaint(*el.Fill)})
				}
			}
			children = append(children, vn.ID())
		}

		res := nodeBrief(frame)
		res["childCount"] = len(children)
		res["children"] = children
		return res, nil
	}
}
