package handler

import (
	"context"
	"strings"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/command"
	"drawbridge/internal/domain"
	"drawbridge/internal/params"
)

func registerStyle(reg *command.Registry, d Deps) {
	reg.Register(command.Command{
		Name: "set_fill_color", Doc: "Set a solid fill color",
		RequiresEditable: true, Handler: setFillColor,
	})
	reg.Register(command.Command{
		Name: "set_stroke_color", Doc: "Set a solid stroke color and optional weight",
		RequiresEditable: true, Handler: setStrokeColor,
	})
	reg.Register(command.Command{
		Name: "set_corner_radius", Doc: "Set the corner radius",
		RequiresEditable: true, Handler: setCornerRadius,
	})
	reg.Register(command.Command{
		Name: "set_opacity", Doc: "Set node opacity",
		RequiresEditable: true, Handler: setOpacity,
	})
	reg.Register(command.Command{
		Name: "set_effects", Doc: "Replace the node's effects list",
		RequiresEditable: true, Handler: setEffects,
	})
	reg.Register(command.Command{
		Name: "set_image_fill", Doc: "Fill a node with an image fetched from a URL",
		RequiresEditable: true, Handler: setImageFill(d),
	})
}

func setFillColor(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	f, err := asFillable(n)
	if err != nil {
		return nil, err
	}
	c, err := requireColor(p)
	if err != nil {
		return nil, err
	}
	f.SetFills([]domain.Paint{domain.SolidPaint(c)})
	return command.Result{"success": true, "id": n.ID(), "color": c}, nil
}

func setStrokeColor(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	s, err := asStrokable(n)
	if err != nil {
		return nil, err
	}
	c, err := requireColor(p)
	if err != nil {
		return nil, err
	}
	s.SetStrokes([]domain.Paint{domain.SolidPaint(c)})
	if w := p.Float(fieldWeight, 0); w > 0 {
		s.SetStrokeWeight(w)
	}
	return command.Result{"success": true, "id": n.ID(), "color": c, "strokeWeight": s.StrokeWeight()}, nil
}

func setCornerRadius(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	cr, ok := n.(domain.CornerRadiused)
	if !ok {
		return nil, unsupported(n, "corner radius")
	}
	radius, err := p.RequireFloat(fieldRadius)
	if err != nil {
		return nil, err
	}
	if radius < 0 {
		radius = 0
	}
	cr.SetCornerRadius(radius)
	return command.Result{"success": true, "id": n.ID(), "cornerRadius": radius}, nil
}

func setOpacity(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	opacity, err := p.RequireFloat(fieldOpacity)
	if err != nil {
		return nil, err
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	n.SetOpacity(opacity)
	return command.Result{"success": true, "id": n.ID(), "opacity": opacity}, nil
}

func setEffects(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	e, ok := n.(domain.Effectable)
	if !ok {
		return nil, unsupported(n, "effects")
	}

	var effects []domain.Effect
	for _, entry := range p.ObjectList(fieldEffects) {
		typ := strings.ToUpper(entry.String(params.F("type", "Type", "effectType"), "DROP_SHADOW"))
		switch typ {
		case "DROP_SHADOW", "INNER_SHADOW", "LAYER_BLUR":
		default:
			return nil, cmderr.Newf(cmderr.Generic, "invalid effect type: %s", typ)
		}
		effects = append(effects, domain.Effect{
			Type:    typ,
			Radius:  entry.Float(fieldRadius, 4),
			Color:   entry.RGBA(domain.RGBA{A: 0.25}),
			OffsetX: entry.Float(params.F("offsetX", "offset_x", "dx"), 0),
			OffsetY: entry.Float(params.F("offsetY", "offset_y", "dy"), 0),
		})
	}
	e.SetEffects(effects)
	return command.Result{"success": true, "id": n.ID(), "effectCount": len(effects)}, nil
}

// setImageFill awaits the network fetch before touching the node, so a
// failed download leaves the document untouched.
func setImageFill(d Deps) command.HandlerFunc {
	return func(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
		n, err := resolveNode(doc, p)
		if err != nil {
			return nil, err
		}
		f, err := asFillable(n)
		if err != nil {
			return nil, err
		}
		url, err := p.RequireString(fieldURL)
		if err != nil {
			return nil, err
		}

		data, contentType, err := d.Fetch.Get(ctx, url)
		if err != nil {
			return nil, cmderr.Wrap(cmderr.Network, err, "image fetch failed")
		}

		f.SetFills([]domain.Paint{{Type: "IMAGE", ImageURL: url, ImageData: data}})
		return command.Result{
			"success":     true,
			"id":          n.ID(),
			"url":         url,
			"contentType": contentType,
			"bytes":       len(data),
		}, nil
	}
}
