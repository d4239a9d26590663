package handler

import (
	"context"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/command"
	"drawbridge/internal/domain"
	"drawbridge/internal/params"
)

func registerLayout(reg *command.Registry, d Deps) {
	reg.Register(command.Command{
		Name: "set_layout_mode", Doc: "Set auto-layout direction on a frame",
		RequiresEditable: true, Handler: setLayoutMode,
	})
	reg.Register(command.Command{
		Name: "set_padding", Doc: "Set auto-layout padding on a frame",
		RequiresEditable: true, Handler: setPadding,
	})
	reg.Register(command.Command{
		Name: "set_axis_align", Doc: "Set auto-layout axis alignment on a frame",
		RequiresEditable: true, Handler: setAxisAlign,
	})
	reg.Register(command.Command{
		Name: "set_layout_sizing", Doc: "Set auto-layout sizing modes on a frame",
		RequiresEditable: true, Handler: setLayoutSizing,
	})
	reg.Register(command.Command{
		Name: "set_item_spacing", Doc: "Set auto-layout item spacing on a frame",
		RequiresEditable: true, Handler: setItemSpacing,
	})
}

func validLayoutMode(mode string) error {
	switch mode {
	case "NONE", "HORIZONTAL", "VERTICAL":
		return nil
	default:
		return cmderr.Newf(cmderr.Generic, "invalid layout mode: %s", mode)
	}
}

func setLayoutMode(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	l, err := asLayout(n)
	if err != nil {
		return nil, err
	}
	mode, err := p.RequireString(fieldLayoutMode)
	if err != nil {
		return nil, err
	}
	if err := validLayoutMode(mode); err != nil {
		return nil, err
	}
	l.SetLayoutMode(mode)
	return command.Result{"success": true, "id": n.ID(), "layoutMode": mode}, nil
}

// setPadding only overrides the sides that were provided.
func setPadding(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	l, err := asLayout(n)
	if err != nil {
		return nil, err
	}
	top, right, bottom, left := l.Padding()
	top = p.Float(fieldPadTop, top)
	right = p.Float(fieldPadRight, right)
	bottom = p.Float(fieldPadBottom, bottom)
	left = p.Float(fieldPadLeft, left)
	l.SetPadding(top, right, bottom, left)
	return command.Result{
		"success":       true,
		"id":            n.ID(),
		"paddingTop":    top,
		"paddingRight":  right,
		"paddingBottom": bottom,
		"paddingLeft":   left,
	}, nil
}

func setAxisAlign(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	l, err := asLayout(n)
	if err != nil {
		return nil, err
	}

	primary := p.String(fieldPrimaryAlign, l.PrimaryAxisAlign())
	counter := p.String(fieldCounterAlign, l.CounterAxisAlign())
	switch primary {
	case "", "MIN", "CENTER", "MAX", "SPACE_BETWEEN":
	default:
		return nil, cmderr.Newf(cmderr.Generic, "invalid primary axis alignment: %s", primary)
	}
	switch counter {
	case "", "MIN", "CENTER", "MAX":
	default:
		return nil, cmderr.Newf(cmderr.Generic, "invalid counter axis alignment: %s", counter)
	}
	l.SetPrimaryAxisAlign(primary)
	l.SetCounterAxisAlign(counter)
	return command.Result{"success": true, "id": n.ID(), "primaryAxisAlign": primary, "counterAxisAlign": counter}, nil
}

func setLayoutSizing(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	l, err := asLayout(n)
	if err != nil {
		return nil, err
	}

	h, v := l.LayoutSizing()
	h = p.String(fieldSizingH, h)
	v = p.String(fieldSizingV, v)
	for _, s := range []string{h, v} {
		switch s {
		case "FIXED", "HUG", "FILL":
		default:
			return nil, cmderr.Newf(cmderr.Generic, "invalid layout sizing: %s", s)
		}
	}
	l.SetLayoutSizing(h, v)
	return command.Result{"success": true, "id": n.ID(), "layoutSizingHorizontal": h, "layoutSizingVertical": v}, nil
}

func setItemSpacing(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	l, err := asLayout(n)
	if err != nil {
		return nil, err
	}
	spacing, err := p.RequireFloat(fieldItemSpacing)
	if err != nil {
		return nil, err
	}
	l.SetItemSpacing(spacing)
	return command.Result{"success": true, "id": n.ID(), "itemSpacing": spacing}, nil
}
