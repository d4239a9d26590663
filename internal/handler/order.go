package handler

import (
	"context"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/command"
	"drawbridge/internal/domain"
	"drawbridge/internal/params"
)

func registerOrder(reg *command.Registry, d Deps) {
	reg.Register(command.Command{
		Name: "reorder_layer", Doc: "Move a node to a specific index among its siblings",
		RequiresEditable: true, Handler: reorderLayer,
	})
	reg.Register(command.Command{
		Name: "move_to_front", Doc: "Move a node to the top of its siblings",
		RequiresEditable: true, Handler: orderMover(func(i, last int) int { return last }),
	})
	reg.Register(command.Command{
		Name: "move_to_back", Doc: "Move a node to the bottom of its siblings",
		RequiresEditable: true, Handler: orderMover(func(i, last int) int { return 0 }),
	})
	reg.Register(command.Command{
		Name: "move_forward", Doc: "Move a node one step up among its siblings",
		RequiresEditable: true, Handler: orderMover(func(i, last int) int { return i + 1 }),
	})
	reg.Register(command.Command{
		Name: "move_backward", Doc: "Move a node one step down among its siblings",
		RequiresEditable: true, Handler: orderMover(func(i, last int) int { return i - 1 }),
	})
}

func siblingSlot(doc domain.Document, p params.Bag) (domain.Node, domain.Container, int, int, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	parent, ok := doc.ParentOf(n.ID())
	if !ok {
		return nil, nil, 0, 0, cmderr.Newf(cmderr.Unsupported, "cannot reorder node %s: it has no parent", n.ID())
	}
	return n, parent, parent.IndexOf(n.ID()), len(parent.Children()) - 1, nil
}

// reorderLayer clamps the target index to the valid sibling range instead
// of rejecting out-of-range values.
func reorderLayer(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, parent, _, last, err := siblingSlot(doc, p)
	if err != nil {
		return nil, err
	}
	target, err := p.RequireInt(fieldTargetIndex)
	if err != nil {
		return nil, err
	}
	if target < 0 {
		target = 0
	}
	if target > last {
		target = last
	}
	if err := doc.MoveNode(n.ID(), parent.ID(), target); err != nil {
		return nil, err
	}
	return command.Result{"success": true, "id": n.ID(), "index": target}, nil
}

func orderMover(slot func(current, last int) int) command.HandlerFunc {
	return func(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
		n, parent, current, last, err := siblingSlot(doc, p)
		if err != nil {
			return nil, err
		}
		target := slot(current, last)
		if target < 0 {
			target = 0
		}
		if target > last {
			target = last
		}
		if target != current {
			if err := doc.MoveNode(n.ID(), parent.ID(), target); err != nil {
				return nil, err
			}
		}
		return command.Result{"success": true, "id": n.ID(), "index": target}, nil
	}
}
