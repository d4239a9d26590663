package handler

import (
	"context"
	"fmt"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/command"
	"drawbridge/internal/domain"
	"drawbridge/internal/params"
)

func registerManipulate(reg *command.Registry, d Deps) {
	reg.Register(command.Command{
		Name: "move_node", Doc: "Move a node to an absolute position",
		RequiresEditable: true, Handler: moveNode,
	})
	reg.Register(command.Command{
		Name: "resize_node", Doc: "Resize a node",
		RequiresEditable: true, Handler: resizeNode,
	})
	reg.Register(command.Command{
		Name: "set_rotation", Doc: "Set a node's rotation in degrees",
		RequiresEditable: true, Handler: setRotation,
	})
	reg.Register(command.Command{
		Name: "rename_node", Doc: "Rename a node",
		RequiresEditable: true, Handler: renameNode,
	})
	reg.Register(command.Command{
		Name: "set_node_visible", Doc: "Show or hide a node",
		RequiresEditable: true, Handler: setNodeVisible,
	})
	reg.Register(command.Command{
		Name: "set_node_locked", Doc: "Lock or unlock a node",
		RequiresEditable: true, Handler: setNodeLocked,
	})
	reg.Register(command.Command{
		Name: "delete_node", Doc: "Delete a node and its subtree",
		RequiresEditable: true, Handler: deleteNode,
	})
	reg.Register(command.Command{
		Name: "delete_multiple_nodes", Doc: "Delete several nodes, continuing past failures",
		RequiresEditable: true, Handler: deleteMultipleNodes,
	})
	reg.Register(command.Command{
		Name: "clone_node", Doc: "Deep-copy a node next to the original",
		RequiresEditable: true, Handler: cloneNode(d),
	})
	reg.Register(command.Command{
		Name: "flatten_node", Doc: "Replace a node with a vector of its outline",
		RequiresEditable: true, Handler: flattenNode,
	})
	reg.Register(command.Command{
		Name: "set_selection", Doc: "Replace the current selection",
		RequiresEditable: true, Handler: setSelection,
	})
	reg.Register(command.Command{
		Name: "set_annotation", Doc: "Attach an annotation to a node",
		RequiresEditable: true, Handler: setAnnotation,
	})
}

func moveNode(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	pos, err := asPositioned(n)
	if err != nil {
		return nil, err
	}
	x, err := p.RequireFloat(params.X)
	if err != nil {
		return nil, err
	}
	y, err := p.RequireFloat(params.Y)
	if err != nil {
		return nil, err
	}
	pos.MoveTo(x, y)
	return command.Result{"success": true, "id": n.ID(), "x": x, "y": y}, nil
}

func resizeNode(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	r, err := asResizable(n)
	if err != nil {
		return nil, err
	}
	w, err := p.RequireFloat(params.Width)
	if err != nil {
		return nil, err
	}
	h, err := p.RequireFloat(params.Height)
	if err != nil {
		return nil, err
	}
	if w < 0 || h < 0 {
		return nil, cmderr.Newf(cmderr.Generic, "width and height must be non-negative")
	}
	r.Resize(w, h)
	return command.Result{"success": true, "id": n.ID(), "width": w, "height": h}, nil
}

func setRotation(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	rot, ok := n.(domain.Rotatable)
	if !ok {
		return nil, unsupported(n, "rotation")
	}
	deg, err := p.RequireFloat(fieldRotation)
	if err != nil {
		return nil, err
	}
	rot.SetRotation(deg)
	return command.Result{"success": true, "id": n.ID(), "rotation": deg}, nil
}

func renameNode(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	name, err := p.RequireString(params.Name)
	if err != nil {
		return nil, err
	}
	n.SetName(name)
	return command.Result{"success": true, "id": n.ID(), "name": name}, nil
}

func setNodeVisible(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	if !p.Has(fieldVisible) {
		return nil, cmderr.Newf(cmderr.MissingParameter, "missing required parameter %q", "visible")
	}
	v := p.Bool(fieldVisible, true)
	n.SetVisible(v)
	return command.Result{"success": true, "id": n.ID(), "visible": v}, nil
}

func setNodeLocked(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	if !p.Has(fieldLocked) {
		return nil, cmderr.Newf(cmderr.MissingParameter, "missing required parameter %q", "locked")
	}
	v := p.Bool(fieldLocked, false)
	n.SetLocked(v)
	return command.Result{"success": true, "id": n.ID(), "locked": v}, nil
}

func deleteNode(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	id, err := p.RequireString(params.NodeID)
	if err != nil {
		return nil, err
	}
	if err := doc.RemoveNode(id); err != nil {
		return nil, err
	}
	return command.Result{"success": true, "id": id}, nil
}

// deleteMultipleNodes never aborts early: each id is attempted and the
// result reports both sides.
func deleteMultipleNodes(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	ids, err := p.RequireStringList(params.NodeIDs)
	if err != nil {
		return nil, err
	}

	var deleted []string
	var failed []command.Result
	for _, id := range ids {
		if err := doc.RemoveNode(id); err != nil {
			failed = append(failed, command.Result{"nodeId": id, "error": err.Error()})
			continue
		}
		deleted = append(deleted, id)
	}

	return command.Result{
		"success":        true,
		"totalRequested": len(ids),
		"successCount":   len(deleted),
		"failureCount":   len(failed),
		"deleted":        deleted,
		"failed":         failed,
	}, nil
}

// cloneNode deep-copies via the capability surface; annotations are copied
// best-effort and never fail the clone.
func cloneNode(d Deps) command.HandlerFunc {
	return func(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
		n, err := resolveNode(doc, p)
		if err != nil {
			return nil, err
		}
		parent, ok := doc.ParentOf(n.ID())
		if !ok {
			return nil, cmderr.Newf(cmderr.Unsupported, "cannot clone node %s: it has no parent", n.ID())
		}
		clone, err := copySubtree(doc, d, n, parent.ID())
		if err != nil {
			return nil, err
		}
		// Offset the copy so it does not sit exactly on the original.
		if pos, ok := clone.(domain.Positioned); ok {
			x, y := pos.Position()
			pos.MoveTo(x+10, y+10)
		}
		return nodeBrief(clone), nil
	}
}

func copySubtree(doc domain.Document, d Deps, src domain.Node, parentID string) (domain.Node, error) {
	clone, err := doc.CreateNode(src.Type(), src.Name(), parentID)
	if err != nil {
		return nil, err
	}
	copyProperties(src, clone)

	for _, a := range doc.Annotations(src.ID()) {
		if err := doc.SetAnnotation(clone.ID(), a); err != nil {
			d.Logger.Warn("annotation copy failed", "node", clone.ID(), "err", err)
		}
	}

	if srcC, ok := src.(domain.Container); ok {
		for _, child := range srcC.Children() {
			if _, err := copySubtree(doc, d, child, clone.ID()); err != nil {
				return nil, err
			}
		}
	}
	return clone, nil
}

func copyProperties(src, dst domain.Node) {
	dst.SetVisible(src.Visible())
	dst.SetLocked(src.Locked())
	dst.SetOpacity(src.Opacity())
	if sp, ok := src.(domain.Positioned); ok {
		if dp, ok := dst.(domain.Positioned); ok {
			x, y := sp.Position()
			dp.MoveTo(x, y)
		}
	}
	if sr, ok := src.(domain.Resizable); ok {
		if dr, ok := dst.(domain.Resizable); ok {
			w, h := sr.Size()
			dr.Resize(w, h)
		}
	}
	if srot, ok := src.(domain.Rotatable); ok {
		if drot, ok := dst.(domain.Rotatable); ok {
			drot.SetRotation(srot.Rotation())
		}
	}
	if sf, ok := src.(domain.Fillable); ok {
		if df, ok := dst.(domain.Fillable); ok {
			df.SetFills(append([]domain.Paint(nil), sf.Fills()...))
		}
	}
	if ss, ok := src.(domain.Strokable); ok {
		if ds, ok := dst.(domain.Strokable); ok {
			ds.SetStrokes(append([]domain.Paint(nil), ss.Strokes()...))
			ds.SetStrokeWeight(ss.StrokeWeight())
		}
	}
	if se, ok := src.(domain.Effectable); ok {
		if de, ok := dst.(domain.Effectable); ok {
			de.SetEffects(append([]domain.Effect(nil), se.Effects()...))
		}
	}
	if sc, ok := src.(domain.CornerRadiused); ok {
		if dc, ok := dst.(domain.CornerRadiused); ok {
			dc.SetCornerRadius(sc.CornerRadius())
		}
	}
	if st, ok := src.(domain.TextNode); ok {
		if dt, ok := dst.(domain.TextNode); ok {
			dt.SetCharacters(st.Characters())
			dt.SetFont(st.Font())
			dt.SetFontSize(st.FontSize())
			dt.SetLetterSpacing(st.LetterSpacing())
			dt.SetLineHeight(st.LineHeight())
			dt.SetTextCase(st.TextCase())
			dt.SetTextDecoration(st.TextDecoration())
		}
	}
	if sv, ok := src.(domain.VectorNode); ok {
		if dv, ok := dst.(domain.VectorNode); ok {
			dv.SetPath(sv.Path())
		}
	}
	if sb, ok := src.(domain.BooleanNode); ok {
		if db, ok := dst.(domain.BooleanNode); ok {
			db.SetOperation(sb.Operation())
		}
	}
	if sl, ok := src.(domain.LayoutContainer); ok {
		if dl, ok := dst.(domain.LayoutContainer); ok {
			dl.SetLayoutMode(sl.LayoutMode())
			dl.SetPadding(sl.Padding())
			dl.SetItemSpacing(sl.ItemSpacing())
			dl.SetPrimaryAxisAlign(sl.PrimaryAxisAlign())
			dl.SetCounterAxisAlign(sl.CounterAxisAlign())
			dl.SetLayoutSizing(sl.LayoutSizing())
		}
	}
}

// flattenNode replaces the node with a VECTOR of its outline at the same
// spot in the layer order.
func flattenNode(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	r, err := asResizable(n)
	if err != nil {
		return nil, err
	}
	parent, ok := doc.ParentOf(n.ID())
	if !ok {
		return nil, cmderr.Newf(cmderr.Unsupported, "cannot flatten node %s: it has no parent", n.ID())
	}
	index := parent.IndexOf(n.ID())

	vec, err := doc.CreateNode(domain.NodeVector, n.Name(), parent.ID())
	if err != nil {
		return nil, err
	}
	copyProperties(n, vec)
	if vn, ok := vec.(domain.VectorNode); ok && vn.Path() == "" {
		w, h := r.Size()
		vn.SetPath(rectPath(w, h))
	}
	if err := doc.RemoveNode(n.ID()); err != nil {
		return nil, err
	}
	if err := doc.MoveNode(vec.ID(), parent.ID(), index); err != nil {
		return nil, err
	}
	return nodeBrief(vec), nil
}

func rectPath(w, h float64) string {
	return fmt.Sprintf("M0 0H%gV%gH0Z", w, h)
}

// setSelection keeps the ids that resolve and reports the rest, without
// aborting on the first miss.
func setSelection(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	ids := p.StringList(params.NodeIDs)
	if len(ids) == 0 {
		if id := p.String(params.NodeID, ""); id != "" {
			ids = []string{id}
		}
	}

	var selected []string
	var missing []string
	for _, id := range ids {
		if _, ok := doc.NodeByID(id); ok {
			selected = append(selected, id)
		} else {
			missing = append(missing, id)
		}
	}
	doc.SetSelection(selected)

	return command.Result{
		"success":        true,
		"totalRequested": len(ids),
		"successCount":   len(selected),
		"failureCount":   len(missing),
		"selected":       selected,
		"missing":        missing,
	}, nil
}

func setAnnotation(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	id, err := p.RequireString(params.NodeID)
	if err != nil {
		return nil, err
	}
	label, err := p.RequireString(fieldLabel)
	if err != nil {
		return nil, err
	}
	a := domain.Annotation{
		Label:    label,
		Value:    p.String(fieldValue, ""),
		Category: p.String(fieldCategory, ""),
	}
	if err := doc.SetAnnotation(id, a); err != nil {
		return nil, err
	}
	return command.Result{"success": true, "id": id, "label": label}, nil
}
