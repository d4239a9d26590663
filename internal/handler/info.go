package handler

import (
	"context"
	"encoding/base64"
	"strings"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/command"
	"drawbridge/internal/domain"
	"drawbridge/internal/params"
)

func registerInfo(reg *command.Registry, d Deps) {
	reg.Register(command.Command{
		Name: "get_document_info", Doc: "Summarize the open document",
		Handler: getDocumentInfo,
	})
	reg.Register(command.Command{
		Name: "get_selection", Doc: "Return the current selection",
		Handler: getSelection,
	})
	reg.Register(command.Command{
		Name: "get_node_info", Doc: "Return detailed properties of one node",
		Handler: getNodeInfo,
	})
	reg.Register(command.Command{
		Name: "get_nodes_info", Doc: "Return detailed properties of several nodes",
		Handler: getNodesInfo,
	})
	reg.Register(command.Command{
		Name: "scan_text_nodes", Doc: "List every text node under a subtree",
		Handler: scanTextNodes,
	})
	reg.Register(command.Command{
		Name: "scan_nodes_by_types", Doc: "List nodes of the given types under a subtree",
		Handler: scanNodesByTypes,
	})
	reg.Register(command.Command{
		Name: "get_styles", Doc: "List the document's reusable styles",
		Handler: getStyles,
	})
	reg.Register(command.Command{
		Name: "get_annotations", Doc: "Return annotations attached to a node",
		Handler: getAnnotations,
	})
	reg.Register(command.Command{
		Name: "export_node_as_image", Doc: "Rasterize a node and return it base64-encoded",
		Handler: exportNodeAsImage,
	})
}

func getDocumentInfo(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	root := doc.Root()
	return command.Result{
		"success":       true,
		"name":          doc.Name(),
		"editable":      doc.Editable(),
		"rootId":        root.ID(),
		"rootType":      string(root.Type()),
		"childCount":    len(root.Children()),
		"selection":     doc.Selection(),
		"selectionSize": len(doc.Selection()),
	}, nil
}

func getSelection(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	ids := doc.Selection()
	nodes := make([]command.Result, 0, len(ids))
	for _, id := range ids {
		if n, ok := doc.NodeByID(id); ok {
			nodes = append(nodes, nodeBrief(n))
		}
	}
	return command.Result{"success": true, "count": len(nodes), "nodes": nodes}, nil
}

func getNodeInfo(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	return nodeDetail(doc, n), nil
}

// getNodesInfo reports every id, resolving or not; a miss becomes an entry
// in failed rather than aborting the batch.
func getNodesInfo(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	ids, err := p.RequireStringList(params.NodeIDs)
	if err != nil {
		return nil, err
	}

	var nodes []command.Result
	var failed []command.Result
	for _, id := range ids {
		n, ok := doc.NodeByID(id)
		if !ok {
			failed = append(failed, command.Result{"nodeId": id, "error": "node not found: " + id})
			continue
		}
		nodes = append(nodes, nodeDetail(doc, n))
	}

	return command.Result{
		"success":        true,
		"totalRequested": len(ids),
		"successCount":   len(nodes),
		"failureCount":   len(failed),
		"nodes":          nodes,
		"failed":         failed,
	}, nil
}

// scanRoot resolves the subtree root: the node id when given, the document
// root otherwise.
func scanRoot(doc domain.Document, p params.Bag) (domain.Node, error) {
	if !p.Has(params.NodeID) {
		return doc.Root(), nil
	}
	return resolveNode(doc, p)
}

func walk(n domain.Node, visit func(domain.Node)) {
	visit(n)
	if c, ok := n.(domain.Container); ok {
		for _, child := range c.Children() {
			walk(child, visit)
		}
	}
}

func scanTextNodes(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	root, err := scanRoot(doc, p)
	if err != nil {
		return nil, err
	}

	var found []command.Result
	walk(root, func(n domain.Node) {
		t, ok := n.(domain.TextNode)
		if !ok {
			return
		}
		found = append(found, command.Result{
			"id":         n.ID(),
			"name":       n.Name(),
			"characters": t.Characters(),
			"fontFamily": t.Font().Family,
			"fontSize":   t.FontSize(),
		})
	})
	return command.Result{"success": true, "count": len(found), "nodes": found}, nil
}

func scanNodesByTypes(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	types, err := p.RequireStringList(fieldTypes)
	if err != nil {
		return nil, err
	}
	want := make(map[domain.NodeType]bool, len(types))
	for _, t := range types {
		want[domain.NodeType(strings.ToUpper(t))] = true
	}

	root, err := scanRoot(doc, p)
	if err != nil {
		return nil, err
	}

	var found []command.Result
	walk(root, func(n domain.Node) {
		if want[n.Type()] {
			found = append(found, nodeBrief(n))
		}
	})
	return command.Result{"success": true, "count": len(found), "nodes": found}, nil
}

func getStyles(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	styles := doc.Styles()
	return command.Result{"success": true, "count": len(styles), "styles": styles}, nil
}

func getAnnotations(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	annotations := doc.Annotations(n.ID())
	return command.Result{"success": true, "id": n.ID(), "count": len(annotations), "annotations": annotations}, nil
}

func exportNodeAsImage(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	format := strings.ToUpper(p.String(fieldFormat, "PNG"))
	scale := p.Float(fieldScale, 1)
	if scale <= 0 {
		return nil, cmderr.Newf(cmderr.Generic, "scale must be positive, got %g", scale)
	}

	data, err := doc.ExportNode(ctx, n.ID(), domain.ExportOptions{Format: format, Scale: scale})
	if err != nil {
		return nil, err
	}
	return command.Result{
		"success":   true,
		"id":        n.ID(),
		"format":    format,
		"scale":     scale,
		"bytes":     len(data),
		"imageData": base64.StdEncoding.EncodeToString(data),
	}, nil
}

// nodeDetail extends nodeBrief with every capability the node exposes.
func nodeDetail(doc domain.Document, n domain.Node) command.Result {
	res := nodeBrief(n)
	res["visible"] = n.Visible()
	res["locked"] = n.Locked()
	res["opacity"] = n.Opacity()

	if parent, ok := doc.ParentOf(n.ID()); ok {
		res["parentId"] = parent.ID()
	}
	if rot, ok := n.(domain.Rotatable); ok {
		res["rotation"] = rot.Rotation()
	}
	if f, ok := n.(domain.Fillable); ok {
		res["fills"] = f.Fills()
	}
	if s, ok := n.(domain.Strokable); ok {
		res["strokes"] = s.Strokes()
		res["strokeWeight"] = s.StrokeWeight()
	}
	if cr, ok := n.(domain.CornerRadiused); ok {
		res["cornerRadius"] = cr.CornerRadius()
	}
	if e, ok := n.(domain.Effectable); ok {
		res["effects"] = e.Effects()
	}
	if t, ok := n.(domain.TextNode); ok {
		res["characters"] = t.Characters()
		res["fontFamily"] = t.Font().Family
		res["fontStyle"] = t.Font().Style
		res["fontSize"] = t.FontSize()
		res["letterSpacing"] = t.LetterSpacing()
		res["lineHeight"] = t.LineHeight()
		res["textCase"] = t.TextCase()
		res["textDecoration"] = t.TextDecoration()
	}
	if v, ok := n.(domain.VectorNode); ok {
		res["path"] = v.Path()
	}
	if b, ok := n.(domain.BooleanNode); ok {
		res["operation"] = b.Operation()
	}
	if l, ok := n.(domain.LayoutContainer); ok {
		res["layoutMode"] = l.LayoutMode()
		top, right, bottom, left := l.Padding()
		res["padding"] = command.Result{"top": top, "right": right, "bottom": bottom, "left": left}
		res["itemSpacing"] = l.ItemSpacing()
	}
	if c, ok := n.(domain.Container); ok {
		ids := make([]string, 0, len(c.Children()))
		for _, child := range c.Children() {
			ids = append(ids, child.ID())
		}
		res["children"] = ids
	}
	if annotations := doc.Annotations(n.ID()); len(annotations) > 0 {
		res["annotations"] = annotations
	}
	return res
}
