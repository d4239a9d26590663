package handler

import (
	"context"
	"strings"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/command"
	"drawbridge/internal/domain"
	"drawbridge/internal/params"
)

func registerGroupOps(reg *command.Registry, d Deps) {
	reg.Register(command.Command{
		Name: "group_nodes", Doc: "Wrap nodes in a new group",
		RequiresEditable: true, Handler: groupNodes,
	})
	reg.Register(command.Command{
		Name: "ungroup_nodes", Doc: "Dissolve a group into its parent",
		RequiresEditable: true, Handler: ungroupNodes,
	})
	reg.Register(command.Command{
		Name: "create_boolean_operation", Doc: "Combine nodes with a boolean operation",
		RequiresEditable: true, Handler: createBooleanOperation,
	})
	// Shorthand forms with the operation baked in.
	for _, op := range []string{"UNION", "SUBTRACT", "INTERSECT", "EXCLUDE"} {
		op := op
		reg.Register(command.Command{
			Name:             "boolean_" + strings.ToLower(op),
			Doc:              "Combine nodes with a boolean " + strings.ToLower(op),
			RequiresEditable: true,
			Handler: func(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
				return booleanCombine(doc, p, op)
			},
		})
	}
}

// resolveAll aborts on the first id that does not resolve, unlike the
// multi-delete family.
func resolveAll(doc domain.Document, ids []string) ([]domain.Node, error) {
	nodes := make([]domain.Node, 0, len(ids))
	for _, id := range ids {
		n, ok := doc.NodeByID(id)
		if !ok {
			return nil, cmderr.Newf(cmderr.NotFound, "node not found: %s", id)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func groupNodes(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	ids, err := p.RequireStringList(params.NodeIDs)
	if err != nil {
		return nil, err
	}
	if len(ids) < 2 {
		return nil, cmderr.New(cmderr.Generic, "at least 2 node IDs are required to group")
	}
	nodes, err := resolveAll(doc, ids)
	if err != nil {
		return nil, err
	}

	parent, ok := doc.ParentOf(nodes[0].ID())
	if !ok {
		return nil, cmderr.Newf(cmderr.Unsupported, "cannot group node %s: it has no parent", nodes[0].ID())
	}

	name := p.String(params.Name, "Group")
	group, err := doc.CreateNode(domain.NodeGroup, name, parent.ID())
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if err := doc.MoveNode(n.ID(), group.ID(), -1); err != nil {
			return nil, err
		}
	}

	res := nodeBrief(group)
	res["childCount"] = len(nodes)
	return res, nil
}

func ungroupNodes(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	if n.Type() != domain.NodeGroup && n.Type() != domain.NodeFrame {
		return nil, unsupported(n, "ungrouping")
	}
	c, err := asContainer(n)
	if err != nil {
		return nil, err
	}
	parent, ok := doc.ParentOf(n.ID())
	if !ok {
		return nil, cmderr.Newf(cmderr.Unsupported, "cannot ungroup node %s: it has no parent", n.ID())
	}

	index := parent.IndexOf(n.ID())
	children := c.Children()
	released := make([]string, 0, len(children))
	for i, child := range children {
		if err := doc.MoveNode(child.ID(), parent.ID(), index+i); err != nil {
			return nil, err
		}
		released = append(released, child.ID())
	}
	if err := doc.RemoveNode(n.ID()); err != nil {
		return nil, err
	}

	return command.Result{"success": true, "id": n.ID(), "released": released}, nil
}

func createBooleanOperation(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	op := strings.ToUpper(p.String(fieldOperation, "UNION"))
	return booleanCombine(doc, p, op)
}

// booleanCombine wraps the nodes in a BOOLEAN_OPERATION. The first miss
// aborts: a boolean result with a missing operand is meaningless.
func booleanCombine(doc domain.Document, p params.Bag, op string) (command.Result, error) {
	switch op {
	case "UNION", "SUBTRACT", "INTERSECT", "EXCLUDE":
	default:
		return nil, cmderr.Newf(cmderr.Generic, "invalid boolean operation: %s", op)
	}

	ids := p.StringList(params.NodeIDs)
	if len(ids) < 2 {
		return nil, cmderr.Newf(cmderr.Generic, "At least 2 node IDs are required for boolean %s", strings.ToLower(op))
	}
	nodes, err := resolveAll(doc, ids)
	if err != nil {
		return nil, err
	}

	parent, ok := doc.ParentOf(nodes[0].ID())
	if !ok {
		return nil, cmderr.Newf(cmderr.Unsupported, "cannot combine node %s: it has no parent", nodes[0].ID())
	}

	name := p.String(params.Name, op[:1]+strings.ToLower(op[1:]))
	bn, err := doc.CreateNode(domain.NodeBoolean, name, parent.ID())
	if err != nil {
		return nil, err
	}
	bn.(domain.BooleanNode).SetOperation(op)
	for _, n := range nodes {
		if err := doc.MoveNode(n.ID(), bn.ID(), -1); err != nil {
			return nil, err
		}
	}

	res := nodeBrief(bn)
	res["operation"] = op
	res["childCount"] = len(nodes)
	return res, nil
}
