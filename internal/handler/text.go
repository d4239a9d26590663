package handler

import (
	"context"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/command"
	"drawbridge/internal/domain"
	"drawbridge/internal/params"
)

func registerText(reg *command.Registry, d Deps) {
	reg.Register(command.Command{
		Name: "create_text", Doc: "Create a text layer",
		RequiresEditable: true, Handler: createText(d),
	})
	reg.Register(command.Command{
		Name: "set_text_content", Doc: "Replace the characters of a text layer",
		RequiresEditable: true, Handler: setTextContent,
	})
	reg.Register(command.Command{
		Name: "set_multiple_text_contents", Doc: "Replace characters on several text layers",
		RequiresEditable: true, Handler: setMultipleTextContents,
	})
	reg.Register(command.Command{
		Name: "set_font", Doc: "Set the font family/style of a text layer",
		RequiresEditable: true, Handler: setFont,
	})
	reg.Register(command.Command{
		Name: "set_font_size", Doc: "Set the font size of a text layer",
		RequiresEditable: true, Handler: textSetter(fieldFontSize, func(t domain.TextNode, v float64) { t.SetFontSize(v) }),
	})
	reg.Register(command.Command{
		Name: "set_letter_spacing", Doc: "Set the letter spacing of a text layer",
		RequiresEditable: true, Handler: textSetter(fieldSpacing, func(t domain.TextNode, v float64) { t.SetLetterSpacing(v) }),
	})
	reg.Register(command.Command{
		Name: "set_line_height", Doc: "Set the line height of a text layer",
		RequiresEditable: true, Handler: textSetter(fieldLineHeight, func(t domain.TextNode, v float64) { t.SetLineHeight(v) }),
	})
	reg.Register(command.Command{
		Name: "set_text_case", Doc: "Set the text case transform of a text layer",
		RequiresEditable: true, Handler: setTextCase,
	})
	reg.Register(command.Command{
		Name: "set_text_decoration", Doc: "Set the text decoration of a text layer",
		RequiresEditable: true, Handler: setTextDecoration,
	})
}

// createText falls back to the default font when the requested family
// cannot be loaded, instead of failing the command.
func createText(d Deps) command.HandlerFunc {
	return func(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
		name := p.String(params.Name, "Text")
		text := p.String(params.Text, "")
		parentID := p.String(params.ParentID, "")

		n, err := doc.CreateNode(domain.NodeText, name, parentID)
		if err != nil {
			return nil, err
		}
		applyGeometry(n, p)

		t := n.(domain.TextNode)
		t.SetCharacters(text)
		if size := p.Float(fieldFontSize, 0); size > 0 {
			t.SetFontSize(size)
		}
		if family := p.String(fieldFontFamily, ""); family != "" {
			font, err := doc.Fonts().Load(ctx, family, p.String(fieldFontStyle, ""))
			if err != nil {
				d.Logger.Warn("font unavailable, using default", "family", family, "err", err)
				font = doc.Fonts().Default()
			}
			t.SetFont(font)
		}
		if c, err := requireColor(p); err == nil {
			t.(domain.Fillable).SetFills([]domain.Paint{domain.SolidPaint(c)})
		}

		res := nodeBrief(n)
		res["characters"] = t.Characters()
		res["fontFamily"] = t.Font().Family
		return res, nil
	}
}

func setTextContent(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	t, err := asText(n)
	if err != nil {
		return nil, err
	}
	text, err := p.RequireString(params.Text)
	if err != nil {
		return nil, err
	}
	t.SetCharacters(text)
	return command.Result{"success": true, "id": n.ID(), "characters": text}, nil
}

// setMultipleTextContents continues past per-item failures and reports a
// mixed result.
func setMultipleTextContents(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	entries := p.ObjectList(fieldTexts)
	if len(entries) == 0 {
		return nil, cmderr.Newf(cmderr.MissingParameter, "missing required parameter %q", "texts")
	}

	var applied []command.Result
	var failed []command.Result
	for _, entry := range entries {
		id, err := entry.RequireString(params.NodeID)
		if err != nil {
			failed = append(failed, command.Result{"nodeId": "", "error": err.Error()})
			continue
		}
		text, err := entry.RequireString(params.Text)
		if err != nil {
			failed = append(failed, command.Result{"nodeId": id, "error": err.Error()})
			continue
		}
		n, ok := doc.NodeByID(id)
		if !ok {
			failed = append(failed, command.Result{"nodeId": id, "error": "node not found: " + id})
			continue
		}
		t, err := asText(n)
		if err != nil {
			failed = append(failed, command.Result{"nodeId": id, "error": err.Error()})
			continue
		}
		t.SetCharacters(text)
		applied = append(applied, command.Result{"nodeId": id, "characters": text})
	}

	return command.Result{
		"success":        true,
		"totalRequested": len(entries),
		"successCount":   len(applied),
		"failureCount":   len(failed),
		"applied":        applied,
		"failed":         failed,
	}, nil
}

// setFont fails with a font error when the family is unavailable; unlike
// create_text it does not silently fall back.
func setFont(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	t, err := asText(n)
	if err != nil {
		return nil, err
	}
	family, err := p.RequireString(fieldFontFamily)
	if err != nil {
		return nil, err
	}
	font, err := doc.Fonts().Load(ctx, family, p.String(fieldFontStyle, ""))
	if err != nil {
		return nil, err
	}
	t.SetFont(font)
	return command.Result{"success": true, "id": n.ID(), "fontFamily": font.Family, "fontStyle": font.Style}, nil
}

func textSetter(f params.Field, apply func(domain.TextNode, float64)) command.HandlerFunc {
	return func(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
		n, err := resolveNode(doc, p)
		if err != nil {
			return nil, err
		}
		t, err := asText(n)
		if err != nil {
			return nil, err
		}
		v, err := p.RequireFloat(f)
		if err != nil {
			return nil, err
		}
		apply(t, v)
		return command.Result{"success": true, "id": n.ID(), f.Name: v}, nil
	}
}

func setTextCase(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	t, err := asText(n)
	if err != nil {
		return nil, err
	}
	value, err := p.RequireString(fieldTextCase)
	if err != nil {
		return nil, err
	}
	switch value {
	case "ORIGINAL", "UPPER", "LOWER", "TITLE":
	default:
		return nil, cmderr.Newf(cmderr.Generic, "invalid text case: %s", value)
	}
	t.SetTextCase(value)
	return command.Result{"success": true, "id": n.ID(), "textCase": value}, nil
}

func setTextDecoration(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	n, err := resolveNode(doc, p)
	if err != nil {
		return nil, err
	}
	t, err := asText(n)
	if err != nil {
		return nil, err
	}
	value, err := p.RequireString(fieldDecoration)
	if err != nil {
		return nil, err
	}
	switch value {
	case "NONE", "UNDERLINE", "STRIKETHROUGH":
	default:
		return nil, cmderr.Newf(cmderr.Generic, "invalid text decoration: %s", value)
	}
	t.SetTextDecoration(value)
	return command.Result{"success": true, "id": n.ID(), "textDecoration": value}, nil
}
