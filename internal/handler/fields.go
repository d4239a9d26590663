package handler

import "drawbridge/internal/params"

// Handler-specific fields. Alias order is part of the wire contract.
var (
	fieldRadius       = params.F("radius", "cornerRadius", "corner_radius", "CornerRadius")
	fieldOpacity      = params.F("opacity", "Opacity", "alpha")
	fieldWeight       = params.F("weight", "strokeWeight", "stroke_weight")
	fieldRotation     = params.F("rotation", "angle", "degrees")
	fieldVisible      = params.F("visible", "Visible", "isVisible")
	fieldLocked       = params.F("locked", "Locked", "isLocked")
	fieldTargetIndex  = params.F("targetIndex", "target_index", "index", "TargetIndex")
	fieldOperation    = params.F("operation", "op", "booleanOperation", "boolean_operation")
	fieldFontFamily   = params.F("family", "fontFamily", "font_family")
	fieldFontStyle    = params.F("style", "fontStyle", "font_style")
	fieldFontSize     = params.F("fontSize", "font_size", "size")
	fieldSpacing      = params.F("letterSpacing", "letter_spacing", "spacing")
	fieldLineHeight   = params.F("lineHeight", "line_height")
	fieldTextCase     = params.F("textCase", "text_case", "case")
	fieldDecoration   = params.F("textDecoration", "text_decoration", "decoration")
	fieldTexts        = params.F("texts", "text_updates", "updates", "entries")
	fieldLayoutMode   = params.F("layoutMode", "layout_mode", "mode")
	fieldPadTop       = params.F("paddingTop", "padding_top", "top")
	fieldPadRight     = params.F("paddingRight", "padding_right", "right")
	fieldPadBottom    = params.F("paddingBottom", "padding_bottom", "bottom")
	fieldPadLeft      = params.F("paddingLeft", "padding_left", "left")
	fieldItemSpacing  = params.F("itemSpacing", "item_spacing", "gap")
	fieldPrimaryAlign = params.F("primaryAxisAlign", "primary_axis_align", "primaryAlign")
	fieldCounterAlign = params.F("counterAxisAlign", "counter_axis_align", "counterAlign")
	fieldSizingH      = params.F("layoutSizingHorizontal", "layout_sizing_horizontal", "sizingHorizontal")
	fieldSizingV      = params.F("layoutSizingVertical", "layout_sizing_vertical", "sizingVertical")
	fieldEffects      = params.F("effects", "Effects")
	fieldURL          = params.F("url", "imageUrl", "image_url", "src")
	fieldSVG          = params.F("svg", "svgString", "svg_string", "markup")
	fieldTypes        = params.F("types", "nodeTypes", "node_types")
	fieldFormat       = params.F("format", "Format")
	fieldScale        = params.F("scale", "Scale")
	fieldSides        = params.F("sides", "pointCount", "point_count", "points")
	fieldLabel        = params.F("label", "annotationLabel", "annotation_label")
	fieldValue        = params.F("value", "Value", "annotationValue")
	fieldCategory     = params.F("category", "Category")
	fieldPath         = params.F("path", "file", "filePath", "file_path")
)
