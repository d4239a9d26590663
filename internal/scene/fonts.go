package scene

import (
	"context"
	"sort"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/domain"
)

// Catalog is the set of font families available to text nodes.
type Catalog struct {
	families map[string][]string
	def      domain.FontName
}

// NewCatalog returns a catalog seeded with the built-in families.
func NewCatalog() *Catalog {
	return &Catalog{
		families: map[string][]string{
			"Inter":        {"Regular", "Medium", "Semi Bold", "Bold"},
			"Roboto":       {"Regular", "Medium", "Bold"},
			"Source Serif": {"Regular", "Bold", "Italic"},
			"JetBrains Mono": {"Regular", "Bold"},
		},
		def: domain.FontName{Family: "Inter", Style: "Regular"},
	}
}

// Default returns the fallback font used when loading fails.
func (c *Catalog) Default() domain.FontName { return c.def }

// Load resolves a family/style pair. Unknown families fail with a font
// error; an unknown style within a known family falls back to Regular.
func (c *Catalog) Load(ctx context.Context, family, style string) (domain.FontName, error) {
	select {
	case <-ctx.Done():
		return domain.FontName{}, ctx.Err()
	default:
	}
	styles, ok := c.families[family]
	if !ok {
		return domain.FontName{}, cmderr.Newf(cmderr.Font, "font family not available: %s", family)
	}
	if style == "" {
		style = "Regular"
	}
	for _, s := range styles {
		if s == style {
			return domain.FontName{Family: family, Style: style}, nil
		}
	}
	return domain.FontName{Family: family, Style: "Regular"}, nil
}

// List returns every family/style pair, sorted by family then style.
func (c *Catalog) List() []domain.FontName {
	var out []domain.FontName
	for family, styles := range c.families {
		for _, style := range styles {
			out = append(out, domain.FontName{Family: family, Style: style})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Family != out[j].Family {
			return out[i].Family < out[j].Family
		}
		return out[i].Style < out[j].Style
	})
	return out
}

var _ domain.FontCatalog = (*Catalog)(nil)
