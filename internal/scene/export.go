package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/domain"
)

// renderFlat rasterizes a node as a flat rectangle of its first solid fill.
// A full vector rasterizer is out of scope for the bridge; controllers use
// exports for thumbnails and previews.
func renderFlat(n domain.Resizable, opts domain.ExportOptions) ([]byte, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	w, h := n.Size()
	pw := int(w*scale + 0.5)
	ph := int(h*scale + 0.5)
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}

	fill := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if f, ok := n.(domain.Fillable); ok {
		for _, p := range f.Fills() {
			if p.Type == "SOLID" {
				fill = toColor(p.Color)
				break
			}
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			img.SetRGBA(x, y, fill)
		}
	}

	var buf bytes.Buffer
	switch strings.ToUpper(opts.Format) {
	case "", "PNG":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "JPG", "JPEG":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, err
		}
	default:
		return nil, cmderr.Newf(cmderr.Unsupported, "unsupported export format: %s", opts.Format)
	}
	return buf.Bytes(), nil
}

func toColor(c domain.RGBA) color.RGBA {
	clamp := func(v float64) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
