package render

import (
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/lvillar/deckforge/document"
)

// Align is horizontal text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// BaselineRatio is the distance from a line's top to its baseline as a
// fraction of the font size. The raster engine places glyphs with it, so a
// text layer built from the same ratio lines up with the capture.
const BaselineRatio = 0.82

// Style is the computed style of a node. Sizes are render pixels.
type Style struct {
	FontSize   float64
	FontFamily string // CSS-like family list, e.g. `"Inter", sans-serif`
	FontWeight string // "400", "700", "bold", ...
	Italic     bool
	LineHeight float64 // multiple of FontSize; 0 means 1.25
	TextAlign  Align
	Uppercase  bool
	Color      color.NRGBA

	Background  color.NRGBA
	Radius      float64
	BorderWidth float64
	BorderColor color.NRGBA
	Opacity     float64 // 0 means fully opaque
	Shadow      bool
}

// EffectiveLineHeight returns the line advance in pixels.
func (s Style) EffectiveLineHeight() float64 {
	lh := s.LineHeight
	if lh <= 0 {
		lh = 1.25
	}
	return s.FontSize * lh
}

// EffectiveOpacity maps the zero value to 1.
func (s Style) EffectiveOpacity() float64 {
	if s.Opacity <= 0 || s.Opacity > 1 {
		return 1
	}
	return s.Opacity
}

// Family is the coarse classification of a font family list.
type Family int

const (
	FamilySans Family = iota
	FamilySerif
	FamilyMono
)

func (f Family) String() string {
	switch f {
	case FamilySerif:
		return "serif"
	case FamilyMono:
		return "mono"
	default:
		return "sans"
	}
}

var knownSerifs = []string{"georgia", "times", "playfair"}

// ClassifyFamily maps a CSS-like family list to sans, serif or monospace.
func ClassifyFamily(family string) Family {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "mono"), strings.Contains(f, "courier"), strings.Contains(f, "code"):
		return FamilyMono
	case strings.Contains(f, "serif") && !strings.Contains(f, "sans-serif"):
		return FamilySerif
	}
	for _, s := range knownSerifs {
		if strings.Contains(f, s) {
			return FamilySerif
		}
	}
	return FamilySans
}

// IsBold reports whether a CSS font weight is bold: the keywords "bold" and
// "bolder" or a numeric weight of at least 600.
func IsBold(weight string) bool {
	w := strings.ToLower(strings.TrimSpace(weight))
	switch w {
	case "bold", "bolder":
		return true
	case "", "normal", "lighter":
		return false
	}
	n, err := strconv.Atoi(w)
	return err == nil && n >= 600
}

// RGBA converts a hex color to color.NRGBA with the given alpha (0-1).
// Invalid input yields transparent black.
func RGBA(hex string, alpha float64) color.NRGBA {
	c, ok := document.ParseHex(hex)
	if !ok {
		return color.NRGBA{}
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(alpha)*255 + 0.5)}
}

// Hex converts a color to #rrggbb, dropping alpha.
func Hex(c color.NRGBA) string {
	return toColorful(c).Hex()
}

// Mix blends two hex colors in Lab space; t=0 yields a, t=1 yields b.
func Mix(a, b string, t float64) color.NRGBA {
	ca := document.MustHex(a)
	cb := document.MustHex(b)
	r, g, bl := ca.BlendLab(cb, clamp01(t)).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: 255}
}

// IsDark reports whether a hex color is dark enough to need light text.
func IsDark(hex string) bool {
	l, _, _ := document.MustHex(hex).Lab()
	return l < 0.5
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

var (
	White       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Black       = color.NRGBA{A: 255}
	Transparent = color.NRGBA{}
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
