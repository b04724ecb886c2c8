package document

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// StyleConfig is the user's visual preference passed to the collaborator and
// to the renderers.
type StyleConfig struct {
	Font    string `json:"font" yaml:"font"`       // font id, see Fonts
	Palette string `json:"palette" yaml:"palette"` // palette id, see Palettes
	Vibe    string `json:"vibe" yaml:"vibe"`       // free-form mood, e.g. "Professional"
}

// DefaultStyle is used when no style is configured.
var DefaultStyle = StyleConfig{Font: "inter", Palette: "corporate", Vibe: "Professional"}

// Palette is a named set of theme colors in #rrggbb form.
type Palette struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Bg        string `json:"bg"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Text      string `json:"text"`
}

// FontChoice maps a font id to a CSS-like family list. Renderers classify
// the list into sans, serif or monospace.
type FontChoice struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Family string `json:"family"`
}

var palettes = []Palette{
	{ID: "corporate", Label: "Corporate", Bg: "#eff6ff", Primary: "#2563eb", Secondary: "#1e40af", Text: "#0f172a"},
	{ID: "forest", Label: "Eco Forest", Bg: "#f0fdf4", Primary: "#16a34a", Secondary: "#14532d", Text: "#052e16"},
	{ID: "sunset", Label: "Vibrant", Bg: "#fff7ed", Primary: "#ea580c", Secondary: "#9a3412", Text: "#431407"},
	{ID: "dark", Label: "Cyber Dark", Bg: "#0f172a", Primary: "#38bdf8", Secondary: "#0ea5e9", Text: "#f8fafc"},
}

var fonts = []FontChoice{
	{ID: "inter", Label: "Modern Sans", Family: `"Inter", sans-serif`},
	{ID: "serif", Label: "Classic Serif", Family: `"Playfair Display", serif`},
	{ID: "tech", Label: "Tech Mono", Family: `"Space Grotesk", sans-serif`},
}

// Palettes returns the built-in palettes.
func Palettes() []Palette {
	return append([]Palette(nil), palettes...)
}

// Fonts returns the built-in font choices.
func Fonts() []FontChoice {
	return append([]FontChoice(nil), fonts...)
}

// PaletteByID returns the palette with the given id, falling back to the
// first palette.
func PaletteByID(id string) Palette {
	for _, p := range palettes {
		if strings.EqualFold(p.ID, id) {
			return p
		}
	}
	return palettes[0]
}

// FontByID returns the font choice with the given id, falling back to the
// first font.
func FontByID(id string) FontChoice {
	for _, f := range fonts {
		if strings.EqualFold(f.ID, id) {
			return f
		}
	}
	return fonts[0]
}

// Normalize fills empty fields from DefaultStyle.
func (s StyleConfig) Normalize() StyleConfig {
	if s.Font == "" {
		s.Font = DefaultStyle.Font
	}
	if s.Palette == "" {
		s.Palette = DefaultStyle.Palette
	}
	if s.Vibe == "" {
		s.Vibe = DefaultStyle.Vibe
	}
	return s
}

// ParseHex parses a #rrggbb (or #rgb) color. Invalid input yields black and
// false.
func ParseHex(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return colorful.Color{}, false
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// MustHex is ParseHex for compile-time constants; invalid input yields black.
func MustHex(s string) colorful.Color {
	c, _ := ParseHex(s)
	return c
}
