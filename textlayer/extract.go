// Package textlayer derives the invisible, selectable text that overlays a
// raster capture in the PDF output.
//
// Extract walks a render surface and emits one Instruction per text-bearing
// node, in output units. Placer draws instructions onto a gofpdf page with
// zero alpha so the text is searchable but does not show over the image.
package textlayer

import (
	"strings"

	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/render"
)

// Instruction is one text run positioned in output units. Y is the baseline
// of the first line. Lines holds the line breaks the raster was painted
// with; when it is empty the placer wraps Text itself.
type Instruction struct {
	Text       string
	Lines      []string
	X, Y       float64
	MaxWidth   float64
	FontSize   float64
	LineHeight float64
	Family     render.Family
	Bold       bool
	Italic     bool
	Align      render.Align
}

// textTags are the element tags whose own text is extracted.
var textTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "span": true, "div": true, "li": true, "td": true, "th": true,
	"button": true, "label": true, "a": true, "blockquote": true, "figcaption": true,
}

// IsTextTag reports whether nodes with this tag contribute to the text layer.
func IsTextTag(tag string) bool {
	return textTags[strings.ToLower(tag)]
}

type config struct {
	baselineRatio float64
}

// Option configures extraction.
type Option func(*config)

// WithBaselineRatio overrides the top-to-baseline ratio. The default,
// render.BaselineRatio, matches how the raster engine places glyphs.
func WithBaselineRatio(r float64) Option {
	return func(c *config) {
		if r > 0 && r < 2 {
			c.baselineRatio = r
		}
	}
}

// Extract returns the text instructions of a surface in document order.
// Only a node's own text is used, so a container whose text lives in its
// children emits nothing. Nodes whose text is empty after trimming are
// skipped.
func Extract(s *render.Surface, profile geom.Profile, opts ...Option) []Instruction {
	if s == nil || s.Root == nil {
		return nil
	}
	cfg := config{baselineRatio: render.BaselineRatio}
	for _, opt := range opts {
		opt(&cfg)
	}

	var out []Instruction
	s.Root.Walk(func(n *render.Node) bool {
		if !IsTextTag(n.Tag) {
			return true
		}
		text := strings.TrimSpace(n.Text)
		if text == "" {
			return true
		}
		box := profile.RectToOutput(n.Box)
		size := profile.ToOutput(n.Style.FontSize)
		if !(size > 0) {
			return true
		}
		out = append(out, Instruction{
			Text:       text,
			Lines:      paintedLines(n.Lines),
			X:          box.X,
			Y:          box.Y + cfg.baselineRatio*size,
			MaxWidth:   box.W,
			FontSize:   size,
			LineHeight: profile.ToOutput(n.Style.EffectiveLineHeight()),
			Family:     render.ClassifyFamily(n.Style.FontFamily),
			Bold:       render.IsBold(n.Style.FontWeight),
			Italic:     n.Style.Italic,
			Align:      n.Style.TextAlign,
		})
		return true
	})
	return out
}

// paintedLines copies the node's wrapped lines. Blank lines still take a
// baseline in the raster, so they are kept to preserve the line index.
func paintedLines(lines []string) []string {
	var nonBlank bool
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(l)
		if out[i] != "" {
			nonBlank = true
		}
	}
	if !nonBlank {
		return nil
	}
	return out
}
