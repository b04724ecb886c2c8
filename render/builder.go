package render

import (
	"image/color"
	"strings"

	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
)

// Theme is the resolved visual style of a deck.
type Theme struct {
	Palette document.Palette
	Font    document.FontChoice
	Vibe    string
}

// ThemeFor resolves a style configuration against the built-in catalogs.
func ThemeFor(style document.StyleConfig) Theme {
	style = style.Normalize()
	return Theme{
		Palette: document.PaletteByID(style.Palette),
		Font:    document.FontByID(style.Font),
		Vibe:    style.Vibe,
	}
}

// ImageResolver turns an image reference into a loadable URL. It returns ""
// when the reference names no image.
type ImageResolver func(document.ImageRef) string

// DirectURL resolves only explicit URLs and ignores prompts.
func DirectURL(ref document.ImageRef) string {
	return strings.TrimSpace(ref.URL)
}

// Layout builds the node tree of one page.
type Layout func(b *Builder, page document.Page) *Node

// Layouts looks up the layout of a template tag.
type Layouts interface {
	Layout(tag document.Tag) (Layout, bool)
}

// Builder creates positioned nodes for a surface of fixed size. Templates
// use it to lay out a page; text is wrapped while building so every painter
// sees the same lines.
type Builder struct {
	Width   float64
	Height  float64
	Theme   Theme
	fonts   *Fonts
	resolve ImageResolver
}

// NewBuilder returns a builder for a width x height surface.
func NewBuilder(width, height float64, theme Theme, fonts *Fonts, resolve ImageResolver) *Builder {
	if fonts == nil {
		fonts = NewFonts()
	}
	if resolve == nil {
		resolve = DirectURL
	}
	return &Builder{Width: width, Height: height, Theme: theme, fonts: fonts, resolve: resolve}
}

// Bounds is the full surface rectangle.
func (b *Builder) Bounds() geom.Rect {
	return geom.R(0, 0, b.Width, b.Height)
}

// Unit is 1% of the surface width. Templates size everything in units so
// the same layout works on every profile.
func (b *Builder) Unit() float64 {
	return b.Width / 100
}

// Color returns a theme color by role: bg, primary, secondary or text.
func (b *Builder) Color(role string) color.NRGBA {
	p := b.Theme.Palette
	switch role {
	case "primary":
		return RGBA(p.Primary, 1)
	case "secondary":
		return RGBA(p.Secondary, 1)
	case "text":
		return RGBA(p.Text, 1)
	default:
		return RGBA(p.Bg, 1)
	}
}

// Font returns a text style in the theme font.
func (b *Builder) Font(size float64, weight string, c color.NRGBA) Style {
	return Style{FontSize: size, FontFamily: b.Theme.Font.Family, FontWeight: weight, Color: c}
}

// Root returns the page root filled with bg.
func (b *Builder) Root(bg color.NRGBA) *Node {
	return &Node{Tag: "section", Box: b.Bounds(), Style: Style{Background: bg}}
}

// Box returns a non-text container.
func (b *Builder) Box(tag string, r geom.Rect, st Style) *Node {
	return &Node{Tag: tag, Box: r, Style: st}
}

// Text returns a text node wrapped to r.W. When r.H is zero the node takes
// the height of its lines; an empty text still occupies one line so the
// region stays present.
func (b *Builder) Text(tag, text string, r geom.Rect, st Style) *Node {
	text = strings.TrimSpace(text)
	if st.Uppercase {
		text = strings.ToUpper(text)
	}
	lines := Wrap(text, r.W, func(s string) float64 { return b.fonts.Measure(st, s) })
	if r.H == 0 {
		n := len(lines)
		if n == 0 {
			n = 1
		}
		r.H = float64(n) * st.EffectiveLineHeight()
	}
	return &Node{Tag: tag, Text: text, Lines: lines, Box: r, Style: st}
}

// Measure returns the advance width of s in the given style.
func (b *Builder) Measure(st Style, s string) float64 {
	return b.fonts.Measure(st, s)
}

// Image returns an image node. A reference that resolves to nothing yields
// a plain box so the region stays present.
func (b *Builder) Image(r geom.Rect, ref document.ImageRef, circle bool) *Node {
	n := &Node{Tag: "figure", Box: r, Style: Style{Background: RGBA("#e2e8f0", 1)}}
	if circle {
		n.Style.Radius = minf(r.W, r.H) / 2
	}
	if url := b.resolve(ref); url != "" {
		n.Image = &ImageSlot{URL: url, Alt: ref.Prompt, Fit: FitCover, Circle: circle}
	}
	return n
}

// Icon returns an icon node drawn in color c.
func (b *Builder) Icon(r geom.Rect, name string, c color.NRGBA) *Node {
	return &Node{Tag: "i", Icon: name, Box: r, Style: Style{Color: c}}
}

// Stack lays nodes out top to bottom from a cursor.
type Stack struct {
	b     *Builder
	X, W  float64
	Y     float64
	Gap   float64
	start float64
	nodes []*Node
}

// Stack starts a vertical stack at (x, y) of width w.
func (b *Builder) Stack(x, y, w, gap float64) *Stack {
	return &Stack{b: b, X: x, Y: y, W: w, Gap: gap, start: y}
}

// Text appends a wrapped text node and advances the cursor.
func (s *Stack) Text(tag, text string, st Style) *Node {
	n := s.b.Text(tag, text, geom.R(s.X, s.Y, s.W, 0), st)
	s.add(n)
	return n
}

// Node moves an already built subtree to the cursor and appends it.
func (s *Stack) Node(n *Node) *Node {
	n.Shift(s.X-n.Box.X, s.Y-n.Box.Y)
	s.add(n)
	return n
}

// Space advances the cursor without adding a node.
func (s *Stack) Space(h float64) {
	s.Y += h
}

// Height is the extent of the stack so far.
func (s *Stack) Height() float64 {
	if len(s.nodes) == 0 {
		return 0
	}
	return s.Y - s.Gap - s.start
}

// Nodes returns the nodes added so far.
func (s *Stack) Nodes() []*Node {
	return s.nodes
}

// CenterIn moves the whole stack so it is vertically centered in [top,
// top+h].
func (s *Stack) CenterIn(top, h float64) {
	dy := top + (h-s.Height())/2 - s.start
	if dy < top-s.start {
		dy = top - s.start
	}
	for _, n := range s.nodes {
		n.Shift(0, dy)
	}
	s.start += dy
	s.Y += dy
}

func (s *Stack) add(n *Node) {
	s.nodes = append(s.nodes, n)
	s.Y += n.Box.H + s.Gap
}

// Shift moves a subtree by (dx, dy).
func (n *Node) Shift(dx, dy float64) {
	n.Walk(func(c *Node) bool {
		c.Box = c.Box.Translate(dx, dy)
		return true
	})
}

// Placeholder renders a page whose template has no layout.
func Placeholder(b *Builder, page document.Page) *Node {
	u := b.Unit()
	root := b.Root(b.Color("bg"))
	st := b.Font(3*u, "700", b.Color("text"))
	st.TextAlign = AlignCenter
	msg := b.Text("p", "Unsupported layout: "+string(page.Template), geom.R(10*u, 0, b.Width-20*u, 0), st)
	msg.Shift(0, (b.Height-msg.Box.H)/2)
	return root.Append(msg)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
