// Package raster paints a laid-out render surface into a bitmap.
//
// Capture walks the surface tree in document order and paints each node's
// background, image, border, icon and text, oversampled by Options.Scale.
// Text baselines use render.BaselineRatio, the same ratio the text layer is
// built with, so the two stay aligned.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/lvillar/deckforge"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/icons"
	"github.com/lvillar/deckforge/render"
)

// DefaultScale is the oversampling factor used when Options.Scale is zero.
const DefaultScale = 2

// DefaultJPEGQuality is used by EncodeJPEG when quality is out of range.
const DefaultJPEGQuality = 95

// Options controls a capture.
type Options struct {
	Scale      float64     // oversampling, default 2
	Background color.Color // opaque page background, default white
}

func (o Options) withDefaults() Options {
	if !(o.Scale > 0) || math.IsInf(o.Scale, 0) {
		o.Scale = DefaultScale
	}
	if o.Background == nil {
		o.Background = color.White
	}
	return o
}

var (
	skeletonColor    = color.NRGBA{R: 0xcb, G: 0xd5, B: 0xe1, A: 0xff}
	unavailableBg    = color.NRGBA{R: 0xf1, G: 0xf5, B: 0xf9, A: 0xff}
	unavailableInk   = color.NRGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
	shadowColor      = color.NRGBA{A: 0x26}
	unavailableLabel = "IMAGE UNAVAILABLE"
)

// Capture paints the whole surface at Options.Scale. It fails with
// deckforge.ErrCaptureTargetNotFound when there is nothing to capture.
func Capture(s *render.Surface, opts Options) (*image.RGBA, error) {
	if s == nil || s.Root == nil || !(s.Width > 0) || !(s.Height > 0) {
		return nil, deckforge.ErrCaptureTargetNotFound
	}
	opts = opts.withDefaults()

	w := int(math.Ceil(s.Width * opts.Scale))
	h := int(math.Ceil(s.Height * opts.Scale))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	p := &painter{
		dst:    dst,
		scale:  opts.Scale,
		fonts:  render.NewFonts(),
		images: s.Images,
		z:      vector.NewRasterizer(0, 0),
	}
	defer p.fonts.Close()

	if err := p.paintTree(s.Root); err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}
	return dst, nil
}

// EncodeJPEG encodes img as a baseline JPEG.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("raster: encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

type painter struct {
	dst    *image.RGBA
	scale  float64
	fonts  *render.Fonts
	images render.ImageSource
	z      *vector.Rasterizer
}

func (p *painter) paintTree(n *render.Node) error {
	var err error
	n.Walk(func(c *render.Node) bool {
		if err != nil {
			return false
		}
		err = p.paintNode(c)
		return err == nil
	})
	return err
}

func (p *painter) paintNode(n *render.Node) error {
	st := n.Style
	op := st.EffectiveOpacity()
	box := n.Box.Scale(p.scale)
	radius := st.Radius * p.scale

	if box.Empty() {
		return nil
	}

	if st.Shadow {
		off := math.Max(2, 0.01*box.H)
		p.fill(roundRect(box.X, box.Y+off, box.W, box.H, radius), withAlpha(shadowColor, op))
	}
	if st.Background.A > 0 {
		p.fill(roundRect(box.X, box.Y, box.W, box.H, radius), withAlpha(st.Background, op))
	}
	if n.Image != nil {
		p.paintImage(n, op)
	}
	if st.BorderWidth > 0 && st.BorderColor.A > 0 {
		bw := st.BorderWidth * p.scale
		outer := roundRect(box.X, box.Y, box.W, box.H, radius)
		if box.W > 2*bw && box.H > 2*bw {
			inner := roundRect(box.X+bw, box.Y+bw, box.W-2*bw, box.H-2*bw, math.Max(0, radius-bw))
			outer = append(outer, inner.reversed()...)
		}
		p.fill(outer, withAlpha(st.BorderColor, op))
	}
	if n.Icon != "" {
		p.paintGlyph(icons.Lookup(n.Icon), box, withAlpha(st.Color, op))
	}
	if n.Text != "" {
		return p.paintText(n, op)
	}
	return nil
}

func (p *painter) paintImage(n *render.Node, op float64) {
	box := n.Box.Scale(p.scale)
	radius := n.Style.Radius * p.scale
	if n.Image.Circle {
		radius = math.Min(box.W, box.H) / 2
	}

	var (
		img   image.Image
		state = render.LoadFailed
	)
	if p.images != nil {
		img, state = p.images.Image(n.Image.URL)
	}

	switch {
	case state == render.LoadPending:
		p.fill(roundRect(box.X, box.Y, box.W, box.H, radius), withAlpha(skeletonColor, op))
	case state == render.LoadFailed || img == nil || img.Bounds().Empty():
		p.paintUnavailable(box, radius, op)
	default:
		p.drawImage(img, box, radius, n.Image.Fit, op)
	}
}

func (p *painter) drawImage(img image.Image, box geom.Rect, radius float64, fit render.ImageFit, op float64) {
	dr := pixels(box)
	if dr.Empty() {
		return
	}
	sb := img.Bounds()
	sw, sh := float64(sb.Dx()), float64(sb.Dy())

	sr := sb
	target := dr
	switch fit {
	case render.FitContain:
		k := math.Min(box.W/sw, box.H/sh)
		w, h := sw*k, sh*k
		target = pixels(geom.R(box.X+(box.W-w)/2, box.Y+(box.H-h)/2, w, h))
	default:
		k := math.Max(box.W/sw, box.H/sh)
		cw, ch := box.W/k, box.H/k
		x0 := float64(sb.Min.X) + (sw-cw)/2
		y0 := float64(sb.Min.Y) + (sh-ch)/2
		sr = image.Rect(int(x0), int(y0), int(math.Ceil(x0+cw)), int(math.Ceil(y0+ch))).Intersect(sb)
	}

	mask := image.NewAlpha(dr)
	p.z.Reset(dr.Dx(), dr.Dy())
	p.z.DrawOp = draw.Src
	roundRect(box.X, box.Y, box.W, box.H, radius).addTo(p.z, float64(dr.Min.X), float64(dr.Min.Y))
	p.z.Draw(mask, dr, image.NewUniform(color.Alpha{A: alpha8(op)}), image.Point{})

	draw.ApproxBiLinear.Scale(p.dst, target, img, sr, draw.Over, &draw.Options{DstMask: mask})
}

func (p *painter) paintUnavailable(box geom.Rect, radius, op float64) {
	p.fill(roundRect(box.X, box.Y, box.W, box.H, radius), withAlpha(unavailableBg, op))

	side := math.Min(box.W, box.H) * 0.25
	ink := withAlpha(unavailableInk, op)
	p.paintGlyph(icons.Lookup("image-off"), geom.R(box.X+(box.W-side)/2, box.Y+box.H/2-side, side, side), ink)

	size := math.Max(8*p.scale, math.Min(box.W, box.H)*0.05)
	st := render.Style{FontSize: size, FontWeight: "700", Color: ink}
	face, err := p.fonts.Face(st, size)
	if err != nil {
		return
	}
	w := float64(font.MeasureString(face, unavailableLabel)) / 64
	if w > box.W*0.9 {
		return
	}
	p.drawString(face, unavailableLabel, box.X+(box.W-w)/2, box.Y+box.H/2+size*1.5, ink)
}

func (p *painter) paintGlyph(g icons.Glyph, box geom.Rect, c color.NRGBA) {
	side := math.Min(box.W, box.H)
	k := side / 24
	ox := box.X + (box.W-side)/2
	oy := box.Y + (box.H-side)/2
	at := func(q icons.Point) pt { return pt{ox + q.X*k, oy + q.Y*k} }
	sw := icons.StrokeWidth * k

	for _, s := range g.Shapes {
		switch s.Kind {
		case icons.Polygon:
			pts := make([]pt, len(s.Points))
			for i, q := range s.Points {
				pts[i] = at(q)
			}
			p.fill(polygon(pts), c)
		case icons.Disc:
			ctr := at(s.Center)
			p.fill(ellipse(ctr.x, ctr.y, s.R*k, s.R*k), c)
		case icons.Circle:
			ctr := at(s.Center)
			r := s.R * k
			ring := ellipse(ctr.x, ctr.y, r+sw/2, r+sw/2)
			if r > sw/2 {
				ring = append(ring, ellipse(ctr.x, ctr.y, r-sw/2, r-sw/2).reversed()...)
			}
			p.fill(ring, c)
		default:
			for i := 0; i+1 < len(s.Points); i++ {
				p.fill(thickLine(at(s.Points[i]), at(s.Points[i+1]), sw), c)
			}
			for _, q := range s.Points {
				j := at(q)
				p.fill(ellipse(j.x, j.y, sw/2, sw/2), c)
			}
		}
	}
}

func (p *painter) paintText(n *render.Node, op float64) error {
	st := n.Style
	if !(st.FontSize > 0) {
		return nil
	}
	face, err := p.fonts.Face(st, st.FontSize*p.scale)
	if err != nil {
		return err
	}
	lines := n.Lines
	if len(lines) == 0 {
		lines = []string{n.Text}
	}
	ink := withAlpha(st.Color, op)
	lh := st.EffectiveLineHeight()
	for i, line := range lines {
		if line == "" {
			continue
		}
		w := float64(font.MeasureString(face, line)) / 64
		var x float64
		switch st.TextAlign {
		case render.AlignCenter:
			x = (n.Box.X+n.Box.W/2)*p.scale - w/2
		case render.AlignRight:
			x = n.Box.Right()*p.scale - w
		default:
			x = n.Box.X * p.scale
		}
		baseline := (n.Box.Y + float64(i)*lh + render.BaselineRatio*st.FontSize) * p.scale
		p.drawString(face, line, x, baseline, ink)
	}
	return nil
}

func (p *painter) drawString(face font.Face, s string, x, baseline float64, c color.NRGBA) {
	d := font.Drawer{
		Dst:  p.dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(baseline * 64)},
	}
	d.DrawString(s)
}

// fill rasterizes a closed path in absolute pixel coordinates.
func (p *painter) fill(pa path, c color.NRGBA) {
	if len(pa) == 0 || c.A == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range pa {
		pts := []pt{s.from, s.to}
		if s.kind == segCube {
			pts = append(pts, s.c1, s.c2)
		}
		for _, q := range pts {
			minX, minY = math.Min(minX, q.x), math.Min(minY, q.y)
			maxX, maxY = math.Max(maxX, q.x), math.Max(maxY, q.y)
		}
	}
	r := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	r = r.Intersect(p.dst.Bounds())
	if r.Empty() {
		return
	}
	p.z.Reset(r.Dx(), r.Dy())
	p.z.DrawOp = draw.Over
	pa.addTo(p.z, float64(r.Min.X), float64(r.Min.Y))
	p.z.Draw(p.dst, r, image.NewUniform(c), image.Point{})
}

// pixels rounds a rectangle outwards to whole pixels.
func pixels(r geom.Rect) image.Rectangle {
	return image.Rect(int(math.Floor(r.X)), int(math.Floor(r.Y)), int(math.Ceil(r.Right())), int(math.Ceil(r.Bottom())))
}

func withAlpha(c color.NRGBA, op float64) color.NRGBA {
	c.A = uint8(float64(c.A)*op + 0.5)
	return c
}

func alpha8(op float64) uint8 {
	return uint8(math.Max(0, math.Min(1, op))*255 + 0.5)
}
