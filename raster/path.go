package raster

import (
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

type segKind int

const (
	segLine segKind = iota
	segCube
)

type pt struct{ x, y float64 }

type seg struct {
	kind   segKind
	from   pt
	c1, c2 pt
	to     pt
}

// path is a closed outline made of line and cubic segments.
type path []seg

func (p path) reversed() path {
	out := make(path, len(p))
	for i, s := range p {
		out[len(p)-1-i] = seg{kind: s.kind, from: s.to, c1: s.c2, c2: s.c1, to: s.from}
	}
	return out
}

// addTo emits the path into z, offset by (-ox, -oy). A segment that does
// not start where the previous one ended begins a new subpath.
func (p path) addTo(z *vector.Rasterizer, ox, oy float64) {
	f := func(v pt) (float32, float32) { return float32(v.x - ox), float32(v.y - oy) }
	for i, s := range p {
		if i == 0 || s.from != p[i-1].to {
			if i > 0 {
				z.ClosePath()
			}
			z.MoveTo(f(s.from))
		}
		switch s.kind {
		case segCube:
			bx, by := f(s.c1)
			cx, cy := f(s.c2)
			dx, dy := f(s.to)
			z.CubeTo(bx, by, cx, cy, dx, dy)
		default:
			z.LineTo(f(s.to))
		}
	}
	if len(p) > 0 {
		z.ClosePath()
	}
}

// roundRect returns a clockwise rounded rectangle. The radius is clamped to
// half the shorter side.
func roundRect(x, y, w, h, r float64) path {
	if r > w/2 {
		r = w / 2
	}
	if r > h/2 {
		r = h / 2
	}
	if r <= 0 {
		return path{
			{kind: segLine, from: pt{x, y}, to: pt{x + w, y}},
			{kind: segLine, from: pt{x + w, y}, to: pt{x + w, y + h}},
			{kind: segLine, from: pt{x + w, y + h}, to: pt{x, y + h}},
			{kind: segLine, from: pt{x, y + h}, to: pt{x, y}},
		}
	}
	k := r * kappa
	x1, y1 := x+w, y+h
	return path{
		{kind: segLine, from: pt{x + r, y}, to: pt{x1 - r, y}},
		{kind: segCube, from: pt{x1 - r, y}, c1: pt{x1 - r + k, y}, c2: pt{x1, y + r - k}, to: pt{x1, y + r}},
		{kind: segLine, from: pt{x1, y + r}, to: pt{x1, y1 - r}},
		{kind: segCube, from: pt{x1, y1 - r}, c1: pt{x1, y1 - r + k}, c2: pt{x1 - r + k, y1}, to: pt{x1 - r, y1}},
		{kind: segLine, from: pt{x1 - r, y1}, to: pt{x + r, y1}},
		{kind: segCube, from: pt{x + r, y1}, c1: pt{x + r - k, y1}, c2: pt{x, y1 - r + k}, to: pt{x, y1 - r}},
		{kind: segLine, from: pt{x, y1 - r}, to: pt{x, y + r}},
		{kind: segCube, from: pt{x, y + r}, c1: pt{x, y + r - k}, c2: pt{x + r - k, y}, to: pt{x + r, y}},
	}
}

// ellipse returns a clockwise ellipse inscribed in the given box.
func ellipse(cx, cy, rx, ry float64) path {
	kx, ky := rx*kappa, ry*kappa
	return path{
		{kind: segCube, from: pt{cx, cy - ry}, c1: pt{cx + kx, cy - ry}, c2: pt{cx + rx, cy - ky}, to: pt{cx + rx, cy}},
		{kind: segCube, from: pt{cx + rx, cy}, c1: pt{cx + rx, cy + ky}, c2: pt{cx + kx, cy + ry}, to: pt{cx, cy + ry}},
		{kind: segCube, from: pt{cx, cy + ry}, c1: pt{cx - kx, cy + ry}, c2: pt{cx - rx, cy + ky}, to: pt{cx - rx, cy}},
		{kind: segCube, from: pt{cx - rx, cy}, c1: pt{cx - rx, cy - ky}, c2: pt{cx - kx, cy - ry}, to: pt{cx, cy - ry}},
	}
}

// polygon returns a closed polygon through pts.
func polygon(pts []pt) path {
	if len(pts) < 2 {
		return nil
	}
	p := make(path, 0, len(pts))
	for i := range pts {
		p = append(p, seg{kind: segLine, from: pts[i], to: pts[(i+1)%len(pts)]})
	}
	return p
}

// thickLine returns the quad covering a segment stroked with width w.
func thickLine(a, b pt, w float64) path {
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return nil
	}
	nx, ny := -dy/l*w/2, dx/l*w/2
	return polygon([]pt{
		{a.x + nx, a.y + ny},
		{b.x + nx, b.y + ny},
		{b.x - nx, b.y - ny},
		{a.x - nx, a.y - ny},
	})
}
