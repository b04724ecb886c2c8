// Package geom provides output profiles and the conversion between render
// pixels and the physical units of an output medium.
//
// A surface is always laid out at a fixed logical width (RenderWidth) and a
// height derived from the physical aspect ratio, so a single uniform scale
// factor maps any render-pixel coordinate onto the output page:
//
//	p := geom.MustDocumentProfile(geom.FormatA4)
//	x := p.ToOutput(620) // 297.64pt, the horizontal center of an A4 page
package geom

import (
	"fmt"
	"math"
	"strings"

	"github.com/lvillar/deckforge"
)

// Unit is the native unit of an output medium.
type Unit string

// Supported units.
const (
	UnitPoint Unit = "pt"
	UnitInch  Unit = "in"
)

// PointsPerInch converts between the two supported units.
const PointsPerInch = 72.0

// Orientation of an output page.
type Orientation string

// Supported orientations.
const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Format names one entry of the fixed profile catalog.
type Format string

// Catalog formats.
const (
	FormatA4       Format = "a4"   // portrait document
	FormatWide     Format = "16:9" // landscape wide
	FormatTall     Format = "9:16" // portrait tall
	DefaultFormat         = FormatA4
	aspectEpsilon         = 1e-9
)

// Profile describes the physical size of an output page or slide and the
// logical pixel width at which the surface is rendered before capture.
// Width and Height are expressed in Unit.
type Profile struct {
	Name        string      `json:"name"`
	Format      Format      `json:"format"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	Unit        Unit        `json:"unit"`
	Orientation Orientation `json:"orientation"`
	RenderWidth float64     `json:"renderWidth"`
}

// New validates and returns a profile. Dimensions must be positive and finite
// and the orientation must agree with them: landscape iff Width > Height.
// A square page is accepted as portrait.
func New(name string, width, height float64, unit Unit, orientation Orientation, renderWidth float64) (Profile, error) {
	for _, v := range []float64{width, height, renderWidth} {
		if !(v > 0) || math.IsInf(v, 0) {
			return Profile{}, fmt.Errorf("%w: %s: dimensions must be positive (got %gx%g, render width %g)",
				deckforge.ErrInvalidProfile, name, width, height, renderWidth)
		}
	}
	if unit != UnitPoint && unit != UnitInch {
		return Profile{}, fmt.Errorf("%w: %s: unsupported unit %q", deckforge.ErrInvalidProfile, name, unit)
	}
	switch orientation {
	case Landscape:
		if width <= height {
			return Profile{}, fmt.Errorf("%w: %s: landscape profile must be wider than tall", deckforge.ErrInvalidProfile, name)
		}
	case Portrait:
		if width > height {
			return Profile{}, fmt.Errorf("%w: %s: portrait profile must not be wider than tall", deckforge.ErrInvalidProfile, name)
		}
	default:
		return Profile{}, fmt.Errorf("%w: %s: unknown orientation %q", deckforge.ErrInvalidProfile, name, orientation)
	}
	return Profile{
		Name:        name,
		Width:       width,
		Height:      height,
		Unit:        unit,
		Orientation: orientation,
		RenderWidth: renderWidth,
	}, nil
}

// RenderHeight is the logical pixel height of the surface, derived from the
// physical aspect ratio so that capture and text mapping agree.
func (p Profile) RenderHeight() float64 {
	return p.RenderWidth * p.Height / p.Width
}

// Scale is the number of output units per render pixel. It applies to both
// axes.
func (p Profile) Scale() float64 {
	return p.Width / p.RenderWidth
}

// ToOutput converts a render-pixel length or coordinate to output units.
func (p Profile) ToOutput(px float64) float64 {
	return px * p.Scale()
}

// ToRender converts an output-unit length back to render pixels.
func (p Profile) ToRender(v float64) float64 {
	return v / p.Scale()
}

// RectToOutput converts a render-pixel rectangle to output units.
func (p Profile) RectToOutput(r Rect) Rect {
	s := p.Scale()
	return Rect{X: r.X * s, Y: r.Y * s, W: r.W * s, H: r.H * s}
}

// AspectRatio returns Width/Height.
func (p Profile) AspectRatio() float64 {
	return p.Width / p.Height
}

// In returns a copy of the profile expressed in unit u. RenderWidth is kept,
// so RenderHeight is unchanged.
func (p Profile) In(u Unit) Profile {
	if p.Unit == u {
		return p
	}
	factor := 1.0
	switch {
	case p.Unit == UnitPoint && u == UnitInch:
		factor = 1 / PointsPerInch
	case p.Unit == UnitInch && u == UnitPoint:
		factor = PointsPerInch
	}
	out := p
	out.Width *= factor
	out.Height *= factor
	out.Unit = u
	return out
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (%gx%g%s, %s, render %gpx)", p.Name, p.Width, p.Height, p.Unit, p.Orientation, p.RenderWidth)
}

type catalogEntry struct {
	name        string
	orientation Orientation
	renderWidth float64
	pageW       float64 // points
	pageH       float64
	slideW      float64 // inches
	slideH      float64
}

var catalog = map[Format]catalogEntry{
	FormatA4:   {"portrait-document", Portrait, 1240, 595.28, 841.89, 8.27, 11.69},
	FormatWide: {"landscape-wide", Landscape, 1600, 841.89, 473.56, 10, 5.625},
	FormatTall: {"portrait-tall", Portrait, 900, 473.56, 841.89, 7.5, 13.33},
}

// Formats lists the catalog formats in a stable order.
func Formats() []Format {
	return []Format{FormatA4, FormatWide, FormatTall}
}

// ParseFormat accepts a format name case-insensitively, along with the
// profile names ("portrait-document", ...) and the alias "a4" / "A4".
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultFormat, nil
	}
	for f, e := range catalog {
		if s == string(f) || s == e.name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown format %q", deckforge.ErrInvalidProfile, s)
}

// DocumentProfile returns the paginated (PDF, points) profile for a format.
func DocumentProfile(f Format) (Profile, error) {
	e, ok := catalog[f]
	if !ok {
		return Profile{}, fmt.Errorf("%w: unknown format %q", deckforge.ErrInvalidProfile, f)
	}
	p, err := New(e.name, e.pageW, e.pageH, UnitPoint, e.orientation, e.renderWidth)
	p.Format = f
	return p, err
}

// SlideProfile returns the slide-deck (PPTX, inches) profile for a format.
func SlideProfile(f Format) (Profile, error) {
	e, ok := catalog[f]
	if !ok {
		return Profile{}, fmt.Errorf("%w: unknown format %q", deckforge.ErrInvalidProfile, f)
	}
	p, err := New(e.name, e.slideW, e.slideH, UnitInch, e.orientation, e.renderWidth)
	p.Format = f
	return p, err
}

// MustDocumentProfile is like DocumentProfile but panics on an unknown format.
func MustDocumentProfile(f Format) Profile {
	p, err := DocumentProfile(f)
	if err != nil {
		panic(err)
	}
	return p
}

// MustSlideProfile is like SlideProfile but panics on an unknown format.
func MustSlideProfile(f Format) Profile {
	p, err := SlideProfile(f)
	if err != nil {
		panic(err)
	}
	return p
}
