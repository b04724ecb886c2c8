package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/lvillar/deckforge"
)

const tolerance = 1e-9

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestRenderHeightKeepsAspectRatio(t *testing.T) {
	for _, f := range Formats() {
		for _, p := range []Profile{MustDocumentProfile(f), MustSlideProfile(f)} {
			got := p.RenderWidth / p.RenderHeight()
			want := p.Width / p.Height
			if !almostEqual(got, want, tolerance) {
				t.Errorf("%s: render aspect %v != physical aspect %v", p, got, want)
			}
		}
	}
}

func TestToOutputIsLinear(t *testing.T) {
	for _, f := range Formats() {
		p := MustDocumentProfile(f)
		for _, x := range []float64{0, 1, 17.5, 333, 1240} {
			if got, want := p.ToOutput(2*x), 2*p.ToOutput(x); !almostEqual(got, want, tolerance) {
				t.Errorf("%s: ToOutput(2*%v)=%v, want %v", p.Name, x, got, want)
			}
		}
		if got := p.ToOutput(p.RenderWidth); !almostEqual(got, p.Width, tolerance) {
			t.Errorf("%s: ToOutput(renderWidth)=%v, want %v", p.Name, got, p.Width)
		}
		if got := p.ToOutput(p.RenderHeight()); !almostEqual(got, p.Height, 1e-6) {
			t.Errorf("%s: ToOutput(renderHeight)=%v, want %v", p.Name, got, p.Height)
		}
	}
}

func TestPortraitDocumentScenario(t *testing.T) {
	p, err := New("portrait-document", 595.28, 841.89, UnitPoint, Portrait, 1240)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if h := p.RenderHeight(); !almostEqual(h, 1240*841.89/595.28, tolerance) || math.Abs(h-1753.5) > 0.5 {
		t.Fatalf("render height = %v, want ~1753.5", h)
	}
	if s := p.Scale(); math.Abs(s-0.48) > 0.001 {
		t.Fatalf("scale = %v, want ~0.48", s)
	}
}

func TestRectToOutput(t *testing.T) {
	p := MustDocumentProfile(FormatA4)
	r := p.RectToOutput(R(124, 248, 620, 62))
	s := p.Scale()

	if !almostEqual(r.X, 124*s, tolerance) || !almostEqual(r.Y, 248*s, tolerance) ||
		!almostEqual(r.W, 620*s, tolerance) || !almostEqual(r.H, 62*s, tolerance) {
		t.Fatalf("unexpected rect %+v", r)
	}
}

func TestNewRejectsInvalidProfiles(t *testing.T) {
	cases := []struct {
		name        string
		w, h, rw    float64
		unit        Unit
		orientation Orientation
	}{
		{"zero width", 0, 100, 100, UnitPoint, Portrait},
		{"negative render width", 100, 200, -1, UnitPoint, Portrait},
		{"nan height", 100, math.NaN(), 100, UnitPoint, Portrait},
		{"portrait but wide", 300, 100, 100, UnitPoint, Portrait},
		{"landscape but tall", 100, 300, 100, UnitPoint, Landscape},
		{"bad unit", 100, 200, 100, Unit("mm"), Portrait},
		{"bad orientation", 100, 200, 100, UnitPoint, Orientation("diagonal")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.name, tc.w, tc.h, tc.unit, tc.orientation, tc.rw)
			if !errors.Is(err, deckforge.ErrInvalidProfile) {
				t.Fatalf("expected ErrInvalidProfile, got %v", err)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":               FormatA4,
		"A4":             FormatA4,
		" 16:9 ":         FormatWide,
		"portrait-tall":  FormatTall,
		"landscape-wide": FormatWide,
	} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("letter"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestUnitConversion(t *testing.T) {
	p := MustSlideProfile(FormatWide)
	pt := p.In(UnitPoint)

	if !almostEqual(pt.Width, 720, tolerance) || !almostEqual(pt.Height, 405, tolerance) {
		t.Fatalf("unexpected size in points: %vx%v", pt.Width, pt.Height)
	}
	if !almostEqual(pt.RenderHeight(), p.RenderHeight(), tolerance) {
		t.Fatal("unit conversion must not change the render height")
	}
	back := pt.In(UnitInch)
	if !almostEqual(back.Width, p.Width, tolerance) {
		t.Fatalf("round trip width %v != %v", back.Width, p.Width)
	}
}
