package document

import "testing"

func TestPaletteLookup(t *testing.T) {
	if p := PaletteByID("DARK"); p.Bg != "#0f172a" || p.Text != "#f8fafc" {
		t.Fatalf("unexpected palette %+v", p)
	}
	if p := PaletteByID("missing"); p.ID != "corporate" {
		t.Fatalf("expected fallback to corporate, got %q", p.ID)
	}
	if f := FontByID("serif"); f.Family != `"Playfair Display", serif` {
		t.Fatalf("unexpected font %+v", f)
	}
	if len(Palettes()) != 4 || len(Fonts()) != 3 {
		t.Fatal("unexpected catalog sizes")
	}
}

func TestStyleNormalize(t *testing.T) {
	s := StyleConfig{Palette: "forest"}.Normalize()
	if s.Palette != "forest" || s.Font != "inter" || s.Vibe == "" {
		t.Fatalf("unexpected %+v", s)
	}
}

func TestParseHex(t *testing.T) {
	c, ok := ParseHex("2563eb")
	if !ok || c.Hex() != "#2563eb" {
		t.Fatalf("got %v %v", c.Hex(), ok)
	}
	if _, ok := ParseHex("not-a-color"); ok {
		t.Fatal("expected failure")
	}
	if _, ok := ParseHex(""); ok {
		t.Fatal("expected failure on empty")
	}
}
