package render

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type variant int

const (
	variantRegular variant = iota
	variantBold
	variantItalic
	variantBoldItalic
	variantMono
	variantMonoBold
)

var variantTTF = map[variant][]byte{
	variantRegular:    goregular.TTF,
	variantBold:       gobold.TTF,
	variantItalic:     goitalic.TTF,
	variantBoldItalic: gobolditalic.TTF,
	variantMono:       gomono.TTF,
	variantMonoBold:   gomonobold.TTF,
}

var (
	parseOnce sync.Once
	parsed    map[variant]*opentype.Font
	parseErr  error
)

func loadFonts() (map[variant]*opentype.Font, error) {
	parseOnce.Do(func() {
		parsed = make(map[variant]*opentype.Font, len(variantTTF))
		for v, ttf := range variantTTF {
			f, err := opentype.Parse(ttf)
			if err != nil {
				parseErr = fmt.Errorf("render: parsing font variant %d: %w", v, err)
				return
			}
			parsed[v] = f
		}
	})
	return parsed, parseErr
}

func pickVariant(family Family, bold, italic bool) variant {
	if family == FamilyMono {
		if bold {
			return variantMonoBold
		}
		return variantMono
	}
	// Serif families fall back to the Go proportional faces.
	switch {
	case bold && italic:
		return variantBoldItalic
	case bold:
		return variantBold
	case italic:
		return variantItalic
	default:
		return variantRegular
	}
}

type faceKey struct {
	v    variant
	size float64
}

// Fonts caches font faces by variant and size. A Fonts is safe for
// concurrent use; the faces it returns are not, so callers that draw from
// several goroutines need their own Fonts.
type Fonts struct {
	mu    sync.Mutex
	faces map[faceKey]font.Face
}

// NewFonts returns an empty face cache.
func NewFonts() *Fonts {
	return &Fonts{faces: make(map[faceKey]font.Face)}
}

// Face returns the face for a style at the given pixel size.
func (f *Fonts) Face(st Style, size float64) (font.Face, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("render: invalid font size %v", size)
	}
	// Quantize so near-identical sizes share a face.
	size = math.Round(size*4) / 4
	key := faceKey{v: pickVariant(ClassifyFamily(st.FontFamily), IsBold(st.FontWeight), st.Italic), size: size}

	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(fonts[key.v], &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("render: creating face: %w", err)
	}
	f.faces[key] = face
	return face, nil
}

// Measure returns the advance width of s in pixels for the given style.
func (f *Fonts) Measure(st Style, s string) float64 {
	face, err := f.Face(st, st.FontSize)
	if err != nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return float64(font.MeasureString(face, s)) / 64
}

// Close releases every cached face.
func (f *Fonts) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, face := range f.faces {
		face.Close()
		delete(f.faces, k)
	}
	return nil
}
