package icons

import "math"

// Point is a coordinate in the 24x24 glyph box.
type Point struct{ X, Y float64 }

// ShapeKind is the primitive a shape is drawn with.
type ShapeKind int

const (
	Polyline ShapeKind = iota // stroked open path
	Polygon                   // filled closed path
	Circle                    // stroked circle
	Disc                      // filled circle
)

// Shape is one primitive of a glyph.
type Shape struct {
	Kind   ShapeKind
	Points []Point // Polyline, Polygon
	Center Point   // Circle, Disc
	R      float64
}

// Glyph is a vector drawing in a 24x24 box, stroked with StrokeWidth.
type Glyph struct {
	Name   string
	Shapes []Shape
}

// StrokeWidth of every glyph, in glyph units.
const StrokeWidth = 2.0

func line(pts ...float64) Shape {
	s := Shape{Kind: Polyline}
	for i := 0; i+1 < len(pts); i += 2 {
		s.Points = append(s.Points, Point{pts[i], pts[i+1]})
	}
	return s
}

func poly(pts ...float64) Shape {
	s := line(pts...)
	s.Kind = Polygon
	return s
}

func circle(x, y, r float64) Shape { return Shape{Kind: Circle, Center: Point{x, y}, R: r} }
func disc(x, y, r float64) Shape   { return Shape{Kind: Disc, Center: Point{x, y}, R: r} }

func star() Shape {
	s := Shape{Kind: Polygon}
	for i := 0; i < 10; i++ {
		r := 10.0
		if i%2 == 1 {
			r = 4.2
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		s.Points = append(s.Points, Point{12 + r*math.Cos(a), 12.5 + r*math.Sin(a)})
	}
	return s
}

var glyphs = map[string][]Shape{
	"circle-check":   {circle(12, 12, 10), line(7.5, 12, 10.5, 15, 16.5, 9)},
	"circle-x":       {circle(12, 12, 10), line(9, 9, 15, 15), line(15, 9, 9, 15)},
	"circle-plus":    {circle(12, 12, 10), line(12, 8, 12, 16), line(8, 12, 16, 12)},
	"alert-circle":   {circle(12, 12, 10), line(12, 7, 12, 13), disc(12, 16.5, 1.2)},
	"info-circle":    {circle(12, 12, 10), line(12, 11, 12, 17), disc(12, 7.5, 1.2)},
	"help-circle":    {circle(12, 12, 10), line(9.5, 9.5, 10.5, 7.5, 13.5, 7.5, 14.5, 9.5, 12, 12, 12, 13.5), disc(12, 17, 1.2)},
	"arrow-right":    {line(4, 12, 20, 12), line(14, 6, 20, 12, 14, 18)},
	"arrow-left":     {line(20, 12, 4, 12), line(10, 6, 4, 12, 10, 18)},
	"star":           {star()},
	"heart":          {poly(12, 20, 3.5, 11.5, 3, 7.5, 5.5, 4.5, 9, 4.5, 12, 7, 15, 4.5, 18.5, 4.5, 21, 7.5, 20.5, 11.5)},
	"clock":          {circle(12, 12, 10), line(12, 6, 12, 12, 16, 14)},
	"calendar":       {line(3, 6, 21, 6, 21, 21, 3, 21, 3, 6), line(3, 10, 21, 10), line(8, 3, 8, 7), line(16, 3, 16, 7)},
	"briefcase":      {line(3, 8, 21, 8, 21, 20, 3, 20, 3, 8), line(9, 8, 9, 5, 15, 5, 15, 8), line(3, 13, 21, 13)},
	"chart-dots":     {line(3, 3, 3, 21, 21, 21), line(7, 17, 7, 13), line(12, 17, 12, 8), line(17, 17, 17, 11)},
	"chart-pie":      {circle(12, 12, 9), line(12, 3, 12, 12, 21, 12)},
	"user":           {circle(12, 8, 4), line(4, 21, 5, 17, 8, 15, 16, 15, 19, 17, 20, 21)},
	"lock":           {line(5, 11, 19, 11, 19, 21, 5, 21, 5, 11), line(8, 11, 8, 7, 10, 4, 14, 4, 16, 7, 16, 11)},
	"shield":         {line(12, 3, 20, 6, 20, 12, 16, 18, 12, 21, 8, 18, 4, 12, 4, 6, 12, 3)},
	"mail":           {line(3, 6, 21, 6, 21, 18, 3, 18, 3, 6), line(3, 6, 12, 13, 21, 6)},
	"message":        {line(4, 5, 20, 5, 20, 16, 10, 16, 5, 20, 5, 16, 4, 16, 4, 5)},
	"cloud":          {line(6, 18, 18, 18), circle(8, 14, 4), circle(13, 11, 5), circle(17.5, 14.5, 3.5)},
	"bulb":           {circle(12, 9, 6), line(9.5, 15, 9.5, 18, 14.5, 18, 14.5, 15), line(10, 21, 14, 21)},
	"book":           {line(4, 4, 11, 5, 11, 20, 4, 19, 4, 4), line(20, 4, 13, 5, 13, 20, 20, 19, 20, 4)},
	"globe":          {circle(12, 12, 10), line(2, 12, 22, 12), line(12, 2, 8, 7, 8, 17, 12, 22), line(12, 2, 16, 7, 16, 17, 12, 22)},
	"map-pin":        {line(12, 21, 6, 13, 5, 9, 7, 5, 12, 3, 17, 5, 19, 9, 18, 13, 12, 21), circle(12, 9, 2.5)},
	"photo":          {line(3, 5, 21, 5, 21, 19, 3, 19, 3, 5), line(3, 16, 9, 11, 13, 15, 16, 12, 21, 16), disc(16, 9, 1.5)},
	"device-desktop": {line(3, 4, 21, 4, 21, 16, 3, 16, 3, 4), line(12, 16, 12, 20), line(8, 20, 16, 20)},
	"coin":           {circle(12, 12, 9), line(12, 7, 12, 17), line(15, 9, 10.5, 9, 9.5, 11, 14.5, 13, 13.5, 15, 9, 15)},
	"truck":          {line(2, 6, 14, 6, 14, 17, 2, 17, 2, 6), line(14, 10, 19, 10, 22, 13, 22, 17, 14, 17), circle(6, 18, 2), circle(18, 18, 2)},
	"quote":          {disc(7, 9, 3), line(9.5, 10, 8, 16, 5, 18), disc(17, 9, 3), line(19.5, 10, 18, 16, 15, 18)},
	"zap":            {poly(13, 2, 4, 14, 11, 14, 10, 22, 20, 10, 13, 10, 13, 2)},
	"layout":         {line(3, 3, 21, 3, 21, 21, 3, 21, 3, 3), line(3, 9, 21, 9), line(9, 9, 9, 21)},
	"image-off":      {line(3, 5, 21, 5, 21, 19, 3, 19, 3, 5), line(3, 3, 21, 21)},
	"sun":            {circle(12, 12, 4), line(12, 2, 12, 5), line(12, 19, 12, 22), line(2, 12, 5, 12), line(19, 12, 22, 12)},
	"eye":            {line(2, 12, 7, 6, 12, 5, 17, 6, 22, 12, 17, 18, 12, 19, 7, 18, 2, 12), circle(12, 12, 3)},
	"key":            {circle(7, 15, 4), line(10, 12, 20, 4), line(17, 7, 19, 9)},
}

// categoryGlyph draws catalog icons without a dedicated glyph.
var categoryGlyph = map[string]string{
	"business":      "briefcase",
	"technology":    "device-desktop",
	"communication": "message",
	"education":     "book",
	"health":        "heart",
	"time":          "clock",
	"location":      "map-pin",
	"media":         "photo",
	"social":        "user",
	"security":      "shield",
	"weather":       "sun",
	"food":          "circle-check",
	"transport":     "truck",
	"general":       "circle-check",
}

// Lookup returns the glyph for an icon name. Names without a dedicated
// drawing use their category's glyph; unknown names use Default.
func Lookup(name string) Glyph {
	if shapes, ok := glyphs[name]; ok {
		return Glyph{Name: name, Shapes: shapes}
	}
	n := Normalize(name)
	if shapes, ok := glyphs[n]; ok {
		return Glyph{Name: n, Shapes: shapes}
	}
	if g, ok := categoryGlyph[CategoryOf(n)]; ok {
		return Glyph{Name: g, Shapes: glyphs[g]}
	}
	return Glyph{Name: Default, Shapes: glyphs[Default]}
}
