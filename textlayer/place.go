package textlayer

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/lvillar/deckforge/render"
)

// ErrNodeSkipped is returned by Placer.Place when an instruction could not
// be placed even after the relaxed retry.
var ErrNodeSkipped = errors.New("textlayer: text node skipped")

// minWidthEm is the narrowest wrap width, in ems, accepted on the first
// attempt.
const minWidthEm = 0.5

// Placer draws instructions as invisible text on the current gofpdf page.
// It counts retries and skips so callers can report them.
type Placer struct {
	Placed  int
	Retried int
	Skipped int
}

// Place draws one instruction, keeping the raster's line breaks when the
// instruction carries them. A failing instruction is retried once without
// wrapping and with unencodable characters dropped; if that fails too the
// node is skipped and ErrNodeSkipped is returned. Place never leaves pdf in
// an error state because of a bad instruction.
func (p *Placer) Place(pdf *gofpdf.Fpdf, in Instruction) error {
	if !pdf.Ok() {
		return fmt.Errorf("textlayer: pdf already failed: %w", pdf.Error())
	}
	err := p.place(pdf, in, false)
	if err == nil {
		p.Placed++
		return nil
	}
	p.Retried++
	if err = p.place(pdf, in, true); err == nil {
		p.Placed++
		return nil
	}
	p.Skipped++
	return fmt.Errorf("%w: %q: %v", ErrNodeSkipped, truncate(in.Text, 40), err)
}

// PlaceAll places every instruction and returns how many were skipped.
func (p *Placer) PlaceAll(pdf *gofpdf.Fpdf, ins []Instruction) int {
	before := p.Skipped
	for _, in := range ins {
		_ = p.Place(pdf, in)
	}
	return p.Skipped - before
}

func (p *Placer) place(pdf *gofpdf.Fpdf, in Instruction, relaxed bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("textlayer: placement panic: %v", r)
		}
	}()

	text, err := Encode(in.Text, relaxed)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("textlayer: nothing left to place")
	}
	if !finite(in.X) || !finite(in.Y) || !(in.FontSize > 0) || !finite(in.FontSize) {
		return fmt.Errorf("textlayer: invalid geometry x=%v y=%v size=%v", in.X, in.Y, in.FontSize)
	}
	painted := len(in.Lines) > 0
	wrap := !relaxed && !painted
	if wrap && (!finite(in.MaxWidth) || in.MaxWidth < minWidthEm*in.FontSize) {
		return fmt.Errorf("textlayer: pathological width %v for size %v", in.MaxWidth, in.FontSize)
	}

	pdf.SetFont(pdfFamily(in.Family), pdfStyle(in.Bold, in.Italic), in.FontSize)
	if !pdf.Ok() {
		return pdf.Error()
	}

	var lines []string
	switch {
	case painted:
		lines = make([]string, len(in.Lines))
		for i, l := range in.Lines {
			if lines[i], err = Encode(l, relaxed); err != nil {
				return err
			}
		}
	case wrap:
		lines = render.Wrap(text, in.MaxWidth, pdf.GetStringWidth)
	default:
		lines = []string{strings.Join(strings.Fields(text), " ")}
	}
	align := (wrap || painted) && finite(in.MaxWidth) && in.MaxWidth > 0

	lh := in.LineHeight
	if !(lh > 0) || !finite(lh) {
		lh = in.FontSize * 1.25
	}

	pdf.SetAlpha(0, "Normal")
	pdf.SetTextColor(255, 255, 255)
	for i, line := range lines {
		if line == "" {
			continue
		}
		x := in.X
		if align {
			w := pdf.GetStringWidth(line)
			switch in.Align {
			case render.AlignCenter:
				x += (in.MaxWidth - w) / 2
			case render.AlignRight:
				x += in.MaxWidth - w
			}
		}
		pdf.Text(x, in.Y+float64(i)*lh, line)
	}
	pdf.SetAlpha(1, "Normal")
	return pdf.Error()
}

// Encode normalizes s to NFC and encodes it to Windows-1252, the encoding
// of the PDF core fonts. In strict mode an unencodable rune is an error; in
// relaxed mode it is dropped. Control characters other than newline become
// spaces.
func Encode(s string, relaxed bool) (string, error) {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' {
			b.WriteByte('\n')
			continue
		}
		if r < 0x20 || r == 0x7f {
			b.WriteByte(' ')
			continue
		}
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			if relaxed {
				continue
			}
			return "", fmt.Errorf("textlayer: character %q not representable in Windows-1252", r)
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

func pdfFamily(f render.Family) string {
	switch f {
	case render.FamilySerif:
		return "Times"
	case render.FamilyMono:
		return "Courier"
	default:
		return "Helvetica"
	}
}

func pdfStyle(bold, italic bool) string {
	var s string
	if bold {
		s += "B"
	}
	if italic {
		s += "I"
	}
	return s
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
