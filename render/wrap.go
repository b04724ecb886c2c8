package render

import (
	"strings"
	"unicode"
)

// Wrap breaks text into lines no wider than maxWidth using measure. Explicit
// newlines are kept. A single word wider than maxWidth gets a line of its
// own rather than being split mid-word.
func Wrap(text string, maxWidth float64, measure func(string) float64) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.FieldsFunc(para, unicode.IsSpace)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if maxWidth > 0 && measure(candidate) > maxWidth {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}
