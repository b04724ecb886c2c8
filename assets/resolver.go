// Package assets resolves, fetches, decodes and caches the images that
// pages reference.
package assets

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/lvillar/deckforge/document"
)

// DefaultGeneratorBase is the prompt-to-image endpoint.
const DefaultGeneratorBase = "https://image.pollinations.ai/prompt/"

// Resolver turns image references into fetchable URLs. Prompts become
// deterministic generator URLs: the same prompt always yields the same
// image.
type Resolver struct {
	Base   string // generator endpoint, prompt is appended
	Width  int
	Height int
	Model  string
}

// NewResolver returns a resolver for the default generator at 1280x720.
func NewResolver() *Resolver {
	return &Resolver{Base: DefaultGeneratorBase, Width: 1280, Height: 720, Model: "flux"}
}

// URL resolves ref. An explicit URL wins over a prompt; a reference with
// neither yields "".
func (r *Resolver) URL(ref document.ImageRef) string {
	if u := strings.TrimSpace(ref.URL); u != "" {
		return u
	}
	if strings.TrimSpace(ref.Prompt) == "" {
		return ""
	}
	return r.PromptURL(ref.Prompt)
}

// PromptURL builds the generator URL of a prompt. Only the first
// comma-separated clause is used; the seed is the sum of its UTF-16 code
// units.
func (r *Resolver) PromptURL(prompt string) string {
	base, _, _ := strings.Cut(prompt, ",")
	endpoint := r.Base
	if endpoint == "" {
		endpoint = DefaultGeneratorBase
	}
	w, h := r.Width, r.Height
	if w <= 0 || h <= 0 {
		w, h = 1280, 720
	}
	model := r.Model
	if model == "" {
		model = "flux"
	}
	return fmt.Sprintf("%s%s?width=%d&height=%d&seed=%d&nologo=true&model=%s",
		endpoint, EncodeURIComponent(base), w, h, Seed(base), model)
}

// Seed is the sum of the UTF-16 code units of s.
func Seed(s string) int {
	var sum int
	for _, u := range utf16.Encode([]rune(s)) {
		sum += int(u)
	}
	return sum
}

// EncodeURIComponent escapes s like the JavaScript function of the same
// name: everything except A-Z a-z 0-9 and -_.!~*'() is percent-encoded as
// UTF-8.
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
