package render

import (
	"image"

	"github.com/lvillar/deckforge/geom"
)

// Node is one laid-out element of a surface. Text holds the node's own text
// only; text of descendants lives on the descendants. Box is in render
// pixels relative to the surface origin.
type Node struct {
	Tag      string
	Text     string
	Lines    []string // Text wrapped to Box.W at build time
	Box      geom.Rect
	Style    Style
	Image    *ImageSlot
	Icon     string
	Children []*Node
}

// ImageFit controls how an image fills its box.
type ImageFit int

const (
	FitCover ImageFit = iota
	FitContain
)

// ImageSlot is an image placed in a node's box.
type ImageSlot struct {
	URL    string
	Alt    string
	Fit    ImageFit
	Circle bool
}

// Append adds children and returns n.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree.
func (n *Node) Count() int {
	var c int
	n.Walk(func(*Node) bool { c++; return true })
	return c
}

// LoadState is the state of an image in a surface's image source.
type LoadState int

const (
	LoadPending LoadState = iota
	LoadDone
	LoadFailed
)

// ImageSource serves decoded images to painters.
type ImageSource interface {
	Image(url string) (image.Image, LoadState)
}

// Surface is a fully laid-out page ready for capture.
type Surface struct {
	Width  float64 // render pixels
	Height float64
	Root   *Node
	Images ImageSource
}

// URLs returns the distinct image URLs referenced by the surface, in
// document order.
func (s *Surface) URLs() []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	s.Root.Walk(func(n *Node) bool {
		if n.Image != nil && n.Image.URL != "" && !seen[n.Image.URL] {
			seen[n.Image.URL] = true
			out = append(out, n.Image.URL)
		}
		return true
	})
	return out
}
