// Package templates pairs every page template tag with its on-screen
// layout and its native slide renderer.
//
// The layout builds the render surface used for the PDF capture; the native
// renderer draws the same content with editable slide primitives. Both are
// registered under one Definition so the two exports never diverge on which
// tags they understand.
package templates

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lvillar/deckforge"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/render"
)

// Native draws a page on a slide canvas.
type Native func(c *Canvas, page document.Page)

// Definition describes one template.
type Definition struct {
	Tag         document.Tag
	Name        string
	Description string
	Layout      render.Layout
	Native      Native
}

// Registry maps tags to definitions. It is safe for concurrent reads once
// populated.
type Registry struct {
	defs map[document.Tag]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[document.Tag]Definition)}
}

// Register adds d. Registering a tag twice is an error.
func (r *Registry) Register(d Definition) error {
	if d.Tag == "" {
		return fmt.Errorf("templates: definition without tag")
	}
	if _, ok := r.defs[d.Tag]; ok {
		return fmt.Errorf("templates: %q registered twice", d.Tag)
	}
	r.defs[d.Tag] = d
	return nil
}

// Lookup returns the definition of tag.
func (r *Registry) Lookup(tag document.Tag) (Definition, bool) {
	d, ok := r.defs[tag]
	return d, ok
}

// Layout implements render.Layouts.
func (r *Registry) Layout(tag document.Tag) (render.Layout, bool) {
	d, ok := r.defs[tag]
	if !ok || d.Layout == nil {
		return nil, false
	}
	return d.Layout, true
}

// Native returns the native renderer of tag.
func (r *Registry) Native(tag document.Tag) (Native, bool) {
	d, ok := r.defs[tag]
	if !ok || d.Native == nil {
		return nil, false
	}
	return d.Native, true
}

// Definitions returns every definition in canonical tag order, followed by
// tags outside the closed set sorted by name.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.defs))
	seen := make(map[document.Tag]bool)
	for _, tag := range document.AllTags() {
		if d, ok := r.defs[tag]; ok {
			out = append(out, d)
			seen[tag] = true
		}
	}
	var extra []Definition
	for tag, d := range r.defs {
		if !seen[tag] {
			extra = append(extra, d)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Tag < extra[j].Tag })
	return append(out, extra...)
}

// Validate reports every tag of the closed set that lacks a layout or a
// native renderer, and every registered tag outside the set.
func (r *Registry) Validate() error {
	var errs []error
	for _, tag := range document.AllTags() {
		d, ok := r.defs[tag]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%w: %q is not registered", deckforge.ErrUnknownTemplate, tag))
		case d.Layout == nil:
			errs = append(errs, fmt.Errorf("%w: %q has no layout", deckforge.ErrUnknownTemplate, tag))
		case d.Native == nil:
			errs = append(errs, fmt.Errorf("%w: %q has no native renderer", deckforge.ErrUnknownTemplate, tag))
		}
	}
	for _, d := range r.Definitions() {
		if !d.Tag.Known() {
			errs = append(errs, fmt.Errorf("%w: %q is registered but not a template tag", deckforge.ErrUnknownTemplate, d.Tag))
		}
	}
	return errors.Join(errs...)
}

// Default returns a registry holding every built-in template.
func Default() *Registry {
	r := NewRegistry()
	for _, d := range builtins {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

// MustDefault returns Default and panics when it does not cover the tag
// set exactly.
func MustDefault() *Registry {
	r := Default()
	if err := r.Validate(); err != nil {
		panic(err)
	}
	return r
}

var builtins = []Definition{
	{Tag: document.TagCover, Name: "Cover", Description: "Full-bleed image with title, subtitle and author", Layout: coverLayout, Native: coverNative},
	{Tag: document.TagSectionCover, Name: "Section cover", Description: "Chapter opener on the primary color", Layout: sectionCoverLayout, Native: sectionCoverNative},
	{Tag: document.TagTextImageSplit, Name: "Text and image", Description: "Body text beside an image", Layout: splitLayout, Native: splitNative},
	{Tag: document.TagInfoGrid, Name: "Info grid", Description: "Two-column grid of icon cards", Layout: infoGridLayout, Native: infoGridNative},
	{Tag: document.TagStatHighlight, Name: "Stat highlight", Description: "One big number with its explanation", Layout: statLayout, Native: statNative},
	{Tag: document.TagConclusionCTA, Name: "Conclusion", Description: "Closing title, summary and call to action", Layout: ctaLayout, Native: ctaNative},
	{Tag: document.TagFullImageQuote, Name: "Quote", Description: "Quote over a full-bleed image", Layout: quoteLayout, Native: quoteNative},
	{Tag: document.TagThreeColumn, Name: "Three columns", Description: "Three image cards side by side", Layout: threeColumnLayout, Native: threeColumnNative},
	{Tag: document.TagTimeline, Name: "Timeline", Description: "Numbered vertical steps", Layout: timelineLayout, Native: timelineNative},
	{Tag: document.TagComparisonTable, Name: "Comparison table", Description: "Feature and description rows", Layout: comparisonLayout, Native: comparisonNative},
	{Tag: document.TagFeatureList, Name: "Feature list", Description: "Two-column list of feature cards", Layout: featureListLayout, Native: featureListNative},
	{Tag: document.TagProcessSteps, Name: "Process steps", Description: "Horizontal numbered process", Layout: processLayout, Native: processNative},
	{Tag: document.TagTeamGrid, Name: "Team", Description: "Portraits with names and roles", Layout: teamLayout, Native: teamNative},
	{Tag: document.TagPricingTable, Name: "Pricing", Description: "Plans with price and features", Layout: pricingLayout, Native: pricingNative},
	{Tag: document.TagFAQSection, Name: "FAQ", Description: "Questions and answers", Layout: faqLayout, Native: faqNative},
}
