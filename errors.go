// Package deckforge turns structured, AI-generated documents into printable
// and editable artifacts.
//
// A document is an ordered list of pages, each tagged with one layout
// template. The export core renders every page onto an off-screen surface and
// then produces either a paginated PDF (raster capture plus an invisible,
// selectable text layer) or a PPTX deck built from native shapes.
//
// The root package only holds the error vocabulary shared by the
// subpackages:
//
//   - geom: output profiles and render-pixel to output-unit conversion
//   - render: surface node tree, fonts, text layout, shared render target
//   - raster: surface to bitmap capture
//   - textlayer: invisible text instructions and their PDF placement
//   - templates: the template registry (on-screen layout + native slide renderer)
//   - pdfexport, deckexport: the two export orchestrators
package deckforge

import (
	"errors"
	"fmt"
)

// Sentinel errors for the export pipeline.
var (
	ErrCaptureTargetNotFound = errors.New("deckforge: capture target not found")
	ErrUnknownTemplate       = errors.New("deckforge: unknown template")
	ErrInvalidProfile        = errors.New("deckforge: invalid output profile")
	ErrExportAborted         = errors.New("deckforge: export aborted")
	ErrImageUnavailable      = errors.New("deckforge: image unavailable")
	ErrInvalidDocument       = errors.New("deckforge: invalid document")
)

// ExportError represents a failure of a specific export step.
// Page is the 1-based page index, or 0 when the step is not tied to a page.
type ExportError struct {
	Op   string // step name, e.g. "capture", "extract", "finalize"
	Page int
	Err  error
}

func (e *ExportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("deckforge.%s: unknown error", e.Op)
	}
	if e.Page > 0 {
		return fmt.Sprintf("deckforge.%s: page %d: %v", e.Op, e.Page, e.Err)
	}
	return fmt.Sprintf("deckforge.%s: %v", e.Op, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError creates an ExportError wrapping err with step context.
func NewExportError(op string, page int, err error) *ExportError {
	return &ExportError{Op: op, Page: page, Err: err}
}
