// Package ingest extracts the raw text a document is generated from.
//
// Plain text and markdown are read as is, HTML is reduced to its readable
// blocks and .docx files are read from their main document part. Headings
// found in HTML and .docx are emitted as markdown headings so the section
// structure survives.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Format is an input format.
type Format string

// Supported formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatDocx     Format = "docx"
)

// MaxBytes bounds the size of an input file.
const MaxBytes = 20 << 20

// ErrUnsupported is returned for file types that cannot be read.
var ErrUnsupported = errors.New("ingest: unsupported file type")

// Source is extracted input text.
type Source struct {
	Name   string
	Format Format
	// Title is the document title when the input carries one.
	Title string
	Text  string
}

// FormatOf returns the format implied by a file name.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text", "":
		return FormatText, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".html", ".htm", ".xhtml":
		return FormatHTML, nil
	case ".docx":
		return FormatDocx, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(name))
	}
}

// File reads the file at path.
func File(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	defer f.Close()
	return Read(filepath.Base(path), f)
}

// Read extracts text from r, choosing the format from name.
func Read(name string, r io.Reader) (*Source, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("ingest: reading %s: %w", name, err)
	}
	if len(data) > MaxBytes {
		return nil, fmt.Errorf("ingest: %s is larger than %d bytes", name, MaxBytes)
	}

	src := &Source{Name: name, Format: format}
	switch format {
	case FormatHTML:
		src.Title, src.Text, err = HTML(data)
	case FormatDocx:
		src.Text, err = Docx(data)
	default:
		src.Text, err = Text(data)
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(src.Text) == "" {
		return nil, fmt.Errorf("ingest: %s has no text", name)
	}
	return src, nil
}

// Text decodes plain text: a UTF-8 or UTF-16 byte order mark selects the
// encoding, line endings become \n and the result is NFC normalized.
func Text(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("ingest: decoding text: %w", err)
	}
	out = bytes.ReplaceAll(out, []byte("\r\n"), []byte("\n"))
	out = bytes.ReplaceAll(out, []byte("\r"), []byte("\n"))
	return clean(string(norm.NFC.Bytes(out))), nil
}

// clean trims trailing spaces and collapses runs of blank lines.
func clean(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.TrimRight(l, " \t\u00a0")
		if l == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
