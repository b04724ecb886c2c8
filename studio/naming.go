package studio

import (
	"strings"
	"unicode"

	"github.com/lvillar/deckforge/document"
)

// FileName names an export of doc after its generated title, e.g.
// "Cloud 101.pdf". Characters that are unsafe in file names are dropped.
func FileName(doc *document.Document, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r), unicode.IsControl(r):
			return -1
		}
		return r
	}, doc.Title())
	name = strings.Trim(strings.Join(strings.Fields(name), " "), ". ")
	if name == "" {
		name = "ebook"
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}
