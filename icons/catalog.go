// Package icons holds the closed icon catalog offered to the collaborator,
// keyword based icon suggestion and the vector glyphs painted on surfaces.
package icons

import (
	"sort"
	"strings"
	"unicode"
)

// Default is used for empty or unknown icon names.
const Default = "circle-check"

// Category groups icons for prompts and pickers.
type Category struct {
	Name  string
	Icons []string
}

var categories = []Category{
	{"business", []string{"briefcase", "chart-pie", "chart-dots", "chart-area", "presentation", "dashboard", "receipt", "coin", "credit-card", "shopping-cart"}},
	{"technology", []string{"device-desktop", "device-mobile", "device-tablet", "code-circle", "cloud-computing", "cloud"}},
	{"communication", []string{"message", "mail", "phone", "bell", "message-circle", "video", "microphone"}},
	{"education", []string{"book", "bulb", "presentation", "library", "bookmark"}},
	{"health", []string{"heart", "medical-cross", "pill", "lungs", "hospital-circle"}},
	{"time", []string{"clock", "calendar", "hourglass", "alarm", "timeline-event"}},
	{"location", []string{"map-pin", "location", "compass", "navigation", "globe", "gps"}},
	{"media", []string{"photo", "camera", "video", "headphones", "player-play"}},
	{"social", []string{"user", "heart", "star", "thumb-up", "message-circle"}},
	{"security", []string{"lock", "shield", "key", "eye", "shield-check"}},
	{"weather", []string{"sun", "moon", "cloud", "droplet", "temperature"}},
	{"food", []string{"apple", "pizza", "beer", "lemon", "cherry", "egg"}},
	{"transport", []string{"car", "bike", "bus", "train", "helicopter", "truck"}},
	{"general", []string{"circle-check", "alert-circle", "info-circle", "help-circle", "arrow-right", "arrow-left", "circle-plus", "circle-x"}},
}

var (
	known      = make(map[string]string) // icon -> first category
	aliasNames = map[string]string{
		"check-circle": "circle-check",
		"checkcircle":  "circle-check",
		"check":        "circle-check",
		"x-circle":     "circle-x",
		"plus-circle":  "circle-plus",
		"zap":          "bulb",
		"users":        "user",
		"image":        "photo",
		"mail-open":    "mail",
		"map":          "map-pin",
		"trending-up":  "chart-area",
		"bar-chart":    "chart-dots",
		"settings":     "dashboard",
		"target":       "compass",
		"award":        "star",
		"rocket":       "arrow-right",
	}
)

func init() {
	for _, c := range categories {
		for _, name := range c.Icons {
			if _, ok := known[name]; !ok {
				known[name] = c.Name
			}
		}
	}
}

// Categories returns the catalog grouped by category.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Name: c.Name, Icons: append([]string(nil), c.Icons...)}
	}
	return out
}

// Names returns every distinct icon name, sorted.
func Names() []string {
	out := make([]string, 0, len(known))
	for name := range known {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Known reports whether name is in the catalog.
func Known(name string) bool {
	_, ok := known[name]
	return ok
}

// CategoryOf returns the category of a catalog icon, or "".
func CategoryOf(name string) string {
	return known[name]
}

// Normalize maps an icon name to a catalog name. It accepts kebab-case and
// PascalCase ("CheckCircle") spellings and a few common aliases; anything
// else yields Default.
func Normalize(name string) string {
	k := kebab(strings.TrimSpace(name))
	if Known(k) {
		return k
	}
	if a, ok := aliasNames[k]; ok {
		return a
	}
	if a, ok := aliasNames[strings.ReplaceAll(k, "-", "")]; ok {
		return a
	}
	return Default
}

func kebab(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		switch {
		case r == '_' || r == ' ':
			b.WriteByte('-')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return b.String()
}
