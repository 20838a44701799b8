package tree

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Project-Sylos/DriveLister/internal/types"
)

// DefaultIcon is shown for any mime type no rule matches
const DefaultIcon = "📄"

// FolderIcon is shown for Drive folders
const FolderIcon = "📁"

var exactIcons = map[string]string{
	types.MimeTypeFolder:                       FolderIcon,
	"application/vnd.google-apps.document":     "📄",
	"application/vnd.google-apps.spreadsheet":  "📊",
	"application/vnd.google-apps.presentation": "📽️",
	"application/pdf":                          "📄",
	"application/msword":                       "📄",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "📄",
	"application/vnd.ms-excel": "📊",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "📊",
	"application/zip":              "📦",
	"application/x-rar-compressed": "📦",
}

var prefixIcons = map[string]string{
	"image/": "🖼️",
	"video/": "🎥",
	"audio/": "🎵",
	"text/":  "📝",
}

// iconRule pairs a matcher with the icon it selects
type iconRule struct {
	match func(mimeType string) bool
	icon  string
}

// IconSet resolves mime types to icons with an ordered rule list: exact
// matches, then prefixes from longest to shortest, then the fallback. Exact
// keys also take part as prefixes, so versioned variants such as
// "application/vnd.ms-excel.sheet.macroEnabled.12" keep their family icon.
type IconSet struct {
	rules    []iconRule
	fallback string
}

// NewIconSet creates an icon set from exact and prefix tables
func NewIconSet(exact, prefixes map[string]string, fallback string) *IconSet {
	set := &IconSet{fallback: fallback}

	for _, mimeType := range sortedKeys(exact, strings.Compare) {
		set.rules = append(set.rules, iconRule{
			match: func(m string) bool { return m == mimeType },
			icon:  exact[mimeType],
		})
	}

	longestFirst := func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	}
	candidates := make(map[string]string, len(exact)+len(prefixes))
	for k, icon := range exact {
		candidates[k] = icon
	}
	for k, icon := range prefixes {
		candidates[k] = icon
	}
	for _, prefix := range sortedKeys(candidates, longestFirst) {
		set.rules = append(set.rules, iconRule{
			match: func(m string) bool { return strings.HasPrefix(m, prefix) },
			icon:  candidates[prefix],
		})
	}

	return set
}

// Lookup returns the icon for a mime type
func (s *IconSet) Lookup(mimeType string) string {
	for _, rule := range s.rules {
		if rule.match(mimeType) {
			return rule.icon
		}
	}
	return s.fallback
}

func sortedKeys(m map[string]string, compare func(a, b string) int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compare)
	return keys
}

// DefaultIcons is the icon set used for Drive listings
var DefaultIcons = NewIconSet(exactIcons, prefixIcons, DefaultIcon)

// Icon returns the display icon for a mime type
func Icon(mimeType string) string {
	return DefaultIcons.Lookup(mimeType)
}
