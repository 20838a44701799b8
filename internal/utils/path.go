package utils

import (
	"strings"
)

// nameEscaper keeps a slash inside a Drive name from reading as a separator
var (
	nameEscaper   = strings.NewReplacer("%", "%25", "/", "%2F")
	nameUnescaper = strings.NewReplacer("%2F", "/", "%25", "%")
)

// ChildPath returns the display path of name inside the folder at parent.
// Paths always start with "/"; the listed folder itself is "/".
//   - ChildPath("/", "B") = "/B"
//   - ChildPath("/B", "a/b.txt") = "/B/a%2Fb.txt"
func ChildPath(parent, name string) string {
	parent = strings.TrimSuffix(parent, "/")
	return parent + "/" + nameEscaper.Replace(name)
}

// SplitPath returns the entry names along p, unescaped
func SplitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = nameUnescaper.Replace(part)
	}
	return parts
}
