package normalize

import (
	"strings"
	"unicode"
)

// IsMissing reports whether a cell value counts as absent: empty after
// trimming, the literal spreadsheet "nan" placeholder, or a bare punctuation
// artifact such as "," or "-".
func IsMissing(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	if strings.EqualFold(s, "nan") {
		return true
	}
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

// Clean trims a cell and collapses missing placeholders to the empty string.
func Clean(s string) string {
	if IsMissing(s) {
		return ""
	}
	return strings.TrimSpace(s)
}
