package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// fold normalizes s to NFC and applies full Unicode case folding.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

func containsFolded(haystack string, needle string) bool {
	return strings.Contains(fold(haystack), fold(needle))
}

func equalFolded(a string, b string) bool {
	return fold(a) == fold(b)
}
