package domain

import (
	"strings"
	"unicode/utf8"
)

// PDFExtension is the suffix an uploaded filename must carry. The match is
// case-sensitive so uploads and upload listings agree on the same files.
const PDFExtension = ".pdf"

// IsPDFName reports whether name carries PDFExtension.
func IsPDFName(name string) bool {
	return strings.HasSuffix(name, PDFExtension)
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
