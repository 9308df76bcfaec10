package textutil

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns text in Unicode normalization form C.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// Fold returns NFC text with full Unicode case folding applied.
func Fold(text string) string {
	// A Caser keeps state, so each call gets its own.
	return norm.NFC.String(cases.Fold().String(norm.NFC.String(text)))
}
