// Package textutil provides text normalisation for fingerprinting and
// filename sanitisation.
//
// Normalize puts text in Unicode NFC so canonically equivalent strings
// compare equal; Fold additionally applies Unicode case folding. Neither
// trims or collapses whitespace.
package textutil
