// Package html provides the pure string transforms used for post content:
// HTML to plain text and back, whitespace canonicalisation for content
// hashing, entity decoding, slug and excerpt derivation.
//
// The package depends on nothing but the standard library and
// golang.org/x/text, so the domain layer may import it.
package html
