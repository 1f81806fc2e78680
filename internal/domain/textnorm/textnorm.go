// Package textnorm maps raw document text to the canonical form used for
// feature extraction and skill matching: lowercase ASCII letters separated by
// single spaces.
package textnorm

import "strings"

// Normalize replaces every byte outside [A-Za-z ] with a space, lowercases
// the result, collapses runs of spaces and trims both ends.
//
// "python,react" becomes "python react".
// The function is pure, total and idempotent.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	pendingSpace := false
	// Byte-wise: every byte of a multi-byte rune is outside the allowed set.
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
			c += 'a' - 'A'
		default:
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteByte(c)
	}
	return b.String()
}

// IsNormalized reports whether s is already in canonical form.
func IsNormalized(s string) bool {
	prevSpace := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			prevSpace = false
		case c == ' ':
			if prevSpace {
				return false
			}
			prevSpace = true
		default:
			return false
		}
	}
	return !prevSpace || s == ""
}
