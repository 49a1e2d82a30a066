// Package text provides utilities for counting characters in user input.
// Limits shown to users are expressed in characters, so byte length is never
// the right measure here.
package text

import "github.com/rivo/uniseg"

// CountGraphemes counts user-perceived characters (extended grapheme clusters).
// A family emoji joined with ZWJ, a flag, or a letter followed by combining
// marks each count as one.
//
// Examples:
//
//	CountGraphemes("hello")      // returns 5
//	CountGraphemes("e\u0301")    // returns 1
//	CountGraphemes("👨‍👩‍👧")         // returns 1
func CountGraphemes(text string) int {
	return uniseg.GraphemeClusterCount(text)
}
