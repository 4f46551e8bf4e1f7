// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

// simpleEsc maps the character following a backslash to its decoded byte.
// The 'u' escape is not included, as it requires further input.
var simpleEsc = [256]byte{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

// Simple reports the byte denoted by the single-character escape \c, and
// whether c is a valid single-character escape.
func Simple(c byte) (byte, bool) {
	d := simpleEsc[c]
	return d, d != 0
}

// HexValue reports the value of the hexadecimal digit c, and whether c is in
// fact a hexadecimal digit.
func HexValue(c byte) (rune, bool) {
	switch {
	case '0' <= c && c <= '9':
		return rune(c - '0'), true
	case 'a' <= c && c <= 'f':
		return rune(c - 'a' + 10), true
	case 'A' <= c && c <= 'F':
		return rune(c - 'A' + 10), true
	}
	return 0, false
}

// Surrogate ranges of UTF-16.
const (
	surrHigh = 0xd800 // first high surrogate
	surrLow  = 0xdc00 // first low surrogate
	surrEnd  = 0xe000 // first value past the low surrogates
)

// IsHighSurrogate reports whether r is the first half of a UTF-16 surrogate
// pair.
func IsHighSurrogate(r rune) bool { return surrHigh <= r && r < surrLow }

// IsLowSurrogate reports whether r is the second half of a UTF-16 surrogate
// pair.
func IsLowSurrogate(r rune) bool { return surrLow <= r && r < surrEnd }
