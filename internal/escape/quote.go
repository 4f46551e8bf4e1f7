// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles the escape sequences of JSON strings.
package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// AppendQuote appends the escaped encoding of src to buf and returns the
// updated slice. The enclosing quotation marks are not added.
func AppendQuote(buf []byte, src mem.RO) []byte {
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		if r < utf8.RuneSelf {
			if r < ' ' {
				if b := controlEsc[r]; b != 0 {
					buf = append(buf, '\\', b)
				} else {
					buf = append(buf, '\\', 'u', '0', '0', hexDigit[int(r>>4)], hexDigit[int(r&15)])
				}
			} else if r == '\\' || r == '"' {
				buf = append(buf, '\\', byte(r))
			} else {
				buf = append(buf, byte(r))
			}
			src = src.SliceFrom(n)
			continue
		}

		switch r {
		case utf8.RuneError:
			if n == 1 {
				// An invalid byte, not an encoded replacement rune.
				buf = append(buf, `\ufffd`...)
			} else {
				buf = utf8.AppendRune(buf, r)
			}
		case '\u2028': // line separator
			buf = append(buf, `\u2028`...)
		case '\u2029': // paragraph separator
			buf = append(buf, `\u2029`...)
		default:
			buf = utf8.AppendRune(buf, r)
		}
		src = src.SliceFrom(n)
	}
	return buf
}
