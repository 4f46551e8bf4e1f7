// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

import (
	"errors"
	"fmt"

	"github.com/creachadair/jchunk/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string {
	buf := make([]byte, 0, len(src)+2)
	buf = append(buf, '"')
	buf = escape.AppendQuote(buf, mem.S(src))
	return string(append(buf, '"'))
}

// Unquote decodes a JSON string value. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents. Unlike
// the lexer, Unquote requires src to hold exactly one string literal.
func Unquote(src []byte) ([]byte, error) {
	if len(src) < 2 || src[0] != '"' || src[len(src)-1] != '"' {
		return nil, errors.New("missing quotations")
	}
	lex := NewLexer(nil)
	lex.Feed(src)
	lex.Close()
	tok, err := lex.Next()
	if err != nil {
		return nil, err
	} else if tok.Kind != StringLiteral || tok.Span.End != len(src) {
		return nil, fmt.Errorf("invalid string literal %q", src)
	}
	return tok.Copy(), nil
}
