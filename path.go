// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

import (
	"strconv"
	"unicode/utf8"

	"github.com/creachadair/jchunk/internal/escape"
	"github.com/smasher164/xid"
	"go4.org/mem"
)

// A pathBuf is the bounded, mutable text of the JSONPath location of the
// current event. It always begins with "$". Object members add ".key" when
// the key is an identifier, or `["key"]` with JSON escapes otherwise. Array
// elements add "[index]".
type pathBuf struct {
	buf []byte
	max int
}

func newPathBuf(max int) pathBuf {
	buf := make([]byte, 1, min(max, 64))
	buf[0] = '$'
	return pathBuf{buf: buf, max: max}
}

func (p *pathBuf) len() int { return len(p.buf) }

func (p *pathBuf) bytes() []byte { return p.buf }

func (p *pathBuf) String() string { return string(p.buf) }

// truncate discards any segments past offset n.
func (p *pathBuf) truncate(n int) { p.buf = p.buf[:n] }

// reset discards all segments.
func (p *pathBuf) reset() { p.buf = p.buf[:1] }

// pushKey adds a member segment for key, which must be valid UTF-8.
// It reports false without modifying p if the result would exceed the bound.
func (p *pathBuf) pushKey(key []byte) bool {
	n := len(p.buf)
	if isIdent(key) {
		p.buf = append(p.buf, '.')
		p.buf = append(p.buf, key...)
	} else {
		p.buf = append(p.buf, '[', '"')
		p.buf = escape.AppendQuote(p.buf, mem.B(key))
		p.buf = append(p.buf, '"', ']')
	}
	return p.check(n)
}

// pushIndex adds an array element segment for i.
// It reports false without modifying p if the result would exceed the bound.
func (p *pathBuf) pushIndex(i int) bool {
	n := len(p.buf)
	p.buf = append(p.buf, '[')
	p.buf = strconv.AppendInt(p.buf, int64(i), 10)
	p.buf = append(p.buf, ']')
	return p.check(n)
}

func (p *pathBuf) check(n int) bool {
	if len(p.buf) > p.max {
		p.buf = p.buf[:n]
		return false
	}
	return true
}

// isIdent reports whether key can be written as a ".key" path segment.
func isIdent(key []byte) bool {
	if len(key) == 0 {
		return false
	}
	for i := 0; i < len(key); {
		r, n := utf8.DecodeRune(key[i:])
		if r == '_' || (i == 0 && xid.Start(r)) || (i > 0 && xid.Continue(r)) {
			i += n
			continue
		}
		return false
	}
	return true
}
