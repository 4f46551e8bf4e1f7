// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

import (
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/creachadair/jchunk/internal/escape"
	"github.com/creachadair/jchunk/number"
	"go4.org/mem"
)

// LexState records what a Lexer is in the middle of scanning. Any state but
// Base means a token is incomplete, and is only observable by the caller
// after Next has reported ErrNeedMoreData.
type LexState byte

// Constants defining the valid LexState values.
const (
	Base                 LexState = iota // between tokens
	InZeroCopyString                     // string with no escapes yet, in one buffer
	StartEscape                          // after a backslash in a string
	CopyingString                        // string being copied to scratch
	ReadingUnicodeEscape                 // reading the hex digits of \uXXXX
	ExpectLowSurrogate                   // after a high surrogate, want "\"
	ExpectLowSurrogateU                  // after a high surrogate and "\", want "u"
	InNumber                             // number literal
	InLiteral                            // constant: true, false, null
)

var stateStr = [...]string{
	Base:                 "base",
	InZeroCopyString:     "in zero-copy string",
	StartEscape:          "start escape",
	CopyingString:        "copying string",
	ReadingUnicodeEscape: "reading unicode escape",
	ExpectLowSurrogate:   "expect low surrogate",
	ExpectLowSurrogateU:  "expect low surrogate u",
	InNumber:             "in number",
	InLiteral:            "in literal",
}

func (s LexState) String() string {
	if int(s) >= len(stateStr) {
		return "invalid state"
	}
	return stateStr[s]
}

// A Lexer reads lexical tokens from a sequence of input buffers. The caller
// supplies input with Feed and calls Next to advance to the next token. When
// a buffer is exhausted before a token is complete, Next reports
// ErrNeedMoreData, and the caller should Feed the next buffer and call Next
// again. Any partial token is kept across buffers, including a partial escape
// sequence or a partial UTF-8 encoding.
//
// String tokens with no escapes that lie within a single buffer are reported
// without copying: their text is a view of the caller's buffer. Other strings
// are decoded into a scratch buffer owned by the lexer.
type Lexer struct {
	buf    []byte // the current input buffer
	cur    int    // offset of the next unread byte of buf
	base   int    // absolute offset of buf[0]
	closed bool   // no more input will be fed

	state   LexState
	scratch []byte // decoded or copied text of the current token
	mark    int    // offset in buf of current token text not yet in scratch
	split   bool   // part of the current token is in scratch
	start   int    // absolute offset of the start of the current token
	kind    Kind   // kind of the current number or constant
	code    rune   // accumulated value of a \u escape
	ndigit  int    // hex digits remaining in a \u escape
	high    rune   // pending high surrogate, or 0

	maxTok int
	strict bool
	spaces bool
	err    error
}

// NewLexer constructs a new Lexer with the given options.
// A nil *Options provides default settings.
func NewLexer(opts *Options) *Lexer {
	return &Lexer{
		maxTok: opts.maxTokenSize(),
		strict: opts.strictNumbers(),
		spaces: opts.whitespace(),
	}
}

// ReportWhitespace configures the lexer to report (true) or skip (false) runs
// of whitespace as WhiteSpace tokens. A run that reaches the end of a buffer
// is reported without waiting for the next buffer.
func (l *Lexer) ReportWhitespace(ok bool) { l.spaces = ok }

// Feed supplies the next buffer of input. The caller must not modify data
// until the lexer has consumed it and asked for more.
//
// Feed may be called before the first call to Next, or after Next has
// reported ErrNeedMoreData. It panics if unread input remains in the previous
// buffer, or if the lexer has been closed.
func (l *Lexer) Feed(data []byte) {
	if l.closed {
		panic("jchunk: Feed after Close")
	} else if l.cur < len(l.buf) {
		panic("jchunk: Feed with unread input")
	}
	l.base += len(l.buf)
	l.buf, l.cur, l.mark = data, 0, 0
}

// Close reports that no more input will be fed. After Close, a number or
// constant at the end of the input is complete, an unterminated string is an
// error, and Next reports io.EOF when the input is exhausted between tokens.
func (l *Lexer) Close() { l.closed = true }

// Reset discards all input and state, so that l can be reused for a new
// document. Options are preserved.
func (l *Lexer) Reset() {
	*l = Lexer{
		scratch: l.scratch[:0],
		maxTok:  l.maxTok,
		strict:  l.strict,
		spaces:  l.spaces,
	}
}

// State reports the current state of the lexer.
func (l *Lexer) State() LexState { return l.state }

// Offset reports the absolute offset of the next unread byte of input.
func (l *Lexer) Offset() int { return l.base + l.cur }

// Buffered reports the number of unread bytes in the current buffer.
func (l *Lexer) Buffered() int { return len(l.buf) - l.cur }

// Err reports the fatal error that stopped the lexer, or nil.
func (l *Lexer) Err() error { return l.err }

// Next advances l to the next token of the input and returns it.
//
// If the current buffer is exhausted before a token is complete, Next returns
// ErrNeedMoreData. After Close, Next returns io.EOF at the end of the input.
// Any other error has concrete type *SyntaxError and is fatal.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	switch l.state {
	case Base:
		return l.scanBase()
	case InNumber, InLiteral:
		return l.scanWord()
	default:
		return l.scanString()
	}
}

func (l *Lexer) scanBase() (Token, error) {
	for l.cur < len(l.buf) {
		ch := l.buf[l.cur]
		l.start = l.base + l.cur

		// Discard whitespace, unless it was requested.
		if isSpace(ch) {
			pos := l.cur
			for l.cur < len(l.buf) && isSpace(l.buf[l.cur]) {
				l.cur++
			}
			if l.spaces {
				return l.token(WhiteSpace, l.buf[pos:l.cur], Borrowed), nil
			}
			continue
		}

		// Handle punctuation.
		if t, ok := selfDelim(ch); ok {
			l.cur++
			return l.token(t, l.buf[l.cur-1:l.cur], Borrowed), nil
		}

		l.scratch = l.scratch[:0]
		l.split = false
		l.mark = l.cur
		switch ch {
		case '"':
			l.cur++
			l.mark = l.cur
			l.state = InZeroCopyString
			return l.scanString()
		case 't':
			l.kind, l.state = True, InLiteral
		case 'f':
			l.kind, l.state = False, InLiteral
		case 'n':
			l.kind, l.state = Null, InLiteral
		default:
			if !isNumStart(ch) {
				return Token{}, l.unexpected()
			}
			l.kind, l.state = NumberLiteral, InNumber
		}
		return l.scanWord()
	}
	if l.closed {
		return Token{}, io.EOF
	}
	return Token{}, ErrNeedMoreData
}

// scanWord scans a number or a constant. The end of the token is not known
// until a byte that cannot continue it is seen, or the input is closed.
func (l *Lexer) scanWord() (Token, error) {
	accept := isNumByte
	if l.state == InLiteral {
		accept = isNameByte
	}
	for l.cur < len(l.buf) && accept(l.buf[l.cur]) {
		l.cur++
	}
	if l.cur == len(l.buf) && !l.closed {
		if err := l.spill(); err != nil {
			return Token{}, err
		}
		return Token{}, ErrNeedMoreData
	}

	text, src := l.buf[l.mark:l.cur], Borrowed
	if l.split {
		if err := l.save(text); err != nil {
			return Token{}, err
		}
		text, src = l.scratch, Owned
	}
	l.state = Base

	if l.kind == NumberLiteral {
		if l.strict {
			if err := number.Check(text); err != nil {
				return Token{}, l.fail(MalformedInput, l.start, err, "invalid number %q", text)
			}
		}
	} else if !mem.B(text).Equal(mem.S(l.kind.String())) {
		return Token{}, l.fail(MalformedInput, l.start, nil, "unknown constant %q", text)
	}
	return l.token(l.kind, text, src), nil
}

// scanString scans the remainder of a string literal whose opening quote has
// already been consumed.
func (l *Lexer) scanString() (Token, error) {
	for l.cur < len(l.buf) {
		ch := l.buf[l.cur]
		switch l.state {
		case InZeroCopyString, CopyingString:
			for l.cur < len(l.buf) && !isStringStop(l.buf[l.cur]) {
				l.cur++
			}
			if l.cur == len(l.buf) {
				break
			}
			switch ch = l.buf[l.cur]; ch {
			case '"':
				text, src := l.buf[l.mark:l.cur], Borrowed
				if l.state == CopyingString {
					if err := l.save(text); err != nil {
						return Token{}, err
					}
					text, src = l.scratch, Owned
				}
				l.cur++
				l.state = Base
				if !utf8.Valid(text) {
					return Token{}, l.fail(MalformedInput, l.start, nil, "invalid UTF-8 in string")
				}
				return l.token(StringLiteral, text, src), nil

			case '\\':
				if err := l.save(l.buf[l.mark:l.cur]); err != nil {
					return Token{}, err
				}
				l.cur++
				l.state = StartEscape

			default:
				return Token{}, l.fail(MalformedInput, l.Offset(), nil, "unescaped control %q in string", ch)
			}

		case StartEscape:
			if ch == 'u' {
				l.cur++
				l.state, l.code, l.ndigit = ReadingUnicodeEscape, 0, 4
				continue
			}
			d, ok := escape.Simple(ch)
			if !ok {
				return Token{}, l.fail(MalformedInput, l.Offset(), nil, "invalid %q after escape", ch)
			}
			l.cur++
			if err := l.save([]byte{d}); err != nil {
				return Token{}, err
			}
			l.mark, l.state = l.cur, CopyingString

		case ReadingUnicodeEscape:
			v, ok := escape.HexValue(ch)
			if !ok {
				return Token{}, l.fail(MalformedInput, l.Offset(), nil, "invalid hex digit %q in Unicode escape", ch)
			}
			l.cur++
			l.code = l.code<<4 | v
			if l.ndigit--; l.ndigit == 0 {
				if err := l.decodeUnicode(); err != nil {
					return Token{}, err
				}
			}

		case ExpectLowSurrogate, ExpectLowSurrogateU:
			want := byte('\\')
			if l.state == ExpectLowSurrogateU {
				want = 'u'
			}
			if ch != want {
				return Token{}, l.fail(MalformedInput, l.Offset(), nil, "unpaired surrogate %U", l.high)
			}
			l.cur++
			if l.state == ExpectLowSurrogate {
				l.state = ExpectLowSurrogateU
			} else {
				l.state, l.code, l.ndigit = ReadingUnicodeEscape, 0, 4
			}
		}
	}

	// The buffer is exhausted. Keep what we have, since the buffer will not
	// be available on the next call.
	if l.state == InZeroCopyString {
		l.state = CopyingString
	}
	if l.state == CopyingString {
		if err := l.spill(); err != nil {
			return Token{}, err
		}
	}
	if l.closed {
		return Token{}, l.fail(MalformedInput, l.Offset(), io.ErrUnexpectedEOF, "unterminated string")
	}
	return Token{}, ErrNeedMoreData
}

// decodeUnicode handles a complete \u escape whose value is in l.code.
func (l *Lexer) decodeUnicode() error {
	r := l.code
	switch {
	case l.high != 0:
		hi := l.high
		l.high = 0
		if !escape.IsLowSurrogate(r) {
			return l.fail(MalformedInput, l.Offset()-1, nil, "invalid surrogate pair %U %U", hi, r)
		}
		r = utf16.DecodeRune(hi, r)
	case escape.IsHighSurrogate(r):
		l.high = r
		l.state = ExpectLowSurrogate
		return nil
	case escape.IsLowSurrogate(r):
		return l.fail(MalformedInput, l.Offset()-1, nil, "unpaired surrogate %U", r)
	}
	var enc [utf8.UTFMax]byte
	if err := l.save(utf8.AppendRune(enc[:0], r)); err != nil {
		return err
	}
	l.mark, l.state = l.cur, CopyingString
	return nil
}

// spill copies the unsaved text of the current token to scratch.
func (l *Lexer) spill() error {
	l.split = true
	if err := l.save(l.buf[l.mark:l.cur]); err != nil {
		return err
	}
	l.mark = l.cur
	return nil
}

// save appends text to scratch, subject to the token size limit.
func (l *Lexer) save(text []byte) error {
	if l.maxTok > 0 && len(l.scratch)+len(text) > l.maxTok {
		return l.fail(CapacityExceeded, l.start, nil, "token longer than %d bytes", l.maxTok)
	}
	l.scratch = append(l.scratch, text...)
	return nil
}

func (l *Lexer) token(kind Kind, text []byte, src Source) Token {
	return Token{
		Kind:   kind,
		Text:   text,
		Source: src,
		Pos:    l.start - l.base,
		Span:   Span{Pos: l.start, End: l.Offset()},
	}
}

func (l *Lexer) unexpected() error {
	r, n := utf8.DecodeRune(l.buf[l.cur:])
	if r == utf8.RuneError && n <= 1 {
		return l.fail(MalformedInput, l.Offset(), nil, "unexpected byte %#02x", l.buf[l.cur])
	}
	return l.fail(MalformedInput, l.Offset(), nil, "unexpected %q", r)
}

func (l *Lexer) fail(kind ErrorKind, offset int, err error, msg string, args ...any) error {
	l.err = newError(kind, offset, err, msg, args...)
	return l.err
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }
func isNameByte(ch byte) bool { return ch >= 'a' && ch <= 'z' }

func isNumByte(ch byte) bool {
	return isDigit(ch) || ch == '-' || ch == '+' || ch == '.' || ch == 'e' || ch == 'E'
}

// isStringStop reports whether ch interrupts a run of plain string text.
func isStringStop(ch byte) bool { return ch == '"' || ch == '\\' || ch < ' ' }

var self = [256]Kind{
	'{': OpenObject,
	'}': CloseObject,
	'[': OpenArray,
	']': CloseArray,
	':': Colon,
	',': Comma,
}

func selfDelim(ch byte) (Kind, bool) {
	t := self[ch]
	return t, t != Invalid
}
