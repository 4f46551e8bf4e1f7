// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

// Kind is the type of a lexical token in the JSON grammar.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid       Kind = iota // invalid token
	OpenObject                // left brace "{"
	CloseObject               // right brace "}"
	OpenArray                 // left square bracket "["
	CloseArray                // right square bracket "]"
	Colon                     // colon ":"
	Comma                     // comma ","
	WhiteSpace                // run of whitespace
	StringLiteral             // quoted string
	NumberLiteral             // number
	True                      // constant: true
	False                     // constant: false
	Null                      // constant: null
)

var tokenStr = [...]string{
	Invalid:       "invalid token",
	OpenObject:    `"{"`,
	CloseObject:   `"}"`,
	OpenArray:     `"["`,
	CloseArray:    `"]"`,
	Colon:         `":"`,
	Comma:         `","`,
	WhiteSpace:    "whitespace",
	StringLiteral: "string",
	NumberLiteral: "number",
	True:          "true",
	False:         "false",
	Null:          "null",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// Source reports where the text of a token is stored.
type Source byte

const (
	// Borrowed text is a view of the buffer most recently passed to Feed.
	// It is valid until the next call to Next or Feed.
	Borrowed Source = iota

	// Owned text is a view of the lexer's scratch buffer. It is valid until
	// the next call to Next.
	Owned
)

func (s Source) String() string {
	if s == Owned {
		return "owned"
	}
	return "borrowed"
}

// A Token is a single lexical token reported by a Lexer.
//
// The Text of a token is not a copy: depending on its Source, it is either a
// view of the caller's buffer or of the lexer's scratch buffer. The caller
// must copy the text if it is needed after the next call to the lexer.
type Token struct {
	Kind   Kind
	Text   []byte // decoded content for strings, source text for other tokens
	Source Source

	// Pos is the offset of the start of the token in the current buffer.
	// It is negative if the token began in an earlier buffer.
	Pos int

	// Span is the location of the complete token, including quotes, in
	// absolute document offsets.
	Span Span
}

// Copy returns a copy of the text of t.
func (t Token) Copy() []byte { return append([]byte(nil), t.Text...) }
