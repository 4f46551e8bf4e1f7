// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

// Default capacity bounds used when an Options field is zero.
const (
	DefaultMaxDepth   = 512
	DefaultMaxPathLen = 2048
)

// Options are the settings for a Lexer or a Parser. A nil *Options is ready
// for use and provides default values as described.
//
// The capacity bounds are fixed when the Lexer or Parser is constructed.
// Exceeding any of them is reported as a fatal CapacityExceeded error rather
// than a silent truncation.
type Options struct {
	// The maximum nesting depth of objects and arrays.
	// If zero, DefaultMaxDepth is used.
	MaxDepth int

	// The maximum length in bytes of the path of any event.
	// If zero, DefaultMaxPathLen is used.
	MaxPathLen int

	// The maximum length in bytes of a single string, number, or constant
	// token that must be copied into the lexer's scratch buffer.
	// If zero, the size is not limited.
	MaxTokenSize int

	// If true, number literals are checked against the JSON number grammar
	// by number.Check as they are scanned, and a bad number is reported as
	// MalformedInput. Otherwise the lexer only delimits the literal.
	StrictNumbers bool

	// If true, the lexer reports runs of whitespace as WhiteSpace tokens.
	// The parser skips them either way.
	Whitespace bool
}

func (o *Options) maxDepth() int {
	if o == nil || o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o *Options) maxPathLen() int {
	if o == nil || o.MaxPathLen <= 0 {
		return DefaultMaxPathLen
	}
	return o.MaxPathLen
}

func (o *Options) maxTokenSize() int {
	if o == nil || o.MaxTokenSize < 0 {
		return 0
	}
	return o.MaxTokenSize
}

func (o *Options) strictNumbers() bool { return o != nil && o.StrictNumbers }

func (o *Options) whitespace() bool { return o != nil && o.Whitespace }
