// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

import (
	"errors"
	"fmt"
)

// ErrNeedMoreData is reported by Next when the current buffer has been fully
// consumed and the next token cannot be completed without more input. It is
// not a failure: the caller should Feed the next buffer (or Close the input)
// and call Next again. No input already consumed is replayed.
var ErrNeedMoreData = errors.New("need more data")

// ErrorKind classifies the fatal errors reported by a Lexer or Parser.
// An ErrorKind is itself an error, so that callers may write:
//
//	if errors.Is(err, jchunk.UnbalancedClose) { ... }
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	MalformedInput   ErrorKind = iota + 1 // bad character, escape, or hex digit
	UnbalancedClose                       // close token with no matching open
	UnexpectedToken                       // token out of place for the grammar
	CapacityExceeded                      // depth, path, or token size bound
)

var kindStr = [...]string{
	0:                "unknown error",
	MalformedInput:   "malformed input",
	UnbalancedClose:  "unbalanced close",
	UnexpectedToken:  "unexpected token",
	CapacityExceeded: "capacity exceeded",
}

// Error satisfies the error interface.
func (k ErrorKind) Error() string {
	if int(k) >= len(kindStr) {
		return kindStr[0]
	}
	return kindStr[k]
}

// SyntaxError is the concrete type of fatal errors reported by the Lexer and
// the Parser. Once a SyntaxError has been reported, the document cannot be
// resumed; every later call reports the same error.
type SyntaxError struct {
	Kind    ErrorKind
	Offset  int    // absolute byte offset of the problem
	Path    string // location in the document, if known
	Message string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	if s.Path == "" {
		return fmt.Sprintf("at offset %d: %v: %s", s.Offset, s.Kind, s.Message)
	}
	return fmt.Sprintf("at offset %d (%s): %v: %s", s.Offset, s.Path, s.Kind, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// Is reports whether target is the ErrorKind of s.
func (s *SyntaxError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == s.Kind
}

func newError(kind ErrorKind, offset int, err error, msg string, args ...any) *SyntaxError {
	return &SyntaxError{
		Kind:    kind,
		Offset:  offset,
		Message: fmt.Sprintf(msg, args...),
		err:     err,
	}
}
