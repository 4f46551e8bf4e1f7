// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jchunk implements an incremental JSON lexer and stream parser for
// input that arrives in arbitrarily-sized buffers, such as from a socket.
//
// Neither the lexer nor the parser does any I/O. The caller supplies each
// buffer of input with Feed, and calls Next to advance. When a buffer runs
// out in the middle of a token, Next reports ErrNeedMoreData and the caller
// supplies the next buffer. Tokens may be split anywhere, including in the
// middle of an escape sequence or of a UTF-8 encoding.
//
// # Lexing
//
// The Lexer type turns input into tokens:
//
//	lex := jchunk.NewLexer(nil)
//	for chunk := range chunks {
//	   lex.Feed(chunk)
//	   for {
//	      tok, err := lex.Next()
//	      if err == jchunk.ErrNeedMoreData {
//	         break // get another chunk
//	      } else if err != nil {
//	         log.Fatalf("Lexing failed: %v", err)
//	      }
//	      log.Printf("Next token: %v %q", tok.Kind, tok.Text)
//	   }
//	}
//
// String tokens are decoded. A string with no escapes that lies within one
// buffer is not copied: its text is a view of the caller's buffer, and its
// Source is Borrowed. Otherwise its text is a view of the lexer's scratch
// buffer, and its Source is Owned. Either way, the text is only valid until
// the next call to the lexer.
//
// # Parsing
//
// The Parser type reads tokens from a Lexer and reports events, each with a
// JSONPath location:
//
//	Input:     {"a": [1, 2]}
//
//	Event      | Path   | Text
//	---------- | ------ | ----
//	BeginObject| $      | {
//	ObjectKey  | $.a    | a
//	BeginArray | $.a    | [
//	NumberValue| $.a[0] | 1
//	NumberValue| $.a[1] | 2
//	EndArray   | $.a    | ]
//	EndObject  | $      | }
//
// Once the root value is complete, Next reports io.EOF. Call Close when no
// more input will arrive, so that a trailing number is terminated and a
// truncated document is reported. After Close, a stray close bracket or
// other punctuation following the root value is also reported as an error,
// while another value begins a new document (see Parser.NextDocument).
//
// # Errors
//
// ErrNeedMoreData is not a failure. Every other error reported by a Lexer or
// Parser is fatal for the document, and has concrete type *SyntaxError. The
// Kind of a SyntaxError is one of MalformedInput, UnbalancedClose,
// UnexpectedToken, or CapacityExceeded, and may be checked with errors.Is.
//
// Nesting depth and path length are bounded by Options, and exceeding either
// is reported as CapacityExceeded.
package jchunk
