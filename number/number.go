// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package number parses the text of JSON number literals.
//
// The lexer in package jchunk only delimits number literals. This package
// checks a literal against the JSON number grammar and converts it to a value:
//
//	number = [ "-" ] int [ frac ] [ exp ]
//	   int = "0" / ( digit1-9 *digit )
//	  frac = "." 1*digit
//	   exp = ( "e" / "E" ) [ "-" / "+" ] 1*digit
package number

import (
	"fmt"
	"strconv"
)

// A FormatError reports a number literal that does not match the grammar.
type FormatError struct {
	Text    string // the complete literal
	Offset  int    // offset of the problem within Text
	Message string
}

// Error satisfies the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid number %q at offset %d: %s", e.Text, e.Offset, e.Message)
}

// A Value is the result of parsing a number literal.
type Value struct {
	Text  string  // the literal text
	IsInt bool    // the literal is an integer that fits in an int64
	Int   int64   // the value, if IsInt
	Float float64 // the value as a float64
}

// Int64 returns the value of v as an int64, and reports whether v is an
// integer that fits exactly.
func (v Value) Int64() (int64, bool) { return v.Int, v.IsInt }

// Float64 returns the value of v as a float64.
func (v Value) Float64() float64 { return v.Float }

func (v Value) String() string { return v.Text }

// Check reports whether text is a valid JSON number literal. If not, the
// error has concrete type *FormatError.
func Check(text []byte) error {
	_, err := scan(text)
	return err
}

// Parse checks text against the JSON number grammar and converts it to a
// Value. An integer literal that does not fit in an int64 is reported with
// IsInt false and the nearest float64 value.
func Parse(text []byte) (Value, error) {
	isInt, err := scan(text)
	if err != nil {
		return Value{}, err
	}
	v := Value{Text: string(text)}
	if isInt {
		if z, err := strconv.ParseInt(v.Text, 10, 64); err == nil {
			v.IsInt, v.Int, v.Float = true, z, float64(z)
			return v, nil
		}
	}
	f, err := strconv.ParseFloat(v.Text, 64)
	if err != nil {
		// The grammar is already checked, so the only possible failure is a
		// value out of range.
		return Value{}, &FormatError{Text: v.Text, Offset: 0, Message: "value out of range"}
	}
	v.Float = f
	return v, nil
}

// scan checks text against the number grammar, and reports whether it is an
// integer (no fraction or exponent).
func scan(text []byte) (isInt bool, _ error) {
	fail := func(i int, msg string) (bool, error) {
		return false, &FormatError{Text: string(text), Offset: i, Message: msg}
	}
	i := 0
	if i < len(text) && text[i] == '-' {
		i++ // If there is a leading sign, we need at least one digit.
	}
	n := digits(text[i:])
	switch {
	case n == 0:
		return fail(i, "missing digits")
	case n > 1 && text[i] == '0':
		return fail(i, "extra leading zeroes")
	}
	i += n
	isInt = true

	// If a decimal point follows, consume a fractional part.
	if i < len(text) && text[i] == '.' {
		i++
		n := digits(text[i:])
		if n == 0 {
			return fail(i, "no digits after decimal point")
		}
		i += n
		isInt = false
	}

	// If an exponent follows, consume it.
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		i++
		if i < len(text) && (text[i] == '-' || text[i] == '+') {
			i++
		}
		n := digits(text[i:])
		if n == 0 {
			return fail(i, "missing exponent digits")
		}
		i += n
		isInt = false
	}

	if i != len(text) {
		return fail(i, fmt.Sprintf("unexpected %q", text[i]))
	}
	return isInt, nil
}

// digits reports the length of the prefix of text consisting of decimal digits.
func digits(text []byte) int {
	for i, b := range text {
		if b < '0' || b > '9' {
			return i
		}
	}
	return len(text)
}
