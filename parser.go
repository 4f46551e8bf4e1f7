// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/jchunk/number"
)

// EventKind is the type of a parse event.
type EventKind byte

// Constants defining the valid EventKind values.
const (
	BeginObject EventKind = iota + 1 // open brace of an object
	EndObject                        // close brace of an object
	BeginArray                       // open bracket of an array
	EndArray                         // close bracket of an array
	ObjectKey                        // key of an object member
	StringValue                      // string value
	NumberValue                      // number literal, delimited but not validated by default
	BoolValue                        // true or false
	NullValue                        // null
)

var eventStr = [...]string{
	0:           "Invalid",
	BeginObject: "BeginObject",
	EndObject:   "EndObject",
	BeginArray:  "BeginArray",
	EndArray:    "EndArray",
	ObjectKey:   "ObjectKey",
	StringValue: "StringValue",
	NumberValue: "NumberValue",
	BoolValue:   "BoolValue",
	NullValue:   "NullValue",
}

func (k EventKind) String() string {
	if int(k) >= len(eventStr) {
		return eventStr[0]
	}
	return eventStr[k]
}

// IsValue reports whether k is a scalar value event.
func (k EventKind) IsValue() bool { return k >= StringValue }

var valueEvent = [...]EventKind{
	OpenObject:    BeginObject,
	CloseObject:   EndObject,
	OpenArray:     BeginArray,
	CloseArray:    EndArray,
	StringLiteral: StringValue,
	NumberLiteral: NumberValue,
	True:          BoolValue,
	False:         BoolValue,
	Null:          NullValue,
}

// An Event is a single parse event reported by a Parser.
//
// The Text and Path of an event are views of storage owned by the parser or
// the caller's buffer, and are only valid until the next call to the parser.
// The caller must copy any data it needs to retain beyond that.
type Event struct {
	Kind EventKind

	// For ObjectKey and StringValue, the decoded string. For NumberValue,
	// BoolValue, and NullValue, the literal text. For the other kinds, the
	// punctuation.
	//
	// The text of a NumberValue is only checked against the JSON number
	// grammar if Options.StrictNumbers is set. Otherwise it is any run of
	// number characters, such as "01" or "1-2", and is checked when it is
	// converted by Number.
	Text   []byte
	Source Source // where Text is stored

	Span Span   // location of the token in absolute document offsets
	Path []byte // the JSONPath location of the event, e.g., $.a[0]
}

// Number parses the text of a NumberValue event. It reports an error of
// type *number.FormatError if the text is not a valid JSON number.
func (e Event) Number() (number.Value, error) {
	if e.Kind != NumberValue {
		return number.Value{}, fmt.Errorf("event is %v, not a number", e.Kind)
	}
	return number.Parse(e.Text)
}

// Bool reports whether e is the value true.
func (e Event) Bool() bool { return e.Kind == BoolValue && len(e.Text) != 0 && e.Text[0] == 't' }

// String renders e in a human-readable format, including its kind and path,
// and its text for keys and values.
func (e Event) String() string {
	switch e.Kind {
	case BeginObject, EndObject, BeginArray, EndArray:
		return fmt.Sprintf("%v %s", e.Kind, e.Path)
	default:
		return fmt.Sprintf("%v %s <%s>", e.Kind, e.Path, e.Text)
	}
}

type frameKind byte

const (
	inObject frameKind = iota + 1 // inside an object, awaiting a key
	inArray                       // inside an array
	afterKey                      // inside an object, after a key
)

// want records which tokens a frame accepts next.
type want byte

const (
	wantFirst want = iota // just opened: first key, first value, or close
	wantKey               // after a comma in an object
	wantColon             // after a key
	wantValue             // after a colon, or after a comma in an array
	wantComma             // after a complete member or element: comma or close
)

// A frame records the state of an open object or array.
type frame struct {
	kind  frameKind
	want  want
	index int // array: index of the current element
	mark  int // length of the path of the container itself
}

// A Parser is an incremental stream parser for JSON. It reads tokens from a
// Lexer and reports the structure of the input as a sequence of events,
// each annotated with its JSONPath location.
//
// Like the Lexer, the Parser is driven by the caller: Feed supplies a buffer
// of input, and Next reports the next event. When Next needs more input, it
// reports ErrNeedMoreData. When the document is complete, Next reports
// io.EOF. Any other error is fatal, and has concrete type *SyntaxError.
//
// The parser ensures that corresponding Begin and End events are correctly
// paired, or that an error is reported.
type Parser struct {
	lex  *Lexer
	stk  []frame // open containers, bounded by cap
	path pathBuf

	begun  bool // the root value has begun
	done   bool // the root value is complete
	settle bool // the last event completed a value, whose bookkeeping is pending
	err    error

	ahead    Token // the first token of the next document, if hasAhead
	hasAhead bool
}

// NewParser constructs a new Parser with the given options.
// A nil *Options provides default settings.
func NewParser(opts *Options) *Parser {
	return &Parser{
		lex:  NewLexer(opts),
		stk:  make([]frame, 0, opts.maxDepth()),
		path: newPathBuf(opts.maxPathLen()),
	}
}

// Feed supplies the next buffer of input to the underlying lexer.
// See [Lexer.Feed].
func (p *Parser) Feed(data []byte) { p.lex.Feed(data) }

// Close reports that no more input will be fed. See [Lexer.Close].
func (p *Parser) Close() { p.lex.Close() }

// Lexer returns the lexer that provides tokens to p.
func (p *Parser) Lexer() *Lexer { return p.lex }

// Depth reports the number of currently open objects and arrays.
func (p *Parser) Depth() int { return len(p.stk) }

// Path returns a copy of the current path.
func (p *Parser) Path() string { return p.path.String() }

// Reset discards all input and state, so that p can be reused for a new
// document. Options are preserved.
func (p *Parser) Reset() {
	p.lex.Reset()
	p.NextDocument()
	p.err = nil
	p.ahead, p.hasAhead = Token{}, false
}

// NextDocument prepares p to parse another document from the input that
// remains after the current one. It should be called after Next has
// reported io.EOF. This allows a stream of concatenated documents to be
// parsed one at a time. A fatal error is not cleared.
func (p *Parser) NextDocument() {
	p.stk = p.stk[:0]
	p.path.reset()
	p.begun, p.done, p.settle = false, false, false
}

// More reports whether another document follows the current one. It is only
// known after the input is closed and Next has reported io.EOF.
func (p *Parser) More() bool { return p.hasAhead }

// Next advances p to the next event of the document and returns it.
//
// Next returns ErrNeedMoreData if the input fed so far is exhausted before
// the next event is complete. It returns io.EOF once the root value of the
// document is complete, or if the input was closed with no value at all.
//
// Once the input is closed, Next also checks what follows the root value. A
// close bracket or brace is reported as UnbalancedClose, and a comma or colon
// as UnexpectedToken. Any other token begins another document; see More and
// NextDocument.
func (p *Parser) Next() (Event, error) {
	if p.err != nil {
		return Event{}, p.err
	}
	if p.settle {
		p.settle = false
		p.endValue()
	}
	for !p.done {
		tok, err := p.token()
		if err == ErrNeedMoreData {
			return Event{}, err
		} else if err == io.EOF {
			if !p.begun {
				return Event{}, io.EOF
			}
			return Event{}, p.fail(UnexpectedToken, p.lex.Offset(), io.ErrUnexpectedEOF,
				"unexpected end of input, %s", p.expected())
		} else if err != nil {
			return Event{}, p.lexError(err)
		}

		evt, ok, err := p.step(tok)
		if err != nil {
			return Event{}, err
		} else if ok {
			return evt, nil
		}
	}
	return Event{}, p.finish()
}

// token returns the next token, using the lookahead if there is one.
func (p *Parser) token() (Token, error) {
	if p.hasAhead {
		p.hasAhead = false
		return p.ahead, nil
	}
	return p.lex.Next()
}

// finish reports the end of a complete document. After Close, it reads the
// first token past the root value to check that nothing stray follows.
func (p *Parser) finish() error {
	if !p.lex.closed || p.hasAhead {
		return io.EOF
	}
	for {
		tok, err := p.lex.Next()
		if err != nil {
			if err == io.EOF {
				return err
			}
			return p.lexError(err)
		}
		switch tok.Kind {
		case WhiteSpace:
			continue
		case CloseObject, CloseArray:
			return p.fail(UnbalancedClose, tok.Span.Pos, nil, "unexpected %v after end of document", tok.Kind)
		case Colon, Comma:
			return p.fail(UnexpectedToken, tok.Span.Pos, nil, "unexpected %v after end of document", tok.Kind)
		}
		p.ahead, p.hasAhead = tok, true
		return io.EOF
	}
}

// lexError records a fatal error from the lexer, adding the current path.
func (p *Parser) lexError(err error) error {
	var serr *SyntaxError
	if errors.As(err, &serr) && serr.Path == "" {
		serr.Path = p.path.String()
	}
	p.err = err
	return err
}

// step handles a single token. It reports false if tok produces no event.
func (p *Parser) step(tok Token) (Event, bool, error) {
	if tok.Kind == WhiteSpace {
		return Event{}, false, nil
	}
	top := p.top()
	switch tok.Kind {
	case CloseObject, CloseArray:
		return p.endContainer(tok)

	case Colon:
		if top != nil && top.want == wantColon {
			top.want = wantValue
			return Event{}, false, nil
		}

	case Comma:
		if top != nil && top.want == wantComma {
			if top.kind == inArray {
				top.want = wantValue
			} else {
				top.want = wantKey
			}
			return Event{}, false, nil
		}

	default:
		if top == nil {
			return p.beginValue(tok)
		}
		switch top.kind {
		case inObject:
			if tok.Kind == StringLiteral && (top.want == wantFirst || top.want == wantKey) {
				return p.beginMember(tok)
			}
		case inArray:
			if top.want == wantFirst || top.want == wantValue {
				return p.beginValue(tok)
			}
		case afterKey:
			if top.want == wantValue {
				return p.beginValue(tok)
			}
		}
	}
	return Event{}, false, p.fail(UnexpectedToken, tok.Span.Pos, nil, "%s, got %v", p.expected(), tok.Kind)
}

// beginMember handles the key of an object member.
// Precondition: top.kind == inObject.
func (p *Parser) beginMember(tok Token) (Event, bool, error) {
	if !p.path.pushKey(tok.Text) {
		return Event{}, false, p.fail(CapacityExceeded, tok.Span.Pos, nil,
			"path longer than %d bytes", p.path.max)
	}
	top := p.top()
	top.kind, top.want = afterKey, wantColon
	return p.event(ObjectKey, tok), true, nil
}

// beginValue handles the first token of a value.
func (p *Parser) beginValue(tok Token) (Event, bool, error) {
	if top := p.top(); top != nil && top.kind == inArray {
		if !p.path.pushIndex(top.index) {
			return Event{}, false, p.fail(CapacityExceeded, tok.Span.Pos, nil,
				"path longer than %d bytes", p.path.max)
		}
	}
	p.begun = true
	switch tok.Kind {
	case OpenObject, OpenArray:
		if len(p.stk) == cap(p.stk) {
			return Event{}, false, p.fail(CapacityExceeded, tok.Span.Pos, nil,
				"nesting deeper than %d levels", cap(p.stk))
		}
		kind := inObject
		if tok.Kind == OpenArray {
			kind = inArray
		}
		p.stk = append(p.stk, frame{kind: kind, want: wantFirst, mark: p.path.len()})
	default:
		p.settle = true
	}
	return p.event(valueEvent[tok.Kind], tok), true, nil
}

// endContainer handles a close brace or bracket.
func (p *Parser) endContainer(tok Token) (Event, bool, error) {
	top := p.top()
	isObj := tok.Kind == CloseObject
	switch {
	case top == nil:
		return Event{}, false, p.fail(UnbalancedClose, tok.Span.Pos, nil, "unexpected %v", tok.Kind)
	case top.kind == afterKey:
		return Event{}, false, p.fail(UnexpectedToken, tok.Span.Pos, nil, "%s, got %v", p.expected(), tok.Kind)
	case (top.kind == inObject) != isObj:
		return Event{}, false, p.fail(UnbalancedClose, tok.Span.Pos, nil, "%v does not close %s", tok.Kind, top.kind)
	case top.want == wantKey || top.want == wantValue:
		return Event{}, false, p.fail(UnexpectedToken, tok.Span.Pos, nil, "%v after trailing comma", tok.Kind)
	}
	p.path.truncate(top.mark)
	p.stk = p.stk[:len(p.stk)-1]
	p.settle = true
	return p.event(valueEvent[tok.Kind], tok), true, nil
}

// endValue updates the enclosing container after a value is complete.
func (p *Parser) endValue() {
	top := p.top()
	if top == nil {
		p.done = true
		return
	}
	p.path.truncate(top.mark)
	switch top.kind {
	case afterKey:
		top.kind = inObject
	case inArray:
		top.index++
	}
	top.want = wantComma
}

func (p *Parser) top() *frame {
	if len(p.stk) == 0 {
		return nil
	}
	return &p.stk[len(p.stk)-1]
}

func (p *Parser) event(kind EventKind, tok Token) Event {
	return Event{
		Kind:   kind,
		Text:   tok.Text,
		Source: tok.Source,
		Span:   tok.Span,
		Path:   p.path.bytes(),
	}
}

// expected makes a human-readable summary of the tokens acceptable next.
func (p *Parser) expected() string {
	top := p.top()
	if top == nil {
		return "expected value"
	}
	var tokens []string
	switch top.want {
	case wantFirst:
		if top.kind == inObject {
			tokens = []string{CloseObject.String(), StringLiteral.String()}
		} else {
			tokens = []string{CloseArray.String(), "value"}
		}
	case wantKey:
		tokens = []string{StringLiteral.String()}
	case wantColon:
		tokens = []string{Colon.String()}
	case wantValue:
		tokens = []string{"value"}
	case wantComma:
		if top.kind == inArray {
			tokens = []string{Comma.String(), CloseArray.String()}
		} else {
			tokens = []string{Comma.String(), CloseObject.String()}
		}
	}
	if len(tokens) == 1 {
		return "expected " + tokens[0]
	}
	last := len(tokens) - 1
	return "expected " + strings.Join(tokens[:last], ", ") + " or " + tokens[last]
}

func (p *Parser) fail(kind ErrorKind, offset int, err error, msg string, args ...any) error {
	serr := newError(kind, offset, err, msg, args...)
	serr.Path = p.path.String()
	p.err = serr
	return serr
}

func (k frameKind) String() string {
	switch k {
	case inObject, afterKey:
		return "object"
	case inArray:
		return "array"
	}
	return "unknown frame"
}
