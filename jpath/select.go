package jpath

import (
	"io"

	"github.com/creachadair/jchunk"
)

// A Selector filters the events of a jchunk.Parser to those whose path
// matches an expression.
//
// By default a Selector reports the scalar values matched by the expression,
// and the Begin events of matched objects and arrays. If Subtree is true, it
// instead reports every event within a matched value, including keys and End
// events, so that matched values can be reconstructed or forwarded intact.
type Selector struct {
	p       *jchunk.Parser
	e       Expr
	Subtree bool

	path   Expr    // location of the most recent event
	levels []level // open containers
}

// A level records an open object or array seen by a Selector.
type level struct {
	n     int  // length of the path of the container
	array bool // container is an array
	next  int  // array: index of the next element
}

// Select constructs a Selector that reports the events of p matching e.
func Select(p *jchunk.Parser, e Expr) *Selector { return &Selector{p: p, e: e} }

// Path returns the location of the most recent event read from the parser,
// whether or not it was reported. The result is only valid until the next
// call to Next.
func (s *Selector) Path() Expr { return s.path }

// Next reports the next matching event of the underlying parser. Errors from
// the parser, including jchunk.ErrNeedMoreData and io.EOF, are returned as-is,
// and the caller handles them as it would for the parser.
func (s *Selector) Next() (jchunk.Event, error) {
	for {
		evt, err := s.p.Next()
		if err != nil {
			if err == io.EOF {
				// Prepare for another document.
				s.path, s.levels = s.path[:0], s.levels[:0]
			}
			return evt, err
		}
		s.locate(evt)
		if s.Subtree {
			if s.e.MatchPrefix(s.path) {
				return evt, nil
			}
			continue
		}
		switch evt.Kind {
		case jchunk.ObjectKey, jchunk.EndObject, jchunk.EndArray:
			continue
		}
		if s.e.Match(s.path) {
			return evt, nil
		}
	}
}

// locate updates the path to the location of evt. The parser guarantees that
// events are correctly nested.
func (s *Selector) locate(evt jchunk.Event) {
	switch evt.Kind {
	case jchunk.EndObject, jchunk.EndArray:
		top := s.levels[len(s.levels)-1]
		s.levels = s.levels[:len(s.levels)-1]
		s.path = s.path[:top.n]
		return

	case jchunk.ObjectKey:
		top := s.levels[len(s.levels)-1]
		s.path = append(s.path[:top.n], Step{Op: Name, Name: string(evt.Text)})
		return
	}

	// A value is an array element, an object member whose key is already on
	// the path, or the root.
	if n := len(s.levels); n != 0 && s.levels[n-1].array {
		top := &s.levels[n-1]
		s.path = append(s.path[:top.n], Step{Op: Index, Index: []int{top.next}})
		top.next++
	}
	if evt.Kind == jchunk.BeginObject || evt.Kind == jchunk.BeginArray {
		s.levels = append(s.levels, level{n: len(s.path), array: evt.Kind == jchunk.BeginArray})
	}
}
