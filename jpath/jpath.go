// Package jpath implements a JSONPath expression parser and matcher for the
// paths of events reported by a jchunk.Parser.
//
// Only the parts of JSONPath that can be decided from the path of an event
// alone are supported. Filters, scripts, and negative indices depend on the
// values or lengths of the document, which a stream parser does not know when
// the event is reported.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/creachadair/jchunk"
	"github.com/smasher164/xid"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = ".." name
  step = ".." "[" value "]"
  step = "[" value "]"
  name = IDENT
  name = "*"
 value = "'" QTEXT "'"
 value = JSON-STRING
 value = "*"
 value = INDEX ["," INDEX ...]
 value = [INDEX] ":" [INDEX]

 IDENT = Unicode identifier (XID_Start or "_", then XID_Continue)
 QTEXT = RE `[^']*`
 INDEX = RE `\d+`

Every path reported by a jchunk.Parser is a valid expression in this grammar.

Source:
  https://www.rfc-editor.org/rfc/rfc9535.html
*/

// An Expr is a parsed JSONPath expression.
type Expr []Step

// Parse parses s as a JSONPath expression.
func Parse(s string) (Expr, error) {
	st, _, err := parseExpr(s)
	if err != nil {
		return Expr{}, err
	}
	return st, nil
}

// MustParse parses s as a JSONPath expression, and panics if it is invalid.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("jpath: parse %q: %v", s, err))
	}
	return e
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		buf.WriteString(s.String())
	}
	return buf.String()
}

// Match reports whether the concrete path matches e. A concrete path is an
// expression with only member names and single indices, such as the path of
// an event reported by a jchunk.Parser.
func (e Expr) Match(path Expr) bool { return matchSteps(e, path) }

// MatchPrefix reports whether path or any of its ancestors matches e.
func (e Expr) MatchPrefix(path Expr) bool {
	for i := len(path); i >= 0; i-- {
		if matchSteps(e, path[:i]) {
			return true
		}
	}
	return false
}

func matchSteps(pat, path []Step) bool {
	if len(pat) == 0 {
		return len(path) == 0
	}
	s := pat[0]
	if s.Desc {
		// A descendant step may apply at any depth below the current one.
		for i := range path {
			if s.matchOne(path[i]) && matchSteps(pat[1:], path[i+1:]) {
				return true
			}
		}
		return false
	}
	return len(path) != 0 && s.matchOne(path[0]) && matchSteps(pat[1:], path[1:])
}

func parseExpr(s string) ([]Step, string, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, s, errors.New("missing root marker")
	}
	return parseSteps(t)
}

func parseSteps(s string) (steps []Step, rest string, _ error) {
	for s != "" {
		step, rest, err := parseStep(s)
		if err != nil {
			return nil, s, err
		}
		steps = append(steps, step)
		s = rest
	}
	return steps, s, nil
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, ".."); ok {
		if u, ok := strings.CutPrefix(t, "["); ok {
			step, rest, err := parseBracket(u)
			step.Desc = true
			return step, rest, err
		}
		step, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid ..name: %w", err)
		}
		step.Desc = true
		return step, u, nil
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		step, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid .name: %w", err)
		}
		return step, u, nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		return parseBracket(t)
	}
	return Step{}, s, errors.New("invalid path step")
}

// parseBracket parses the remainder of a bracketed step, after the "[".
func parseBracket(s string) (_ Step, rest string, _ error) {
	step, u, err := parseValue(s)
	if err != nil {
		return Step{}, s, err
	}
	u, ok := strings.CutPrefix(u, "]")
	if !ok {
		return Step{}, u, errors.New("missing close bracket")
	}
	return step, u, nil
}

func parseName(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return Step{Op: Wildcard}, t, nil
	}
	if n := identLen(s); n > 0 {
		return Step{Op: Name, Name: s[:n]}, s[n:], nil
	}
	return Step{}, s, errors.New("invalid name")
}

func parseValue(s string) (_ Step, rest string, _ error) {
	switch {
	case strings.HasPrefix(s, "?("), strings.HasPrefix(s, "("):
		return Step{}, s, errors.New("filters and scripts are not supported")
	case strings.HasPrefix(s, "-"):
		return Step{}, s, errors.New("negative indices are not supported")
	case strings.HasPrefix(s, "*"):
		return Step{Op: Wildcard}, s[1:], nil
	case strings.HasPrefix(s, `"`):
		return parseJSONName(s)
	}
	if m := quoteRE.FindStringSubmatch(s); m != nil {
		return Step{Op: Name, Name: m[1]}, s[len(m[0]):], nil
	}
	if m := sliceRE.FindStringSubmatch(s); m != nil {
		lo, hi := 0, -1
		if m[1] != "" {
			lo = mustAtoi(m[1])
		}
		if m[2] != "" {
			hi = mustAtoi(m[2])
		}
		return Step{Op: Slice, Lo: lo, Hi: hi}, s[len(m[0]):], nil
	}
	if m := indexRE.FindStringSubmatch(s); m != nil {
		var idx []int
		for _, v := range strings.Split(m[1], ",") {
			idx = append(idx, mustAtoi(v))
		}
		return Step{Op: Index, Index: idx}, s[len(m[0]):], nil
	}
	return Step{}, s, fmt.Errorf("invalid value: %q", s)
}

// parseJSONName parses a double-quoted name with JSON escapes.
func parseJSONName(s string) (_ Step, rest string, _ error) {
	esc := false
	for i := 1; i < len(s); i++ {
		if esc {
			esc = false
		} else if s[i] == '\\' {
			esc = true
		} else if s[i] == '"' {
			name, err := jchunk.Unquote([]byte(s[:i+1]))
			if err != nil {
				return Step{}, s, fmt.Errorf("invalid name: %w", err)
			}
			return Step{Op: Name, Name: string(name)}, s[i+1:], nil
		}
	}
	return Step{}, s, errors.New("unterminated name")
}

// identLen reports the length in bytes of the identifier prefix of s.
func identLen(s string) int {
	i := 0
	for i < len(s) {
		r, n := utf8.DecodeRuneInString(s[i:])
		if r == '_' || (i == 0 && xid.Start(r)) || (i > 0 && xid.Continue(r)) {
			i += n
			continue
		}
		break
	}
	return i
}

func mustAtoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		panic(err) // the regexp guarantees digits
	}
	return v
}

var (
	indexRE = regexp.MustCompile(`^(\d+(?:,\d+)*)`)
	sliceRE = regexp.MustCompile(`^(\d*):(\d*)`)
	quoteRE = regexp.MustCompile(`^'([^']*)'`)
)

// An Op is a path operator.
type Op byte

const (
	Invalid  Op = iota // invalid operator
	Name               // member name
	Wildcard           // all members or elements (*)
	Index              // array index or indices
	Slice              // array slice
)

var opText = map[Op]string{
	Invalid:  "invalid",
	Name:     "name",
	Wildcard: "*",
	Index:    "index",
	Slice:    "slice",
}

func (o Op) String() string {
	if s, ok := opText[o]; ok {
		return s
	}
	return opText[Invalid]
}

// A Step is a single step of a JSONPath expression.
type Step struct {
	Op   Op
	Desc bool // descendant step (..)

	Name   string // for Name
	Index  []int  // for Index
	Lo, Hi int    // for Slice; Hi < 0 means no upper bound
}

func (s Step) String() string {
	var buf strings.Builder
	if s.Desc {
		buf.WriteString("..")
	}
	switch s.Op {
	case Wildcard:
		if !s.Desc {
			buf.WriteByte('.')
		}
		buf.WriteByte('*')
	case Name:
		if identLen(s.Name) == len(s.Name) && s.Name != "" {
			if !s.Desc {
				buf.WriteByte('.')
			}
			buf.WriteString(s.Name)
		} else {
			fmt.Fprintf(&buf, "[%s]", jchunk.Quote(s.Name))
		}
	case Index:
		ss := make([]string, len(s.Index))
		for i, v := range s.Index {
			ss[i] = strconv.Itoa(v)
		}
		fmt.Fprintf(&buf, "[%s]", strings.Join(ss, ","))
	case Slice:
		buf.WriteByte('[')
		if s.Lo != 0 {
			buf.WriteString(strconv.Itoa(s.Lo))
		}
		buf.WriteByte(':')
		if s.Hi >= 0 {
			buf.WriteString(strconv.Itoa(s.Hi))
		}
		buf.WriteByte(']')
	default:
		buf.WriteString("[?]")
	}
	return buf.String()
}

// matchOne reports whether s selects the concrete step c.
func (s Step) matchOne(c Step) bool {
	switch s.Op {
	case Wildcard:
		return true
	case Name:
		return c.Op == Name && c.Name == s.Name
	case Index:
		if c.Op != Index || len(c.Index) != 1 {
			return false
		}
		for _, v := range s.Index {
			if v == c.Index[0] {
				return true
			}
		}
	case Slice:
		if c.Op != Index || len(c.Index) != 1 {
			return false
		}
		i := c.Index[0]
		return i >= s.Lo && (s.Hi < 0 || i < s.Hi)
	}
	return false
}
