package jpath_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/creachadair/jchunk"
	"github.com/creachadair/jchunk/jpath"
	"github.com/google/go-cmp/cmp"
	"github.com/theory/jsonpath"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
	}{
		{"$"},
		{"$.store.book.*..author"},
		{"$..author"},
		{"$.store.*"},
		{"$.store..price"},
		{"$..book[2]"},
		{"$..book[1:]"},
		{"$..book[0,1]"},
		{"$..book[:2]"},
		{"$..*"},
		{`$["apple sauce"].pearPlum..["cherry apple"]`},
		{`$.a[1:3].b["c d e"]`},
		{"$.caf\u00e9[0][\"\"]"},
		{"$._private.x1"},
	}
	for _, test := range tests {
		e, err := jpath.Parse(test.input)
		if err != nil {
			t.Errorf("Parse %q: %v", test.input, err)
			continue
		}

		want := test.input
		if got := e.String(); got != want {
			t.Errorf("Parse %q:\n got %q\nwant %q", test.input, got, want)
		}
	}
}

func TestParseAlternates(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"$['a']", "$.a"},
		{"$['a b']", `$["a b"]`},
		{`$["a\"b"]`, `$["a\"b"]`},
		{`$["\u0041"]`, "$.A"},
		{"$[*]", "$.*"},
		{"$..[0]", "$..[0]"},
	}
	for _, test := range tests {
		e, err := jpath.Parse(test.input)
		if err != nil {
			t.Errorf("Parse %q: %v", test.input, err)
		} else if got := e.String(); got != test.want {
			t.Errorf("Parse %q: got %q, want %q", test.input, got, test.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"", "a.b", "$.", "$[", "$[0", "$..", "$[-1]", "$[?(@.x)]", "$[(@.length-1)]",
		`$["open`, "$.1abc", "$[x]",
	}
	for _, input := range tests {
		if e, err := jpath.Parse(input); err == nil {
			t.Errorf("Parse %q: got %v, want error", input, e)
		}
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		expr, path string
		want, pre  bool
	}{
		{"$", "$", true, true},
		{"$", "$.a", false, true},
		{"$.a", "$.a", true, true},
		{"$.a", "$.b", false, false},
		{"$.a", "$.a[0]", false, true},
		{"$.a[0]", "$.a[0]", true, true},
		{"$.a[0,2]", "$.a[2]", true, true},
		{"$.a[0,2]", "$.a[1]", false, false},
		{"$.a[1:3]", "$.a[2]", true, true},
		{"$.a[1:3]", "$.a[3]", false, false},
		{"$.a[1:]", "$.a[300]", true, true},
		{"$.*", "$.x", true, true},
		{"$.*", "$[4]", true, true},
		{"$.*", "$", false, false},
		{"$..b", "$.b", true, true},
		{"$..b", "$.a[1].b", true, true},
		{"$..b", "$.a[1].b.c", false, true},
		{"$..b.c", "$.a.b.c", true, true},
		{"$..b.c", "$.b.x.c", false, false},
		{"$..*", "$.a[0].b", true, true},
		{"$..[0]", "$.a[0]", true, true},
		{`$["a b"]`, `$['a b']`, true, true},
	}
	for _, test := range tests {
		e := jpath.MustParse(test.expr)
		p := jpath.MustParse(test.path)
		if got := e.Match(p); got != test.want {
			t.Errorf("Match(%q, %q): got %v, want %v", test.expr, test.path, got, test.want)
		}
		if got := e.MatchPrefix(p); got != test.pre {
			t.Errorf("MatchPrefix(%q, %q): got %v, want %v", test.expr, test.path, got, test.pre)
		}
	}
}

const storeJSON = `{
  "store": {
    "book": [
      {"category": "reference", "author": "Nigel Rees", "title": "Sayings of the Century", "price": 8.95},
      {"category": "fiction", "author": "Evelyn Waugh", "title": "Sword of Honour", "price": 12.99},
      {"category": "fiction", "author": "Herman Melville", "title": "Moby Dick", "isbn": "0-553-21311-3", "price": 8.99},
      {"category": "fiction", "author": "J. R. R. Tolkien", "title": "The Lord of the Rings", "isbn": "0-395-19395-8", "price": 22.99}
    ],
    "bicycle": {"color": "red", "price": 399, "tags": [[1, 2], [3]]}
  }
}`

// TestSelectReference checks the paths reported by a Selector against the
// normalized paths selected by a reference JSONPath implementation.
func TestSelectReference(t *testing.T) {
	var doc any
	if err := json.Unmarshal([]byte(storeJSON), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	tests := []string{
		"$",
		"$.store.book[*].author",
		"$..author",
		"$.store.*",
		"$.store..price",
		"$..book[2]",
		"$..book[0,1]",
		"$..book[:2]",
		"$..book[1:3].title",
		"$..*",
		"$..[0]",
		"$.store.bicycle.tags[*][*]",
		"$.nonesuch",
	}
	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			ref, err := jsonpath.Parse(expr)
			if err != nil {
				t.Fatalf("Reference parse %q: %v", expr, err)
			}
			var want []string
			for _, node := range ref.SelectLocated(doc) {
				want = append(want, node.Path.String())
			}
			slices.Sort(want)

			got := selectPaths(t, jpath.MustParse(expr), storeJSON, 7)
			slices.Sort(got)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Paths for %q (-ref, +got):\n%s", expr, diff)
			}
		})
	}
}

func TestSelectSubtree(t *testing.T) {
	p := jchunk.NewParser(nil)
	p.Feed([]byte(`{"a": {"b": [1, {"c": null}]}, "d": true}`))
	p.Close()
	s := jpath.Select(p, jpath.MustParse("$.a.b[1]"))
	s.Subtree = true

	var got []string
	for {
		evt, err := s.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, evt.String())
	}
	want := []string{
		"BeginObject $.a.b[1]",
		"ObjectKey $.a.b[1].c <c>",
		"NullValue $.a.b[1].c <null>",
		"EndObject $.a.b[1]",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Subtree events (-want, +got):\n%s", diff)
	}
}

// The location tracked by a Selector agrees with the path of every event
// reported by the parser, across documents.
func TestSelectorPath(t *testing.T) {
	p := jchunk.NewParser(nil)
	p.Feed([]byte(`{"a b": [1, [2, {"x\"y": null}]], "": {"caf\u00e9": []}, "z": true} [[], "s"]`))
	p.Close()
	s := jpath.Select(p, jpath.MustParse("$"))
	s.Subtree = true

	var ndocs, nevts int
	for {
		evt, err := s.Next()
		if err == io.EOF {
			ndocs++
			if !p.More() {
				break
			}
			p.NextDocument()
			continue
		} else if err != nil {
			t.Fatalf("Next: %v", err)
		}
		nevts++
		if got, want := s.Path().String(), string(evt.Path); got != want {
			t.Errorf("%v: selector path %q, parser path %q", evt.Kind, got, want)
		}
	}
	if ndocs != 2 || nevts != 26 {
		t.Errorf("Got %d documents and %d events, want 2 and 26", ndocs, nevts)
	}
}

// selectPaths parses input in chunks of the given size, and returns the
// normalized paths of the events selected by e.
func selectPaths(t *testing.T, e jpath.Expr, input string, size int) []string {
	t.Helper()
	p := jchunk.NewParser(nil)
	s := jpath.Select(p, e)
	rest := []byte(input)
	var out []string
	for {
		evt, err := s.Next()
		if errors.Is(err, jchunk.ErrNeedMoreData) {
			if len(rest) == 0 {
				p.Close()
				continue
			}
			n := min(size, len(rest))
			p.Feed(rest[:n])
			rest = rest[n:]
			continue
		} else if err == io.EOF {
			return out
		} else if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, normalize(t, string(evt.Path)))
	}
}

// normalize renders a concrete path in the normalized form of RFC 9535,
// e.g., $['a'][0].
func normalize(t *testing.T, path string) string {
	t.Helper()
	e, err := jpath.Parse(path)
	if err != nil {
		t.Fatalf("Parse path %q: %v", path, err)
	}
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		switch s.Op {
		case jpath.Name:
			fmt.Fprintf(&buf, "['%s']", strings.ReplaceAll(s.Name, "'", `\'`))
		case jpath.Index:
			buf.WriteString("[" + strconv.Itoa(s.Index[0]) + "]")
		default:
			t.Fatalf("Path %q is not concrete", path)
		}
	}
	return buf.String()
}
