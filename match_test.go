package cfgtree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/cfgtree/format/yaml"
	"github.com/signadot/cfgtree/ir"
)

type matchTest struct {
	in    string
	match string
	res   bool
}

var matchTests = []matchTest{
	{in: `1`, match: `1`, res: true},
	{in: `0`, match: `1`, res: false},
	{in: `1.0`, match: `1`, res: true},
	{in: `- 1`, match: `- 1`, res: true},
	{in: `[]`, match: `[]`, res: true},
	{in: `- 1`, match: `- 2`, res: false},
	{in: `- 1`, match: `hello`, res: false},
	{in: "- 1\n- 2", match: `- 1`, res: false},
	{in: "a: b\nc: d", match: "a: b", res: true},
	{in: "a: b", match: "a: b\nc: d", res: false},
	{in: "a: b", match: "null", res: true},
	{in: "a: b", match: "a: null", res: true},
	{in: "b: 1", match: "a: null", res: false},
	{in: "a:\n  b: [1, 2]\n  c: x", match: "a:\n  b: [1, null]", res: true},
	{in: "a:\n  b: [1, 2]", match: "a:\n  b: [2, 1]", res: false},
	{in: "a: b # comment", match: "a: b", res: true},
}

func parseYAML(t *testing.T, s string) *ir.Node {
	t.Helper()
	n := NewRoot()
	if err := yaml.Codec.ParseInto(n, []byte(s)); err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return n
}

func TestMatch(t *testing.T) {
	for i, mt := range matchTests {
		doc := parseYAML(t, mt.in)
		pat := parseYAML(t, mt.match)
		if got := Match(doc, pat); got != mt.res {
			t.Errorf("%d: match(%q, %q) got %t", i, mt.in, mt.match, got)
		}
	}
}

func TestTrim(t *testing.T) {
	cases := []struct {
		pattern string
		in      string
		want    any
	}{
		{
			pattern: "a: null",
			in:      "a: 1\nb: 2",
			want:    map[string]any{"a": int64(1)},
		},
		{
			pattern: "a:\n  b: null",
			in:      "a:\n  b: 1\n  c: 2\nd: 3",
			want:    map[string]any{"a": map[string]any{"b": int64(1)}},
		},
		{
			pattern: "- name: y",
			in:      "- name: x\n  v: 1\n- name: y\n  v: 2",
			want:    []any{map[string]any{"name": "y"}},
		},
		{
			pattern: "- null\n- null",
			in:      "- 1\n- 2\n- 3",
			want:    []any{int64(1), int64(2)},
		},
		{
			pattern: "x",
			in:      "a: 1",
			want:    map[string]any{"a": int64(1)},
		},
	}
	for _, c := range cases {
		doc := parseYAML(t, c.in)
		before := doc.Copy()
		got := Trim(parseYAML(t, c.pattern), doc)
		if diff := cmp.Diff(c.want, got.Raw()); diff != "" {
			t.Errorf("trim %q by %q (-want +got)\n%s", c.in, c.pattern, diff)
		}
		if !ir.Equal(before, doc) {
			t.Errorf("trim changed its input")
		}
	}
}

func TestTrimKeepsComments(t *testing.T) {
	doc := parseYAML(t, "a:\n  # kept\n  b: 1\n  c: 2")
	got := Trim(parseYAML(t, "a:\n  b: null"), doc)
	if c, _ := got.Node("a", "b").Comment(); c != "kept" {
		t.Errorf("comment: %q", c)
	}
}
