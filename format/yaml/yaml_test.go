package yaml

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
)

const doc = `name: server
list:
  - 1
  - two
nested:
  # the key
  key: 1.5
  on: true
empty: null
`

func parse(t *testing.T, s string) *ir.Node {
	t.Helper()
	n := ir.NewRoot(nil)
	if err := Codec.ParseInto(n, []byte(s)); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return n
}

func TestParse(t *testing.T) {
	n := parse(t, doc)
	want := map[string]any{
		"name":   "server",
		"list":   []any{int64(1), "two"},
		"nested": map[string]any{"key": 1.5, "on": true},
		"empty":  nil,
	}
	if diff := cmp.Diff(want, n.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name", "list", "nested", "empty"}, n.Keys()); diff != "" {
		t.Errorf("key order (-want +got)\n%s", diff)
	}
	c, _ := n.Node("nested", "key").Comment()
	if !strings.Contains(c, "the key") {
		t.Errorf("comment: %q", c)
	}
}

func TestRoundTrip(t *testing.T) {
	n := parse(t, doc)
	n.Node("list", 1).SetComment("second\nelement")
	d, err := Codec.Render(n)
	if err != nil {
		t.Fatal(err)
	}
	back := parse(t, string(d))
	if !ir.Equal(n, back) {
		t.Errorf("round trip differs:\n%s", d)
	}
	if diff := cmp.Diff(n.Keys(), back.Keys()); diff != "" {
		t.Errorf("key order (-want +got)\n%s", diff)
	}
	c, _ := back.Node("nested", "key").Comment()
	if !strings.Contains(c, "the key") {
		t.Errorf("comment lost:\n%s", d)
	}
	if !strings.Contains(string(d), "# second\n") {
		t.Errorf("list comment not written:\n%s", d)
	}
}

func TestBytes(t *testing.T) {
	n := ir.NewRoot(nil)
	n.Node("b").SetBytes([]byte("hi"))
	d, err := Codec.Render(n)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("b: aGk=\n", string(d)); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestParseError(t *testing.T) {
	n := ir.NewRoot(nil)
	n.SetInt64(1)
	err := Codec.ParseInto(n, []byte("a: [1, 2\nb: c"))
	var pe *format.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if n.Raw() != int64(1) {
		t.Errorf("node changed: %s", n)
	}
}
