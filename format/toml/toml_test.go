package toml

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
)

const doc = `title = "x"
zeta = 1
alpha = 2.5
ports = [80, 443]

[server]
port = 8080
host = "h"

[[peers]]
name = "a"

[[peers]]
name = "b"
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
		"title":  "x",
		"zeta":   int64(1),
		"alpha":  2.5,
		"ports":  []any{int64(80), int64(443)},
		"server": map[string]any{"port": int64(8080), "host": "h"},
		"peers": []any{
			map[string]any{"name": "a"},
			map[string]any{"name": "b"},
		},
	}
	if diff := cmp.Diff(want, n.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if diff := cmp.Diff([]string{"title", "zeta", "alpha", "ports", "server", "peers"}, n.Keys()); diff != "" {
		t.Errorf("key order (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff([]string{"port", "host"}, n.Node("server").Keys()); diff != "" {
		t.Errorf("table key order (-want +got)\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	n := parse(t, doc)
	n.Node("dropped").SetNull()
	d, err := Codec.Render(n)
	if err != nil {
		t.Fatal(err)
	}
	back := parse(t, string(d))
	n.RemoveChild("dropped")
	if diff := cmp.Diff(n.Raw(), back.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s\n%s", diff, d)
	}
}

func TestRenderErrors(t *testing.T) {
	n := ir.NewRoot(nil)
	n.SetEmptyList()
	n.AppendListNode().SetInt64(1)
	_, err := Codec.Render(n)
	var re *format.RenderError
	if !errors.As(err, &re) {
		t.Errorf("expected RenderError, got %v", err)
	}

	d, err := Codec.Render(ir.NewRoot(nil))
	if err != nil || len(d) != 0 {
		t.Errorf("null: %q %v", d, err)
	}
}

func TestParseError(t *testing.T) {
	n := ir.NewRoot(nil)
	err := Codec.ParseInto(n, []byte("a = \n"))
	var pe *format.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}
