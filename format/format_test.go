package format

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/cfgtree/ir"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"j":          JSONFormat,
		"JSON":       JSONFormat,
		"yml":        YAMLFormat,
		"toml":       TOMLFormat,
		"ini":        INIFormat,
		"properties": PropertiesFormat,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("%s: got %v %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
	for _, f := range AllFormats() {
		d, err := f.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Format
		if err := back.UnmarshalText(d); err != nil || back != f {
			t.Errorf("%s: got %v %v", d, back, err)
		}
		got, err := FromPath("dir/file" + f.Suffix())
		if err != nil || got != f {
			t.Errorf("suffix %s: got %v %v", f.Suffix(), got, err)
		}
	}
	if _, err := FromPath("Makefile"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
}

func TestBuild(t *testing.T) {
	n := ir.NewRoot(nil)
	n.Node("keep").SetString("me")
	n.SetComment("root")
	err := Build(n, YAMLFormat, func(tmp *ir.Node) error {
		tmp.Node("partial").SetInt64(1)
		return errors.New("boom")
	})
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Format != YAMLFormat {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if diff := cmp.Diff(map[string]any{"keep": "me"}, n.Raw()); diff != "" {
		t.Errorf("node changed on error (-want +got)\n%s", diff)
	}
	if err := Build(n, YAMLFormat, func(tmp *ir.Node) error {
		tmp.Node("new").SetBool(true)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"new": true}, n.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if c, _ := n.Comment(); c != "root" {
		t.Errorf("root comment lost: %q", c)
	}
}

func TestCarryComments(t *testing.T) {
	src := ir.NewRoot(nil)
	src.Node("a", "b").SetInt64(1).SetComment("ab")
	src.Node("gone").SetInt64(1).SetComment("gone")
	src.Node("kept").SetInt64(1).SetComment("old")
	dst := ir.NewRoot(nil)
	dst.Node("a", "b").SetInt64(2)
	dst.Node("kept").SetInt64(2).SetComment("new")
	CarryComments(src, dst)
	if c, _ := dst.Node("a", "b").Comment(); c != "ab" {
		t.Errorf("a.b: %q", c)
	}
	if dst.HasChild("gone") {
		t.Errorf("comment created a node: %s", dst)
	}
	if c, _ := dst.Node("kept").Comment(); c != "new" {
		t.Errorf("kept: %q", c)
	}
}
