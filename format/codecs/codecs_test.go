package codecs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
)

func TestFor(t *testing.T) {
	for _, f := range format.AllFormats() {
		c, err := For(f)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if c.Format() != f {
			t.Errorf("%s: codec reports %s", f, c.Format())
		}
	}
	if _, err := For(format.Format(99)); !errors.Is(err, format.ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"c.json":       `{"a": {"b": "x"}}`,
		"c.yaml":       "a:\n  b: x\n",
		"c.toml":       "[a]\nb = \"x\"\n",
		"c.ini":        "[a]\nb = x\n",
		"c.properties": "a.b = x\n",
	}
	want := map[string]any{"a": map[string]any{"b": "x"}}
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		n := ir.NewRoot(nil)
		if err := ReadFile(n, p); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if diff := cmp.Diff(want, n.Raw()); diff != "" {
			t.Errorf("%s (-want +got)\n%s", name, diff)
		}
	}
	if err := ReadFile(ir.NewRoot(nil), filepath.Join(dir, "c.xml")); !errors.Is(err, format.ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
	if err := ReadFile(ir.NewRoot(nil), filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not exist, got %v", err)
	}
}
