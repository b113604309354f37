package reference

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/cfgtree"
	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/objectmap"
)

type Server struct {
	Host string `conf:"required"`
	Port int
	Tags []string
}

func tree(raw any) *ir.Node {
	n := cfgtree.NewRoot()
	if err := n.SetRaw(raw); err != nil {
		panic(err)
	}
	return n
}

func defaults() *ir.Node {
	return tree(map[string]any{"host": "localhost", "port": 8080})
}

func TestNew(t *testing.T) {
	ref, err := New[Server](tree(map[string]any{"host": "a"}), WithDefaults(defaults()))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Server{Host: "a", Port: 8080}, ref.Get()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}

	_, err = New[Server](cfgtree.NewRoot())
	var mr *objectmap.MissingRequiredValueError
	if !errors.As(err, &mr) || mr.Path.String() != "$.host" {
		t.Errorf("expected missing host, got %v", err)
	}

	n := ref.Node()
	n.Node("host").SetString("changed")
	if ref.Get().Host != "a" || ref.Node().Node("host").Raw() != "a" {
		t.Errorf("Node did not return a copy")
	}
}

type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) record(c Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

func TestReload(t *testing.T) {
	ref, err := New[Server](tree(map[string]any{"host": "a"}), WithDefaults(defaults()))
	if err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	cancel := ref.Subscribe(rec.record)

	if err := ref.Reload(tree(map[string]any{"port": 9090})); err != nil {
		t.Fatal(err)
	}
	// reloads merge over the defaults, not over the current tree
	if diff := cmp.Diff(Server{Host: "localhost", Port: 9090}, ref.Get()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if rec.len() != 1 {
		t.Fatalf("got %d changes", rec.len())
	}
	c := rec.changes[0]
	if !c.Changed {
		t.Errorf("change not flagged")
	}
	if diff := cmp.Diff(map[string]any{"host": "a", "port": int64(8080)}, c.Old.Raw()); diff != "" {
		t.Errorf("old (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"host": "localhost", "port": int64(9090)}, c.New.Raw()); diff != "" {
		t.Errorf("new (-want +got)\n%s", diff)
	}

	if err := ref.Reload(tree(map[string]any{"port": 9090})); err != nil {
		t.Fatal(err)
	}
	if rec.len() != 2 || rec.changes[1].Changed {
		t.Errorf("identical reload flagged as changed")
	}

	err = ref.Reload(tree(map[string]any{"port": "not a number"}))
	var ce *ir.CoercionError
	if !errors.As(err, &ce) {
		t.Errorf("expected CoercionError, got %v", err)
	}
	if ref.Get().Port != 9090 || rec.len() != 2 {
		t.Errorf("failed reload changed the reference")
	}

	cancel()
	if err := ref.Reload(tree(map[string]any{"port": 1})); err != nil {
		t.Fatal(err)
	}
	if rec.len() != 2 {
		t.Errorf("cancelled subscriber called")
	}
}

func TestReloadMergeOptions(t *testing.T) {
	defs := tree(map[string]any{"host": "h", "tags": []any{"base"}})
	ref, err := New[Server](nil, WithDefaults(defs), WithMergeOptions(ir.MergeLists(ir.ListAppend), ir.Strict(true)))
	if err != nil {
		t.Fatal(err)
	}
	if err := ref.Reload(tree(map[string]any{"tags": []any{"extra"}})); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"base", "extra"}, ref.Get().Tags); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	err = ref.Reload(tree(map[string]any{"tags": map[string]any{"a": 1}}))
	var mc *ir.MergeConflictError
	if !errors.As(err, &mc) {
		t.Errorf("expected MergeConflictError, got %v", err)
	}
}

func TestSetAndSave(t *testing.T) {
	ref, err := New[Server](tree(map[string]any{"host": "a"}))
	if err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	defer ref.Subscribe(rec.record)()
	if err := ref.Set(Server{Host: "b", Port: 1, Tags: []string{"x"}}); err != nil {
		t.Fatal(err)
	}
	if rec.len() != 1 || !rec.changes[0].Changed {
		t.Errorf("set did not notify")
	}
	out := ir.NewRoot(nil)
	ref.Save(out)
	want := map[string]any{"host": "b", "port": int64(1), "tags": []any{"x"}}
	if diff := cmp.Diff(want, out.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestOpen(t *testing.T) {
	p := filepath.Join(t.TempDir(), "server.toml")
	if err := os.WriteFile(p, []byte("host = \"f\"\nport = 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	ref, err := Open[Server](p)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Server{Host: "f", Port: 7}, ref.Get()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if _, err := Open[Server](filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not exist, got %v", err)
	}
}
