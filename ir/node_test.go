package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustRaw(t *testing.T, v any) *Node {
	t.Helper()
	n, err := FromRaw(v, nil)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestVirtualNavigation(t *testing.T) {
	root := NewRoot(nil)
	b := root.Node("a", "b")
	if !b.IsVirtual() {
		t.Fatalf("expected virtual node")
	}
	if !root.IsNull() {
		t.Fatalf("navigation changed root: %s", root)
	}
	b.SetInt64(1)
	want := map[string]any{"a": map[string]any{"b": int64(1)}}
	if diff := cmp.Diff(want, root.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if b.IsVirtual() || root.Node("a").IsVirtual() {
		t.Errorf("expected materialized nodes")
	}
	if b.Parent() != root.Node("a") {
		t.Errorf("parent mismatch")
	}
}

func TestScalarCoercedToMapOnWrite(t *testing.T) {
	root := NewRoot(nil)
	root.Node("a").SetString("x")
	c := root.Node("a", "b")
	s, err := root.Node("a").AsString()
	if err != nil || s != "x" {
		t.Fatalf("scalar changed by navigation: %q %v", s, err)
	}
	c.SetBool(true)
	want := map[string]any{"a": map[string]any{"b": true}}
	if diff := cmp.Diff(want, root.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestIndexPadsList(t *testing.T) {
	root := NewRoot(nil)
	root.Node("l", 2).SetString("c")
	want := map[string]any{"l": []any{nil, nil, "c"}}
	if diff := cmp.Diff(want, root.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if got := root.Node("l", 2).Path(); !got.Equal(P("l", 2)) {
		t.Errorf("path %s", got)
	}
}

func TestIndexOnMapUsesDecimalKey(t *testing.T) {
	root := NewRoot(nil)
	root.Node("m", "k").SetInt64(1)
	x := root.Node("m", 3)
	x.SetInt64(2)
	if got := x.Path(); !got.Equal(P("m", "3")) {
		t.Errorf("path %s", got)
	}
	if diff := cmp.Diff([]string{"k", "3"}, root.Node("m").Keys()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestSetNilDetaches(t *testing.T) {
	root := NewRoot(nil)
	a := root.Node("a")
	if err := a.Set(nil); err != nil {
		t.Fatal(err)
	}
	a.SetInt64(1)
	root.Node("b").SetInt64(2)
	if err := a.Set(nil); err != nil {
		t.Fatal(err)
	}
	if !a.IsVirtual() || root.HasChild("a") {
		t.Fatalf("expected a detached, got %s", root)
	}
	a.SetInt64(3)
	want := map[string]any{"a": int64(3), "b": int64(2)}
	if diff := cmp.Diff(want, root.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestSetNilDetachesListElement(t *testing.T) {
	root := mustRaw(t, map[string]any{"l": []any{1, 2, 3}})
	l := root.Node("l")
	a := l.Node(0)
	if err := a.Set(nil); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"l": []any{int64(2), int64(3)}}
	if diff := cmp.Diff(want, root.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	a.SetInt64(9)
	want = map[string]any{"l": []any{int64(2), int64(3), int64(9)}}
	if diff := cmp.Diff(want, root.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if a.Parent() != l || a.Path().String() != "$.l[2]" {
		t.Errorf("reattached at %s", a.Path())
	}
}

func TestRemoveChildRenumbers(t *testing.T) {
	root := mustRaw(t, map[string]any{"l": []any{"a", "b", "c"}})
	l := root.Node("l")
	b := l.Node(1)
	first := l.Node(0)
	if !l.RemoveChild(0) {
		t.Fatal("remove failed")
	}
	if first.Parent() != nil {
		t.Errorf("removed child keeps parent")
	}
	if got := b.Path(); !got.Equal(P("l", 0)) {
		t.Errorf("path after removal %s", got)
	}
	if l.RemoveChild(7) {
		t.Errorf("removed missing index")
	}
	if diff := cmp.Diff([]any{"b", "c"}, l.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestAppendListNode(t *testing.T) {
	root := NewRoot(nil)
	root.AppendListNode().SetString("a")
	root.AppendListNode().SetString("b")
	c := root.AppendListNode()
	if root.Len() != 2 {
		t.Fatalf("append handle materialized early")
	}
	c.SetString("c")
	if got := c.Path(); !got.Equal(P(2)) {
		t.Errorf("path %s", got)
	}
	if diff := cmp.Diff([]any{"a", "b", "c"}, root.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestVirtualHandlesShareAncestors(t *testing.T) {
	root := NewRoot(nil)
	a := root.Node("x", "a")
	b := root.Node("x", "b")
	a.SetInt64(1)
	b.SetInt64(2)
	a.SetInt64(3)
	want := map[string]any{"x": map[string]any{"a": int64(3), "b": int64(2)}}
	if diff := cmp.Diff(want, root.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestComments(t *testing.T) {
	root := NewRoot(nil)
	n := root.Node("doc")
	n.SetComment("documented")
	if n.IsVirtual() || !n.IsNull() {
		t.Fatalf("comment should materialize a null node")
	}
	n.SetString("v")
	if c, ok := n.Comment(); !ok || c != "documented" {
		t.Errorf("comment lost on set: %q", c)
	}
	if n.CommentIfAbsent("other") {
		t.Errorf("CommentIfAbsent replaced a comment")
	}
	n.RemoveComment()
	if _, ok := n.Comment(); ok {
		t.Errorf("comment not removed")
	}
	if !n.CommentIfAbsent("other") {
		t.Errorf("CommentIfAbsent did not set")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	root := mustRaw(t, map[string]any{"a": []any{int64(1), "x"}})
	root.Node("a").SetComment("list")
	cp := root.Node("a").Copy()
	if cp.Parent() != nil || len(cp.Path()) != 0 {
		t.Fatalf("copy should be a root")
	}
	cp.Node(0).SetInt64(9)
	if got, _ := root.Node("a", 0).AsInt64(); got != 1 {
		t.Errorf("copy shares children")
	}
	if c, _ := cp.Comment(); c != "list" {
		t.Errorf("comment not copied")
	}
}

func TestMapOrder(t *testing.T) {
	opts := DefaultOptions().WithMapOrder(SortedOrder)
	root := NewRoot(opts)
	for _, k := range []string{"c", "a", "b"} {
		root.Node(k).SetString(k)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, root.Keys()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	var keys []string
	for k := range root.All() {
		keys = append(keys, k.Name())
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, keys); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	ins := NewRoot(nil)
	for _, k := range []string{"c", "a", "b"} {
		ins.Node(k).SetString(k)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, ins.Keys()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestChildrenViewsOnMismatch(t *testing.T) {
	root := mustRaw(t, []any{"a"})
	if len(root.ChildrenMap()) != 0 {
		t.Errorf("map view of list")
	}
	if len(root.ChildrenList()) != 1 {
		t.Errorf("list view")
	}
	s := NewRoot(nil).SetString("x")
	if len(s.ChildrenList()) != 0 || len(s.Keys()) != 0 {
		t.Errorf("scalar has children")
	}
}

func TestEqualAndHash(t *testing.T) {
	a := mustRaw(t, map[string]any{"x": int64(1), "y": []any{"a"}})
	b := NewRoot(nil)
	b.Node("y", 0).SetString("a")
	b.Node("x").SetFloat64(1)
	if !Equal(a, b) {
		t.Fatalf("expected equal: %s vs %s", a, b)
	}
	if a.Hash() != b.Hash() {
		t.Errorf("equal nodes hash differently")
	}
	b.Node("x").SetInt64(2)
	if Equal(a, b) || Compare(a, b) >= 0 {
		t.Errorf("expected a < b")
	}
}

func TestVisit(t *testing.T) {
	root := mustRaw(t, map[string]any{"a": []any{int64(1), int64(2)}, "b": "s"})
	var paths []string
	err := root.Visit(func(n *Node, isPost bool) (bool, error) {
		if !isPost {
			paths = append(paths, n.Path().String())
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"$", "$.a", "$.a[0]", "$.a[1]", "$.b"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestSetRaw(t *testing.T) {
	type named string
	in := map[string]any{
		"u8":    uint8(7),
		"f32":   float32(1.5),
		"named": named("n"),
		"ints":  []int{1, 2},
		"bytes": []byte("hi"),
		"ptr":   func() *int { i := 4; return &i }(),
		"nil":   nil,
	}
	n, err := FromRaw(in, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"bytes": []byte("hi"),
		"f32":   float64(1.5),
		"ints":  []any{int64(1), int64(2)},
		"named": "n",
		"nil":   nil,
		"ptr":   int64(4),
		"u8":    int64(7),
	}
	if diff := cmp.Diff(want, n.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if err := n.SetRaw(struct{}{}); err == nil {
		t.Errorf("expected error for struct")
	}
}
