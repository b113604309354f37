package ir

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergeFrom(t *testing.T) {
	tests := []struct {
		name string
		dst  any
		src  any
		opts []MergeOption
		want any
	}{
		{
			name: "maps merge by key",
			dst:  map[string]any{"a": int64(1), "m": map[string]any{"x": "old", "y": "keep"}},
			src:  map[string]any{"b": int64(2), "m": map[string]any{"x": "new"}},
			want: map[string]any{"a": int64(1), "b": int64(2), "m": map[string]any{"x": "new", "y": "keep"}},
		},
		{
			name: "lists replace by default",
			dst:  map[string]any{"l": []any{int64(1), int64(2)}},
			src:  map[string]any{"l": []any{int64(3)}},
			want: map[string]any{"l": []any{int64(3)}},
		},
		{
			name: "lists append",
			dst:  map[string]any{"l": []any{int64(1)}},
			src:  map[string]any{"l": []any{int64(2)}},
			opts: []MergeOption{MergeLists(ListAppend)},
			want: map[string]any{"l": []any{int64(1), int64(2)}},
		},
		{
			name: "null in source is ignored",
			dst:  map[string]any{"a": int64(1)},
			src:  map[string]any{"a": nil, "b": nil},
			want: map[string]any{"a": int64(1)},
		},
		{
			name: "scalar replaced by map",
			dst:  map[string]any{"a": "s"},
			src:  map[string]any{"a": map[string]any{"b": true}},
			want: map[string]any{"a": map[string]any{"b": true}},
		},
		{
			name: "into null",
			dst:  nil,
			src:  []any{"x"},
			want: []any{"x"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dst := mustRaw(t, tc.dst)
			src := mustRaw(t, tc.src)
			before := src.Copy()
			if err := dst.MergeFrom(src, tc.opts...); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, dst.Raw()); diff != "" {
				t.Errorf("(-want +got)\n%s", diff)
			}
			if !Equal(before, src) {
				t.Errorf("source modified: %s", src)
			}
		})
	}
}

func TestMergeStrictConflict(t *testing.T) {
	dst := mustRaw(t, map[string]any{"a": int64(1), "m": map[string]any{"k": "v"}})
	src := mustRaw(t, map[string]any{"a": int64(2), "m": []any{"x"}})
	before := dst.Copy()
	err := dst.MergeFrom(src, Strict(true))
	var mc *MergeConflictError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MergeConflictError, got %v", err)
	}
	if !mc.Path.Equal(P("m")) || mc.Dst != MapType || mc.Src != ListType {
		t.Errorf("unexpected conflict %v", mc)
	}
	if !Equal(before, dst) {
		t.Errorf("failed merge modified destination: %s", dst)
	}
	// without strict the list replaces the map
	if err := dst.MergeFrom(src); err != nil {
		t.Fatal(err)
	}
	if !dst.Node("m").IsList() {
		t.Errorf("expected list, got %s", dst.Node("m"))
	}
}

func TestMergeComments(t *testing.T) {
	dst := mustRaw(t, map[string]any{"a": int64(1), "b": int64(2)})
	dst.Node("a").SetComment("mine")
	src := mustRaw(t, map[string]any{"a": int64(3), "b": int64(4), "c": int64(5)})
	src.Node("a").SetComment("theirs")
	src.Node("b").SetComment("for b")
	src.Node("c").SetComment("for c")
	if err := dst.MergeFrom(src); err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct{ key, want string }{
		{"a", "mine"},
		{"b", "for b"},
		{"c", "for c"},
	} {
		if c, _ := dst.Node(tc.key).Comment(); c != tc.want {
			t.Errorf("%s: comment %q, want %q", tc.key, c, tc.want)
		}
	}
}

func TestMergeIntoVirtual(t *testing.T) {
	root := NewRoot(nil)
	sub := root.Node("sub")
	if err := sub.MergeFrom(NewRoot(nil)); err != nil {
		t.Fatal(err)
	}
	if !sub.IsVirtual() {
		t.Fatalf("merging null materialized node")
	}
	if err := sub.MergeFrom(mustRaw(t, map[string]any{"k": "v"})); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"sub": map[string]any{"k": "v"}}
	if diff := cmp.Diff(want, root.Raw()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}
