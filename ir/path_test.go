package ir

import (
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want Path
		str  string
	}{
		{in: "$", want: Path{}, str: "$"},
		{in: "", want: Path{}, str: "$"},
		{in: "a.b[1]", want: P("a", "b", 1), str: "$.a.b[1]"},
		{in: "$.a[0][2]", want: P("a", 0, 2), str: "$.a[0][2]"},
		{in: "$.'x.y'.z", want: P("x.y", "z"), str: "$.'x.y'.z"},
		{in: "$.'it\\'s'", want: P("it's"), str: "$.'it\\'s'"},
		{in: "[3]", want: P(3), str: "$[3]"},
	}
	for _, tc := range tests {
		got, err := ParsePath(tc.in)
		if err != nil {
			t.Errorf("%q: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("%q: got %v want %v", tc.in, got, tc.want)
		}
		if got.String() != tc.str {
			t.Errorf("%q: string %q want %q", tc.in, got.String(), tc.str)
		}
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, in := range []string{"$.a[", "$.a[x]", "$.'open", "$.a[-1]", "$.a[1]x"} {
		if p, err := ParsePath(in); err == nil {
			t.Errorf("%q: expected error, got %v", in, p)
		}
	}
}

func TestKeyOf(t *testing.T) {
	if k := KeyOf(int64(2)); !k.IsIndex() || k.Idx() != 2 {
		t.Errorf("got %v", k)
	}
	if k := KeyOf("x"); k.IsIndex() || k.Name() != "x" {
		t.Errorf("got %v", k)
	}
	if k := KeyOf(1.5); k.IsIndex() || k.Name() != "1.5" {
		t.Errorf("got %v", k)
	}
}
