package ir

import (
	"errors"
	"testing"
)

func TestAsInt64(t *testing.T) {
	tests := []struct {
		in   any
		want int64
		err  bool
	}{
		{in: int64(3), want: 3},
		{in: 4.0, want: 4},
		{in: 4.5, err: true},
		{in: "12", want: 12},
		{in: " 0x10 ", want: 16},
		{in: "1e3", want: 1000},
		{in: "abc", err: true},
		{in: true, err: true},
		{in: nil, err: true},
		{in: []any{int64(1)}, err: true},
	}
	for _, tc := range tests {
		n := mustRaw(t, tc.in)
		got, err := n.AsInt64()
		if tc.err {
			var ce *CoercionError
			if !errors.As(err, &ce) {
				t.Errorf("%v: expected CoercionError, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%v: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%v: got %d want %d", tc.in, got, tc.want)
		}
	}
}

func TestAsBool(t *testing.T) {
	tests := []struct {
		in   any
		want bool
		err  bool
	}{
		{in: true, want: true},
		{in: "YES", want: true},
		{in: "off", want: false},
		{in: int64(1), want: true},
		{in: int64(0), want: false},
		{in: int64(2), err: true},
		{in: "maybe", err: true},
		{in: map[string]any{}, err: true},
	}
	for _, tc := range tests {
		got, err := mustRaw(t, tc.in).AsBool()
		if tc.err {
			if err == nil {
				t.Errorf("%v: expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("%v: got %v, %v", tc.in, got, err)
		}
	}
}

func TestAsStringAndFloat(t *testing.T) {
	if s, err := mustRaw(t, 2.5).AsString(); err != nil || s != "2.5" {
		t.Errorf("got %q %v", s, err)
	}
	if s, err := mustRaw(t, false).AsString(); err != nil || s != "false" {
		t.Errorf("got %q %v", s, err)
	}
	if _, err := mustRaw(t, []any{}).AsString(); err == nil {
		t.Errorf("expected error for list")
	}
	if f, err := mustRaw(t, "2.25").AsFloat64(); err != nil || f != 2.25 {
		t.Errorf("got %v %v", f, err)
	}
	if f, err := mustRaw(t, int64(3)).AsFloat64(); err != nil || f != 3 {
		t.Errorf("got %v %v", f, err)
	}
}

func TestAsBytes(t *testing.T) {
	if b, err := mustRaw(t, "aGk=").AsBytes(); err != nil || string(b) != "hi" {
		t.Errorf("got %q %v", b, err)
	}
	if _, err := mustRaw(t, "not base64!").AsBytes(); err == nil {
		t.Errorf("expected error")
	}
}

func TestCoercionErrorPath(t *testing.T) {
	root := mustRaw(t, map[string]any{"a": []any{"x"}})
	_, err := root.Node("a", 0).AsInt64()
	var ce *CoercionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CoercionError, got %v", err)
	}
	if ce.Path.String() != "$.a[0]" || ce.From != StringType {
		t.Errorf("unexpected error %v", ce)
	}
}
