package ir

import (
	"bytes"
	"cmp"
	"slices"
	"strings"
)

// Compare returns an integer comparing two nodes by content,
// ignoring comments.  The result will be 0 if a==b, -1 if a < b, and
// +1 if a > b.  Virtual nodes compare as null, numbers compare by
// value regardless of int or float representation, and maps compare
// by sorted keys so key order does not matter.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	ta, tb := a.Type(), b.Type()
	if ta != tb {
		return cmp.Compare(ta, tb)
	}
	switch ta {
	case BoolType:
		if a.val.b == b.val.b {
			return 0
		}
		if !a.val.b {
			return -1
		}
		return 1
	case NumberType:
		return compareNumbers(a.val.num, b.val.num)
	case StringType:
		return strings.Compare(a.val.s, b.val.s)
	case BytesType:
		return bytes.Compare(a.val.bytes, b.val.bytes)
	case ListType:
		return compareLists(a, b)
	case MapType:
		return compareMaps(a, b)
	}
	return 0
}

// Equal reports whether a and b hold the same content.
func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}

func compareNumbers(a, b Number) int {
	if !a.isFloat && !b.isFloat {
		return cmp.Compare(a.i, b.i)
	}
	return cmp.Compare(a.Float64(), b.Float64())
}

func compareLists(a, b *Node) int {
	lenA := len(a.val.list)
	lenB := len(b.val.list)
	for i := range min(lenA, lenB) {
		if c := Compare(a.val.list[i], b.val.list[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}

func compareMaps(a, b *Node) int {
	ka := slices.Sorted(slices.Values(a.val.keys))
	kb := slices.Sorted(slices.Values(b.val.keys))
	for i := range min(len(ka), len(kb)) {
		if c := strings.Compare(ka[i], kb[i]); c != 0 {
			return c
		}
		if c := Compare(a.val.m[ka[i]], b.val.m[kb[i]]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ka), len(kb))
}
