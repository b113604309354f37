package ir

import (
	"encoding/binary"
	"hash/maphash"
	"math"
	"slices"
)

var hashSeed = maphash.MakeSeed()

// Hash returns a 64-bit hash of the content and comments of n.  Map
// key order does not affect the result.  Hashes are stable within
// a process only.
func (n *Node) Hash() uint64 {
	var h maphash.Hash
	h.SetSeed(hashSeed)
	var b [8]byte
	t := n.Type()
	h.WriteByte(byte(t))

	switch t {
	case BoolType:
		if n.val.b {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case NumberType:
		if i, ok := n.val.num.Int64(); ok {
			binary.LittleEndian.PutUint64(b[:], uint64(i))
		} else {
			binary.LittleEndian.PutUint64(b[:], math.Float64bits(n.val.num.f))
		}
		h.Write(b[:])
	case StringType:
		h.WriteString(n.val.s)
	case BytesType:
		h.Write(n.val.bytes)
	case ListType:
		for _, v := range n.val.list {
			binary.LittleEndian.PutUint64(b[:], v.Hash())
			h.Write(b[:])
		}
	case MapType:
		for _, k := range slices.Sorted(slices.Values(n.val.keys)) {
			h.WriteString(k)
			h.WriteByte(0)
			binary.LittleEndian.PutUint64(b[:], n.val.m[k].Hash())
			h.Write(b[:])
		}
	}
	if n.hasComment {
		h.WriteByte(1)
		h.WriteString(n.comment)
	}
	return h.Sum64()
}
