package ir

import (
	"math"
	"strconv"
)

// Number is an int64 or a float64.
type Number struct {
	i       int64
	f       float64
	isFloat bool
}

func Int(i int64) Number { return Number{i: i} }
func Float(f float64) Number { return Number{f: f, isFloat: true} }

func (x Number) IsFloat() bool { return x.isFloat }

// Int64 returns the integer value of x, with ok false if x is a
// float with a fractional part or out of range.
func (x Number) Int64() (int64, bool) {
	if !x.isFloat {
		return x.i, true
	}
	if x.f != math.Trunc(x.f) || x.f < math.MinInt64 || x.f >= math.MaxInt64 {
		return 0, false
	}
	return int64(x.f), true
}

func (x Number) Float64() float64 {
	if x.isFloat {
		return x.f
	}
	return float64(x.i)
}

func (x Number) String() string {
	if x.isFloat {
		return strconv.FormatFloat(x.f, 'g', -1, 64)
	}
	return strconv.FormatInt(x.i, 10)
}

// value is the cell.  Exactly the fields selected by typ are
// meaningful.
type value struct {
	typ   Type
	b     bool
	num   Number
	s     string
	bytes []byte
	list  []*Node
	keys  []string
	m     map[string]*Node
}

func boolValue(b bool) value { return value{typ: BoolType, b: b} }
func numberValue(x Number) value { return value{typ: NumberType, num: x} }
func stringValue(s string) value { return value{typ: StringType, s: s} }
func bytesValue(b []byte) value { return value{typ: BytesType, bytes: b} }
func emptyList() value { return value{typ: ListType, list: []*Node{}} }
func emptyMap() value { return value{typ: MapType, m: map[string]*Node{}} }
func (v *value) isContainer() bool { return v.typ == ListType || v.typ == MapType }

// children returns the child nodes in order.
func (v *value) children() []*Node {
	switch v.typ {
	case ListType:
		return v.list
	case MapType:
		res := make([]*Node, len(v.keys))
		for i, k := range v.keys {
			res[i] = v.m[k]
		}
		return res
	}
	return nil
}
