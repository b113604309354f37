package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
)

// Raw returns the value of n as plain Go data: nil, bool, int64,
// float64, string, []byte, []any or map[string]any.
func (n *Node) Raw() any {
	switch n.Type() {
	case BoolType:
		return n.val.b
	case NumberType:
		if n.val.num.isFloat {
			return n.val.num.f
		}
		return n.val.num.i
	case StringType:
		return n.val.s
	case BytesType:
		return slices.Clone(n.val.bytes)
	case ListType:
		res := make([]any, len(n.val.list))
		for i, c := range n.val.list {
			res[i] = c.Raw()
		}
		return res
	case MapType:
		res := make(map[string]any, len(n.val.keys))
		for _, k := range n.val.keys {
			res[k] = n.val.m[k].Raw()
		}
		return res
	}
	return nil
}

// SetRaw replaces the value of n with plain Go data.  In addition to
// what Raw returns, it accepts every integer and float kind,
// json.Number, *Node, pointers, and slices, arrays and maps of any
// of these.  Go maps are stored with sorted keys.
func (n *Node) SetRaw(v any) error {
	if v == nil {
		n.SetNull()
		return nil
	}
	val, err := n.rawValue(reflect.ValueOf(v), n.Path())
	if err != nil {
		return err
	}
	n.assign(val)
	return nil
}

func (n *Node) rawValue(rv reflect.Value, at Path) (value, error) {
	if !rv.IsValid() {
		return value{}, nil
	}
	switch x := rv.Interface().(type) {
	case *Node:
		if x == nil {
			return value{}, nil
		}
		return copyNode(x, n.opts).val, nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return numberValue(Int(i)), nil
		}
		f, err := x.Float64()
		if err != nil {
			return value{}, &ConversionError{Path: at, Type: rv.Type(), Err: err}
		}
		return numberValue(Float(f)), nil
	case []byte:
		return bytesValue(slices.Clone(x)), nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return boolValue(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return numberValue(Int(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return numberValue(Float(float64(u))), nil
		}
		return numberValue(Int(int64(u))), nil
	case reflect.Float32, reflect.Float64:
		return numberValue(Float(rv.Float())), nil
	case reflect.String:
		return stringValue(rv.String()), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return value{}, nil
		}
		return n.rawValue(rv.Elem(), at)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return value{}, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return bytesValue(b), nil
		}
		res := emptyList()
		for i := range rv.Len() {
			c := &Node{key: Index(i), opts: n.opts}
			cv, err := n.rawValue(rv.Index(i), at.Child(Index(i)))
			if err != nil {
				return value{}, err
			}
			c.val = cv
			c.reparentChildren()
			res.list = append(res.list, c)
		}
		return res, nil
	case reflect.Map:
		if rv.IsNil() {
			return value{}, nil
		}
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			byKey[k] = iter.Value()
		}
		slices.Sort(keys)
		res := emptyMap()
		for _, k := range keys {
			c := &Node{key: Field(k), opts: n.opts}
			cv, err := n.rawValue(byKey[k], at.Child(Field(k)))
			if err != nil {
				return value{}, err
			}
			c.val = cv
			c.reparentChildren()
			res.keys = append(res.keys, k)
			res.m[k] = c
		}
		return res, nil
	}
	return value{}, &ConversionError{Path: at, Type: rv.Type(), Message: "unsupported raw type"}
}

func (n *Node) reparentChildren() {
	for _, c := range n.val.children() {
		c.parent = n
	}
}

// FromRaw returns a new root holding v.
func FromRaw(v any, opts *Options) (*Node, error) {
	n := NewRoot(opts)
	if err := n.SetRaw(v); err != nil {
		return nil, err
	}
	return n, nil
}
