// Package json reads and writes JSON, keeping the key order of
// objects.  Comments are not represented.
package json

import (
	"bytes"
	stdjson "encoding/json"
	"math"

	"github.com/iancoleman/orderedmap"

	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
)

// Codec is the JSON codec.
var Codec format.Codec = codec{}

type codec struct{}

func (codec) Format() format.Format { return format.JSONFormat }

func (codec) ParseInto(n *ir.Node, data []byte) error {
	return format.Build(n, format.JSONFormat, func(tmp *ir.Node) error {
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 {
			return nil
		}
		// wrapping lets orderedmap keep the order of objects at any
		// depth, including under a top level array.
		wrapped := orderedmap.New()
		buf := make([]byte, 0, len(trimmed)+8)
		buf = append(buf, `{"v":`...)
		buf = append(buf, trimmed...)
		buf = append(buf, '}')
		if err := stdjson.Unmarshal(buf, wrapped); err != nil {
			return &format.ParseError{Format: format.JSONFormat, Err: err}
		}
		// orderedmap decodes numbers as float64; a second pass
		// supplies them exactly.
		var exact any
		dec := stdjson.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&exact); err != nil {
			return &format.ParseError{Format: format.JSONFormat, Err: err}
		}
		v, _ := wrapped.Get("v")
		return set(tmp, v, exact)
	})
}

// set stores v, which carries key order, in n.  exact is the same
// document decoded with json.Number.
func set(n *ir.Node, v, exact any) error {
	switch x := v.(type) {
	case orderedmap.OrderedMap:
		em, _ := exact.(map[string]any)
		n.SetEmptyMap()
		for _, k := range x.Keys() {
			cv, _ := x.Get(k)
			if err := set(n.Node(k), cv, em[k]); err != nil {
				return err
			}
		}
	case *orderedmap.OrderedMap:
		return set(n, *x, exact)
	case []any:
		el, _ := exact.([]any)
		n.SetEmptyList()
		for i, e := range x {
			var ee any
			if i < len(el) {
				ee = el[i]
			}
			if err := set(n.AppendListNode(), e, ee); err != nil {
				return err
			}
		}
	case float64:
		if num, ok := exact.(stdjson.Number); ok {
			if i, err := num.Int64(); err == nil {
				n.SetInt64(i)
				return nil
			}
		}
		if x == math.Trunc(x) && math.Abs(x) <= 1<<53 {
			n.SetInt64(int64(x))
		} else {
			n.SetFloat64(x)
		}
	default:
		return n.SetRaw(v)
	}
	return nil
}

func (codec) Render(n *ir.Node) ([]byte, error) {
	v, err := toJSON(n)
	if err != nil {
		return nil, err
	}
	d, err := stdjson.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, &format.RenderError{Format: format.JSONFormat, Path: n.Path(), Err: err}
	}
	return append(d, '\n'), nil
}

func toJSON(n *ir.Node) (any, error) {
	switch n.Type() {
	case ir.MapType:
		om := orderedmap.New()
		for k, c := range n.All() {
			cv, err := toJSON(c)
			if err != nil {
				return nil, err
			}
			om.Set(k.Name(), cv)
		}
		return om, nil
	case ir.ListType:
		res := make([]any, 0, n.Len())
		for _, c := range n.ChildrenList() {
			cv, err := toJSON(c)
			if err != nil {
				return nil, err
			}
			res = append(res, cv)
		}
		return res, nil
	case ir.NumberType:
		if f, err := n.AsFloat64(); err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return nil, &format.RenderError{Format: format.JSONFormat, Path: n.Path(), Message: "non finite number"}
		}
	}
	return n.Raw(), nil
}
