// Package toml reads and writes TOML.  Keys are loaded in document
// order; tables are written with sorted keys.  Comments are not
// represented, and null values are not written.
package toml

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
)

// Codec is the TOML codec.
var Codec format.Codec = codec{}

type codec struct{}

func (codec) Format() format.Format { return format.TOMLFormat }

func (codec) ParseInto(n *ir.Node, data []byte) error {
	return format.Build(n, format.TOMLFormat, func(tmp *ir.Node) error {
		raw := map[string]any{}
		meta, err := toml.Decode(string(data), &raw)
		if err != nil {
			return &format.ParseError{Format: format.TOMLFormat, Err: err}
		}
		tmp.SetEmptyMap()
		// values below arrays are set with the array; their keys carry
		// no index.
		var opaque []string
		for _, k := range meta.Keys() {
			ks := strings.Join(k, "\x00")
			if slices.ContainsFunc(opaque, func(p string) bool { return strings.HasPrefix(ks, p+"\x00") }) {
				continue
			}
			v, ok := lookup(raw, k)
			if !ok {
				continue
			}
			at := tmp.Node(args(k)...)
			if _, isTable := v.(map[string]any); isTable {
				if !at.IsMap() {
					at.SetEmptyMap()
				}
				continue
			}
			if err := set(at, v); err != nil {
				return err
			}
			opaque = append(opaque, ks)
		}
		return nil
	})
}

func args(k toml.Key) []any {
	res := make([]any, len(k))
	for i, s := range k {
		res[i] = s
	}
	return res
}

func lookup(m map[string]any, k toml.Key) (any, bool) {
	var cur any = m
	for _, s := range k {
		cm, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = cm[s]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func set(n *ir.Node, v any) error {
	switch x := v.(type) {
	case map[string]any:
		n.SetEmptyMap()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if err := set(n.Node(k), x[k]); err != nil {
				return err
			}
		}
	case []map[string]any:
		n.SetEmptyList()
		for _, e := range x {
			if err := set(n.AppendListNode(), e); err != nil {
				return err
			}
		}
	case []any:
		n.SetEmptyList()
		for _, e := range x {
			if err := set(n.AppendListNode(), e); err != nil {
				return err
			}
		}
	case time.Time:
		n.SetString(x.Format(time.RFC3339Nano))
	case fmt.Stringer:
		// local dates and times
		n.SetString(x.String())
	default:
		return n.SetRaw(v)
	}
	return nil
}

func (codec) Render(n *ir.Node) ([]byte, error) {
	if !n.IsMap() && !n.IsNull() {
		return nil, &format.RenderError{Format: format.TOMLFormat, Path: n.Path(), Message: fmt.Sprintf("top level must be a table, not %s", n.Type())}
	}
	v := map[string]any{}
	if n.IsMap() {
		v = toTOML(n).(map[string]any)
	}
	buf := &bytes.Buffer{}
	if err := toml.NewEncoder(buf).Encode(v); err != nil {
		return nil, &format.RenderError{Format: format.TOMLFormat, Path: n.Path(), Err: err}
	}
	return buf.Bytes(), nil
}

func toTOML(n *ir.Node) any {
	switch n.Type() {
	case ir.MapType:
		res := make(map[string]any, n.Len())
		for k, c := range n.All() {
			if c.IsNull() {
				continue
			}
			res[k.Name()] = toTOML(c)
		}
		return res
	case ir.ListType:
		res := make([]any, 0, n.Len())
		for _, c := range n.ChildrenList() {
			if c.IsNull() {
				continue
			}
			res = append(res, toTOML(c))
		}
		return res
	case ir.BytesType:
		b, _ := n.AsBytes()
		return base64.StdEncoding.EncodeToString(b)
	}
	return n.Raw()
}
