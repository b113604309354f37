// Package properties reads and writes Java style properties files.
// Dotted keys are nested: "db.host = x" loads as {db: {host: x}}.
// Values are loaded as strings; comments are kept.
package properties

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/magiconair/properties"

	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
)

// Codec is the properties codec.
var Codec format.Codec = codec{}

type codec struct{}

func (codec) Format() format.Format { return format.PropertiesFormat }

func (codec) ParseInto(n *ir.Node, data []byte) error {
	return format.Build(n, format.PropertiesFormat, func(tmp *ir.Node) error {
		l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
		p, err := l.LoadBytes(data)
		if err != nil {
			return &format.ParseError{Format: format.PropertiesFormat, Err: err}
		}
		tmp.SetEmptyMap()
		for _, k := range p.Keys() {
			v, _ := p.Get(k)
			at := tmp.Node(split(k)...).SetString(v)
			if cs := p.GetComments(k); len(cs) > 0 {
				at.SetComment(strings.Join(cs, "\n"))
			}
		}
		return nil
	})
}

func split(k string) []any {
	parts := strings.Split(k, ".")
	res := make([]any, len(parts))
	for i, p := range parts {
		res[i] = p
	}
	return res
}

func (codec) Render(n *ir.Node) ([]byte, error) {
	p := properties.NewProperties()
	p.DisableExpansion = true
	if err := add(p, "", n); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if _, err := p.WriteComment(buf, "# ", properties.UTF8); err != nil {
		return nil, &format.RenderError{Format: format.PropertiesFormat, Path: n.Path(), Err: err}
	}
	return buf.Bytes(), nil
}

func add(p *properties.Properties, key string, n *ir.Node) error {
	switch n.Type() {
	case ir.MapType, ir.ListType:
		for k, c := range n.All() {
			ck := k.String()
			if key != "" {
				ck = key + "." + ck
			}
			if err := add(p, ck, c); err != nil {
				return err
			}
		}
		return nil
	case ir.NullType:
		return nil
	}
	if key == "" {
		return &format.RenderError{Format: format.PropertiesFormat, Path: n.Path(), Message: "top level must be a map or a list"}
	}
	var v string
	if n.Type() == ir.BytesType {
		b, _ := n.AsBytes()
		v = base64.StdEncoding.EncodeToString(b)
	} else {
		s, err := n.AsString()
		if err != nil {
			return &format.RenderError{Format: format.PropertiesFormat, Path: n.Path(), Err: err}
		}
		v = s
	}
	if _, _, err := p.Set(key, v); err != nil {
		return &format.RenderError{Format: format.PropertiesFormat, Path: n.Path(), Err: err}
	}
	if c, ok := n.Comment(); ok && c != "" {
		p.SetComments(key, strings.Split(c, "\n"))
	}
	return nil
}
