// Package ini reads and writes INI files.  Keys of the default
// section are placed at the top level and every other section becomes
// a map.  Values are loaded as strings; typed access goes through the
// node coercions.  Key and section comments are kept.
//
// On output, maps nested below sections are flattened into dotted
// keys and lists are written as comma separated values.
package ini

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
)

// Codec is the INI codec.
var Codec format.Codec = codec{}

type codec struct{}

func (codec) Format() format.Format { return format.INIFormat }

func (codec) ParseInto(n *ir.Node, data []byte) error {
	return format.Build(n, format.INIFormat, func(tmp *ir.Node) error {
		f, err := ini.LoadSources(ini.LoadOptions{SpaceBeforeInlineComment: true}, data)
		if err != nil {
			return &format.ParseError{Format: format.INIFormat, Err: err}
		}
		tmp.SetEmptyMap()
		for _, sec := range f.Sections() {
			at := tmp
			if sec.Name() != ini.DefaultSection {
				at = tmp.Node(sec.Name()).SetEmptyMap()
				if c := uncomment(sec.Comment); c != "" {
					at.SetComment(c)
				}
			}
			for _, k := range sec.Keys() {
				kn := at.Node(k.Name()).SetString(k.Value())
				if c := uncomment(k.Comment); c != "" {
					kn.SetComment(c)
				}
			}
		}
		return nil
	})
}

func uncomment(c string) string {
	if c == "" {
		return ""
	}
	lines := strings.Split(c, "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimLeft(l, "#;")
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}

func comment(c string) string {
	lines := strings.Split(c, "\n")
	for i, l := range lines {
		lines[i] = "# " + l
	}
	return strings.Join(lines, "\n")
}

func (codec) Render(n *ir.Node) ([]byte, error) {
	if !n.IsMap() && !n.IsNull() {
		return nil, &format.RenderError{Format: format.INIFormat, Path: n.Path(), Message: fmt.Sprintf("top level must be a map, not %s", n.Type())}
	}
	f := ini.Empty()
	def := f.Section("")
	for k, c := range n.All() {
		if c.IsMap() {
			continue
		}
		if err := addKey(def, k.Name(), c); err != nil {
			return nil, err
		}
	}
	for k, c := range n.All() {
		if !c.IsMap() {
			continue
		}
		sec, err := f.NewSection(k.Name())
		if err != nil {
			return nil, &format.RenderError{Format: format.INIFormat, Path: c.Path(), Err: err}
		}
		if cm, ok := c.Comment(); ok && cm != "" {
			sec.Comment = comment(cm)
		}
		if err := addKeys(sec, "", c); err != nil {
			return nil, err
		}
	}
	buf := &bytes.Buffer{}
	if _, err := f.WriteTo(buf); err != nil {
		return nil, &format.RenderError{Format: format.INIFormat, Path: n.Path(), Err: err}
	}
	return buf.Bytes(), nil
}

func addKeys(sec *ini.Section, prefix string, n *ir.Node) error {
	for k, c := range n.All() {
		name := prefix + k.Name()
		if c.IsMap() {
			if err := addKeys(sec, name+".", c); err != nil {
				return err
			}
			continue
		}
		if err := addKey(sec, name, c); err != nil {
			return err
		}
	}
	return nil
}

func addKey(sec *ini.Section, name string, n *ir.Node) error {
	if n.IsNull() {
		if _, ok := n.Comment(); !ok {
			return nil
		}
	}
	v, err := value(n)
	if err != nil {
		return err
	}
	key, err := sec.NewKey(name, v)
	if err != nil {
		return &format.RenderError{Format: format.INIFormat, Path: n.Path(), Err: err}
	}
	if c, ok := n.Comment(); ok && c != "" {
		key.Comment = comment(c)
	}
	return nil
}

func value(n *ir.Node) (string, error) {
	switch n.Type() {
	case ir.NullType:
		return "", nil
	case ir.BytesType:
		b, _ := n.AsBytes()
		return base64.StdEncoding.EncodeToString(b), nil
	case ir.ListType:
		parts := make([]string, 0, n.Len())
		for _, c := range n.ChildrenList() {
			if c.IsMap() || c.IsList() {
				return "", &format.RenderError{Format: format.INIFormat, Path: c.Path(), Message: "lists may only hold scalars"}
			}
			s, err := value(c)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	}
	s, err := n.AsString()
	if err != nil {
		return "", &format.RenderError{Format: format.INIFormat, Path: n.Path(), Err: err}
	}
	return s, nil
}
