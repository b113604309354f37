// Package yaml reads and writes YAML, keeping key order and comments.
// Head and line comments of a node are joined into the node comment;
// on output node comments are written as head comments.
package yaml

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	goyaml "github.com/goccy/go-yaml"

	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
)

// Codec is the YAML codec.
var Codec format.Codec = codec{}

type codec struct{}

func (codec) Format() format.Format { return format.YAMLFormat }

func (codec) ParseInto(n *ir.Node, data []byte) error {
	return format.Build(n, format.YAMLFormat, func(tmp *ir.Node) error {
		var v any
		cm := goyaml.CommentMap{}
		if err := goyaml.UnmarshalWithOptions(data, &v, goyaml.UseOrderedMap(), goyaml.CommentToMap(cm)); err != nil {
			return &format.ParseError{Format: format.YAMLFormat, Message: goyaml.FormatError(err, false, true), Err: err}
		}
		if err := set(tmp, v); err != nil {
			return err
		}
		applyComments(tmp, cm)
		return nil
	})
}

func set(n *ir.Node, v any) error {
	switch x := v.(type) {
	case goyaml.MapSlice:
		n.SetEmptyMap()
		for _, item := range x {
			if err := set(n.Node(keyString(item.Key)), item.Value); err != nil {
				return err
			}
		}
	case map[string]any:
		return n.SetRaw(x)
	case []any:
		n.SetEmptyList()
		for _, e := range x {
			if err := set(n.AppendListNode(), e); err != nil {
				return err
			}
		}
	case time.Time:
		n.SetString(x.Format(time.RFC3339Nano))
	case nil:
		n.SetNull()
	default:
		return n.SetRaw(v)
	}
	return nil
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

func applyComments(root *ir.Node, cm goyaml.CommentMap) {
	for p, cs := range cm {
		path, err := ir.ParsePath(p)
		if err != nil {
			continue
		}
		if len(path) > 0 && !root.HasChild(path.Args()...) {
			continue
		}
		var lines []string
		for _, c := range cs {
			for _, t := range c.Texts {
				lines = append(lines, strings.TrimSpace(t))
			}
		}
		if len(lines) == 0 {
			continue
		}
		root.Node(path.Args()...).SetComment(strings.Join(lines, "\n"))
	}
}

func (codec) Render(n *ir.Node) ([]byte, error) {
	cm := goyaml.CommentMap{}
	v := toYAML(n, n.Path(), cm)
	d, err := goyaml.MarshalWithOptions(v, goyaml.WithComment(cm), goyaml.IndentSequence(true))
	if err != nil {
		return nil, &format.RenderError{Format: format.YAMLFormat, Path: n.Path(), Err: err}
	}
	return d, nil
}

func toYAML(n *ir.Node, base ir.Path, cm goyaml.CommentMap) any {
	if c, ok := n.Comment(); ok && c != "" {
		var texts []string
		for _, line := range strings.Split(c, "\n") {
			texts = append(texts, " "+line)
		}
		rel := n.Path()[len(base):]
		cm[rel.String()] = []*goyaml.Comment{goyaml.HeadComment(texts...)}
	}
	switch n.Type() {
	case ir.MapType:
		res := make(goyaml.MapSlice, 0, n.Len())
		for k, c := range n.All() {
			res = append(res, goyaml.MapItem{Key: k.Name(), Value: toYAML(c, base, cm)})
		}
		return res
	case ir.ListType:
		res := make([]any, 0, n.Len())
		for _, c := range n.ChildrenList() {
			res = append(res, toYAML(c, base, cm))
		}
		return res
	case ir.BytesType:
		b, _ := n.AsBytes()
		return base64.StdEncoding.EncodeToString(b)
	}
	return n.Raw()
}
