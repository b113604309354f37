package json

import (
	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
)

// Patch applies an RFC 6902 patch to n.  Comments of nodes which
// survive the patch are kept.
func Patch(n *ir.Node, patch []byte) error {
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return &format.ParseError{Format: format.JSONFormat, Message: "bad patch", Err: err}
	}
	return apply(n, func(doc []byte) ([]byte, error) {
		return p.Apply(doc)
	})
}

// MergePatch applies an RFC 7386 merge patch to n.
func MergePatch(n *ir.Node, patch []byte) error {
	return apply(n, func(doc []byte) ([]byte, error) {
		return jsonpatch.MergePatch(doc, patch)
	})
}

func apply(n *ir.Node, f func([]byte) ([]byte, error)) error {
	doc, err := Codec.Render(n)
	if err != nil {
		return err
	}
	res, err := f(doc)
	if err != nil {
		return &format.ParseError{Format: format.JSONFormat, Message: "patch failed", Err: err}
	}
	old := n.Copy()
	if err := Codec.ParseInto(n, res); err != nil {
		return err
	}
	format.CarryComments(old, n)
	return nil
}
