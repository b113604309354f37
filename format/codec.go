package format

import (
	"fmt"

	"github.com/signadot/cfgtree/debug"
	"github.com/signadot/cfgtree/ir"
)

// Loader parses input into a node.  On error the node is left
// unchanged.
type Loader interface {
	ParseInto(n *ir.Node, data []byte) error
}

// Renderer renders a node.
type Renderer interface {
	Render(n *ir.Node) ([]byte, error)
}

type Codec interface {
	Loader
	Renderer
	Format() Format
}

type ParseError struct {
	Format  Format
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type RenderError struct {
	Format  Format
	Path    ir.Path
	Message string
	Err     error
}

func (e *RenderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path != nil {
		return fmt.Sprintf("%s render error at %s: %s", e.Format, e.Path, msg)
	}
	return fmt.Sprintf("%s render error: %s", e.Format, msg)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Build parses through build into a scratch tree sharing n's options
// and replaces n's value with the result only if build succeeds.
func Build(n *ir.Node, f Format, build func(tmp *ir.Node) error) error {
	tmp := ir.NewRoot(n.Options())
	if err := build(tmp); err != nil {
		if _, ok := err.(*ParseError); ok {
			return err
		}
		return &ParseError{Format: f, Err: err}
	}
	if debug.Format() {
		debug.Logf("parsed %s at %s: %s\n", f, n.Path(), tmp)
	}
	n.SetNode(tmp)
	return nil
}

// CarryComments copies comments from src to the nodes at the same
// paths in dst which have none.
func CarryComments(src, dst *ir.Node) {
	src.Visit(func(sn *ir.Node, isPost bool) (bool, error) {
		if isPost {
			return true, nil
		}
		c, ok := sn.Comment()
		if !ok {
			return true, nil
		}
		rel := sn.Path()[len(src.Path()):]
		if !dst.HasChild(rel.Args()...) && len(rel) > 0 {
			return true, nil
		}
		dst.Node(rel.Args()...).CommentIfAbsent(c)
		return true, nil
	})
}
