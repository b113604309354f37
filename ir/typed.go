package ir

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/signadot/cfgtree/debug"
)

var errNoResolver = errors.New("options have no serializers")

func (n *Node) resolve(t reflect.Type) (Serializer, error) {
	r := n.opts.Serializers()
	if r == nil {
		return nil, &NoMatchingSerializerError{Path: n.Path(), Type: t, Err: errNoResolver}
	}
	s, err := r.Resolve(t)
	if err != nil {
		var nm *NoMatchingSerializerError
		if errors.As(err, &nm) && nm.Path == nil {
			return nil, &NoMatchingSerializerError{Path: n.Path(), Type: nm.Type, Err: nm.Err}
		}
		return nil, err
	}
	if debug.Resolve() {
		debug.Logf("resolved %s at %s to %s\n", t, n.Path(), fmt.Sprintf("%T", s))
	}
	return s, nil
}

// Get returns n's value converted to t by the serializer the
// node's options resolve for t.  An absent node yields the zero value
// of t, or an empty instance under implicit initialization.
func (n *Node) Get(t reflect.Type) (any, error) {
	v, err := n.GetValue(t)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// GetValue is Get returning a reflect.Value of type t.
func (n *Node) GetValue(t reflect.Type) (reflect.Value, error) {
	s, err := n.resolve(t)
	if err != nil {
		return reflect.Value{}, err
	}
	if n.IsNull() {
		if n.opts.ImplicitInitialization() {
			if e, ok := s.(Emptier); ok {
				if v, ok := e.Empty(t, n.opts); ok {
					return v, nil
				}
			}
		}
		return reflect.Zero(t), nil
	}
	return s.Deserialize(t, n)
}

// GetDefault is like Get but returns def when n is absent.  If the
// options say so, def is also stored in n.
func (n *Node) GetDefault(t reflect.Type, def any) (any, error) {
	if !n.IsNull() {
		return n.Get(t)
	}
	if def != nil && n.opts.ShouldCopyDefaults() {
		if err := n.SetAs(t, def); err != nil {
			return nil, err
		}
	}
	return def, nil
}

// Set stores v in n using the serializer for v's dynamic type.  A nil
// v removes n's value from the tree; n stays usable as a virtual
// node.
func (n *Node) Set(v any) error {
	if v == nil {
		n.detach()
		return nil
	}
	return n.SetAs(reflect.TypeOf(v), v)
}

// SetAs stores v in n using the serializer for t.  v must be
// assignable to t.
func (n *Node) SetAs(t reflect.Type, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		n.detach()
		return nil
	}
	return n.SetValue(t, rv)
}

// SetValue is SetAs taking a reflect.Value.
func (n *Node) SetValue(t reflect.Type, rv reflect.Value) error {
	if rv.Type() != t {
		if !rv.Type().AssignableTo(t) {
			return &ConversionError{
				Path:    n.Path(),
				Type:    t,
				Message: fmt.Sprintf("value of type %s is not assignable", rv.Type()),
			}
		}
		tmp := reflect.New(t).Elem()
		tmp.Set(rv)
		rv = tmp
	}
	s, err := n.resolve(t)
	if err != nil {
		return err
	}
	return s.Serialize(t, rv, n)
}

// As returns n's value as a T, see Get.
func As[T any](n *Node) (T, error) {
	v, err := n.GetValue(reflect.TypeFor[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	res, _ := v.Interface().(T)
	return res, nil
}

// AsOr returns n's value as a T, or def if n is absent.  See
// GetDefault.
func AsOr[T any](n *Node, def T) (T, error) {
	v, err := n.GetDefault(reflect.TypeFor[T](), def)
	if err != nil {
		var zero T
		return zero, err
	}
	res, _ := v.(T)
	return res, nil
}

// Store sets n to v using the serializer for T.
func Store[T any](n *Node, v T) error {
	return n.SetValue(reflect.TypeFor[T](), reflect.ValueOf(&v).Elem())
}
