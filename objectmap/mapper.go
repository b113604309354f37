package objectmap

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/signadot/cfgtree/debug"
	"github.com/signadot/cfgtree/ir"
)

// Mapper converts between values of one struct type and map nodes.
// It is also the ir.Serializer for that type.
type Mapper struct {
	shape *Shape
}

func (m *Mapper) Shape() *Shape {
	return m.shape
}

func (m *Mapper) Type() reflect.Type {
	return m.shape.Type
}

// Load builds a value from n.  Unlike Get on an absent node, Load
// always visits the fields, so required fields are checked even when
// n is absent.
func (m *Mapper) Load(n *ir.Node) (reflect.Value, error) {
	res := reflect.New(m.shape.Type).Elem()
	if !m.shape.IsRecord() {
		if d, ok := res.Addr().Interface().(Defaulter); ok {
			d.SetDefaults()
		}
	}
	return m.loadInto(n, res)
}

func (m *Mapper) loadInto(n *ir.Node, dst reflect.Value) (reflect.Value, error) {
	t := m.shape.Type
	if !n.IsNull() && !n.IsMap() {
		return reflect.Value{}, &ir.CoercionError{Path: n.Path(), From: n.Type(), To: t.String()}
	}
	if debug.Mapper() {
		debug.Logf("load %s at %s\n", t, n.Path())
	}
	var args []reflect.Value
	for _, fd := range m.shape.Fields {
		cur := dst.FieldByIndex(fd.Index)
		v, set, err := m.loadField(fd, n.Node(fd.Key), cur)
		if err != nil {
			return reflect.Value{}, err
		}
		if !set {
			v = cur
		}
		if m.shape.IsRecord() {
			args = append(args, v)
			continue
		}
		if set {
			cur.Set(v)
		}
	}
	if m.shape.IsRecord() {
		out := m.shape.Constructor.Call(args)
		if m.shape.ctorErr && !out[1].IsNil() {
			return reflect.Value{}, fieldError(out[1].Interface().(error), n, t)
		}
		dst.Set(out[0])
	}
	return dst, nil
}

// loadField returns the value for fd read from child, and whether
// the current value should be replaced.
func (m *Mapper) loadField(fd *Field, child *ir.Node, cur reflect.Value) (reflect.Value, bool, error) {
	if !child.IsNull() {
		v, err := child.GetValue(fd.Type)
		if err != nil {
			return reflect.Value{}, false, fieldError(err, child, fd.Type)
		}
		return fd.check(child, v)
	}
	if fd.Required {
		return reflect.Value{}, false, &MissingRequiredValueError{Path: child.Path(), Type: m.shape.Type, Field: fd.Name}
	}
	if fd.HasDefault {
		v, err := fd.defaultValue(child)
		if err != nil {
			return reflect.Value{}, false, err
		}
		if child.Options().ShouldCopyDefaults() {
			if err := child.SetValue(fd.Type, v); err != nil {
				return reflect.Value{}, false, fieldError(err, child, fd.Type)
			}
		}
		return fd.check(child, v)
	}
	if fd.Type.Kind() == reflect.Struct {
		s, err := resolveAt(child, fd.Type)
		if err != nil {
			return reflect.Value{}, false, err
		}
		if nested, ok := s.(*Mapper); ok {
			v := reflect.New(fd.Type).Elem()
			v.Set(cur)
			v, err = nested.loadInto(child, v)
			return v, err == nil, err
		}
	}
	if child.Options().ImplicitInitialization() && cur.IsZero() {
		switch fd.Type.Kind() {
		case reflect.Slice, reflect.Map:
			v, err := child.GetValue(fd.Type)
			if err != nil {
				return reflect.Value{}, false, fieldError(err, child, fd.Type)
			}
			if err := child.SetValue(fd.Type, v); err != nil {
				return reflect.Value{}, false, fieldError(err, child, fd.Type)
			}
			return v, true, nil
		}
	}
	return cur, false, nil
}

func resolveAt(n *ir.Node, t reflect.Type) (ir.Serializer, error) {
	r := n.Options().Serializers()
	if r == nil {
		return nil, nil
	}
	s, err := r.Resolve(t)
	if err != nil {
		var nm *ir.NoMatchingSerializerError
		if errors.As(err, &nm) && nm.Path == nil {
			return nil, &ir.NoMatchingSerializerError{Path: n.Path(), Type: nm.Type, Err: nm.Err}
		}
		return nil, err
	}
	return s, nil
}

func (fd *Field) defaultValue(at *ir.Node) (reflect.Value, error) {
	if !fd.HasDefault {
		return reflect.Zero(fd.Type), nil
	}
	tmp := ir.NewRoot(at.Options())
	tmp.SetString(fd.Default)
	v, err := tmp.GetValue(fd.Type)
	if err != nil {
		return reflect.Value{}, &ir.ConversionError{
			Path:    at.Path(),
			Type:    fd.Type,
			Message: fmt.Sprintf("bad default %q", fd.Default),
			Err:     err,
		}
	}
	return v, nil
}

func (fd *Field) check(at *ir.Node, v reflect.Value) (reflect.Value, bool, error) {
	ok, err := fd.validate(v)
	if err != nil {
		return reflect.Value{}, false, &ir.ConversionError{Path: at.Path(), Type: fd.Type, Err: err}
	}
	if !ok {
		return reflect.Value{}, false, &ir.ConversionError{
			Path:    at.Path(),
			Type:    fd.Type,
			Message: fmt.Sprintf("%v fails %q", v.Interface(), fd.Validate),
		}
	}
	return v, true, nil
}

// Save writes v, a value of the mapper's type, into n.  Nil fields
// and omitdefault fields holding their default are left absent.
// Comments are written whether or not the value is.
func (m *Mapper) Save(v reflect.Value, n *ir.Node) error {
	if debug.Mapper() {
		debug.Logf("save %s at %s\n", m.shape.Type, n.Path())
	}
	if !n.IsMap() {
		n.SetEmptyMap()
	}
	for _, fd := range m.shape.Fields {
		fv := v.FieldByIndex(fd.Index)
		omit, err := fd.omit(fv, n.Node(fd.Key))
		if err != nil {
			return err
		}
		if omit {
			if n.HasChild(fd.Key) {
				n.RemoveChild(fd.Key)
			}
		} else {
			child := n.Node(fd.Key)
			if err := child.SetValue(fd.Type, fv); err != nil {
				return fieldError(err, child, fd.Type)
			}
		}
		if fd.Comment != "" {
			n.Node(fd.Key).SetComment(fd.Comment)
		}
	}
	return nil
}

func (fd *Field) omit(fv reflect.Value, at *ir.Node) (bool, error) {
	switch fv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		if fv.IsNil() {
			return true, nil
		}
	}
	if !fd.OmitDefault {
		return false, nil
	}
	def, err := fd.defaultValue(at)
	if err != nil {
		return false, err
	}
	return reflect.DeepEqual(fv.Interface(), def.Interface()), nil
}

func (m *Mapper) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	return m.Load(n)
}

func (m *Mapper) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	return m.Save(v, n)
}
