package objectmap

import (
	"reflect"

	"github.com/signadot/cfgtree/ir"
)

// TypedMapper is a Mapper for T.
type TypedMapper[T any] struct {
	m *Mapper
}

// For returns the typed mapper for T from f.
func For[T any](f *Factory) (*TypedMapper[T], error) {
	m, err := f.Get(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return &TypedMapper[T]{m: m}, nil
}

func (tm *TypedMapper[T]) Mapper() *Mapper {
	return tm.m
}

func (tm *TypedMapper[T]) Load(n *ir.Node) (T, error) {
	v, err := tm.m.Load(n)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.Interface().(T), nil
}

// LoadInto loads n over *p.  Fields absent from n keep their values
// in *p.
func (tm *TypedMapper[T]) LoadInto(n *ir.Node, p *T) error {
	_, err := tm.m.loadInto(n, reflect.ValueOf(p).Elem())
	return err
}

func (tm *TypedMapper[T]) Save(v T, n *ir.Node) error {
	return tm.m.Save(reflect.ValueOf(&v).Elem(), n)
}
