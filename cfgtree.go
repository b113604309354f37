// Package cfgtree ties together the configuration tree (package ir),
// the serializer registry (package serialize) and struct mapping
// (package objectmap).
//
//	root := cfgtree.NewRoot()
//	if err := yaml.Codec.ParseInto(root, data); err != nil {
//		return err
//	}
//	cfg, err := cfgtree.Load[Config](root)
//
// Formats live under package format, file references and watching
// under package reference.
package cfgtree

import (
	"reflect"

	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/objectmap"
	"github.com/signadot/cfgtree/serialize"
)

var (
	defaultFactory  = objectmap.NewFactory()
	defaultRegistry = Registry(defaultFactory)
)

// Registry returns a registry holding the built-in entries followed
// by struct mapping through f.
func Registry(f *objectmap.Factory) *serialize.Registry {
	return serialize.NewBuilder().
		Register(serialize.Builtins()...).
		Register(f.Entry()).
		Build()
}

// DefaultFactory returns the factory behind DefaultOptions.
func DefaultFactory() *objectmap.Factory {
	return defaultFactory
}

// DefaultOptions returns options resolving through the default
// factory.
func DefaultOptions() *ir.Options {
	return ir.DefaultOptions().WithSerializers(defaultRegistry)
}

// NewOptions returns options resolving through f, with entries
// taking precedence over the built-in ones.  A nil f uses the default
// factory.
func NewOptions(f *objectmap.Factory, entries ...serialize.Entry) *ir.Options {
	reg := defaultRegistry
	if f != nil {
		reg = Registry(f)
	}
	if len(entries) > 0 {
		reg = reg.Child().Register(entries...).Build()
	}
	return ir.DefaultOptions().WithSerializers(reg)
}

// NewRoot returns an empty tree with DefaultOptions.
func NewRoot() *ir.Node {
	return ir.NewRoot(DefaultOptions())
}

// Load returns n as a T.  Struct types go through their mapper even
// when n is absent, so required fields are reported.
func Load[T any](n *ir.Node) (T, error) {
	var zero T
	r := n.Options().Serializers()
	if r == nil {
		return ir.As[T](n)
	}
	s, err := r.Resolve(reflect.TypeFor[T]())
	if err != nil {
		return ir.As[T](n)
	}
	m, ok := s.(*objectmap.Mapper)
	if !ok {
		return ir.As[T](n)
	}
	v, err := m.Load(n)
	if err != nil {
		return zero, err
	}
	return v.Interface().(T), nil
}

// Save stores v in n.
func Save[T any](v T, n *ir.Node) error {
	return ir.Store(n, v)
}
