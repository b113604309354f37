package ir

import (
	"cmp"
	"maps"
	"reflect"
	"slices"
)

// MapOrder controls the order in which map keys are listed.
type MapOrder int

const (
	// InsertionOrder lists keys in the order they were first set.
	InsertionOrder MapOrder = iota
	// SortedOrder lists keys lexically.
	SortedOrder
)

// Options is shared by every node of a tree.  It is never modified
// after construction; the With methods return modified copies.
type Options struct {
	resolver     Resolver
	nativeTypes  map[reflect.Type]struct{}
	implicitInit bool
	mapOrder     MapOrder
	copyDefaults bool
}

// DefaultOptions returns options with no serializers, every scalar
// kind accepted natively, insertion ordered maps, and implicit
// initialization and default copying turned off.
func DefaultOptions() *Options {
	return &Options{mapOrder: InsertionOrder}
}

func (o *Options) clone() *Options {
	res := *o
	res.nativeTypes = maps.Clone(o.nativeTypes)
	return &res
}

// Serializers returns the resolver used by Get and Set, which may
// be nil.
func (o *Options) Serializers() Resolver { return o.resolver }

func (o *Options) WithSerializers(r Resolver) *Options {
	res := o.clone()
	res.resolver = r
	return res
}

// WithNativeTypes restricts the scalar types stored in the value
// cell without conversion to string.  Passing no types restores the
// default of accepting every scalar kind.
func (o *Options) WithNativeTypes(ts ...reflect.Type) *Options {
	res := o.clone()
	if len(ts) == 0 {
		res.nativeTypes = nil
		return res
	}
	res.nativeTypes = make(map[reflect.Type]struct{}, len(ts))
	for _, t := range ts {
		res.nativeTypes[t] = struct{}{}
	}
	return res
}

// NativeTypes returns the restricted native type set, or nil if
// every scalar kind is accepted.
func (o *Options) NativeTypes() []reflect.Type {
	if o.nativeTypes == nil {
		return nil
	}
	res := slices.Collect(maps.Keys(o.nativeTypes))
	slices.SortFunc(res, func(a, b reflect.Type) int {
		return cmp.Compare(a.String(), b.String())
	})
	return res
}

// AcceptsType reports whether values of type t may be stored in the
// value cell as they are.
func (o *Options) AcceptsType(t reflect.Type) bool {
	if o.nativeTypes == nil {
		return true
	}
	_, ok := o.nativeTypes[t]
	return ok
}

func (o *Options) WithImplicitInitialization(v bool) *Options {
	res := o.clone()
	res.implicitInit = v
	return res
}

// ImplicitInitialization reports whether absent values are loaded as
// empty instances instead of zero values.
func (o *Options) ImplicitInitialization() bool { return o.implicitInit }

func (o *Options) WithMapOrder(m MapOrder) *Options {
	res := o.clone()
	res.mapOrder = m
	return res
}

func (o *Options) MapOrder() MapOrder { return o.mapOrder }

func (o *Options) WithShouldCopyDefaults(v bool) *Options {
	res := o.clone()
	res.copyDefaults = v
	return res
}

// ShouldCopyDefaults reports whether GetDefault writes the default
// into the node when it is used.
func (o *Options) ShouldCopyDefaults() bool { return o.copyDefaults }
