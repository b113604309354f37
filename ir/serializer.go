package ir

import "reflect"

// Serializer converts between values of a type (or family of
// types) and node subtrees.
//
// Deserialize is only called on nodes holding a value; absent nodes
// are handled by the caller.
type Serializer interface {
	Deserialize(t reflect.Type, n *Node) (reflect.Value, error)
	Serialize(t reflect.Type, v reflect.Value, n *Node) error
}

// Resolver finds the serializer for a type.  It returns a
// *NoMatchingSerializerError when there is none.
type Resolver interface {
	Resolve(t reflect.Type) (Serializer, error)
}

// Emptier is implemented by serializers which can produce an empty
// instance of their type for implicit initialization.
type Emptier interface {
	Empty(t reflect.Type, opts *Options) (reflect.Value, bool)
}
