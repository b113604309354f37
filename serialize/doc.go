// Package serialize provides the registry which maps Go types to
// [ir.Serializer]s, and the built-in serializers.
//
// A registry is an ordered list of [Entry]s.  Resolution walks the
// list and the first entry whose predicate matches the requested type
// builds its serializer.  Entries of a registry built with
// [Registry.Child] are tried before those of the parent, so
// application entries override the built-ins:
//
//	reg := serialize.Default().Child().
//		Register(serialize.Enum(levelNames, nil)).
//		Build()
//	opts := ir.DefaultOptions().WithSerializers(reg)
//
// Collection entries resolve their element types when they are
// resolved, so a []chan int fails immediately with
// *ir.NoMatchingSerializerError.
package serialize
