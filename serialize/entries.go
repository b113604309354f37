package serialize

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/signadot/cfgtree/ir"
)

// Factory builds the serializer for t.  r resolves other types, such
// as element types, through the registry performing the resolution,
// so entries registered by the application apply to them too.
type Factory func(r ir.Resolver, t reflect.Type) (ir.Serializer, error)

// Entry binds a predicate over types to a serializer factory.
type Entry struct {
	Name    string
	Match   func(t reflect.Type) bool
	Factory Factory
}

// Match returns an entry for the types satisfying pred.
func Match(name string, pred func(reflect.Type) bool, f Factory) Entry {
	return Entry{Name: name, Match: pred, Factory: f}
}

// Exact returns an entry for type t only.
func Exact(t reflect.Type, s ir.Serializer) Entry {
	return Entry{
		Name:    t.String(),
		Match:   func(x reflect.Type) bool { return x == t },
		Factory: func(ir.Resolver, reflect.Type) (ir.Serializer, error) { return s, nil },
	}
}

// Implements returns an entry for the non-interface types whose value
// or pointer implements iface.
func Implements(iface reflect.Type, s ir.Serializer) Entry {
	return Entry{
		Name: "implements " + iface.String(),
		Match: func(x reflect.Type) bool {
			if x.Kind() == reflect.Interface || x.Kind() == reflect.Pointer {
				return false
			}
			return x.Implements(iface) || reflect.PointerTo(x).Implements(iface)
		},
		Factory: func(ir.Resolver, reflect.Type) (ir.Serializer, error) { return s, nil },
	}
}

// Kinds returns a predicate matching types of the given kinds.
func Kinds(ks ...reflect.Kind) func(reflect.Type) bool {
	return func(t reflect.Type) bool {
		for _, k := range ks {
			if t.Kind() == k {
				return true
			}
		}
		return false
	}
}

// Func returns an entry for T built from a pair of functions.
func Func[T any](load func(n *ir.Node) (T, error), save func(v T, n *ir.Node) error) Entry {
	return Exact(reflect.TypeFor[T](), funcSerializer[T]{load: load, save: save})
}

type funcSerializer[T any] struct {
	load func(n *ir.Node) (T, error)
	save func(v T, n *ir.Node) error
}

func (f funcSerializer[T]) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	v, err := f.load(n)
	if err != nil {
		return reflect.Value{}, err
	}
	res := reflect.New(t).Elem()
	res.Set(reflect.ValueOf(&v).Elem())
	return res, nil
}

func (f funcSerializer[T]) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	return f.save(v.Interface().(T), n)
}

// Enum returns an entry for an enumeration type.  Values are written
// by their name in names and read by name or alias, ignoring case.
func Enum[T comparable](names map[T]string, aliases map[string]T) Entry {
	lookup := make(map[string]T, len(names)+len(aliases))
	for v, name := range names {
		lookup[strings.ToLower(name)] = v
	}
	for alias, v := range aliases {
		lookup[strings.ToLower(alias)] = v
	}
	return Exact(reflect.TypeFor[T](), enumSerializer[T]{names: names, lookup: lookup})
}

type enumSerializer[T comparable] struct {
	names  map[T]string
	lookup map[string]T
}

func (e enumSerializer[T]) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	s, err := n.AsString()
	if err != nil {
		return reflect.Value{}, err
	}
	v, ok := e.lookup[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return reflect.Value{}, &ir.ConversionError{
			Path:    n.Path(),
			Type:    t,
			Message: fmt.Sprintf("unknown value %q", s),
		}
	}
	return reflect.ValueOf(v), nil
}

func (e enumSerializer[T]) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	x := v.Interface().(T)
	name, ok := e.names[x]
	if !ok {
		return &ir.ConversionError{
			Path:    n.Path(),
			Type:    t,
			Message: fmt.Sprintf("no name for value %v", x),
		}
	}
	n.SetString(name)
	return nil
}
