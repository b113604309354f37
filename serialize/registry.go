package serialize

import (
	"errors"
	"reflect"
	"sync"

	"github.com/signadot/cfgtree/debug"
	"github.com/signadot/cfgtree/ir"
)

// Registry is an ordered, immutable list of entries plus a cache of
// resolved serializers.  Entries of a registry outrank those of its
// parent; within a registry the first matching entry wins.
//
// A Registry is safe for concurrent use.
type Registry struct {
	parent  *Registry
	entries []Entry
	cache   sync.Map // reflect.Type -> ir.Serializer
}

// Builder collects entries for a new Registry.
type Builder struct {
	parent  *Registry
	entries []Entry
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Child returns a builder for a registry whose entries are tried
// before r's.
func (r *Registry) Child() *Builder {
	return &Builder{parent: r}
}

func (b *Builder) Register(es ...Entry) *Builder {
	b.entries = append(b.entries, es...)
	return b
}

func (b *Builder) Build() *Registry {
	return &Registry{parent: b.parent, entries: append([]Entry(nil), b.entries...)}
}

// Entries returns the entries in the order they are tried,
// including those inherited from parents.
func (r *Registry) Entries() []Entry {
	var res []Entry
	for reg := r; reg != nil; reg = reg.parent {
		res = append(res, reg.entries...)
	}
	return res
}

// Resolve returns the serializer for t.  It fails with
// *ir.NoMatchingSerializerError when no entry matches t or an element
// type of t.
func (r *Registry) Resolve(t reflect.Type) (ir.Serializer, error) {
	if s, ok := r.cache.Load(t); ok {
		return s.(ir.Serializer), nil
	}
	rs := &resolution{
		reg:        r,
		inProgress: map[reflect.Type]*deferred{},
		resolved:   map[reflect.Type]ir.Serializer{},
	}
	s, err := rs.Resolve(t)
	if err != nil {
		return nil, err
	}
	// only complete resolutions are cached, so that no cached
	// serializer refers to a type which failed.
	for rt, rsz := range rs.resolved {
		r.cache.LoadOrStore(rt, rsz)
	}
	actual, _ := r.cache.LoadOrStore(t, s)
	return actual.(ir.Serializer), nil
}

// ClearCache drops the serializers resolved by r.  Entries whose
// factories cache on their own, such as objectmap.Factory, must be
// cleared separately.  Parents and children of r keep their caches.
func (r *Registry) ClearCache() {
	r.cache.Clear()
}

// resolution tracks one top level Resolve call.  Types which are
// requested again while being resolved get a deferred serializer
// which is bound once the outer resolution completes.
type resolution struct {
	reg        *Registry
	inProgress map[reflect.Type]*deferred
	resolved   map[reflect.Type]ir.Serializer
}

func (rs *resolution) Resolve(t reflect.Type) (ir.Serializer, error) {
	if s, ok := rs.reg.cache.Load(t); ok {
		return s.(ir.Serializer), nil
	}
	if s, ok := rs.resolved[t]; ok {
		return s, nil
	}
	if d, ok := rs.inProgress[t]; ok {
		return d, nil
	}
	d := &deferred{t: t}
	rs.inProgress[t] = d
	defer delete(rs.inProgress, t)
	s, err := rs.reg.find(rs, t)
	if err != nil {
		return nil, err
	}
	d.s = s
	rs.resolved[t] = s
	return s, nil
}

func (r *Registry) find(rs ir.Resolver, t reflect.Type) (ir.Serializer, error) {
	for reg := r; reg != nil; reg = reg.parent {
		for _, e := range reg.entries {
			if !e.Match(t) {
				continue
			}
			if debug.Resolve() {
				debug.Logf("type %s matched entry %q\n", t, e.Name)
			}
			s, err := e.Factory(rs, t)
			if err != nil {
				var nm *ir.NoMatchingSerializerError
				if errors.As(err, &nm) {
					return nil, &ir.NoMatchingSerializerError{Type: t, Err: err}
				}
				return nil, err
			}
			return s, nil
		}
	}
	return nil, &ir.NoMatchingSerializerError{Type: t}
}

// deferred stands in for a serializer of a recursive type.
type deferred struct {
	t reflect.Type
	s ir.Serializer
}

var errUnbound = errors.New("recursive serializer used before resolution completed")

func (d *deferred) Deserialize(t reflect.Type, n *ir.Node) (reflect.Value, error) {
	if d.s == nil {
		return reflect.Value{}, &ir.NoMatchingSerializerError{Path: n.Path(), Type: d.t, Err: errUnbound}
	}
	return d.s.Deserialize(t, n)
}

func (d *deferred) Serialize(t reflect.Type, v reflect.Value, n *ir.Node) error {
	if d.s == nil {
		return &ir.NoMatchingSerializerError{Path: n.Path(), Type: d.t, Err: errUnbound}
	}
	return d.s.Serialize(t, v, n)
}

func (d *deferred) Empty(t reflect.Type, opts *ir.Options) (reflect.Value, bool) {
	if e, ok := d.s.(ir.Emptier); ok {
		return e.Empty(t, opts)
	}
	return reflect.Value{}, false
}
