package objectmap

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/signadot/cfgtree/debug"
	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/serialize"
)

// Factory discovers and caches a Mapper per type.  Mappers are kept
// until ClearCache, including failed discoveries.
//
// A Factory is safe for concurrent use.
type Factory struct {
	discoverers []Discoverer
	naming      Naming
	ctors       map[reflect.Type]reflect.Value

	cache sync.Map // reflect.Type -> *cacheEntry
	group singleflight.Group
}

type cacheEntry struct {
	m   *Mapper
	err error
}

type FactoryOption func(*Factory)

// WithNaming sets the naming scheme for fields without a name tag.
// The default is KebabCase.
func WithNaming(n Naming) FactoryOption {
	return func(f *Factory) { f.naming = n }
}

// WithConstructor registers ctor as the canonical constructor of the
// record type it returns.  It panics if ctor is not a function
// returning one value or a value and an error.
func WithConstructor(ctor any) FactoryOption {
	cv := reflect.ValueOf(ctor)
	ct := cv.Type()
	if ct.Kind() != reflect.Func || ct.NumOut() < 1 || ct.NumOut() > 2 {
		panic(fmt.Sprintf("objectmap: %s is not a constructor", ct))
	}
	return func(f *Factory) { f.ctors[ct.Out(0)] = cv }
}

// WithDiscoverers replaces the discoverers, which are tried in order.
func WithDiscoverers(ds ...Discoverer) FactoryOption {
	return func(f *Factory) { f.discoverers = ds }
}

func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		discoverers: []Discoverer{RecordDiscoverer{}, FieldDiscoverer{}},
		naming:      KebabCase,
		ctors:       map[reflect.Type]reflect.Value{},
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Get returns the mapper for t.  Concurrent first requests for the
// same type share one discovery.
func (f *Factory) Get(t reflect.Type) (*Mapper, error) {
	if e, ok := f.cache.Load(t); ok {
		return e.(*cacheEntry).get()
	}
	f.group.Do(t.PkgPath()+"|"+t.String(), func() (any, error) {
		return f.store(t), nil
	})
	e, ok := f.cache.Load(t)
	if !ok {
		// another type with the same name held the flight
		return f.store(t).get()
	}
	return e.(*cacheEntry).get()
}

func (e *cacheEntry) get() (*Mapper, error) {
	return e.m, e.err
}

func (f *Factory) store(t reflect.Type) *cacheEntry {
	if e, ok := f.cache.Load(t); ok {
		return e.(*cacheEntry)
	}
	s, err := f.discover(t)
	e := &cacheEntry{err: err}
	if err == nil {
		e.m = &Mapper{shape: s}
	}
	if debug.Mapper() {
		debug.Logf("discovered %s: %v\n", t, err)
	}
	actual, _ := f.cache.LoadOrStore(t, e)
	return actual.(*cacheEntry)
}

func (f *Factory) discover(t reflect.Type) (*Shape, error) {
	for _, d := range f.discoverers {
		s, err := d.Discover(f, t)
		if errors.Is(err, ErrNotApplicable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := checkShape(s); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, &DiscoveryError{Type: t, Message: "no applicable discoverer"}
}

// ClearCache drops every cached mapper.  A registry holding f.Entry
// keeps the mappers it already resolved until its own
// serialize.Registry.ClearCache.
func (f *Factory) ClearCache() {
	f.cache.Clear()
}

// Entry returns a registry entry serving struct types through f.
func (f *Factory) Entry() serialize.Entry {
	return serialize.Match("struct", serialize.Kinds(reflect.Struct),
		func(_ ir.Resolver, t reflect.Type) (ir.Serializer, error) {
			m, err := f.Get(t)
			if err != nil {
				return nil, err
			}
			return m, nil
		})
}
