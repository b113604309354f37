// Package reference holds a live configuration tree together with its
// typed view.  A Reference is reloaded by merging a new tree over its
// defaults; subscribers are told about every successful reload.
//
//	ref, err := reference.Open[Config]("app.yaml", reference.WithDefaults(defaults))
//	if err != nil {
//		return err
//	}
//	cancel := ref.Subscribe(func(c reference.Change) { ... })
//	defer cancel()
//	go reference.Watch(ctx, ref, "app.yaml")
package reference

import (
	"sort"
	"sync"

	"github.com/signadot/cfgtree"
	"github.com/signadot/cfgtree/format/codecs"
	"github.com/signadot/cfgtree/ir"
)

// Change describes a reload.  Old and New are snapshots which the
// receiver may keep.  Changed is false when the content and comments
// of the tree are unchanged.
type Change struct {
	Old     *ir.Node
	New     *ir.Node
	Changed bool
}

type config struct {
	options  *ir.Options
	defaults *ir.Node
	merge    []ir.MergeOption
}

type Option func(*config)

// WithOptions sets the options of the held tree.  The default is
// cfgtree.DefaultOptions().
func WithOptions(o *ir.Options) Option {
	return func(c *config) {
		c.options = o
	}
}

// WithDefaults sets the tree every load is merged over.
func WithDefaults(n *ir.Node) Option {
	return func(c *config) {
		c.defaults = n
	}
}

// WithMergeOptions sets the options used when merging a loaded tree
// over the defaults.
func WithMergeOptions(opts ...ir.MergeOption) Option {
	return func(c *config) {
		c.merge = opts
	}
}

// Reference is safe for concurrent use.
type Reference[T any] struct {
	cfg config

	// serializes writers and their notifications
	wmu sync.Mutex

	mu    sync.RWMutex
	node  *ir.Node
	value T
	subs  map[int]func(Change)
	next  int
}

// New returns a reference to n merged over the defaults.  It fails
// if the result cannot be loaded as a T.
func New[T any](n *ir.Node, opts ...Option) (*Reference[T], error) {
	r := &Reference[T]{subs: map[int]func(Change){}}
	for _, o := range opts {
		o(&r.cfg)
	}
	if r.cfg.options == nil {
		r.cfg.options = cfgtree.DefaultOptions()
	}
	node, value, err := r.build(n)
	if err != nil {
		return nil, err
	}
	r.node, r.value = node, value
	return r, nil
}

// Open reads the file at path, choosing the format by extension, and
// returns a reference to it.
func Open[T any](path string, opts ...Option) (*Reference[T], error) {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.options == nil {
		cfg.options = cfgtree.DefaultOptions()
	}
	n := ir.NewRoot(cfg.options)
	if err := codecs.ReadFile(n, path); err != nil {
		return nil, err
	}
	return New[T](n, opts...)
}

func (r *Reference[T]) build(n *ir.Node) (*ir.Node, T, error) {
	var zero T
	res := ir.NewRoot(r.cfg.options)
	if r.cfg.defaults != nil {
		res.SetNode(r.cfg.defaults)
	}
	if n != nil {
		if err := res.MergeFrom(n, r.cfg.merge...); err != nil {
			return nil, zero, err
		}
	}
	v, err := cfgtree.Load[T](res)
	if err != nil {
		return nil, zero, err
	}
	return res, v, nil
}

// Options returns the options of the held tree.
func (r *Reference[T]) Options() *ir.Options {
	return r.cfg.options
}

// Get returns the typed view.
func (r *Reference[T]) Get() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Node returns a copy of the held tree.
func (r *Reference[T]) Node() *ir.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.node.Copy()
}

// Save writes the held tree into n.
func (r *Reference[T]) Save(n *ir.Node) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n.SetNode(r.node)
}

// Reload merges next over the defaults and replaces the held tree
// and typed view.  On error the reference is unchanged and no
// notification is sent.
func (r *Reference[T]) Reload(next *ir.Node) error {
	r.wmu.Lock()
	defer r.wmu.Unlock()
	node, value, err := r.build(next)
	if err != nil {
		return err
	}
	r.swap(node, value)
	return nil
}

// Set stores v as the new typed view.  The held tree is replaced by
// v serialized; subscribers are notified as for Reload.
func (r *Reference[T]) Set(v T) error {
	r.wmu.Lock()
	defer r.wmu.Unlock()
	node := ir.NewRoot(r.cfg.options)
	if err := cfgtree.Save(v, node); err != nil {
		return err
	}
	r.swap(node, v)
	return nil
}

func (r *Reference[T]) swap(node *ir.Node, value T) {
	r.mu.Lock()
	old := r.node
	r.node, r.value = node, value
	subs := r.subscribers()
	r.mu.Unlock()

	c := Change{Old: old.Copy(), New: node.Copy(), Changed: old.Hash() != node.Hash()}
	for _, f := range subs {
		f(c)
	}
}

// subscribers returns the subscriptions in the order they were made.
func (r *Reference[T]) subscribers() []func(Change) {
	ids := make([]int, 0, len(r.subs))
	for id := range r.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	res := make([]func(Change), len(ids))
	for i, id := range ids {
		res[i] = r.subs[id]
	}
	return res
}

// Subscribe calls f after every successful Reload or Set, and returns
// a function which cancels the subscription.  f must not call Reload
// or Set.
func (r *Reference[T]) Subscribe(f func(Change)) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	r.subs[id] = f
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}
