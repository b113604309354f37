package ir

import (
	"iter"
	"maps"
	"slices"
)

// Node is a position in a configuration tree.  It holds a value
// cell, owns its children and keeps a back-reference to its parent.
//
// A node obtained by navigating to a path that does not exist is
// virtual: it has a parent and a key but is not stored in the
// parent until a value or comment is assigned to it.
type Node struct {
	key        Key
	parent     *Node
	opts       *Options
	val        value
	comment    string
	hasComment bool
	virtual    bool
}

// NewRoot returns an empty (null) root node.  A nil opts means
// DefaultOptions().
func NewRoot(opts *Options) *Node {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Node{opts: opts}
}

func (n *Node) Key() Key { return n.key }
func (n *Node) Parent() *Node { return n.parent }
func (n *Node) Options() *Options { return n.opts }
func (n *Node) IsVirtual() bool { return n.virtual }
func (n *Node) IsMap() bool { return n.Type() == MapType }
func (n *Node) IsList() bool { return n.Type() == ListType }
func (n *Node) IsNull() bool { return n.Type() == NullType }
func (n *Node) IsScalar() bool {
	t := n.Type()
	return t != NullType && t.IsLeaf()
}

// Type returns the variant held by n.  Virtual nodes are null.
func (n *Node) Type() Type {
	if n.virtual {
		return NullType
	}
	return n.val.typ
}

// Root follows parent references to the top of the tree.
func (n *Node) Root() *Node {
	x := n
	for x.parent != nil {
		x = x.parent
	}
	return x
}

// Node returns the descendant of n at path, creating virtual nodes
// for segments which do not exist.  See KeyOf for accepted segment
// types.
func (n *Node) Node(path ...any) *Node {
	cur := n
	for _, p := range path {
		cur = cur.child(KeyOf(p))
	}
	return cur
}

// HasChild reports whether a non-virtual node exists at path.
func (n *Node) HasChild(path ...any) bool {
	if len(path) == 0 {
		return false
	}
	return !n.Node(path...).virtual
}

func (n *Node) child(k Key) *Node {
	if c := n.lookup(k); c != nil {
		return c
	}
	return &Node{key: k, parent: n, opts: n.opts, virtual: true}
}

// lookup returns the stored child at k, or nil.
func (n *Node) lookup(k Key) *Node {
	if n.virtual {
		return nil
	}
	switch n.val.typ {
	case MapType:
		return n.val.m[k.String()]
	case ListType:
		if k.isIndex && k.index >= 0 && k.index < len(n.val.list) {
			return n.val.list[k.index]
		}
	}
	return nil
}

// AppendListNode returns a virtual node which is appended to n's
// list when assigned.
func (n *Node) AppendListNode() *Node {
	return &Node{key: Index(-1), parent: n, opts: n.opts, virtual: true}
}

// attach materializes n and its virtual ancestors.
func (n *Node) attach() {
	if !n.virtual {
		return
	}
	p := n.parent
	p.attach()
	if old := p.lookup(n.key); old != nil && old != n {
		// another handle materialized this position first; take
		// over what it holds.
		n.adopt(old)
	}
	p.insertChild(n)
	n.virtual = false
}

// adopt moves old's value and comment into n.
func (n *Node) adopt(old *Node) {
	n.val = old.val
	for _, c := range n.val.children() {
		c.parent = n
	}
	old.val = value{}
	if !n.hasComment && old.hasComment {
		n.comment, n.hasComment = old.comment, true
	}
}

func (n *Node) insertChild(c *Node) {
	k := c.key
	if k.isIndex && n.val.typ != MapType {
		if n.val.typ != ListType {
			n.replaceValue(emptyList())
		}
		idx := k.index
		if idx < 0 {
			idx = len(n.val.list)
		}
		for len(n.val.list) < idx {
			pad := &Node{key: Index(len(n.val.list)), parent: n, opts: n.opts}
			n.val.list = append(n.val.list, pad)
		}
		if idx == len(n.val.list) {
			n.val.list = append(n.val.list, c)
			c.key = Index(idx)
			return
		}
		if old := n.val.list[idx]; old != c {
			old.parent = nil
		}
		n.val.list[idx] = c
		c.key = Index(idx)
		return
	}
	name := k.String()
	if n.val.typ != MapType {
		n.replaceValue(emptyMap())
	}
	if old, ok := n.val.m[name]; ok {
		if old != c {
			old.parent = nil
		}
	} else {
		n.val.keys = append(n.val.keys, name)
	}
	n.val.m[name] = c
	c.key = Field(name)
}

// replaceValue swaps n's cell for v, detaching children of the old
// cell.  Children of v are reparented to n.
func (n *Node) replaceValue(v value) {
	for _, c := range n.val.children() {
		if c.parent == n {
			c.parent = nil
		}
	}
	n.val = v
	for i, c := range v.children() {
		c.parent = n
		c.opts = n.opts
		if v.typ == ListType {
			c.key = Index(i)
		}
	}
}

// assign materializes n and stores v.
func (n *Node) assign(v value) *Node {
	n.attach()
	n.replaceValue(v)
	return n
}

// detach removes n's value from the tree.  A non-root node becomes
// virtual again, a root becomes null.  A detached map entry keeps its
// key.  A detached list element appends on its next write, since the
// later elements have shifted into its index.
func (n *Node) detach() {
	if n.parent == nil {
		n.virtual = false
		n.replaceValue(value{})
		return
	}
	if n.virtual {
		return
	}
	p := n.parent
	p.removeChild(n)
	n.replaceValue(value{})
	if n.key.isIndex {
		n.key = Index(-1)
	}
	n.virtual = true
}

// RemoveChild removes the child at k from n.  The removed child
// becomes a standalone root.  Later list elements shift down.
func (n *Node) RemoveChild(k any) bool {
	c := n.lookup(KeyOf(k))
	if c == nil {
		return false
	}
	n.removeChild(c)
	c.parent = nil
	return true
}

func (n *Node) removeChild(c *Node) {
	switch n.val.typ {
	case MapType:
		name := c.key.String()
		delete(n.val.m, name)
		n.val.keys = slices.DeleteFunc(n.val.keys, func(k string) bool { return k == name })
	case ListType:
		i := c.key.index
		n.val.list = slices.Delete(n.val.list, i, i+1)
		for j := i; j < len(n.val.list); j++ {
			n.val.list[j].key = Index(j)
		}
	}
}

// Len returns the number of children.
func (n *Node) Len() int {
	if n.virtual {
		return 0
	}
	switch n.val.typ {
	case ListType:
		return len(n.val.list)
	case MapType:
		return len(n.val.keys)
	}
	return 0
}

// Keys returns the map keys of n in the order given by the
// options' MapOrder.  It is empty unless n is a map.
func (n *Node) Keys() []string {
	if n.Type() != MapType {
		return []string{}
	}
	res := slices.Clone(n.val.keys)
	if n.opts.MapOrder() == SortedOrder {
		slices.Sort(res)
	}
	return res
}

// ChildrenMap returns a snapshot of the children of a map node.
// It is empty unless n is a map.
func (n *Node) ChildrenMap() map[string]*Node {
	if n.Type() != MapType {
		return map[string]*Node{}
	}
	return maps.Clone(n.val.m)
}

// ChildrenList returns a snapshot of the children of a list node.
// It is empty unless n is a list.
func (n *Node) ChildrenList() []*Node {
	if n.Type() != ListType {
		return []*Node{}
	}
	return slices.Clone(n.val.list)
}

// All iterates over the children of n, in key order for maps.
func (n *Node) All() iter.Seq2[Key, *Node] {
	return func(yield func(Key, *Node) bool) {
		switch n.Type() {
		case ListType:
			for _, c := range n.ChildrenList() {
				if !yield(c.key, c) {
					return
				}
			}
		case MapType:
			m := n.val.m
			for _, k := range n.Keys() {
				if !yield(Field(k), m[k]) {
					return
				}
			}
		}
	}
}

// Visit calls f on n and its descendants, once before (isPost false)
// and once after (isPost true) the children.  Children are visited
// only if the pre call returns true.
func (n *Node) Visit(f func(n *Node, isPost bool) (bool, error)) error {
	descend, err := f(n, false)
	if err != nil {
		return err
	}
	if descend {
		for _, c := range n.val.children() {
			if err := c.Visit(f); err != nil {
				return err
			}
		}
	}
	_, err = f(n, true)
	return err
}

// Copy returns a deep copy of n as a new root sharing n's options.
func (n *Node) Copy() *Node {
	return copyNode(n, n.opts)
}

func copyNode(src *Node, opts *Options) *Node {
	dst := &Node{opts: opts, comment: src.comment, hasComment: src.hasComment}
	if src.virtual {
		return dst
	}
	switch src.val.typ {
	case ListType:
		dst.val = emptyList()
		for i, c := range src.val.list {
			cc := copyNode(c, opts)
			cc.key = Index(i)
			cc.parent = dst
			dst.val.list = append(dst.val.list, cc)
		}
	case MapType:
		dst.val = emptyMap()
		for _, k := range src.val.keys {
			cc := copyNode(src.val.m[k], opts)
			cc.key = Field(k)
			cc.parent = dst
			dst.val.keys = append(dst.val.keys, k)
			dst.val.m[k] = cc
		}
	case BytesType:
		dst.val = bytesValue(slices.Clone(src.val.bytes))
	default:
		dst.val = src.val
	}
	return dst
}

// SetNode replaces n's value with a deep copy of src's.  src's
// comment is copied when it has one.
func (n *Node) SetNode(src *Node) *Node {
	if src == nil || src.virtual {
		n.detach()
		return n
	}
	cp := copyNode(src, n.opts)
	n.assign(cp.val)
	if cp.hasComment {
		n.comment, n.hasComment = cp.comment, true
	}
	return n
}

func (n *Node) SetNull() *Node { return n.assign(value{}) }
func (n *Node) SetBool(b bool) *Node { return n.assign(boolValue(b)) }
func (n *Node) SetInt64(i int64) *Node { return n.assign(numberValue(Int(i))) }
func (n *Node) SetFloat64(f float64) *Node { return n.assign(numberValue(Float(f))) }
func (n *Node) SetNumber(x Number) *Node { return n.assign(numberValue(x)) }
func (n *Node) SetString(s string) *Node { return n.assign(stringValue(s)) }
func (n *Node) SetBytes(b []byte) *Node { return n.assign(bytesValue(slices.Clone(b))) }

// SetEmptyList replaces n's value with an empty list.
func (n *Node) SetEmptyList() *Node { return n.assign(emptyList()) }

// SetEmptyMap replaces n's value with an empty map.
func (n *Node) SetEmptyMap() *Node { return n.assign(emptyMap()) }

// Comment returns n's comment and whether it has one.
func (n *Node) Comment() (string, bool) {
	return n.comment, n.hasComment
}

// SetComment sets n's comment.  A virtual node is materialized
// with a null value so that the comment is part of the tree.
func (n *Node) SetComment(c string) *Node {
	n.attach()
	n.comment, n.hasComment = c, true
	return n
}

// CommentIfAbsent sets the comment unless n already has one, and
// reports whether it did.
func (n *Node) CommentIfAbsent(c string) bool {
	if n.hasComment {
		return false
	}
	n.SetComment(c)
	return true
}

func (n *Node) RemoveComment() *Node {
	n.comment, n.hasComment = "", false
	return n
}
