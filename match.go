package cfgtree

import (
	"github.com/signadot/cfgtree/debug"
	"github.com/signadot/cfgtree/ir"
)

// Match reports whether doc contains pattern.  Maps match when every
// key of pattern is present in doc with a matching value; lists match
// element-wise with equal lengths; a null pattern matches anything.
// Scalars match by value, numbers regardless of int or float storage.
// Comments are ignored.
func Match(doc, pattern *ir.Node) bool {
	if debug.Match() {
		debug.Logf("match %s at %s\n", pattern.Type(), pattern.Path())
	}
	if pattern.IsNull() {
		return true
	}
	if doc.Type() != pattern.Type() {
		return false
	}
	switch pattern.Type() {
	case ir.MapType:
		for k, pc := range pattern.All() {
			if !doc.HasChild(k.Name()) {
				return false
			}
			if !Match(doc.Node(k.Name()), pc) {
				return false
			}
		}
		return true
	case ir.ListType:
		if doc.Len() != pattern.Len() {
			return false
		}
		dl := doc.ChildrenList()
		for i, pc := range pattern.ChildrenList() {
			if !Match(dl[i], pc) {
				return false
			}
		}
		return true
	}
	return ir.Equal(doc, pattern)
}

// Trim returns a copy of doc restricted to the keys present in
// pattern.  For lists, each pattern element keeps the first unused
// doc element it matches.
func Trim(pattern, doc *ir.Node) *ir.Node {
	res := ir.NewRoot(doc.Options())
	res.SetNode(trim(pattern, doc))
	return res
}

func trim(pattern, doc *ir.Node) *ir.Node {
	switch {
	case pattern.IsMap() && doc.IsMap():
		res := ir.NewRoot(doc.Options()).SetEmptyMap()
		for k, dc := range doc.All() {
			if !pattern.HasChild(k.Name()) {
				continue
			}
			res.Node(k.Name()).SetNode(trim(pattern.Node(k.Name()), dc))
		}
		copyComment(res, doc)
		return res
	case pattern.IsList() && doc.IsList():
		res := ir.NewRoot(doc.Options()).SetEmptyList()
		dl := doc.ChildrenList()
		used := make([]bool, len(dl))
		for _, pc := range pattern.ChildrenList() {
			for i, dc := range dl {
				if used[i] || !Match(dc, pc) {
					continue
				}
				res.AppendListNode().SetNode(trim(pc, dc))
				used[i] = true
				break
			}
		}
		copyComment(res, doc)
		return res
	}
	return doc.Copy()
}

func copyComment(dst, src *ir.Node) {
	if c, ok := src.Comment(); ok {
		dst.SetComment(c)
	}
}
