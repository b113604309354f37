package ir

import (
	"github.com/signadot/cfgtree/debug"
)

// ListMode selects how lists are merged.
type ListMode int

const (
	// ListReplace replaces the destination list with the source list.
	ListReplace ListMode = iota
	// ListAppend appends source elements to the destination list.
	ListAppend
)

type mergeConfig struct {
	lists  ListMode
	strict bool
}

type MergeOption func(*mergeConfig)

func MergeLists(m ListMode) MergeOption {
	return func(c *mergeConfig) { c.lists = m }
}

// Strict makes container shape mismatches, such as a list merged
// into a map, fail with a *MergeConflictError instead of replacing
// the destination.
func Strict(v bool) MergeOption {
	return func(c *mergeConfig) { c.strict = v }
}

// MergeFrom deep merges other into n.  Maps merge key by key, lists
// are replaced or appended according to MergeLists, and scalars are
// overwritten.  Null values in other, including other itself, leave
// the destination unchanged.  Comments from other are applied where
// n has none.
//
// other is never modified.  Conflicts are checked over the whole
// tree before anything is written, so a failed merge leaves n as it
// was.
func (n *Node) MergeFrom(other *Node, opts ...MergeOption) error {
	if other == nil || other.virtual {
		return nil
	}
	cfg := &mergeConfig{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.strict {
		if err := checkConflicts(n, other, cfg, n.Path()); err != nil {
			if debug.Merge() {
				debug.Logf("merge into %s failed: %v\n", n.Path(), err)
			}
			return err
		}
	}
	mergeInto(n, other, cfg)
	if debug.Merge() {
		debug.Logf("merged %s at %s: %s\n", other, n.Path(), n)
	}
	return nil
}

func checkConflicts(dst, src *Node, cfg *mergeConfig, at Path) error {
	srcType, dstType := src.Type(), dst.Type()
	if srcType == NullType || dstType == NullType {
		return nil
	}
	switch {
	case srcType == MapType && dstType == MapType:
		for _, k := range src.val.keys {
			if err := checkConflicts(dst.child(Field(k)), src.val.m[k], cfg, at.Child(Field(k))); err != nil {
				return err
			}
		}
		return nil
	case srcType == ListType && dstType == ListType:
		return nil
	case srcType.IsLeaf() && dstType.IsLeaf():
		return nil
	}
	return &MergeConflictError{Path: at, Dst: dstType, Src: srcType}
}

func mergeInto(dst, src *Node, cfg *mergeConfig) {
	if src.hasComment && !dst.hasComment {
		dst.SetComment(src.comment)
	}
	switch src.Type() {
	case NullType:
		return
	case MapType:
		if dst.Type() == MapType {
			for _, k := range src.val.keys {
				sc := src.val.m[k]
				if dc := dst.lookup(Field(k)); dc != nil {
					mergeInto(dc, sc, cfg)
					continue
				}
				if sc.IsNull() && !sc.hasComment {
					continue
				}
				dst.child(Field(k)).SetNode(sc)
			}
			return
		}
	case ListType:
		if dst.Type() == ListType && cfg.lists == ListAppend {
			for _, sc := range src.val.list {
				dst.AppendListNode().SetNode(sc)
			}
			return
		}
	}
	comment, hasComment := dst.comment, dst.hasComment
	dst.SetNode(src)
	dst.comment, dst.hasComment = comment, hasComment
}
