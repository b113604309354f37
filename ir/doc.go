// Package ir holds the configuration tree.
//
// A tree is made of [Node]s.  Each node holds one value: null, a
// scalar (bool, number, string or bytes), a list of nodes, or a map
// from string keys to nodes which keeps insertion order.  Nodes may
// carry a comment which is kept across value changes.
//
// Navigating to a path which does not exist with [Node.Node] returns
// a virtual node.  Virtual nodes are not part of the tree until a
// value or comment is assigned, at which point they and their
// virtual ancestors are materialized:
//
//	root := ir.NewRoot(nil)
//	port := root.Node("server", "port") // root is still null
//	port.SetInt64(8080)                 // root is now {server: {port: 8080}}
//
// Typed access goes through the [Serializer] resolved from the tree's
// [Options]; see [Node.Get], [Node.Set] and [As].
package ir
