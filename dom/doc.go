// Package dom provides the in-memory document model for structured
// metadata.
//
// # Overview
//
// A document is a tree of nodes rooted at a Metadata. Every node has an
// identity made of a namespace URI and a local name, and may carry
// qualifiers, which are nodes attached to it as annotations rather than
// as children.
//
// # Node Kinds
//
//   - SimpleKind: a string value with an optional type hint and a URI flag
//   - ArrayKind: ordered children in one of three forms (Unordered,
//     Ordered, Alternative); a homogeneous array requires every item to
//     share one kind and, for simple items, one type hint
//   - StructureKind: children unique by (namespace, name)
//
// Array items take the namespace and name of their array when they are
// inserted. Metadata is a structure which additionally owns the
// document's namespace prefix map and feature configuration.
//
// # Ownership
//
// Nodes are reference counted through an embedded handle.Ref. A node
// starts with one reference owned by its creator. Attaching a node as a
// child or qualifier hands that reference to the new parent; detaching
// hands it back. When the last reference is released the node detaches
// from its parent and releases everything it owns.
//
// A node has at most one parent and no node is its own ancestor.
//
// # Paths
//
// Resolve follows an mpath.Path from any node:
//
//	p := mpath.MustParse("dc:subject[2]", md.Prefixes())
//	n, err := dom.Resolve(md.Node, p)
//
// The empty path resolves to the node it starts from.
//
// # Concurrency
//
// Every node has its own lock. A call takes the lock of a parent before
// the lock of a child and never the reverse, so single calls are safe to
// run concurrently. Sequences of calls are not atomic. SetMultiThreaded
// turns locking off for nodes created afterwards.
//
// # Iteration
//
// An Iterator over the children of a composite is invalidated by any
// structural change to that composite. See Iterator.
//
// # Namespaces
//
// With FeatureAutoRegisterNamespaces on, attaching a subtree below a
// Metadata registers every namespace it uses which has no prefix yet.
// With it off, attaching such a subtree fails with
// NameSpacePrefixMapEntryMissing and leaves the tree unchanged.
// Removing a namespace from the document's prefix map fails while any
// node below the root still uses it.
package dom
