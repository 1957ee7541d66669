package dataflow

// Node is a vertex in a directed graph, identified by an opaque, hashable
// id. The engine never dereferences a Node except through Graph.Get; it
// only asks a node for its neighbour ids.
type Node[ID comparable] interface {
	// Preds returns the ids of this node's predecessors.
	Preds() []ID
	// Succs returns the ids of this node's successors.
	Succs() []ID
}

// Graph is a collection of nodes with a distinguished entry and exit id,
// resolvable by id. Implementations are borrowed for the duration of a
// single Solve call and must not be mutated while it runs.
type Graph[ID comparable, N Node[ID]] interface {
	// Get resolves an id to its node. ok is false if no such node exists;
	// the engine treats a lookup miss for an id obtained from the graph
	// itself (via Preds/Succs/IDs) as a malformed graph and panics rather
	// than silently dropping the node (spec.md §7 — a programming error,
	// not a runtime condition).
	Get(id ID) (node N, ok bool)
	// Entry returns the id of the graph's entry node.
	Entry() ID
	// Exit returns the id of the graph's exit node.
	Exit() ID
	// IDs returns every node id in the graph. Only consulted by the
	// WithAllNodesSeeded construction variant; the canonical seed-only
	// Solve never calls it.
	IDs() []ID
}

// NodeInfo is the fact holding immediately before and immediately after a
// node. In a forward problem, Before is the join of predecessors' After
// facts and After is trans(node, Before). In a backward problem the roles
// mirror: Before is trans(node, After) and After is the join of
// successors' Before facts.
type NodeInfo[F comparable] struct {
	Before F
	After  F
}

// TransferFunc computes the fact on a node's output side from the fact on
// its input side. It may close over mutable state; the engine calls it
// sequentially and never concurrently.
type TransferFunc[N any, F comparable] func(node N, fact F) F

// JoinFunc combines the facts flowing in along multiple edges into one.
// It must accept an empty slice and return the lattice's top element — the
// engine may invoke it on no inputs at all for nodes with no join
// neighbours. It is never invoked for the seed node, whose input is read
// from its pinned boundary fact instead.
type JoinFunc[F comparable] func(facts []F) F
