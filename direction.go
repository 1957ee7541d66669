package dataflow

// direction is the sealed extension point describing how the solver
// interprets "incoming" vs "outgoing" edges, and which end of the graph is
// the seed. Exactly two implementations exist in this package; the
// unexported sealed method prevents any other package from adding a third.
//
// The five direction-dependent questions mirror spec.md §4.1 exactly.
// boundaryFact and pin handle the seed node's boundary condition: pin
// writes the construction-time seed fact onto the seed's input side once,
// at initialization; boundaryFact reads it back on every later visit to
// the seed so trans is always applied to that fixed boundary value rather
// than to a join over the seed's (usually nonexistent) real predecessors.
// assign itself is uniform across every node, seed included, exactly as
// spec.md §4.3 states — see SPEC_FULL.md §5.
type direction[ID comparable, N Node[ID], G Graph[ID, N], F comparable] interface {
	// seedID returns the node whose input side is pinned: the entry for a
	// forward problem, the exit for a backward one.
	seedID(g G) ID

	// joinSources returns the ids whose joinFact values are combined to
	// produce this node's joined input: predecessors for forward,
	// successors for backward.
	joinSources(node N) []ID

	// dirtyTargets returns the ids to re-enqueue when this node's
	// joinFact value changes: successors for forward, predecessors for
	// backward.
	dirtyTargets(node N) []ID

	// joinFact projects the side of info that is compared for
	// convergence and fed to downstream joins: after for forward, before
	// for backward.
	joinFact(info NodeInfo[F]) F

	// boundaryFact projects the side of info that holds the seed's fixed
	// boundary condition: before for forward, after for backward. Only
	// ever read for the seed node.
	boundaryFact(info NodeInfo[F]) F

	// assign commits a freshly computed (joined, transd) pair into info.
	// Used for every node, including the seed.
	assign(info *NodeInfo[F], joined, transd F)

	// pin sets the seed node's boundary side at initialization.
	pin(info *NodeInfo[F], fact F)

	sealed()
}

type forwardDirection[ID comparable, N Node[ID], G Graph[ID, N], F comparable] struct{}

func (forwardDirection[ID, N, G, F]) seedID(g G) ID { return g.Entry() }

func (forwardDirection[ID, N, G, F]) joinSources(node N) []ID { return node.Preds() }

func (forwardDirection[ID, N, G, F]) dirtyTargets(node N) []ID { return node.Succs() }

func (forwardDirection[ID, N, G, F]) joinFact(info NodeInfo[F]) F { return info.After }

func (forwardDirection[ID, N, G, F]) boundaryFact(info NodeInfo[F]) F { return info.Before }

func (forwardDirection[ID, N, G, F]) assign(info *NodeInfo[F], joined, transd F) {
	info.Before = joined
	info.After = transd
}

func (forwardDirection[ID, N, G, F]) pin(info *NodeInfo[F], fact F) {
	info.Before = fact
}

func (forwardDirection[ID, N, G, F]) sealed() {}

type backwardDirection[ID comparable, N Node[ID], G Graph[ID, N], F comparable] struct{}

func (backwardDirection[ID, N, G, F]) seedID(g G) ID { return g.Exit() }

func (backwardDirection[ID, N, G, F]) joinSources(node N) []ID { return node.Succs() }

func (backwardDirection[ID, N, G, F]) dirtyTargets(node N) []ID { return node.Preds() }

func (backwardDirection[ID, N, G, F]) joinFact(info NodeInfo[F]) F { return info.Before }

func (backwardDirection[ID, N, G, F]) boundaryFact(info NodeInfo[F]) F { return info.After }

func (backwardDirection[ID, N, G, F]) assign(info *NodeInfo[F], joined, transd F) {
	info.Before = transd
	info.After = joined
}

func (backwardDirection[ID, N, G, F]) pin(info *NodeInfo[F], fact F) {
	info.After = fact
}

func (backwardDirection[ID, N, G, F]) sealed() {}

// directionKind tags which direction an Analyzer was built for. Analyzer
// itself is not parameterised over the graph type G (so that G can be
// inferred from the graph argument to Solve instead of demanded explicitly
// at construction), so it cannot hold a direction[ID,N,G,F] value directly;
// Solve reconstructs the right strategy from the tag once G is known.
type directionKind uint8

const (
	kindForward directionKind = iota
	kindBackward
)
