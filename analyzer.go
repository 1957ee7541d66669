package dataflow

import (
	"fmt"

	"go.uber.org/zap"
)

// settings holds the pieces of an Analyzer's construction that don't
// depend on the Fact/Node/Graph type parameters, so they can be supplied
// through plain functional options instead of generic ones.
type settings struct {
	logger  *zap.Logger
	seedAll bool
}

func defaultSettings() settings {
	return settings{logger: zap.NewNop()}
}

// Option configures an Analyzer at construction time.
type Option func(*settings)

// WithLogger attaches a structured logger. The solver emits Debug-level
// spans for solve start/end and per-iteration worklist activity; it never
// logs above Debug, since the engine itself has no failure modes of its
// own (spec.md §7).
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAllNodesSeeded seeds the worklist with every id in the graph instead
// of only the direction's seed id, so that nodes unreachable from the seed
// under the direction's traversal still receive an entry in the result
// (spec.md §4.3 "Unreachable nodes", §9 open question). The canonical
// behavior — seed-only — remains the default.
func WithAllNodesSeeded() Option {
	return func(s *settings) {
		s.seedAll = true
	}
}

// Analyzer is the generic fixpoint solver. It is constructed once, via
// NewForward or NewBackward, and may be applied to many graphs: Solve
// resets its own info table on every call but the Analyzer's top fact,
// seed fact, transfer function, and join function persist across calls.
//
// Analyzer is deliberately not parameterised over a graph type: no graph
// is supplied at construction (spec.md §4.2), and threading an unused
// graph type parameter through would force callers to name it explicitly
// with no value obtained in return. Solve takes the graph as an ordinary
// argument and infers its type from it instead.
type Analyzer[ID comparable, N Node[ID], F comparable] struct {
	top      F
	seedFact F
	hasSeed  bool
	trans    TransferFunc[N, F]
	join     JoinFunc[F]
	dir      directionKind
	settings settings
}

// ForwardAnalyzer wraps an Analyzer built with NewForward, exposing
// WithEntryFact. Calling WithExitFact on it is a compile error: the two
// analyzer flavors are distinct types precisely so the wrong builder call
// fails at compile time instead of needing a runtime diagnostic
// (spec.md §7, "invalid direction usage").
type ForwardAnalyzer[ID comparable, N Node[ID], F comparable] struct {
	*Analyzer[ID, N, F]
}

// BackwardAnalyzer wraps an Analyzer built with NewBackward, exposing
// WithExitFact.
type BackwardAnalyzer[ID comparable, N Node[ID], F comparable] struct {
	*Analyzer[ID, N, F]
}

// NewForward constructs a forward-problem analyzer: before is the join of
// predecessors' after facts, after is trans(node, before). top is the
// lattice's join identity; it is also the seed's entry fact unless
// overridden with WithEntryFact.
func NewForward[ID comparable, N Node[ID], F comparable](
	top F,
	trans TransferFunc[N, F],
	join JoinFunc[F],
	opts ...Option,
) *ForwardAnalyzer[ID, N, F] {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &ForwardAnalyzer[ID, N, F]{
		Analyzer: &Analyzer[ID, N, F]{
			top:      top,
			seedFact: top,
			trans:    trans,
			join:     join,
			dir:      kindForward,
			settings: s,
		},
	}
}

// NewBackward constructs a backward-problem analyzer: after is the join of
// successors' before facts, before is trans(node, after). top is the
// lattice's join identity; it is also the seed's exit fact unless
// overridden with WithExitFact.
func NewBackward[ID comparable, N Node[ID], F comparable](
	top F,
	trans TransferFunc[N, F],
	join JoinFunc[F],
	opts ...Option,
) *BackwardAnalyzer[ID, N, F] {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &BackwardAnalyzer[ID, N, F]{
		Analyzer: &Analyzer[ID, N, F]{
			top:      top,
			seedFact: top,
			trans:    trans,
			join:     join,
			dir:      kindBackward,
			settings: s,
		},
	}
}

// WithEntryFact overrides the boundary fact pinned onto the entry node's
// before side (spec.md §4.2). Without it, the entry's pinned side defaults
// to top (spec.md §8 Scenario 5).
func (a *ForwardAnalyzer[ID, N, F]) WithEntryFact(fact F) *ForwardAnalyzer[ID, N, F] {
	a.seedFact = fact
	a.hasSeed = true
	return a
}

// WithExitFact overrides the boundary fact pinned onto the exit node's
// after side. Without it, the exit's pinned side defaults to top.
func (a *BackwardAnalyzer[ID, N, F]) WithExitFact(fact F) *BackwardAnalyzer[ID, N, F] {
	a.seedFact = fact
	a.hasSeed = true
	return a
}

// Solve runs the worklist fixpoint loop over g and returns the NodeInfo
// computed for every node it visited. It is a free function rather than a
// method so that the graph type G is inferred from g instead of having to
// be named explicitly wherever an Analyzer is constructed.
//
// The algorithm is spec.md §4.3 verbatim, with the seed-pinning resolution
// documented in SPEC_FULL.md §5: the seed node's boundary side (the side
// joinFact does not read) is set once at initialization via pin and never
// reassigned; on every visit the seed's joined input is read back from that
// pinned boundary instead of joined over the direction's join sources,
// and its other side is recomputed via the same uniform assign used for
// every other node.
func Solve[ID comparable, N Node[ID], G Graph[ID, N], F comparable](a *Analyzer[ID, N, F], g G) map[ID]NodeInfo[F] {
	switch a.dir {
	case kindBackward:
		return solveDirected[ID, N, G, F](a, g, backwardDirection[ID, N, G, F]{})
	default:
		return solveDirected[ID, N, G, F](a, g, forwardDirection[ID, N, G, F]{})
	}
}

func solveDirected[ID comparable, N Node[ID], G Graph[ID, N], F comparable](
	a *Analyzer[ID, N, F],
	g G,
	dir direction[ID, N, G, F],
) map[ID]NodeInfo[F] {
	log := a.settings.logger

	table := make(map[ID]NodeInfo[F])
	seed := dir.seedID(g)

	seedFact := a.top
	if a.hasSeed {
		seedFact = a.seedFact
	}
	seedInfo := NodeInfo[F]{Before: a.top, After: a.top}
	dir.pin(&seedInfo, seedFact)
	table[seed] = seedInfo

	wl := newWorklist[ID](1)
	if a.settings.seedAll {
		for _, id := range g.IDs() {
			wl.push(id)
		}
	} else {
		wl.push(seed)
	}

	log.Debug("dataflow: solve starting",
		zap.String("direction", directionName(a.dir)),
		zap.Bool("seed_all", a.settings.seedAll),
	)

	for !wl.empty() {
		id := wl.pop()
		node, ok := g.Get(id)
		if !ok {
			panic(fmt.Sprintf("dataflow: graph.Get returned no node for id %v produced by the graph itself", id))
		}

		var joined F
		if id == seed {
			joined = dir.boundaryFact(infoOrDefault(a, table, id))
		} else {
			joined = computeJoined(a, table, dir, dir.joinSources(node))
		}
		transd := a.trans(node, joined)

		cur := infoOrDefault(a, table, id)
		prev := dir.joinFact(cur)

		changed := prev != transd
		if changed {
			for _, target := range dir.dirtyTargets(node) {
				wl.push(target)
			}
		}

		info := table[id]
		dir.assign(&info, joined, transd)
		table[id] = info

		log.Debug("dataflow: visited node",
			zap.Any("id", id),
			zap.Bool("is_seed", id == seed),
			zap.Bool("changed", changed),
		)
	}

	log.Debug("dataflow: solve converged", zap.Int("nodes", len(table)))
	return table
}

// computeJoined gathers joinFact(info[m]) for each m in sources, using top
// as the default for any source not yet present in the table, and inserts
// that default so later visits to m see it (spec.md §4.3 step 4).
func computeJoined[ID comparable, N Node[ID], G Graph[ID, N], F comparable](
	a *Analyzer[ID, N, F],
	table map[ID]NodeInfo[F],
	dir direction[ID, N, G, F],
	sources []ID,
) F {
	facts := make([]F, 0, len(sources))
	for _, m := range sources {
		info := infoOrDefault(a, table, m)
		facts = append(facts, dir.joinFact(info))
	}
	return a.join(facts)
}

func infoOrDefault[ID comparable, N Node[ID], F comparable](a *Analyzer[ID, N, F], table map[ID]NodeInfo[F], id ID) NodeInfo[F] {
	info, ok := table[id]
	if !ok {
		info = NodeInfo[F]{Before: a.top, After: a.top}
		table[id] = info
	}
	return info
}

func directionName(d directionKind) string {
	if d == kindBackward {
		return "backward"
	}
	return "forward"
}
