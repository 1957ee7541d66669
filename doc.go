// Package dataflow is a generic monotone dataflow analysis engine: a
// worklist-driven fixpoint solver for forward and backward problems over
// arbitrary directed graphs.
//
// Clients supply a lattice of facts, a transfer function, and a join
// function; Analyzer iterates to a fixpoint and returns, for every node it
// visited, the fact holding immediately before and immediately after it.
// The worklist starts from the problem's seed and enqueues a node's
// downstream neighbours only when that node's output fact changes, so a
// node reachable from the seed is absent from the result if no change ever
// propagates to it.
//
// The engine does not verify that a client's lattice is actually a lattice,
// nor that its transfer function is monotone. Violating either precondition
// makes non-termination the expected symptom; detecting it is not this
// package's job.
package dataflow
