package dataflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dataflow"
)

// Liveness: finds variables that may be used after a given point. A
// backward problem:
//
//	trans(b) = union(gen(b), in(b) - kill(b))
//	join     = union
//
// gen(b) is the variables b uses, kill(b) the variables b reassigns.

func livenessTrans(b Block, fact variables) variables {
	used := vars()
	killed := vars()

	for _, stmt := range b.Stmts {
		switch stmt.kind {
		case stmtDeclare:
		case stmtConstAssign:
			killed = killed.with(stmt.dst)
		case stmtVarAssign:
			killed = killed.with(stmt.dst)
			used = used.with(stmt.src)
		}
	}

	fact.forEach(func(v Variable) {
		if !killed.has(v) {
			used = used.with(v)
		}
	})

	return used
}

func livenessJoin(facts []variables) variables {
	return unionAll(facts)
}

func newLivenessAnalyzer() *dataflow.BackwardAnalyzer[BlockID, Block, variables] {
	return dataflow.NewBackward[BlockID, Block](vars(), livenessTrans, livenessJoin)
}

// one_branch:
//
//	      +-1-----+
//	      | a = 0 |
//	      | b = 1 |
//	      +-------+
//	       |     |
//	       v     v
//	+-2-----+   +-3-----+
//	| c = b |   | c = a |
//	+-------+   +-------+
//	       |     |
//	       v     v
//	      +-4-----+
//	      | d = a |
//	      +-------+
func TestLivenessOneBranch(t *testing.T) {
	a, b, c, d := Variable(0), Variable(1), Variable(2), Variable(3)

	g := newCFG(block(1, nil, []BlockID{2, 3}, constAssign(a, 0), constAssign(b, 1)))
	g.insert(block(2, []BlockID{1}, []BlockID{4}, varAssign(c, b)))
	g.insert(block(3, []BlockID{1}, []BlockID{4}, varAssign(c, a)))
	g.insertExit(block(4, []BlockID{2, 3}, nil, varAssign(d, a)))

	res := dataflow.Solve[BlockID, Block, *CFG](newLivenessAnalyzer().Analyzer, g)

	want := map[BlockID]dataflow.NodeInfo[variables]{
		1: {Before: vars(), After: vars(a, b)},
		2: {Before: vars(a, b), After: vars(a)},
		3: {Before: vars(a), After: vars(a)},
		4: {Before: vars(a), After: vars()},
	}
	assert.Equal(t, want, res)
}

// one_loop:
//
//	+-1-----+
//	| a = 0 |
//	+-------+
//	    |
//	    v
//	+-2-----+
//	| b = 1 |<-+
//	| c = a |  |
//	+-------+  |
//	  |   |    |
//	  |   +----+
//	  v
//	+-3-----+
//	| d = a |
//	| e = b |
//	+-------+
func TestLivenessOneLoop(t *testing.T) {
	a, b := Variable(0), Variable(1)

	g := newCFG(block(1, nil, []BlockID{2}, constAssign(a, 0)))
	g.insert(block(2, []BlockID{1, 2}, []BlockID{2, 3}, constAssign(b, 1), varAssign(Variable(2), a)))
	g.insertExit(block(3, []BlockID{2}, nil, varAssign(Variable(3), a), varAssign(Variable(4), b)))

	res := dataflow.Solve[BlockID, Block, *CFG](newLivenessAnalyzer().Analyzer, g)

	want := map[BlockID]dataflow.NodeInfo[variables]{
		1: {Before: vars(), After: vars(a)},
		2: {Before: vars(a), After: vars(a, b)},
		3: {Before: vars(a, b), After: vars()},
	}
	assert.Equal(t, want, res)
}

// branch_and_loop is a ten-block CFG mixing a diamond, a loop whose header
// is entered from both arms of the diamond and closed by one back edge, and
// a tail block — large enough to need more than one full worklist pass to
// converge.
func TestLivenessBranchAndLoop(t *testing.T) {
	k, a, x, b := Variable(0), Variable(1), Variable(2), Variable(3)

	g := newCFG(block(1, nil, []BlockID{2, 3}, constAssign(k, 2)))
	g.insert(block(2, []BlockID{1}, []BlockID{4}, varAssign(a, k)))
	g.insert(block(3, []BlockID{1}, []BlockID{5}, varAssign(a, k)))
	g.insert(block(4, []BlockID{2}, []BlockID{6}, constAssign(x, 5)))
	g.insert(block(5, []BlockID{3}, []BlockID{6}, constAssign(x, 8)))
	g.insert(block(6, []BlockID{4, 5, 9}, []BlockID{7, 10}, varAssign(k, a)))
	g.insert(block(7, []BlockID{6}, []BlockID{8}, constAssign(b, 2)))
	g.insert(block(8, []BlockID{7}, []BlockID{9}, varAssign(x, a), varAssign(Variable(4), b)))
	g.insert(block(9, []BlockID{8}, []BlockID{6}, varAssign(k, k)))
	g.insertExit(block(10, []BlockID{6}, nil, varAssign(Variable(5), a), varAssign(Variable(6), x)))

	res := dataflow.Solve[BlockID, Block, *CFG](newLivenessAnalyzer().Analyzer, g)

	want := map[BlockID]dataflow.NodeInfo[variables]{
		1:  {Before: vars(), After: vars(k)},
		2:  {Before: vars(k), After: vars(a)},
		3:  {Before: vars(k), After: vars(a)},
		4:  {Before: vars(a), After: vars(a, x)},
		5:  {Before: vars(a), After: vars(a, x)},
		6:  {Before: vars(a, x), After: vars(k, a, x)},
		7:  {Before: vars(a, k), After: vars(a, k, b)},
		8:  {Before: vars(a, k, b), After: vars(a, k, x)},
		9:  {Before: vars(a, k, x), After: vars(a, x)},
		10: {Before: vars(a, x), After: vars()},
	}
	assert.Equal(t, want, res)
}
