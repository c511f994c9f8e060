// branchbound: Branch-and-Bound Driver for MILP
// 01   Aug.  6, 2026   Initial version

// Implements docs.go §4.4. Each node is a bound decision layered on top of
// the root Model rather than a mutated Tableau: branching adds a synthetic
// row (Variables["__branch_<v>_<le|ge>_<i>"] = {v: 1}) with a Max
// or Min bound, and every node runs the full Preprocess pipeline fresh.
// This keeps the Simplex engine untouched by bound-tightening and sidesteps
// the negative-RHS/bounded-ratio-test complications that column-bound
// mutation would introduce. Frontier order follows a best-bound-first
// discipline, grounded on the priority-queue style of
// _examples/other_examples/JChinneck-CCLPv7 branch-and-bound notes and
// implemented with container/heap the way the rest of the Go ecosystem
// implements a priority queue.

package lposolve

import (
	"container/heap"
	"math"
	"time"
)

type branchDecision struct {
	varName string
	isMax   bool // true: Max = bound; false: Min = bound
	bound   float64
}

// bbNode is one frontier entry: a chain of branching decisions applied on
// top of the root Model, plus the LP relaxation bound inherited from its
// parent (used to order the frontier and to bound-prune the node before
// its own relaxation is solved).
type bbNode struct {
	decisions  []branchDecision
	parentBound float64
	seq        int // insertion order, used as a deterministic tiebreak
}

type bbFrontier []*bbNode

func (f bbFrontier) Len() int { return len(f) }
func (f bbFrontier) Less(i, j int) bool {
	if f[i].parentBound != f[j].parentBound {
		return f[i].parentBound < f[j].parentBound
	}
	return f[i].seq < f[j].seq
}
func (f bbFrontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *bbFrontier) Push(x interface{}) { *f = append(*f, x.(*bbNode)) }
func (f *bbFrontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

// MILPResult is the outcome of a Branch-and-Bound search (docs.go §4.4).
type MILPResult struct {
	Status     SolveStatus
	X          map[string]float64 // internal variable name -> value
	Z          float64            // in the model's own optimize sign
	Nodes      int
	Iterations int

	// IsIntegral is true iff every integer/binary structural column of the
	// incumbent tableau is within Options.Precision of an integer value
	// (docs.go §4.5). It is only meaningful when X is non-nil.
	IsIntegral bool
}

// applyDecisions returns a clone of root with one synthetic raw-internal
// row/constraint per decision, per this file's header comment.
func applyDecisions(root Model, decisions []branchDecision) Model {
	m := root.clone()
	for i, d := range decisions {
		rowName := branchRowName(i, d)
		m.Variables[rowName] = map[string]float64{d.varName: 1}
		bound := d.bound
		if d.isMax {
			m.Constraints[rowName] = Constraint{Max: &bound}
		} else {
			m.Constraints[rowName] = Constraint{Min: &bound}
		}
	}
	return m
}

func branchRowName(i int, d branchDecision) string {
	suffix := "le"
	if !d.isMax {
		suffix = "ge"
	}
	return "__branch_" + d.varName + "_" + suffix + "_" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// SolveMILP runs Branch-and-Bound over root's integer/binary internal
// variables (docs.go §4.4). It assumes root has already been through
// presolve indirectly (each node calls Preprocess fresh). It returns a
// NumericalFailure error whenever a relaxation's ratio test breaks down
// numerically rather than reporting genuine unboundedness or infeasibility
// (docs.go §7).
func SolveMILP(root Model) (*MILPResult, error) {
	log := Logger("branchbound")
	opt := root.Options
	var deadline time.Time
	if opt.Timeout > 0 {
		deadline = time.Now().Add(opt.Timeout)
	}

	rootTab, rootPl, objConst, err := Preprocess(root)
	if err != nil {
		return &MILPResult{Status: StatusInfeasible}, nil
	}
	rootRes, err := SolveTableau(rootTab, opt, deadline)
	if err != nil {
		return nil, err
	}
	if rootRes.Status != StatusOptimal {
		return &MILPResult{Status: rootRes.Status, Iterations: rootRes.Iterations}, nil
	}

	frontier := &bbFrontier{}
	heap.Init(frontier)
	heap.Push(frontier, &bbNode{parentBound: rootRes.Z, seq: 0})

	seqCounter := 1
	nodesExplored := 0
	totalIterations := rootRes.Iterations

	var incumbentX []float64
	var incumbentTab *Tableau
	incumbentZ := math.Inf(1)
	haveIncumbent := false

	for frontier.Len() > 0 {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return finalizeMILP(root, rootPl, StatusTimedOut, incumbentX, incumbentTab, incumbentZ, haveIncumbent, nodesExplored, totalIterations, objConst), nil
		}

		node := heap.Pop(frontier).(*bbNode)
		if haveIncumbent {
			gap := opt.Tolerance * math.Max(1, math.Abs(incumbentZ))
			if node.parentBound >= incumbentZ-gap {
				continue // bound-pruned
			}
		}

		nodesExplored++
		m := applyDecisions(root, node.decisions)
		tab, _, _, err := Preprocess(m)
		if err != nil {
			continue
		}
		res, err := SolveTableau(tab, opt, deadline)
		if err != nil {
			return nil, err
		}
		totalIterations += res.Iterations

		switch res.Status {
		case StatusInfeasible:
			continue
		case StatusUnbounded:
			if len(node.decisions) == 0 {
				return &MILPResult{Status: StatusUnbounded, Iterations: totalIterations, Nodes: nodesExplored}, nil
			}
			continue
		case StatusCycleDetected, StatusTimedOut:
			return finalizeMILP(root, rootPl, res.Status, incumbentX, incumbentTab, incumbentZ, haveIncumbent, nodesExplored, totalIterations, objConst), nil
		}

		if haveIncumbent {
			gap := opt.Tolerance * math.Max(1, math.Abs(incumbentZ))
			if res.Z >= incumbentZ-gap {
				continue // bound-pruned after solving
			}
		}

		fracVar, fracVal, isInteger := mostFractional(tab, res.X, opt.Precision)
		if isInteger {
			haveIncumbent = true
			incumbentZ = res.Z
			incumbentX = res.X
			incumbentTab = tab
			log.Debug().Float64("z", res.Z).Int("node", nodesExplored).Msg("new incumbent")
			continue
		}

		floorBound := math.Floor(fracVal)
		ceilBound := math.Ceil(fracVal)
		down := append(append([]branchDecision(nil), node.decisions...), branchDecision{varName: fracVar, isMax: true, bound: floorBound})
		up := append(append([]branchDecision(nil), node.decisions...), branchDecision{varName: fracVar, isMax: false, bound: ceilBound})
		heap.Push(frontier, &bbNode{decisions: down, parentBound: res.Z, seq: seqCounter})
		seqCounter++
		heap.Push(frontier, &bbNode{decisions: up, parentBound: res.Z, seq: seqCounter})
		seqCounter++
	}

	if !haveIncumbent {
		return &MILPResult{Status: StatusInfeasible, Iterations: totalIterations, Nodes: nodesExplored}, nil
	}
	return finalizeMILP(root, rootPl, StatusOptimal, incumbentX, incumbentTab, incumbentZ, haveIncumbent, nodesExplored, totalIterations, objConst), nil
}

// finalizeMILP builds a MILPResult from the incumbent's raw solution vector
// and its tableau. pl is the root's PresolveLog: since a Branch-and-Bound
// node only ever adds a Max/Min-bound row (never an Equal or Min==Max
// singleton), the set of presolve-fixed variables is identical at the root
// and at every node, so the one PresolveLog computed for root can be reused
// here instead of solving presolve again per incumbent.
func finalizeMILP(root Model, pl *PresolveLog, status SolveStatus, x []float64, tab *Tableau, z float64, have bool, nodes, iters int, objConst float64) *MILPResult {
	res := &MILPResult{Status: status, Nodes: nodes, Iterations: iters}
	if !have {
		return res
	}
	values := make(map[string]float64, len(tab.Cols)+len(pl.FixedVars))
	for name, idxs := range tab.nameIndex {
		if len(idxs) == 1 {
			values[name] = x[idxs[0]]
			continue
		}
		values[name] = x[idxs[0]] - x[idxs[1]]
	}
	for name, v := range pl.FixedVars {
		values[name] = v
	}
	res.X = values
	sign := 1.0
	if root.OpType == Maximize {
		sign = -1.0
	}
	res.Z = sign*z + objConst
	res.IsIntegral = incumbentIsIntegral(tab, x, root.Options.Precision)
	return res
}

// incumbentIsIntegral reports whether every integer/binary structural
// column of the incumbent tableau sits within precision of an integer
// value (docs.go §4.5). Mirrors the frac/dist test mostFractional uses to
// pick a branching variable, applied here as a pass/fail check instead.
func incumbentIsIntegral(tab *Tableau, x []float64, precision float64) bool {
	if precision <= 0 {
		precision = DefaultOptions().Precision
	}
	for j, col := range tab.Cols {
		if col.Kind != kindStructural || !col.Integer {
			continue
		}
		v := x[j]
		frac := v - math.Floor(v)
		dist := math.Min(frac, 1-frac)
		if dist > precision {
			return false
		}
	}
	return true
}

// mostFractional finds the integer-constrained structural column farthest
// from an integer value, tie-broken by smallest column index (docs.go
// §4.4: "smallest variable index" — column indices are assigned from the
// sorted internalVarNames order, so this tiebreak is deterministic).
func mostFractional(tab *Tableau, x []float64, precision float64) (name string, val float64, isInteger bool) {
	bestDist := -1.0
	bestIdx := -1
	for j, col := range tab.Cols {
		if col.Kind != kindStructural || !col.Integer {
			continue
		}
		v := x[j]
		frac := v - math.Floor(v)
		dist := math.Min(frac, 1-frac)
		if dist <= precision {
			continue
		}
		if dist > bestDist {
			bestDist = dist
			bestIdx = j
		}
	}
	if bestIdx == -1 {
		return "", 0, true
	}
	col := tab.Cols[bestIdx]
	if col.splitOf == "" {
		return col.Name, x[bestIdx], false
	}
	// The most-fractional half's own value only equals the combined
	// unrestricted variable's value when its other half is exactly 0; at a
	// degenerate vertex where both halves are positive, applyDecisions still
	// applies the floor/ceil bound to the combined variable (docs.go §4.2),
	// so branching must floor/ceil the combined pos-neg value, not the raw
	// half-column value.
	idxs := tab.nameIndex[col.splitOf]
	return col.splitOf, x[idxs[0]] - x[idxs[1]], false
}
