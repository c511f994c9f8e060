// solution: Solve Entrypoint and Solution Assembler
// 01   Aug.  6, 2026   Initial version

// This file wires the Preprocessor, Simplex engine, and Branch-and-Bound
// driver together behind the single exported Solve entrypoint described in
// docs.go §6, and reassembles a Standard Form result back into the
// caller's own solution-variable namespace: undoing unrestricted variable
// splitting, reinserting presolve-fixed variables, and projecting every
// declared Variables row through its linear combination.

package lposolve

import (
	"math"
	"sync"
	"time"
)

// Solution is the result of a Solve call (docs.go §6).
type Solution struct {
	Status     SolveStatus
	Feasible   bool
	Bounded    bool
	Result     float64
	Variables  map[string]float64
	Iterations int
	Nodes      int // Branch-and-Bound nodes explored; 0 for a pure LP

	// IsIntegral is meaningful for MILP solutions only (docs.go §4.5): true
	// iff every integer/binary variable of the incumbent is within
	// Options.Precision of an integer value. Always false for a pure LP.
	IsIntegral bool
}

var (
	lastSolvedMu    sync.Mutex
	lastSolvedModel Model
	lastSolvedSet   bool
)

// LastSolvedModel returns the most recently, successfully solved Model and
// whether one has been recorded yet (docs.go §7/§9: recorded only on a
// non-error return from Solve, so a caller can inspect what Solve actually
// ran, including any Options normalization).
func LastSolvedModel() (Model, bool) {
	lastSolvedMu.Lock()
	defer lastSolvedMu.Unlock()
	return lastSolvedModel, lastSolvedSet
}

func recordLastSolved(m Model) {
	lastSolvedMu.Lock()
	defer lastSolvedMu.Unlock()
	lastSolvedModel = m
	lastSolvedSet = true
}

// SolveParams gathers Solve's optional flags (docs.go §6): full includes
// every solution-variable value, including ones below Precision; validate
// runs validateModel before attempting to solve.
type SolveParams struct {
	Full     bool
	Validate bool
}

// Solve is the package's primary entrypoint (docs.go §6). It normalizes
// Options, optionally validates the Model, hands off to an external solver
// when Model.External is set, and otherwise runs the internal Preprocess
// -> Simplex (-> Branch-and-Bound, for MILP) pipeline.
func Solve(m Model, params SolveParams) (Solution, error) {
	log := Logger("solve")
	m.Options = normalizeOptions(m.Options)

	if params.Validate {
		if err := validateModel(m); err != nil {
			return Solution{}, err
		}
	}

	if m.External != nil {
		sol, err := solveExternal(m, params)
		if err != nil {
			return Solution{}, err
		}
		recordLastSolved(m)
		return sol, nil
	}

	isMILP := len(m.Ints) > 0 || len(m.Binaries) > 0
	if isMILP {
		res, err := SolveMILP(m)
		if err != nil {
			return Solution{}, err
		}
		sol := assembleMILPSolution(m, res, params.Full)
		log.Info().Str("status", res.Status.String()).Int("nodes", res.Nodes).Msg("solve complete")
		if res.Status == StatusOptimal {
			recordLastSolved(m)
		}
		return sol, nil
	}

	var deadline time.Time
	if m.Options.Timeout > 0 {
		deadline = time.Now().Add(m.Options.Timeout)
	}
	tab, pl, objConst, err := Preprocess(m)
	if err != nil {
		return Solution{}, err
	}
	simRes, err := SolveTableau(tab, m.Options, deadline)
	if err != nil {
		return Solution{}, err
	}
	sol := assembleSimplexSolution(m, tab, pl, simRes, objConst, params.Full)
	log.Info().Str("status", simRes.Status.String()).Int("iterations", simRes.Iterations).Msg("solve complete")
	if simRes.Status == StatusOptimal {
		recordLastSolved(m)
	}
	return sol, nil
}

func assembleSimplexSolution(m Model, tab *Tableau, pl *PresolveLog, res *SimplexResult, objConst float64, full bool) Solution {
	sol := Solution{
		Status:     res.Status,
		Feasible:   res.Status == StatusOptimal,
		Bounded:    res.Status != StatusUnbounded,
		Iterations: res.Iterations,
	}
	if res.Status != StatusOptimal {
		return sol
	}

	internal := make(map[string]float64, len(tab.nameIndex)+len(pl.FixedVars))
	for name, idxs := range tab.nameIndex {
		if len(idxs) == 1 {
			internal[name] = res.X[idxs[0]]
			continue
		}
		internal[name] = res.X[idxs[0]] - res.X[idxs[1]]
	}
	for name, v := range pl.FixedVars {
		internal[name] = v
	}

	sign := 1.0
	if m.OpType == Maximize {
		sign = -1.0
	}
	sol.Result = sign*res.Z + objConst
	sol.Variables = projectSolutionVariables(m, internal, full)
	return sol
}

func assembleMILPSolution(m Model, res *MILPResult, full bool) Solution {
	sol := Solution{
		Status:     res.Status,
		Bounded:    res.Status != StatusUnbounded,
		Iterations: res.Iterations,
		Nodes:      res.Nodes,
	}
	// A best-known incumbent survives a TimedOut or CycleDetected search
	// (docs.go §5: "returns the best feasible incumbent known, with status
	// TimedOut ... and feasible accordingly"), so this reports it whenever
	// finalizeMILP found one, not only on a clean StatusOptimal finish.
	if res.X == nil {
		return sol
	}
	sol.Feasible = true
	sol.Result = res.Z
	sol.Variables = projectSolutionVariables(m, res.X, full)
	sol.IsIntegral = res.IsIntegral
	return sol
}

// projectSolutionVariables recombines Standard Form internal values back
// onto every declared solution variable (docs.go §4.2's inverse
// transform): value(v) = sum over internal names referenced by
// m.Variables[v] of coefficient * internal[name]. Every internal variable
// in internal, and every raw internal variable (a Constraints key with no
// Variables row of its own), is also reported under its own name, unless
// a Variables row already uses that name.
func projectSolutionVariables(m Model, internal map[string]float64, full bool) map[string]float64 {
	out := make(map[string]float64)
	precision := m.Options.Precision
	if precision <= 0 {
		precision = DefaultOptions().Precision
	}

	for name, row := range m.Variables {
		v := 0.0
		for inner, coef := range row {
			v += coef * internal[inner]
		}
		if full || math.Abs(v) > precision {
			out[name] = v
		}
	}
	for name := range m.Constraints {
		if _, isRow := m.Variables[name]; isRow {
			continue
		}
		v := internal[name]
		if full || math.Abs(v) > precision {
			out[name] = v
		}
	}
	for name, v := range internal {
		if _, isRow := m.Variables[name]; isRow {
			continue
		}
		if full || math.Abs(v) > precision {
			out[name] = v
		}
	}
	return out
}
