// simplex: Two-Phase Tableau Simplex Engine
// 01   Aug.  6, 2026   Initial version

// Implements docs.go §4.3: a two-phase tableau simplex operating on the
// Standard Form Tableau produced by tableau.go. Every column enforced by
// Preprocess is nonnegative with no upper bound baked into the pivoting
// arithmetic itself — finite upper bounds are ordinary LE rows added by
// the Preprocessor, so this engine never needs a bounded-variable ratio
// test. Pivot bookkeeping is grounded on the classic Dantzig/Bland tableau
// method described by gonum's exp/linsolve-adjacent simplex reference
// (_examples/other_examples/gonum-optimize__simplex.go) and on the
// row-elimination style of felipends-revised-simplex.

package lposolve

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// SolveStatus is the terminal state of a single Simplex run.
type SolveStatus int

const (
	StatusOptimal SolveStatus = iota
	StatusInfeasible
	StatusUnbounded
	StatusCycleDetected
	StatusTimedOut
)

func (s SolveStatus) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusUnbounded:
		return "Unbounded"
	case StatusCycleDetected:
		return "CycleDetected"
	case StatusTimedOut:
		return "TimedOut"
	default:
		return "Unknown"
	}
}

// SimplexResult is the outcome of solving a Tableau (docs.go §4.3).
type SimplexResult struct {
	Status     SolveStatus
	X          []float64 // length t.N; values of every column, including aux
	Z          float64   // objective value in the tableau's own minimize sign
	Iterations int
	Basis      []int

	// RecentBases is a bounded, most-recent-last ring buffer of the bases
	// visited on the periodic cycle-suspicion checks, kept across Phase I
	// and Phase II of the run. It lets a caller confirm a basis genuinely repeated
	// without depending on wall-clock timing (docs.go's cycle-suspicion
	// introspection requirement).
	RecentBases [][]int
}

// simplexRun holds the mutable pivoting state for one phase (or both, in
// sequence) of a single Tableau solve.
type simplexRun struct {
	tab   *mat.Dense // M x (N+1); last column is RHS
	cost  []float64  // N+1; last entry accumulates -objective
	basis []int
	m, n  int
	opt   Options

	iterations int
	bland      bool
	basisSeen  map[string]bool
	recent     [][]int // ring buffer of recently visited bases, most-recent last
	deadline   time.Time
	err        error
}

// cycleRingCapacity bounds how many recent bases run keeps around for the
// RecentBases introspection field. It only needs to be large enough to
// contain one full cycle of a degenerate tableau, not the whole run.
const cycleRingCapacity = 32

// SolveTableau runs the two-phase Simplex method on t and returns the
// terminal status, primal values, and objective (docs.go §4.3's
// "Results"). deadline is the wall-clock point past which the engine
// reports TimedOut instead of continuing; a zero deadline means no limit.
// It returns a NumericalFailure error if the ratio test ever finds only
// positive candidate pivots below EpsPivot and none at or above it
// (docs.go §7): a tableau that has become numerically degenerate rather
// than one that is genuinely unbounded.
func SolveTableau(t *Tableau, opt Options, deadline time.Time) (*SimplexResult, error) {
	log := Logger("simplex")
	m, n := t.M, t.N

	sr := &simplexRun{
		m: m, n: n,
		opt:       opt,
		basisSeen: make(map[string]bool),
		deadline:  deadline,
	}

	data := make([]float64, m*(n+1))
	for i := 0; i < m; i++ {
		row := t.A.RawRowView(i)
		copy(data[i*(n+1):i*(n+1)+n], row)
		data[i*(n+1)+n] = t.B[i]
	}
	sr.tab = mat.NewDense(m, n+1, data)
	sr.basis = append([]int(nil), t.Basis...)

	artificial := make([]bool, n)
	for j, c := range t.Cols {
		artificial[j] = c.Kind == kindArtificial
	}
	anyArtificial := false
	for _, a := range artificial {
		anyArtificial = anyArtificial || a
	}

	if anyArtificial {
		phase1Cost := make([]float64, n)
		for j, a := range artificial {
			if a {
				phase1Cost[j] = 1
			}
		}
		sr.cost = sr.initReducedCost(phase1Cost)
		status := sr.run(nil)
		if sr.err != nil {
			return nil, sr.err
		}
		if status == StatusTimedOut || status == StatusCycleDetected {
			return sr.result(status, t), nil
		}
		if -sr.cost[n] > opt.Precision*10 {
			log.Warn().Float64("phase1_objective", -sr.cost[n]).Msg("phase I could not drive artificials to zero")
			return sr.result(StatusInfeasible, t), nil
		}
		// Drive any remaining zero-level basic artificial out of the
		// basis so it never re-enters during Phase II.
		for i, b := range sr.basis {
			if !artificial[b] {
				continue
			}
			pivoted := false
			for j := 0; j < n; j++ {
				if artificial[j] {
					continue
				}
				if math.Abs(sr.tab.At(i, j)) > opt.EpsPivot {
					sr.pivot(i, j)
					sr.basis[i] = j
					pivoted = true
					break
				}
			}
			_ = pivoted // if it cannot be pivoted out, the row is redundant
		}
	}

	sr.cost = sr.initReducedCost(t.C)
	// Never let a leftover artificial re-enter Phase II.
	excluded := artificial
	status := sr.run(excluded)
	if sr.err != nil {
		return nil, sr.err
	}
	return sr.result(status, t), nil
}

func (sr *simplexRun) initReducedCost(costVec []float64) []float64 {
	row := make([]float64, sr.n+1)
	copy(row, costVec)
	for i, b := range sr.basis {
		factor := row[b]
		if factor == 0 {
			continue
		}
		basisRow := sr.tab.RawRowView(i)
		for j := 0; j <= sr.n; j++ {
			var aij float64
			if j < sr.n {
				aij = basisRow[j]
			} else {
				aij = basisRow[sr.n]
			}
			row[j] -= factor * aij
		}
	}
	return row
}

// run executes pivots until optimal, unbounded, cycle-suspected, or timed
// out, honoring excluded (columns forbidden from entering, i.e. Phase II's
// spent artificials).
func (sr *simplexRun) run(excluded []bool) SolveStatus {
	maxIter := 50 * maxInt(sr.m, sr.n)
	if maxIter < 1000 {
		maxIter = 1000
	}

	for {
		sr.iterations++
		if !sr.deadline.IsZero() && time.Now().After(sr.deadline) {
			return StatusTimedOut
		}
		if sr.iterations%maxInt(1, sr.m+sr.n) == 0 {
			fp := sr.basisFingerprint()
			sr.recordBasis()
			if sr.basisSeen[fp] {
				if sr.opt.ExitOnCycles {
					return StatusCycleDetected
				}
				sr.bland = true
			}
			sr.basisSeen[fp] = true
		}
		if sr.iterations > maxIter {
			if sr.opt.ExitOnCycles {
				return StatusCycleDetected
			}
			sr.bland = true
			if sr.iterations > maxIter*4 {
				return StatusCycleDetected
			}
		}

		enter, ok := sr.chooseEntering(excluded)
		if !ok {
			return StatusOptimal
		}
		leave, unbounded, numericalFailure := sr.chooseLeaving(enter)
		if numericalFailure {
			sr.err = newNumericalFailure(
				"entering column %d has only sub-epsilon positive candidates (epsPivot=%g) after %d iterations",
				enter, sr.opt.EpsPivot, sr.iterations)
			return StatusInfeasible
		}
		if unbounded {
			return StatusUnbounded
		}
		sr.pivot(leave, enter)
		sr.basis[leave] = enter
	}
}

// recordBasis appends the current basis to the ring buffer of recently
// visited bases (docs.go's cycle-suspicion introspection requirement),
// dropping the oldest entry once cycleRingCapacity is reached.
func (sr *simplexRun) recordBasis() {
	snapshot := append([]int(nil), sr.basis...)
	if len(sr.recent) >= cycleRingCapacity {
		sr.recent = append(sr.recent[1:], snapshot)
		return
	}
	sr.recent = append(sr.recent, snapshot)
}

// chooseEntering applies Dantzig's most-negative-reduced-cost rule, or
// Bland's smallest-index rule once cycling is suspected and
// ExitOnCycles is false (docs.go §4.3).
func (sr *simplexRun) chooseEntering(excluded []bool) (int, bool) {
	best := -1
	bestVal := -sr.opt.EpsCost
	for j := 0; j < sr.n; j++ {
		if excluded != nil && excluded[j] {
			continue
		}
		rc := sr.cost[j]
		if rc >= -sr.opt.EpsCost {
			continue
		}
		if sr.bland {
			return j, true
		}
		if rc < bestVal {
			bestVal = rc
			best = j
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// chooseLeaving runs the minimum-ratio test, tie-broken by smallest basis
// index (Bland's tiebreak, applied unconditionally per docs.go §4.3). A
// row with a non-positive entering coefficient never bounds the entering
// variable and is skipped outright; a row with a positive but sub-EpsPivot
// coefficient is untrustworthy rather than genuinely non-blocking, so it is
// tracked separately and reported as numericalFailure when it is the only
// kind of candidate seen (docs.go §7).
func (sr *simplexRun) chooseLeaving(enter int) (row int, unbounded bool, numericalFailure bool) {
	best := -1
	bestRatio := math.Inf(1)
	sawSubEpsilon := false
	for i := 0; i < sr.m; i++ {
		a := sr.tab.At(i, enter)
		if a <= 0 {
			continue
		}
		if a < sr.opt.EpsPivot {
			sawSubEpsilon = true
			continue
		}
		ratio := sr.tab.At(i, sr.n) / a
		if ratio < bestRatio-sr.opt.EpsPivot {
			bestRatio = ratio
			best = i
		} else if ratio < bestRatio+sr.opt.EpsPivot && best != -1 && sr.basis[i] < sr.basis[best] {
			best = i
		}
	}
	if best == -1 {
		if sawSubEpsilon {
			return 0, false, true
		}
		return 0, true, false
	}
	return best, false, false
}

func (sr *simplexRun) pivot(row, col int) {
	r := sr.tab.RawRowView(row)
	pv := r[col]
	for j := range r {
		r[j] /= pv
	}
	for i := 0; i < sr.m; i++ {
		if i == row {
			continue
		}
		ri := sr.tab.RawRowView(i)
		factor := ri[col]
		if factor == 0 {
			continue
		}
		for j := range ri {
			ri[j] -= factor * r[j]
		}
	}
	factor := sr.cost[col]
	if factor != 0 {
		for j := 0; j <= sr.n; j++ {
			var v float64
			if j < sr.n {
				v = r[j]
			} else {
				v = r[sr.n]
			}
			sr.cost[j] -= factor * v
		}
	}
}

func (sr *simplexRun) basisFingerprint() string {
	buf := make([]byte, 0, sr.m*4)
	for _, b := range sr.basis {
		buf = append(buf, byte(b), byte(b>>8), byte(b>>16), byte(b>>24))
	}
	return string(buf)
}

func (sr *simplexRun) result(status SolveStatus, t *Tableau) *SimplexResult {
	x := make([]float64, sr.n)
	for i, b := range sr.basis {
		x[b] = sr.tab.At(i, sr.n)
	}
	z := -sr.cost[sr.n]
	return &SimplexResult{
		Status:      status,
		X:           x,
		Z:           z,
		Iterations:  sr.iterations,
		Basis:       append([]int(nil), sr.basis...),
		RecentBases: append([][]int(nil), sr.recent...),
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
