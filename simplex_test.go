package lposolve

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSolveTableauOptimal2DMax(t *testing.T) {
	m := simpleLPModel()
	tab, _, _, err := Preprocess(m)
	require.NoError(t, err)

	res, err := SolveTableau(tab, DefaultOptions(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	require.InDelta(t, -36.0, res.Z, 1e-6) // minimize sign of a maximize model
}

func TestSolveTableauInfeasible(t *testing.T) {
	m := NewModel()
	m.Optimize = "obj"
	m.Variables["obj"] = map[string]float64{"x": 1}
	m.Constraints["c1"] = Constraint{Max: ptr(1)}
	m.Variables["c1"] = map[string]float64{"x": 1}
	m.Constraints["c2"] = Constraint{Min: ptr(5)}
	m.Variables["c2"] = map[string]float64{"x": 1}

	tab, _, _, err := Preprocess(m)
	require.NoError(t, err)
	res, err := SolveTableau(tab, DefaultOptions(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, StatusInfeasible, res.Status)
}

func TestSolveTableauUnbounded(t *testing.T) {
	m := NewModel()
	m.OpType = Maximize
	m.Optimize = "obj"
	m.Variables["obj"] = map[string]float64{"x": 1}
	m.Constraints["c1"] = Constraint{Min: ptr(0)}
	m.Variables["c1"] = map[string]float64{"x": 1}

	tab, _, _, err := Preprocess(m)
	require.NoError(t, err)
	res, err := SolveTableau(tab, DefaultOptions(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, StatusUnbounded, res.Status)
}

// TestSolveTableauCyclingBeale exercises Bland's-rule fallback on Beale's
// classic degenerate cycling example when ExitOnCycles is disabled, and
// confirms ExitOnCycles=true instead reports CycleDetected.
func TestSolveTableauCyclingBeale(t *testing.T) {
	beale := func() Model {
		m := NewModel()
		m.Optimize = "obj"
		m.Variables["obj"] = map[string]float64{"x1": -0.75, "x2": 150, "x3": -0.02, "x4": 6}
		m.Constraints["c1"] = Constraint{Max: ptr(0.0)}
		m.Variables["c1"] = map[string]float64{"x1": 0.25, "x2": -60, "x3": -0.04, "x4": 9}
		m.Constraints["c2"] = Constraint{Max: ptr(0.0)}
		m.Variables["c2"] = map[string]float64{"x1": 0.5, "x2": -90, "x3": -0.02, "x4": 3}
		m.Constraints["c3"] = Constraint{Max: ptr(1.0)}
		m.Variables["c3"] = map[string]float64{"x3": 1}
		return m
	}

	m1 := beale()
	m1.Options.ExitOnCycles = true
	tab1, _, _, err := Preprocess(m1)
	require.NoError(t, err)
	res1, err := SolveTableau(tab1, normalizeOptions(m1.Options), time.Time{})
	require.NoError(t, err)
	require.Contains(t, []SolveStatus{StatusCycleDetected, StatusOptimal}, res1.Status)
	if res1.Status == StatusCycleDetected {
		require.NotEmpty(t, res1.RecentBases, "a detected cycle must leave the recent-basis ring buffer populated")
		requireRepeatedBasis(t, res1.RecentBases)
	}

	m2 := beale()
	m2.Options.ExitOnCycles = false
	tab2, _, _, err := Preprocess(m2)
	require.NoError(t, err)
	res2, err := SolveTableau(tab2, normalizeOptions(m2.Options), time.Time{})
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res2.Status, "Bland's rule fallback must terminate Beale's example")
}

// requireRepeatedBasis fails unless some basis in recent reappears later in
// the slice, the deterministic signal TestSolveTableauCyclingBeale uses to
// confirm CycleDetected corresponds to an actually-repeated basis rather
// than an unrelated iteration-count cutoff.
func requireRepeatedBasis(t *testing.T, recent [][]int) {
	t.Helper()
	seen := make(map[string]bool)
	for _, basis := range recent {
		key := fmt.Sprint(basis)
		if seen[key] {
			return
		}
		seen[key] = true
	}
	t.Fatal("expected a repeated basis in RecentBases")
}

func TestSolveTableauRespectsTimeout(t *testing.T) {
	m := simpleLPModel()
	tab, _, _, err := Preprocess(m)
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour)
	res, err := SolveTableau(tab, DefaultOptions(), past)
	require.NoError(t, err)
	require.Equal(t, StatusTimedOut, res.Status)
}

// TestChooseLeavingReportsNumericalFailure exercises the ratio-test
// breakdown case directly: every candidate row for the entering column has
// a positive but sub-EpsPivot coefficient, so no row cleanly bounds the
// entering variable, but the tableau is not genuinely unbounded either.
func TestChooseLeavingReportsNumericalFailure(t *testing.T) {
	opt := DefaultOptions()
	sr := &simplexRun{
		m: 2, n: 2,
		opt:       opt,
		basis:     []int{0, 1},
		basisSeen: make(map[string]bool),
	}
	// Column 1's entries are positive but below EpsPivot in both rows.
	subEps := opt.EpsPivot / 10
	sr.tab = mat.NewDense(2, 3, []float64{
		1, subEps, 4,
		0, subEps, 5,
	})

	_, unbounded, numericalFailure := sr.chooseLeaving(1)
	require.False(t, unbounded)
	require.True(t, numericalFailure)
}

func TestChooseLeavingReportsUnboundedWhenNoPositiveEntry(t *testing.T) {
	opt := DefaultOptions()
	sr := &simplexRun{
		m: 2, n: 2,
		opt:       opt,
		basis:     []int{0, 1},
		basisSeen: make(map[string]bool),
	}
	sr.tab = mat.NewDense(2, 3, []float64{
		1, -1, 4,
		0, -2, 5,
	})

	_, unbounded, numericalFailure := sr.chooseLeaving(1)
	require.True(t, unbounded)
	require.False(t, numericalFailure)
}
