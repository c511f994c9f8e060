package lposolve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func simpleLPModel() Model {
	m := NewModel()
	m.OpType = Maximize
	m.Optimize = "profit"
	m.Variables["profit"] = map[string]float64{"x": 3, "y": 5}
	m.Constraints["c1"] = Constraint{Max: ptr(4)}
	m.Variables["c1"] = map[string]float64{"x": 1}
	m.Constraints["c2"] = Constraint{Max: ptr(12)}
	m.Variables["c2"] = map[string]float64{"y": 2}
	m.Constraints["c3"] = Constraint{Max: ptr(18)}
	m.Variables["c3"] = map[string]float64{"x": 3, "y": 2}
	return m
}

func TestPreprocessBasicShape(t *testing.T) {
	m := simpleLPModel()
	tab, pl, objConst, err := Preprocess(m)
	require.NoError(t, err)
	require.Empty(t, pl.FixedVars)
	require.Zero(t, objConst)
	require.Equal(t, 3, tab.M) // three LE rows, no upper bounds, no ranged rows
	for i := 0; i < tab.M; i++ {
		require.GreaterOrEqual(t, tab.B[i], 0.0)
	}
	require.Len(t, tab.Basis, tab.M)
	for i, b := range tab.Basis {
		require.Equal(t, 1.0, tab.A.At(i, b), "basic column %d must have a unit coefficient in its own row", b)
	}
}

func TestPreprocessRangedConstraintSplitsIntoTwoRows(t *testing.T) {
	m := NewModel()
	m.Optimize = "obj"
	m.Variables["obj"] = map[string]float64{"x": 1}
	m.Constraints["c1"] = Constraint{Min: ptr(2), Max: ptr(10)}
	m.Variables["c1"] = map[string]float64{"x": 1}

	tab, _, _, err := Preprocess(m)
	require.NoError(t, err)
	require.Contains(t, tab.RowName, "c1_min")
	require.Contains(t, tab.RowName, "c1_max")
}

func TestPreprocessBinaryGetsUpperBoundRow(t *testing.T) {
	m := NewModel()
	m.Optimize = "obj"
	m.Variables["obj"] = map[string]float64{"x": 1}
	m.Constraints["only"] = Constraint{Min: ptr(0)}
	m.Binaries["x"] = true

	tab, _, _, err := Preprocess(m)
	require.NoError(t, err)
	require.Contains(t, tab.RowName, "x_ub")
	found := false
	for _, c := range tab.Cols {
		if c.Name == "x" {
			require.Equal(t, 1.0, c.Upper)
			require.True(t, c.Integer)
			found = true
		}
	}
	require.True(t, found)
}

func TestPresolveSubstitutesFixedVariable(t *testing.T) {
	m := NewModel()
	m.Optimize = "obj"
	m.Variables["obj"] = map[string]float64{"x": 1, "y": 1}
	m.Constraints["fixx"] = Constraint{Equal: ptr(5)}
	m.Constraints["cy"] = Constraint{Max: ptr(10)}
	m.Variables["cy"] = map[string]float64{"y": 1}

	reduced, pl := presolve(m)
	require.Equal(t, 5.0, pl.FixedVars["fixx"])
	_, stillThere := reduced.Constraints["fixx"]
	require.False(t, stillThere)
}

func TestPresolveDropsEmptyRow(t *testing.T) {
	m := NewModel()
	m.Optimize = "obj"
	m.Variables["obj"] = map[string]float64{"x": 1}
	m.Constraints["empty"] = Constraint{Max: ptr(3)}
	m.Variables["empty"] = map[string]float64{}

	_, pl := presolve(m)
	require.Contains(t, pl.EmptyRows, "empty")
}

func TestPreprocessUnrestrictedSplitsIntoTwoColumns(t *testing.T) {
	m := NewModel()
	m.Optimize = "obj"
	m.Variables["obj"] = map[string]float64{"x": 1}
	m.Constraints["c1"] = Constraint{Max: ptr(5)}
	m.Variables["c1"] = map[string]float64{"x": 1}
	m.Unrestricted["x"] = true

	tab, _, _, err := Preprocess(m)
	require.NoError(t, err)
	idxs := tab.nameIndex["x"]
	require.Len(t, idxs, 2)
	require.Equal(t, "x+", tab.Cols[idxs[0]].Name)
	require.Equal(t, "x-", tab.Cols[idxs[1]].Name)
	require.True(t, math.IsInf(tab.Cols[idxs[0]].Upper, 1))
}

func TestPreprocessUnknownVariableIsValidationError(t *testing.T) {
	m := NewModel()
	m.Optimize = "obj"
	m.Variables["obj"] = map[string]float64{"x": 1}
	m.Constraints["c1"] = Constraint{Max: ptr(5)}
	m.Variables["c1"] = map[string]float64{"ghost": 1}

	_, _, _, err := Preprocess(m)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}
