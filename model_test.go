package lposolve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternalVarNamesDeterministic(t *testing.T) {
	m := NewModel()
	m.Optimize = "obj"
	m.Variables["obj"] = map[string]float64{"z": 1, "a": 2}
	m.Constraints["c1"] = Constraint{Max: ptr(1.0)}
	m.Variables["c1"] = map[string]float64{"b": 1}
	m.Constraints["raw"] = Constraint{Min: ptr(0.0)}

	first := m.internalVarNames()
	for i := 0; i < 10; i++ {
		got := m.internalVarNames()
		require.Equal(t, first, got, "internalVarNames must be stable across calls")
	}
	require.Equal(t, []string{"a", "b", "raw", "z"}, first)
}

func TestValidateModelMissingObjective(t *testing.T) {
	m := NewModel()
	err := validateModel(m)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, ValidationMissingObjective, ve.Kind)
}

func TestValidateModelBinaryUnrestrictedConflict(t *testing.T) {
	m := NewModel()
	m.Optimize = "obj"
	m.Variables["obj"] = map[string]float64{"x": 1}
	m.Binaries["x"] = true
	m.Unrestricted["x"] = true
	err := validateModel(m)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, ValidationConflictingDom, ve.Kind)
}

func TestValidateModelMalformedConstraint(t *testing.T) {
	m := NewModel()
	m.Optimize = "obj"
	m.Variables["obj"] = map[string]float64{"x": 1}
	m.Constraints["c1"] = Constraint{}
	m.Variables["c1"] = map[string]float64{"x": 1}
	err := validateModel(m)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, ValidationMalformedConstr, ve.Kind)
}

func TestAsBool(t *testing.T) {
	cases := []struct {
		in   interface{}
		want bool
	}{
		{true, true}, {false, false},
		{1, true}, {0, false},
		{1.0, true}, {0.0, false},
		{"1", true}, {"true", true}, {"TRUE", true}, {"no", false},
		{nil, false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, AsBool(c.in), "AsBool(%v)", c.in)
	}
}

func TestModelFromMapAppliesTruthyFlags(t *testing.T) {
	data := map[string]interface{}{
		"optimize": "profit",
		"opType":   "max",
		"variables": map[string]interface{}{
			"profit": map[string]interface{}{"x": 3.0, "y": "5"},
		},
		"constraints": map[string]interface{}{
			"c1": map[string]interface{}{"max": 4},
		},
		"ints":         map[string]interface{}{"x": 1},
		"binaries":     map[string]interface{}{"y": "true", "x": 0},
		"unrestricted": map[string]interface{}{"z": "no"},
	}

	m, err := ModelFromMap(data)
	require.NoError(t, err)
	require.Equal(t, Maximize, m.OpType)
	require.Equal(t, 3.0, m.Variables["profit"]["x"])
	require.Equal(t, 5.0, m.Variables["profit"]["y"])
	require.NotNil(t, m.Constraints["c1"].Max)
	require.Equal(t, 4.0, *m.Constraints["c1"].Max)

	require.True(t, m.Ints["x"])
	require.True(t, m.Binaries["y"])
	require.False(t, m.Binaries["x"], "a falsy 0 token must not set the flag")
	require.False(t, m.Unrestricted["z"], `"no" is not a recognized truthy token`)
}

func TestModelFromMapRequiresOptimize(t *testing.T) {
	_, err := ModelFromMap(map[string]interface{}{})
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, ValidationMissingObjective, ve.Kind)
}

func TestNormalizeOptionsFillsDefaults(t *testing.T) {
	// ExitOnCycles is a plain bool and cannot distinguish "unset" from an
	// explicit false, so normalizeOptions only backfills the numeric
	// fields; NewModel is what actually wires in the true default.
	o := normalizeOptions(Options{})
	def := DefaultOptions()
	require.Equal(t, def.Precision, o.Precision)
	require.Equal(t, def.Tolerance, o.Tolerance)
	require.Equal(t, def.EpsPivot, o.EpsPivot)
	require.Equal(t, def.EpsCost, o.EpsCost)
}

func TestNormalizeOptionsRejectsInvertedEps(t *testing.T) {
	o := normalizeOptions(Options{Precision: 1e-6, EpsPivot: 1e-3, Tolerance: 1e-6, EpsCost: 1e-6})
	require.Less(t, o.EpsPivot, o.Precision)
}

func ptr(v float64) *float64 { return &v }
