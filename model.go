// model: Model Definition and Validation
// 01   Aug.  6, 2026   Initial version

// This file defines the user-facing Model, its embedded Options, and the
// structural validations that Solve may run against it before invoking the
// Preprocessor. Field names and shapes intentionally follow the dynamic,
// map-keyed convention described by docs.go's Data Model section rather
// than a rigid struct-of-arrays layout, so callers can build a Model the
// same way they would author LP text.

package lposolve

import (
	"sort"
	"strconv"
	"time"
)

// OpType is the optimization direction of a Model's objective.
type OpType string

const (
	Maximize OpType = "max"
	Minimize OpType = "min"
)

// Constraint bounds a single row of the model. At least one of Min, Max,
// or Equal must be set. If Equal is set, Min and Max must either be unset
// or consistent with it (see validateModel).
type Constraint struct {
	Min   *float64
	Max   *float64
	Equal *float64
}

// Options carries the numeric tolerances and search controls described in
// docs.go §9. The numeric fields have zero-value-safe defaults applied by
// normalizeOptions; ExitOnCycles is not backfilled there, so its true
// default comes only from DefaultOptions (and thus NewModel).
type Options struct {
	// Precision is the tolerance used to decide integrality and to filter
	// negligible variable values from a Solution. Default 1e-9.
	Precision float64

	// Tolerance is the relative optimality gap used by Branch-and-Bound
	// pruning: a node is pruned once its bound is within Tolerance of the
	// incumbent. Default 1e-9.
	Tolerance float64

	// Timeout bounds the wall-clock budget of a single Solve call. Zero
	// means no timeout.
	Timeout time.Duration

	// ExitOnCycles selects the Simplex engine's response to a suspected
	// cycle: true (the default) reports CycleDetected with the best basis
	// seen; false switches to Bland's rule for the remainder of the run.
	ExitOnCycles bool

	// EpsPivot is the zero-threshold applied to tableau entries considered
	// as pivots. Must be strictly smaller than Precision. Default 1e-12.
	EpsPivot float64

	// EpsCost is the zero-threshold applied to reduced costs when testing
	// for optimality. Default 1e-9.
	EpsCost float64

	// UseMIRCuts is accepted for source compatibility and always ignored;
	// see docs.go's Open Questions.
	UseMIRCuts bool
}

// DefaultOptions returns the zero-value-safe defaults described in
// docs.go §4.3 and §4.4.
func DefaultOptions() Options {
	return Options{
		Precision:    1e-9,
		Tolerance:    1e-9,
		Timeout:      0,
		ExitOnCycles: true,
		EpsPivot:     1e-12,
		EpsCost:      1e-9,
	}
}

func normalizeOptions(o Options) Options {
	def := DefaultOptions()
	if o.Precision <= 0 {
		o.Precision = def.Precision
	}
	if o.Tolerance <= 0 {
		o.Tolerance = def.Tolerance
	}
	if o.EpsPivot <= 0 {
		o.EpsPivot = def.EpsPivot
	}
	if o.EpsCost <= 0 {
		o.EpsCost = def.EpsCost
	}
	if o.EpsPivot >= o.Precision {
		o.EpsPivot = o.Precision / 1000
	}
	return o
}

// ExternalSolver describes the boundary contract of docs.go §6: a caller
// may ask the engine to hand its LP text off to a native solver binary
// instead of solving it internally.
type ExternalSolver struct {
	BinPath  string
	Args     []string
	TempName string
}

// Model is the user-facing LP/MILP definition. Constraints and Variables
// are keyed by name and resolved into a dense, index-keyed Standard Form
// Tableau by the Preprocessor (see tableau.go and docs.go §9).
type Model struct {
	Optimize string
	OpType   OpType

	// Constraints maps a row name (either a raw internal variable name, or
	// a key that also appears in Variables) to its bound.
	Constraints map[string]Constraint

	// Variables maps a solution-variable name to the linear combination of
	// internal-variable coefficients that defines it. The entry keyed by
	// Optimize defines the objective row.
	Variables map[string]map[string]float64

	Ints         map[string]bool
	Binaries     map[string]bool
	Unrestricted map[string]bool

	Options Options

	// External, if non-nil, redirects Solve to the boundary described by
	// external.go instead of running the internal engine.
	External *ExternalSolver
}

// NewModel returns an empty Model with normalized Options, ready for
// callers to populate via direct field assignment. ParseLP also starts
// from NewModel.
func NewModel() Model {
	return Model{
		OpType:       Minimize,
		Constraints:  make(map[string]Constraint),
		Variables:    make(map[string]map[string]float64),
		Ints:         make(map[string]bool),
		Binaries:     make(map[string]bool),
		Unrestricted: make(map[string]bool),
		Options:      DefaultOptions(),
	}
}

// clone returns a deep copy of m, so Solve never mutates a caller-owned
// Model (docs.go §7's propagation policy).
func (m Model) clone() Model {
	out := m
	out.Constraints = make(map[string]Constraint, len(m.Constraints))
	for k, v := range m.Constraints {
		out.Constraints[k] = v
	}
	out.Variables = make(map[string]map[string]float64, len(m.Variables))
	for k, row := range m.Variables {
		rowCopy := make(map[string]float64, len(row))
		for ik, iv := range row {
			rowCopy[ik] = iv
		}
		out.Variables[k] = rowCopy
	}
	out.Ints = cloneBoolMap(m.Ints)
	out.Binaries = cloneBoolMap(m.Binaries)
	out.Unrestricted = cloneBoolMap(m.Unrestricted)
	return out
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// AsBool canonicalizes the "truthy token" polymorphism described in
// docs.go §9 (Model flags accept `true` or `1`-like values at the
// boundary from external formats such as JSON or LP text) down to a
// single normalized boolean.
func AsBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t == "1" || t == "true" || t == "TRUE" || t == "True"
	case nil:
		return false
	default:
		return false
	}
}

// ModelFromMap builds a Model from a generic map[string]interface{}
// representation (docs.go §9): the shape a caller decoding arbitrary JSON
// into map[string]interface{} produces, where the ints/binaries/unrestricted
// flag sets arrive as truthy-valued objects (e.g. {"x": 1}) rather than the
// plain string sets ParseLP builds directly. This is the boundary AsBool
// exists for.
func ModelFromMap(data map[string]interface{}) (Model, error) {
	optimize, _ := data["optimize"].(string)
	if optimize == "" {
		return Model{}, newValidationError(ValidationMissingObjective, `map has no string "optimize" key`)
	}

	m := NewModel()
	m.Optimize = optimize
	if opType, ok := data["opType"].(string); ok && opType != "" {
		m.OpType = OpType(opType)
	}

	if vars, ok := data["variables"].(map[string]interface{}); ok {
		for name, raw := range vars {
			row, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			coefs := make(map[string]float64, len(row))
			for inner, v := range row {
				coefs[inner] = asFloat(v)
			}
			m.Variables[name] = coefs
		}
	}

	if constraints, ok := data["constraints"].(map[string]interface{}); ok {
		for name, raw := range constraints {
			bounds, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			var c Constraint
			if v, ok := bounds["min"]; ok {
				f := asFloat(v)
				c.Min = &f
			}
			if v, ok := bounds["max"]; ok {
				f := asFloat(v)
				c.Max = &f
			}
			if v, ok := bounds["equal"]; ok {
				f := asFloat(v)
				c.Equal = &f
			}
			m.Constraints[name] = c
		}
	}

	applyFlagMap(data["ints"], m.Ints)
	applyFlagMap(data["binaries"], m.Binaries)
	applyFlagMap(data["unrestricted"], m.Unrestricted)

	return m, nil
}

// asFloat coerces a decoded JSON scalar to a float64. Unrecognized shapes
// (nested objects, arrays) default to 0 rather than erroring, matching the
// permissive coercion ModelFromMap's caller-supplied maps expect.
func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// applyFlagMap ingests a truthy-valued object such as {"x": 1, "y": true}
// into dst, keeping only the keys whose value is truthy per AsBool. A raw
// value that isn't itself an object (missing key, wrong shape) leaves dst
// unchanged rather than erroring.
func applyFlagMap(raw interface{}, dst map[string]bool) {
	flags, ok := raw.(map[string]interface{})
	if !ok {
		return
	}
	for name, v := range flags {
		if AsBool(v) {
			dst[name] = true
		}
	}
}

// internalVarNames returns, in a fixed lexicographic order, every internal
// variable name referenced anywhere in m.Variables or m.Constraints. Go
// maps have no stable iteration order, so this canonical sort is what
// gives the Preprocessor's dense column assignment — and therefore the
// tiebreak basis for deterministic branching (docs.go §4.4's "smallest
// variable index") — run-to-run determinism (docs.go §8 property 7).
func (m Model) internalVarNames() []string {
	seen := make(map[string]bool)
	for _, row := range m.Variables {
		for name := range row {
			seen[name] = true
		}
	}
	// Constraint keys that never appear inside a Variables row are raw
	// internal variables in their own right (docs.go §3 invariant).
	for name := range m.Constraints {
		if _, isRow := m.Variables[name]; isRow {
			continue
		}
		seen[name] = true
	}
	order := make([]string, 0, len(seen))
	for name := range seen {
		order = append(order, name)
	}
	sort.Strings(order)
	return order
}

// validateModel runs the structural checks Solve performs when validate
// is truthy (docs.go §6).
func validateModel(m Model) error {
	if m.Optimize == "" {
		return newValidationError(ValidationMissingObjective, "model.Optimize is empty")
	}
	if _, ok := m.Variables[m.Optimize]; !ok {
		return newValidationError(ValidationMissingObjective,
			"objective variable %q has no entry in Variables", m.Optimize)
	}

	known := make(map[string]bool)
	for name, row := range m.Variables {
		known[name] = true
		for inner := range row {
			known[inner] = true
		}
	}
	for name := range m.Constraints {
		known[name] = true
	}

	for name := range m.Binaries {
		if m.Unrestricted[name] {
			return newValidationError(ValidationConflictingDom,
				"variable %q cannot be both binary and unrestricted", name)
		}
	}

	for name, c := range m.Constraints {
		if c.Min == nil && c.Max == nil && c.Equal == nil {
			return newValidationError(ValidationMalformedConstr,
				"constraint %q has no min, max, or equal bound", name)
		}
		if c.Equal != nil && (c.Min != nil || c.Max != nil) {
			if c.Min != nil && *c.Min != *c.Equal {
				return newValidationError(ValidationMalformedConstr,
					"constraint %q has equal=%v inconsistent with min=%v", name, *c.Equal, *c.Min)
			}
			if c.Max != nil && *c.Max != *c.Equal {
				return newValidationError(ValidationMalformedConstr,
					"constraint %q has equal=%v inconsistent with max=%v", name, *c.Equal, *c.Max)
			}
		}
		if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
			return newValidationError(ValidationMalformedConstr,
				"constraint %q has min=%v greater than max=%v", name, *c.Min, *c.Max)
		}
		if !known[name] {
			return newValidationError(ValidationUnknownVariable,
				"constraint %q does not appear in Variables and is not a raw internal variable", name)
		}
	}

	return nil
}
