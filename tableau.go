// tableau: Preprocessor and Standard Form Tableau
// 01   Aug.  6, 2026   Initial version

// This file transforms a Model into the Standard Form Tableau consumed by
// the Simplex engine (simplex.go), following the row-by-row rules of
// docs.go §4.2. It also implements the lightweight presolve pass described
// in docs.go's Supplemented Features: empty-row and fixed-variable removal,
// with enough bookkeeping (PresolveLog) for the Solution Assembler to
// reinsert what was removed.

package lposolve

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

type columnKind int

const (
	kindStructural columnKind = iota
	kindSlack
	kindSurplus
	kindArtificial
)

func (k columnKind) String() string {
	switch k {
	case kindStructural:
		return "structural"
	case kindSlack:
		return "slack"
	case kindSurplus:
		return "surplus"
	case kindArtificial:
		return "artificial"
	default:
		return "unknown"
	}
}

// ColumnMeta describes one column of a Tableau, per docs.go §3.
type ColumnMeta struct {
	Name    string
	Kind    columnKind
	Integer bool
	Lower   float64
	Upper   float64

	// splitOf and splitNeg record that this column is one half of an
	// unrestricted variable's positive/negative split (docs.go §4.2); the
	// Solution Assembler recombines the two halves as value = pos - neg.
	splitOf  string
	splitNeg bool
}

// rowSense is the constraint sense a row was built from, before any RHS
// sign flip. It drives which auxiliary column(s) the row receives.
type rowSense int

const (
	senseLE rowSense = iota
	senseGE
	senseEQ
)

// Tableau is the Standard Form Tableau of docs.go §3: A x = b, x within
// per-column [Lower, Upper] bounds, one basic column per row.
type Tableau struct {
	A       *mat.Dense
	B       []float64
	C       []float64 // Phase II (minimization) cost vector, length N
	Cols    []ColumnMeta
	Basis   []int
	RowName []string
	M, N    int

	// nameIndex maps an internal variable name to its (possibly split)
	// column index or indices.
	nameIndex map[string][]int
}

func (t *Tableau) clone() *Tableau {
	out := &Tableau{
		A:       mat.DenseCopyOf(t.A),
		B:       append([]float64(nil), t.B...),
		C:       append([]float64(nil), t.C...),
		Cols:    append([]ColumnMeta(nil), t.Cols...),
		Basis:   append([]int(nil), t.Basis...),
		RowName: append([]string(nil), t.RowName...),
		M:       t.M,
		N:       t.N,
	}
	out.nameIndex = make(map[string][]int, len(t.nameIndex))
	for k, v := range t.nameIndex {
		out.nameIndex[k] = append([]int(nil), v...)
	}
	return out
}

// PresolveLog records what the presolve pass removed from a Model so the
// Solution Assembler can restore fixed variables and dropped rows.
type PresolveLog struct {
	FixedVars map[string]float64 // internal variable name -> forced value
	EmptyRows []string           // constraint names dropped as vacuous
}

func newPresolveLog() *PresolveLog {
	return &PresolveLog{FixedVars: make(map[string]float64)}
}

// rowCoefficients resolves the coefficients of a named constraint row,
// substituting a Variables-defined linear combination when one exists and
// otherwise treating name as a raw internal variable with coefficient 1
// (docs.go §3 invariant).
func rowCoefficients(m Model, name string) map[string]float64 {
	if row, ok := m.Variables[name]; ok {
		return row
	}
	return map[string]float64{name: 1}
}

// presolve removes empty rows and substitutes fixed raw-internal-variable
// constraints (equal, or min == max, on a single-column raw row) out of
// the model, logging every removal.
func presolve(m Model) (Model, *PresolveLog) {
	out := m.clone()
	pl := newPresolveLog()

	for name, c := range out.Constraints {
		coefs := rowCoefficients(out, name)
		if len(coefs) == 0 {
			delete(out.Constraints, name)
			pl.EmptyRows = append(pl.EmptyRows, name)
			continue
		}
		if len(coefs) != 1 {
			continue
		}
		var fixedAt float64
		fixed := false
		if c.Equal != nil {
			fixedAt, fixed = *c.Equal, true
		} else if c.Min != nil && c.Max != nil && *c.Min == *c.Max {
			fixedAt, fixed = *c.Min, true
		}
		if !fixed {
			continue
		}
		var varName string
		var coef float64
		for k, v := range coefs {
			varName, coef = k, v
		}
		if varName != name || coef != 1 {
			// A linear-combination row pinned to a constant would need
			// every referencing row rewritten by more than a scalar;
			// presolve only substitutes plain raw-variable rows.
			continue
		}
		pl.FixedVars[varName] = fixedAt
		delete(out.Constraints, name)
	}

	return out, pl
}

type rowSpec struct {
	name  string
	coefs map[string]float64
	sense rowSense
	rhs   float64
}

// Preprocess turns a Model into a Standard Form Tableau (docs.go §4.2).
// It returns the tableau, the presolve log, and the additive objective
// constant contributed by fixed-variable substitution, expressed in the
// model's own minimize-or-maximize sign convention (the caller re-applies
// the objective sign when reporting a final result).
func Preprocess(m Model) (*Tableau, *PresolveLog, float64, error) {
	reduced, pl := presolve(m)

	var names []string
	for _, n := range reduced.internalVarNames() {
		if _, fixed := pl.FixedVars[n]; !fixed {
			names = append(names, n)
		}
	}

	t := &Tableau{nameIndex: make(map[string][]int, len(names))}

	objSign := 1.0
	if reduced.OpType == Maximize {
		objSign = -1.0
	}

	for _, name := range names {
		if reduced.Unrestricted[name] && !reduced.Binaries[name] {
			posIdx := t.N
			t.Cols = append(t.Cols, ColumnMeta{Name: name + "+", Kind: kindStructural,
				Integer: reduced.Ints[name], Lower: 0, Upper: math.Inf(1), splitOf: name})
			negIdx := t.N + 1
			t.Cols = append(t.Cols, ColumnMeta{Name: name + "-", Kind: kindStructural,
				Integer: reduced.Ints[name], Lower: 0, Upper: math.Inf(1), splitOf: name, splitNeg: true})
			t.N += 2
			t.nameIndex[name] = []int{posIdx, negIdx}
			continue
		}
		idx := t.N
		lower, upper := 0.0, math.Inf(1)
		integer := reduced.Ints[name]
		if reduced.Binaries[name] {
			lower, upper, integer = 0, 1, true
		}
		t.Cols = append(t.Cols, ColumnMeta{Name: name, Kind: kindStructural,
			Integer: integer, Lower: lower, Upper: upper})
		t.N++
		t.nameIndex[name] = []int{idx}
	}
	numStructural := t.N

	// Build row specs, expanding a two-sided constraint into its lower and
	// upper faces. Constraint names are visited in sorted order so row
	// (and therefore basis) assignment is deterministic run to run.
	var constraintNames []string
	for name := range reduced.Constraints {
		constraintNames = append(constraintNames, name)
	}
	sort.Strings(constraintNames)

	var specs []rowSpec
	for _, name := range constraintNames {
		c := reduced.Constraints[name]
		coefs := rowCoefficients(reduced, name)
		if len(coefs) == 0 {
			continue
		}
		if c.Equal != nil {
			specs = append(specs, rowSpec{name: name, coefs: coefs, sense: senseEQ, rhs: *c.Equal})
			continue
		}
		ranged := c.Min != nil && c.Max != nil
		if c.Max != nil {
			label := name
			if ranged {
				label = name + "_max"
			}
			specs = append(specs, rowSpec{name: label, coefs: coefs, sense: senseLE, rhs: *c.Max})
		}
		if c.Min != nil {
			label := name
			if ranged {
				label = name + "_min"
			}
			specs = append(specs, rowSpec{name: label, coefs: coefs, sense: senseGE, rhs: *c.Min})
		}
	}

	// Finite column upper bounds (set here only for binaries; Branch-and-
	// Bound tightening arrives as extra constraint rows from applyDecisions)
	// are enforced as ordinary LE rows rather
	// than through a bounded-variable ratio test, keeping the Simplex
	// engine a plain nonnegative-orthant tableau simplex throughout.
	for _, name := range names {
		idxs := t.nameIndex[name]
		if len(idxs) != 1 {
			continue // unrestricted splits never carry a finite upper bound
		}
		if upper := t.Cols[idxs[0]].Upper; !math.IsInf(upper, 1) {
			specs = append(specs, rowSpec{name: name + "_ub", coefs: map[string]float64{name: 1},
				sense: senseLE, rhs: upper})
		}
	}

	t.M = len(specs)

	auxPerRow := make([]int, t.M)
	for i, spec := range specs {
		switch spec.sense {
		case senseLE, senseEQ:
			auxPerRow[i] = 1
		case senseGE:
			auxPerRow[i] = 2
		}
		t.N += auxPerRow[i]
	}

	t.C = make([]float64, t.N)
	t.B = make([]float64, t.M)
	t.RowName = make([]string, t.M)
	t.Basis = make([]int, t.M)
	data := make([]float64, t.M*t.N)

	objConst := 0.0
	if objRow, ok := reduced.Variables[reduced.Optimize]; ok {
		for varName, coef := range objRow {
			if fixedAt, isFixed := pl.FixedVars[varName]; isFixed {
				objConst += coef * fixedAt
				continue
			}
			idxs, ok := t.nameIndex[varName]
			if !ok {
				continue
			}
			applySplitCoef(t.C, idxs, coef)
		}
	}
	for j := 0; j < numStructural; j++ {
		t.C[j] *= objSign
	}

	auxCursor := numStructural
	for i, spec := range specs {
		rowStart := i * t.N
		row := data[rowStart : rowStart+t.N]
		rhs := spec.rhs
		for varName, coef := range spec.coefs {
			if fixedAt, isFixed := pl.FixedVars[varName]; isFixed {
				rhs -= coef * fixedAt
				continue
			}
			idxs, ok := t.nameIndex[varName]
			if !ok {
				return nil, nil, 0, newValidationError(ValidationUnknownVariable,
					"constraint %q references unknown internal variable %q", spec.name, varName)
			}
			applySplitCoef(row, idxs, coef)
		}

		sense := spec.sense
		if rhs < 0 {
			for j := 0; j < numStructural; j++ {
				row[j] = -row[j]
			}
			rhs = -rhs
			switch sense {
			case senseLE:
				sense = senseGE
			case senseGE:
				sense = senseLE
			}
		}

		switch sense {
		case senseLE:
			row[auxCursor] = 1
			t.Cols = append(t.Cols, ColumnMeta{Name: spec.name + "_slack", Kind: kindSlack, Lower: 0, Upper: math.Inf(1)})
			t.Basis[i] = auxCursor
			auxCursor++
		case senseGE:
			row[auxCursor] = -1
			row[auxCursor+1] = 1
			t.Cols = append(t.Cols, ColumnMeta{Name: spec.name + "_surplus", Kind: kindSurplus, Lower: 0, Upper: math.Inf(1)})
			t.Cols = append(t.Cols, ColumnMeta{Name: spec.name + "_artificial", Kind: kindArtificial, Lower: 0, Upper: math.Inf(1)})
			t.Basis[i] = auxCursor + 1
			auxCursor += 2
		case senseEQ:
			row[auxCursor] = 1
			t.Cols = append(t.Cols, ColumnMeta{Name: spec.name + "_artificial", Kind: kindArtificial, Lower: 0, Upper: math.Inf(1)})
			t.Basis[i] = auxCursor
			auxCursor++
		}

		t.B[i] = rhs
		t.RowName[i] = spec.name
	}

	t.A = mat.NewDense(t.M, t.N, data)
	return t, pl, objConst, nil
}

// applySplitCoef adds coef (or its negation for the negative half of an
// unrestricted split) into row at the appropriate column index(es).
func applySplitCoef(row []float64, idxs []int, coef float64) {
	if len(idxs) == 1 {
		row[idxs[0]] += coef
		return
	}
	row[idxs[0]] += coef
	row[idxs[1]] += -coef
}
