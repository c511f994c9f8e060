// lposolve: LP/MILP Solver Core
// 01   Aug.  6, 2026   Initial version

// Package lposolve implements a two-phase tableau Simplex engine, a
// Branch-and-Bound driver for mixed-integer problems, a Standard Form
// preprocessor with a light presolve pass, and a small LP text format for
// building or dumping a Model. It also defines the boundary contract for
// handing a Model off to an external solver binary instead of solving it
// internally.
//
// The primary entrypoints are Solve, which runs a Model through the
// internal engine (or the external boundary, when Model.External is
// set), and ParseLP/EmitLP, which convert between a Model and its LP text
// representation.
package lposolve
