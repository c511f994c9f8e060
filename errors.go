// errors: Error Taxonomy
// 01   Aug.  6, 2026   Initial version

// This file defines the typed error kinds raised across package boundaries
// (parsing, validation, and the external-solver hand-off). Solver-state
// outcomes (infeasible, unbounded, cycling, timeout) are never raised as
// errors: they are reported in-band through Solution, per docs.go.

package lposolve

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseErrorKind classifies why LP text failed to parse.
type ParseErrorKind string

const (
	ParseErrUnexpectedToken  ParseErrorKind = "UnexpectedToken"
	ParseErrUnknownDirective ParseErrorKind = "UnknownDirective"
	ParseErrMalformedNumber  ParseErrorKind = "MalformedNumber"
	ParseErrUnterminated     ParseErrorKind = "Unterminated"
)

// ParseError reports a malformed line in LP text input, along with the
// 1-based line and column where parsing failed.
type ParseError struct {
	Line     int
	Col      int
	Expected string
	Kind     ParseErrorKind
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("lp parse error at line %d, col %d: expected %s", e.Line, e.Col, e.Expected)
}

func newParseError(line, col int, kind ParseErrorKind, expected string) error {
	return errors.WithStack(&ParseError{Line: line, Col: col, Expected: expected, Kind: kind})
}

// ValidationErrorKind classifies a structural defect found in a Model by
// Solve's optional pre-flight validation pass.
type ValidationErrorKind string

const (
	ValidationMissingObjective ValidationErrorKind = "MissingObjective"
	ValidationUnknownVariable  ValidationErrorKind = "UnknownVariable"
	ValidationConflictingDom   ValidationErrorKind = "ConflictingDomain"
	ValidationMalformedConstr ValidationErrorKind = "MalformedConstraint"
)

// ValidationError reports a structural defect in a Model.
type ValidationError struct {
	Kind   ValidationErrorKind
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("model validation failed (%s): %s", e.Kind, e.Detail)
}

func newValidationError(kind ValidationErrorKind, format string, args ...interface{}) error {
	return errors.WithStack(&ValidationError{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}

// ExternalErrorStage identifies which step of the external-solver hand-off
// (docs.go §6) failed.
type ExternalErrorStage string

const (
	ExternalStageWrite ExternalErrorStage = "Write"
	ExternalStageSpawn ExternalErrorStage = "Spawn"
	ExternalStageParse ExternalErrorStage = "Parse"
)

// ExternalError reports a failure while shelling out to a caller-supplied
// external solver binary.
type ExternalError struct {
	Stage  ExternalErrorStage
	Detail string
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("external solver %s failed: %s", e.Stage, e.Detail)
}

func newExternalError(stage ExternalErrorStage, format string, args ...interface{}) error {
	return errors.WithStack(&ExternalError{Stage: stage, Detail: fmt.Sprintf(format, args...)})
}

// NumericalFailure is raised when the Simplex engine finds every pivot
// candidate below epsPivot and can make no further progress. This is
// distinct from CycleDetected: it indicates the tableau itself has become
// numerically degenerate, not merely that a basis has repeated.
type NumericalFailure struct {
	Detail string
}

func (e *NumericalFailure) Error() string {
	return fmt.Sprintf("numerical failure: %s", e.Detail)
}

func newNumericalFailure(format string, args ...interface{}) error {
	return errors.WithStack(&NumericalFailure{Detail: fmt.Sprintf(format, args...)})
}
