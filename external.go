// external: External Solver Hand-off
// 01   Aug.  6, 2026   Initial version

// Adapts the write-model / spawn-solver / read-solution / wrap-every-error
// shape of ifgpx.go's CplexSolveProb — there built directly against the
// cgo Cplex binding — to the generic os/exec boundary described in
// docs.go §6: Model.External names a solver binary, its arguments, and a
// temp file path; Solve writes the model as LP text to that path, runs
// the binary, and parses its stdout as a small line-oriented solution
// format. Every missing or invalid field on ExternalSolver is treated as
// fatal at the first violation (docs.go's Open Question resolution),
// unlike CplexSolveProb's file-collision checks it otherwise mirrors.

package lposolve

import (
	"bufio"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// solveExternal writes m to a temp LP file, invokes the caller-supplied
// solver binary against it, and parses the result back into a Solution.
func solveExternal(m Model, params SolveParams) (Solution, error) {
	ext := m.External
	log := Logger("external")

	if ext.BinPath == "" {
		return Solution{}, newExternalError(ExternalStageSpawn, "BinPath is empty")
	}
	if ext.TempName == "" {
		return Solution{}, newExternalError(ExternalStageWrite, "TempName is empty")
	}
	if ext.TempName == ext.BinPath {
		return Solution{}, newExternalError(ExternalStageWrite,
			"TempName %q cannot overwrite the solver binary path", ext.TempName)
	}

	lines := EmitLP(m)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(ext.TempName, []byte(content), 0o644); err != nil {
		return Solution{}, newExternalError(ExternalStageWrite, "%v", err)
	}
	defer os.Remove(ext.TempName)

	args := append(append([]string(nil), ext.Args...), ext.TempName)
	cmd := exec.Command(ext.BinPath, args...)
	output, err := cmd.Output()
	if err != nil {
		return Solution{}, newExternalError(ExternalStageSpawn, "%v", err)
	}

	sol, err := parseExternalSolution(string(output), m, params.Full)
	if err != nil {
		return Solution{}, err
	}
	log.Info().Str("status", sol.Status.String()).Msg("external solve complete")
	return sol, nil
}

// parseExternalSolution reads the solver's stdout, expecting one of:
//
//	status: optimal | infeasible | unbounded
//	objective = <number>
//	<internal-variable-name> = <number>
//
// one directive per line, in any order.
func parseExternalSolution(output string, m Model, full bool) (Solution, error) {
	sol := Solution{Status: StatusInfeasible}
	internal := make(map[string]float64)
	haveObjective := false
	var objective float64

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if rest, ok := trimPrefixField(line, "status"); ok {
			switch strings.ToLower(strings.TrimSpace(rest)) {
			case "optimal":
				sol.Status = StatusOptimal
			case "infeasible":
				sol.Status = StatusInfeasible
			case "unbounded":
				sol.Status = StatusUnbounded
			default:
				return Solution{}, newExternalError(ExternalStageParse, "unrecognized status %q", rest)
			}
			continue
		}
		if rest, ok := trimPrefixField(line, "objective"); ok {
			v, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
			if err != nil {
				return Solution{}, newExternalError(ExternalStageParse, "malformed objective value %q", rest)
			}
			objective, haveObjective = v, true
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			return Solution{}, newExternalError(ExternalStageParse, "unrecognized output line %q", line)
		}
		name := strings.TrimSpace(line[:idx])
		v, err := strconv.ParseFloat(strings.TrimSpace(line[idx+1:]), 64)
		if err != nil {
			return Solution{}, newExternalError(ExternalStageParse, "malformed value for %q", name)
		}
		internal[name] = v
	}
	if err := scanner.Err(); err != nil {
		return Solution{}, newExternalError(ExternalStageParse, "%v", err)
	}

	sol.Feasible = sol.Status == StatusOptimal
	sol.Bounded = sol.Status != StatusUnbounded
	if sol.Status != StatusOptimal {
		return sol, nil
	}
	if !haveObjective {
		return Solution{}, newExternalError(ExternalStageParse, "solver output missing an objective line")
	}
	sol.Result = objective
	sol.Variables = projectSolutionVariables(m, internal, full)
	return sol, nil
}

// trimPrefixField reports whether line begins with field followed by a
// ':', '=', or whitespace separator, and returns the text after it.
func trimPrefixField(line, field string) (string, bool) {
	lower := strings.ToLower(line)
	if !strings.HasPrefix(lower, field) {
		return "", false
	}
	rest := line[len(field):]
	if rest == "" {
		return "", true
	}
	if sep := rest[0]; sep != ':' && sep != '=' && sep != ' ' && sep != '\t' {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, ":")
	rest = strings.TrimPrefix(rest, "=")
	return strings.TrimSpace(rest), true
}
