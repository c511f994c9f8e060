// lpformat: LP Text Format Parser and Emitter
// 01   Aug.  6, 2026   Initial version

// Implements docs.go §4.1's line-oriented LP text format: an objective
// section, a constraints section, and optional bounds/int/bin/free
// declaration sections. The tokenizer follows the simple whitespace-split,
// running-sign-accumulator approach used by the LP readers among the
// example repos rather than a full grammar/parser-generator, since the
// format itself is a small fixed set of line shapes.

package lposolve

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type lpSection int

const (
	secNone lpSection = iota
	secObjective
	secConstraints
	secBounds
	secInt
	secBin
	secFree
)

// ParseLP parses LP text (one statement per line) into a Model, per
// docs.go §4.1. Malformed input is reported as a *ParseError carrying the
// offending line and column.
func ParseLP(lines []string) (Model, error) {
	m := NewModel()
	section := secNone
	haveObjective := false

	for lineNo, raw := range lines {
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if header, ok := sectionHeader(line); ok {
			section = header
			if header == secObjective {
				m.OpType = Minimize
				if strings.HasPrefix(strings.ToLower(line), "max") {
					m.OpType = Maximize
				}
			}
			continue
		}

		switch section {
		case secNone:
			return Model{}, newParseError(lineNo+1, 1, ParseErrUnknownDirective,
				"a section header (maximize/minimize/subject to/bounds/int/bin/free)")

		case secObjective:
			if haveObjective {
				return Model{}, newParseError(lineNo+1, 1, ParseErrUnexpectedToken, "single objective line")
			}
			name, terms, err := parseLinearLine(line, lineNo+1)
			if err != nil {
				return Model{}, err
			}
			m.Optimize = name
			m.Variables[name] = terms
			haveObjective = true

		case secConstraints:
			name, terms, cons, err := parseConstraintLine(line, lineNo+1, len(m.Constraints))
			if err != nil {
				return Model{}, err
			}
			// A second line under the same row name (EmitLP writes a ranged
			// row as a ">=" line and a "<=" line) adds its bound to the row.
			if existing, dup := m.Constraints[name]; dup {
				if cons.Min != nil {
					existing.Min = cons.Min
				}
				if cons.Max != nil {
					existing.Max = cons.Max
				}
				if cons.Equal != nil {
					existing.Equal = cons.Equal
				}
				cons = existing
			}
			m.Variables[name] = terms
			m.Constraints[name] = cons

		case secBounds:
			if err := parseBoundLine(line, lineNo+1, &m); err != nil {
				return Model{}, err
			}

		case secInt:
			for _, tok := range strings.Fields(line) {
				m.Ints[tok] = true
			}

		case secBin:
			for _, tok := range strings.Fields(line) {
				m.Binaries[tok] = true
			}

		case secFree:
			for _, tok := range strings.Fields(line) {
				m.Unrestricted[tok] = true
			}
		}
	}

	if !haveObjective {
		return Model{}, newParseError(len(lines)+1, 1, ParseErrUnterminated, "an objective section")
	}
	return m, nil
}

func stripComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		return line[:idx]
	}
	return line
}

// sectionKeywords lists the only tokens sectionHeader ever recognizes.
var sectionKeywords = map[string]lpSection{
	"maximize":     secObjective,
	"max":          secObjective,
	"minimize":     secObjective,
	"min":          secObjective,
	"subject to":   secConstraints,
	"st":           secConstraints,
	"constraints":  secConstraints,
	"bounds":       secBounds,
	"int":          secInt,
	"bin":          secBin,
	"free":         secFree,
	"unrestricted": secFree,
}

// sectionHeader recognizes a line as a section header only when, after
// trimming a trailing colon, the entire line is exactly one of
// sectionKeywords - never a prefix test against arbitrary line content. A
// constraint or row name that merely starts with a keyword (e.g. "maxcap: x
// <= 10", "intake: z >= 1") is thus left for the constraint parser instead
// of being swallowed as a bogus section transition.
func sectionHeader(line string) (lpSection, bool) {
	candidate := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ":"))
	sec, ok := sectionKeywords[strings.ToLower(candidate)]
	return sec, ok
}

// parseLinearLine parses "name: term term ..." into a name and its
// coefficient map, where each term is [+-]?number?varname.
func parseLinearLine(line string, lineNo int) (string, map[string]float64, error) {
	name := ""
	body := line
	if idx := strings.Index(line, ":"); idx >= 0 {
		name = strings.TrimSpace(line[:idx])
		body = line[idx+1:]
	}
	if hdr, ok := sectionHeader(line); ok && hdr == secObjective {
		if idx := strings.Index(line, ":"); idx < 0 {
			body = strings.Join(strings.Fields(line)[1:], " ")
		}
	}
	terms, err := parseTerms(body, lineNo)
	if err != nil {
		return "", nil, err
	}
	if name == "" {
		name = "obj"
	}
	return name, terms, nil
}

// parseConstraintLine parses "name: term term ... <= number" (or >=, =)
// into the row's linear combination and its Constraint bound. A missing
// name is assigned a positional "R_<index>" per docs.go §4.1's emit
// convention for anonymous rows, kept symmetric on the parse side too.
func parseConstraintLine(line string, lineNo, index int) (string, map[string]float64, Constraint, error) {
	name := "R_" + strconv.Itoa(index+1)
	body := line
	if idx := strings.Index(line, ":"); idx >= 0 {
		name = strings.TrimSpace(line[:idx])
		body = line[idx+1:]
	}

	op, opIdx := findRelop(body)
	if opIdx < 0 {
		return "", nil, Constraint{}, newParseError(lineNo, 1, ParseErrUnexpectedToken,
			"a relational operator (<=, >=, =, <, >)")
	}
	lhs := body[:opIdx]
	rhsStr := strings.TrimSpace(body[opIdx+len(op):])
	rhs, err := strconv.ParseFloat(rhsStr, 64)
	if err != nil {
		return "", nil, Constraint{}, newParseError(lineNo, opIdx+len(op)+1, ParseErrMalformedNumber, "a numeric bound")
	}

	terms, err := parseTerms(lhs, lineNo)
	if err != nil {
		return "", nil, Constraint{}, err
	}

	var c Constraint
	switch op {
	case "<=", "<":
		c = Constraint{Max: &rhs}
	case ">=", ">":
		c = Constraint{Min: &rhs}
	case "=", "==":
		c = Constraint{Equal: &rhs}
	}
	return name, terms, c, nil
}

func findRelop(s string) (string, int) {
	for _, op := range []string{"<=", ">=", "==", "<", ">", "="} {
		if idx := strings.Index(s, op); idx >= 0 {
			return op, idx
		}
	}
	return "", -1
}

// parseTerms tokenizes a sum of signed coefficient*variable terms. A term
// with no explicit coefficient defaults to 1 (docs.go §4.1).
func parseTerms(s string, lineNo int) (map[string]float64, error) {
	s = strings.ReplaceAll(s, "-", " -")
	s = strings.ReplaceAll(s, "+", " +")
	fields := strings.Fields(s)
	terms := make(map[string]float64)

	pending := 1.0 // sign of a bare "+"/"-" token, carried to the next term
	for _, tok := range fields {
		sign := pending
		pending = 1.0
		if strings.HasPrefix(tok, "+") {
			tok = tok[1:]
		} else if strings.HasPrefix(tok, "-") {
			sign = -sign
			tok = tok[1:]
		}
		if tok == "" {
			pending = sign
			continue
		}

		i := 0
		for i < len(tok) && (isDigit(tok[i]) || tok[i] == '.') {
			i++
		}
		var coef float64 = 1
		var varName string
		if i > 0 {
			var err error
			coef, err = strconv.ParseFloat(tok[:i], 64)
			if err != nil {
				return nil, newParseError(lineNo, 1, ParseErrMalformedNumber, "a numeric coefficient")
			}
			varName = tok[i:]
		} else {
			varName = tok
		}
		if varName == "" {
			return nil, newParseError(lineNo, 1, ParseErrUnexpectedToken, "a variable name after the coefficient")
		}
		terms[varName] += sign * coef
	}
	return terms, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// parseBoundLine parses "name >= number", "name <= number", or
// "name = number" bound declarations. Bounds on a raw internal variable
// (one with no Variables row of its own) are recorded as Constraints
// entries, matching docs.go §3's raw-internal-variable invariant.
func parseBoundLine(line string, lineNo int, m *Model) error {
	op, opIdx := findRelop(line)
	if opIdx < 0 {
		return newParseError(lineNo, 1, ParseErrUnexpectedToken, "a relational operator in a bound declaration")
	}
	name := strings.TrimSpace(line[:opIdx])
	rhsStr := strings.TrimSpace(line[opIdx+len(op):])
	rhs, err := strconv.ParseFloat(rhsStr, 64)
	if err != nil {
		return newParseError(lineNo, opIdx+len(op)+1, ParseErrMalformedNumber, "a numeric bound")
	}

	existing := m.Constraints[name]
	switch op {
	case "<=", "<":
		existing.Max = &rhs
	case ">=", ">":
		existing.Min = &rhs
	case "=", "==":
		existing.Equal = &rhs
	}
	m.Constraints[name] = existing
	return nil
}

// EmitLP renders m back into the LP text format, in a canonical order
// (objective, then constraints sorted by name, then int/bin/free sections
// sorted by variable name; a bound on a raw internal variable is written
// as a constraint row, not as a bounds section) so repeated emission of the same
// Model is byte-identical (docs.go §8 property 7). Round-tripping through
// ParseLP then EmitLP reproduces the same coefficients and bounds, though
// not necessarily the original row names for constraints that were never
// given an explicit name.
func EmitLP(m Model) []string {
	var out []string

	verb := "minimize"
	if m.OpType == Maximize {
		verb = "maximize"
	}
	out = append(out, verb+":")
	out = append(out, formatLinearLine(m.Optimize, m.Variables[m.Optimize]))
	out = append(out, "")

	out = append(out, "subject to:")
	var conNames []string
	for name := range m.Constraints {
		conNames = append(conNames, name)
	}
	sort.Strings(conNames)
	for _, name := range conNames {
		if name == m.Optimize {
			continue
		}
		c := m.Constraints[name]
		terms := rowCoefficients(m, name)
		lhs := formatTerms(terms)
		switch {
		case c.Equal != nil:
			out = append(out, fmt.Sprintf("%s: %s = %s", name, lhs, formatNum(*c.Equal)))
		case c.Min != nil && c.Max != nil:
			out = append(out, fmt.Sprintf("%s: %s >= %s", name, lhs, formatNum(*c.Min)))
			out = append(out, fmt.Sprintf("%s: %s <= %s", name, lhs, formatNum(*c.Max)))
		case c.Max != nil:
			out = append(out, fmt.Sprintf("%s: %s <= %s", name, lhs, formatNum(*c.Max)))
		case c.Min != nil:
			out = append(out, fmt.Sprintf("%s: %s >= %s", name, lhs, formatNum(*c.Min)))
		}
	}
	out = append(out, "")

	if names := sortedKeys(m.Ints); len(names) > 0 {
		out = append(out, "int:")
		out = append(out, strings.Join(names, " "))
		out = append(out, "")
	}
	if names := sortedKeys(m.Binaries); len(names) > 0 {
		out = append(out, "bin:")
		out = append(out, strings.Join(names, " "))
		out = append(out, "")
	}
	if names := sortedKeys(m.Unrestricted); len(names) > 0 {
		out = append(out, "free:")
		out = append(out, strings.Join(names, " "))
	}

	return out
}

func sortedKeys(m map[string]bool) []string {
	var out []string
	for k, v := range m {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func formatLinearLine(name string, terms map[string]float64) string {
	return name + ": " + formatTerms(terms)
}

func formatTerms(terms map[string]float64) string {
	var names []string
	for n := range terms {
		names = append(names, n)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, n := range names {
		coef := terms[n]
		if i > 0 {
			if coef < 0 {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
		} else if coef < 0 {
			b.WriteString("-")
		}
		abs := coef
		if abs < 0 {
			abs = -abs
		}
		if abs != 1 {
			b.WriteString(formatNum(abs))
		}
		b.WriteString(n)
	}
	return b.String()
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
