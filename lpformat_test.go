package lposolve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLPBasic(t *testing.T) {
	text := `
maximize:
profit: 3x + 5y

subject to:
c1: x <= 4
c2: 2y <= 12
c3: 3x + 2y <= 18
`
	m, err := ParseLP(strings.Split(text, "\n"))
	require.NoError(t, err)
	require.Equal(t, Maximize, m.OpType)
	require.Equal(t, "profit", m.Optimize)
	require.Equal(t, 3.0, m.Variables["profit"]["x"])
	require.Equal(t, 5.0, m.Variables["profit"]["y"])
	require.NotNil(t, m.Constraints["c1"].Max)
	require.Equal(t, 4.0, *m.Constraints["c1"].Max)
}

func TestParseLPWithIntBinFree(t *testing.T) {
	text := `
minimize:
obj: x + y + z

subject to:
c1: x + y + z >= 1

int:
x

bin:
y

free:
z
`
	m, err := ParseLP(strings.Split(text, "\n"))
	require.NoError(t, err)
	require.True(t, m.Ints["x"])
	require.True(t, m.Binaries["y"])
	require.True(t, m.Unrestricted["z"])
}

func TestParseLPMissingRelationalOperatorIsParseError(t *testing.T) {
	text := `
minimize:
obj: x

subject to:
c1: x 5
`
	_, err := ParseLP(strings.Split(text, "\n"))
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ParseErrUnexpectedToken, pe.Kind)
}

func TestParseLPCommentsAreIgnored(t *testing.T) {
	text := `
// full-line comment
minimize:
obj: x // trailing comment

subject to:
c1: x >= 1
`
	m, err := ParseLP(strings.Split(text, "\n"))
	require.NoError(t, err)
	require.Equal(t, 1.0, m.Variables["obj"]["x"])
}

// TestParseLPRowNamesSharingHeaderPrefixAreNotMisdetected confirms that
// constraint names beginning with "max"/"min"/"int"/"bin" (a legal row
// name, not a section keyword) parse as ordinary constraints rather than
// being swallowed as a bogus section header.
func TestParseLPRowNamesSharingHeaderPrefixAreNotMisdetected(t *testing.T) {
	text := `
minimize:
obj: x + y + z + w

subject to:
maxcap: x <= 10
mincost: x + y <= 4
intake: z >= 1
binCount: w <= 1
`
	m, err := ParseLP(strings.Split(text, "\n"))
	require.NoError(t, err)
	require.NotNil(t, m.Constraints["maxcap"].Max)
	require.Equal(t, 10.0, *m.Constraints["maxcap"].Max)
	require.NotNil(t, m.Constraints["mincost"].Max)
	require.Equal(t, 4.0, *m.Constraints["mincost"].Max)
	require.NotNil(t, m.Constraints["intake"].Min)
	require.Equal(t, 1.0, *m.Constraints["intake"].Min)
	require.NotNil(t, m.Constraints["binCount"].Max)
	require.Equal(t, 1.0, *m.Constraints["binCount"].Max)
}

func TestEmitLPRoundTripsCoefficients(t *testing.T) {
	m := simpleLPModel()
	lines := EmitLP(m)
	reparsed, err := ParseLP(lines)
	require.NoError(t, err)
	require.Equal(t, m.Variables["profit"], reparsed.Variables["profit"])
	require.Equal(t, m.OpType, reparsed.OpType)
}

func TestEmitLPIsDeterministic(t *testing.T) {
	m := simpleLPModel()
	first := EmitLP(m)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, EmitLP(m))
	}
}
