package milp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallProgram() *Program {
	p := New("small")
	x := p.AddVar("x", 0, 10, Continuous)
	y := p.AddVar("y", -5, Inf(), Integer)
	b := p.AddVar("b", -3, 7, Binary)
	p.AddCost(x, 2)
	p.AddCost(y, -1)
	p.AddCost(x, 1)
	p.AddRow("cap", LE, 8, T(x, 1), T(y, 1))
	p.AddRow("link", GE, 0, T(x, 1), T(b, -4))
	p.AddRow("fix", EQ, 3, T(y, 1), T(x, 0))
	return p
}

func TestAddVarBinaryBounds(t *testing.T) {
	p := smallProgram()
	b, ok := p.Col("b")
	require.True(t, ok)
	assert.Equal(t, 0.0, p.Vars[b].Lower)
	assert.Equal(t, 1.0, p.Vars[b].Upper)
	assert.Equal(t, 3, p.NumVars())
	assert.Equal(t, 3, p.NumRows())
	assert.Equal(t, 2, p.NumIntegers())
	assert.Equal(t, 1, p.NumBinaries())
}

func TestAddVarDuplicatePanics(t *testing.T) {
	p := New("dup")
	p.AddVar("x", 0, 1, Continuous)
	assert.Panics(t, func() { p.AddVar("x", 0, 1, Continuous) })
}

func TestAddRowCompactsTerms(t *testing.T) {
	p := New("c")
	x := p.AddVar("x", 0, 1, Continuous)
	y := p.AddVar("y", 0, 1, Continuous)
	p.AddRow("r", LE, 1, T(x, 1), T(y, 2), T(x, 2), T(y, -2))
	r, ok := p.RowByName("r")
	require.True(t, ok)
	assert.Equal(t, []Term{{Col: x, Coef: 3}}, r.Terms)
}

func TestObjectiveAndViolations(t *testing.T) {
	p := smallProgram()
	x := []float64{5, 3, 1}
	assert.InDelta(t, 3*5-3, p.ObjectiveValue(x), 1e-12)
	assert.Empty(t, p.Violations(x, 1e-9))

	bad := []float64{11, 2.5, 1}
	v := p.Violations(bad, 1e-9)
	kinds := map[string]bool{}
	for _, vi := range v {
		kinds[vi.Kind+":"+vi.Name] = true
	}
	assert.True(t, kinds["upper bound:x"])
	assert.True(t, kinds["integrality:y"])
	assert.True(t, kinds["row:cap"])
	assert.True(t, kinds["row:fix"])
}

func TestViolationsDimensionMismatch(t *testing.T) {
	p := smallProgram()
	v := p.Violations([]float64{1}, 1e-9)
	require.Len(t, v, 1)
	assert.Equal(t, "dimension", v[0].Kind)
}

func TestWriteLP(t *testing.T) {
	p := smallProgram()
	var buf bytes.Buffer
	require.NoError(t, WriteLP(&buf, p))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\\ small\nMinimize\n obj: + 3 x - 1 y + 0 b\n"))
	assert.Contains(t, out, " cap: + 1 x + 1 y <= 8\n")
	assert.Contains(t, out, " link: + 1 x - 4 b >= 0\n")
	assert.Contains(t, out, " fix: + 1 y = 3\n")
	assert.Contains(t, out, " 0 <= x <= 10\n")
	assert.Contains(t, out, " -5 <= y <= +inf\n")
	assert.Contains(t, out, "Generals\n  y\n")
	assert.Contains(t, out, "Binaries\n  b\n")
	assert.True(t, strings.HasSuffix(out, "End\n"))
}

func TestWriteLPRejectsEmptyRow(t *testing.T) {
	p := New("e")
	p.AddVar("x", 0, 1, Continuous)
	p.AddRow("empty", EQ, 0)
	var buf bytes.Buffer
	assert.Error(t, WriteLP(&buf, p))
}

func TestWriteLPFreeAndFixedBounds(t *testing.T) {
	p := New("b")
	p.AddVar("f", -Inf(), Inf(), Continuous)
	p.AddVar("z", 2, 2, Continuous)
	p.AddVar("d", 0, Inf(), Continuous)
	var buf bytes.Buffer
	require.NoError(t, WriteLP(&buf, p))
	out := buf.String()
	assert.Contains(t, out, " f free\n")
	assert.Contains(t, out, " z = 2\n")
	assert.NotContains(t, out, "<= d")
}
