package solver

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coresolver "github.com/kilianp07/unitcommit/core/solver"
)

const glpkOptimal = `c Problem:    tiny
c Rows:       2
c Columns:    2 (1 integer, 1 binary)
c Status:     INTEGER OPTIMAL
c Objective:  obj = 8 (MINimum)
c
s mip 2 2 o 8
i 1 -7
i 2 3
j 1 3
j 2 1
e o f
`

func TestParseGLPKSolution(t *testing.T) {
	sol, err := parseGLPKSolution(strings.NewReader(glpkOptimal), tinyProgram())
	require.NoError(t, err)
	assert.Equal(t, coresolver.StatusOptimal, sol.Status)
	assert.Equal(t, 8.0, sol.Objective)
	assert.Equal(t, []float64{3, 1}, sol.Values)
}

func TestParseGLPKSolution_Statuses(t *testing.T) {
	sol, err := parseGLPKSolution(strings.NewReader("s mip 2 2 n 0\ne o f\n"), tinyProgram())
	require.NoError(t, err)
	assert.Equal(t, coresolver.StatusInfeasible, sol.Status)
	assert.Nil(t, sol.Values)

	sol, err = parseGLPKSolution(strings.NewReader("s mip 2 2 f 9\nj 1 4\nj 2 1\ne o f\n"), tinyProgram())
	require.NoError(t, err)
	assert.Equal(t, coresolver.StatusFeasible, sol.Status)
	assert.Equal(t, []float64{4, 1}, sol.Values)

	sol, err = parseGLPKSolution(strings.NewReader("s mip 2 2 u 0\ne o f\n"), tinyProgram())
	require.NoError(t, err)
	assert.Equal(t, coresolver.StatusUnknown, sol.Status)
}

func TestParseGLPKSolution_Errors(t *testing.T) {
	for _, in := range []string{
		"",
		"s lp 2 2 o 1\n",
		"s mip 2 3 o 1\n",
		"s mip 2 2 o 1\nj 9 1\n",
		"e o f\n",
	} {
		_, err := parseGLPKSolution(strings.NewReader(in), tinyProgram())
		assert.Error(t, err, in)
	}
}

func TestGLPKLogStatus(t *testing.T) {
	st, _ := glpkLogStatus([]byte("Integer optimization begins...\nPROBLEM HAS NO INTEGER FEASIBLE SOLUTION\n"))
	assert.Equal(t, coresolver.StatusInfeasible, st)
	st, _ = glpkLogStatus([]byte("TIME LIMIT EXCEEDED; SEARCH TERMINATED\n"))
	assert.Equal(t, coresolver.StatusLimit, st)
	st, msg := glpkLogStatus([]byte("glp_intopt: something\n"))
	assert.Equal(t, coresolver.StatusError, st)
	assert.Equal(t, "glp_intopt: something", msg)
}

func TestGLPK_Solve(t *testing.T) {
	script := `while [ $# -gt 0 ]; do
  if [ "$1" = "--write" ]; then out="$2"; fi
  shift
done
echo "PROBLEM HAS NO INTEGER FEASIBLE SOLUTION"
cat > "$out" <<'SOL'
s mip 2 2 u 0
e o f
SOL
`
	path := fakeExecutable(t, "glpsol", script)
	sol, err := NewGLPK(GLPKConfig{Path: path}, nop).Solve(context.Background(), tinyProgram())
	require.NoError(t, err)
	assert.Equal(t, coresolver.StatusInfeasible, sol.Status)
	assert.Equal(t, "no integer feasible solution", sol.Termination)
}

func TestGLPK_SolveOptimal(t *testing.T) {
	script := `while [ $# -gt 0 ]; do
  if [ "$1" = "--write" ]; then out="$2"; fi
  shift
done
cat > "$out" <<'SOL'
` + glpkOptimal + `SOL
`
	path := fakeExecutable(t, "glpsol", script)
	sol, err := NewGLPK(GLPKConfig{Path: path}, nop).Solve(context.Background(), tinyProgram())
	require.NoError(t, err)
	assert.Equal(t, coresolver.StatusOptimal, sol.Status)
	assert.Equal(t, []float64{3, 1}, sol.Values)
}
