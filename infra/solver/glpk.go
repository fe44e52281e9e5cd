package solver

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kilianp07/unitcommit/core/logger"
	"github.com/kilianp07/unitcommit/core/milp"
	coresolver "github.com/kilianp07/unitcommit/core/solver"
)

// GLPKConfig configures the glpsol executable backend.
type GLPKConfig struct {
	Path      string  `json:"path"`
	Gap       float64 `json:"gap"`
	WorkDir   string  `json:"work_dir"`
	KeepFiles bool    `json:"keep_files"`
}

// GLPK runs the GNU glpsol executable.
type GLPK struct {
	cfg GLPKConfig
	log logger.Logger
}

// NewGLPK returns a GLPK backend. An empty path looks up glpsol in PATH.
func NewGLPK(cfg GLPKConfig, log logger.Logger) *GLPK {
	if cfg.Path == "" {
		cfg.Path = "glpsol"
	}
	return &GLPK{cfg: cfg, log: log}
}

// Solve writes p as an LP file, runs glpsol and parses the raw solution it
// writes. glpsol numbers columns by first appearance, which is program
// order because WriteLP lists every column in the objective.
func (g *GLPK) Solve(ctx context.Context, p *milp.Program) (*coresolver.Solution, error) {
	ws, err := newWorkspace(g.cfg.WorkDir, "glpk-", g.cfg.KeepFiles)
	if err != nil {
		return nil, err
	}
	defer ws.close()

	lp, err := ws.writeProgram(p)
	if err != nil {
		return nil, err
	}
	out := ws.path("model.sol")
	args := []string{"--lp", lp, "--tmlim", strconv.Itoa(timeLimit(ctx, coresolver.DefaultTimeout)), "--write", out}
	if g.cfg.Gap > 0 {
		args = append(args, "--mipgap", strconv.FormatFloat(g.cfg.Gap, 'g', -1, 64))
	}
	log, err := run(ctx, g.cfg.Path, args...)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(out)
	if err != nil {
		return nil, fmt.Errorf("glpsol wrote no solution: %w", err)
	}
	defer func() { _ = f.Close() }()
	sol, err := parseGLPKSolution(f, p)
	if err != nil {
		return nil, err
	}
	if sol.Status == coresolver.StatusUnknown {
		sol.Status, sol.Termination = glpkLogStatus(log)
	}
	g.log.Debugf("glpsol status %s: %s", sol.Status, sol.Termination)
	return sol, nil
}

// parseGLPKSolution reads the glpsol raw format:
//
//	c comment
//	s mip ROWS COLS STATUS OBJ
//	i ROW VALUE
//	j COL VALUE
//	e o f
//
// STATUS is o (optimal), f (feasible), n (no feasible solution) or u
// (undefined).
func parseGLPKSolution(r io.Reader, p *milp.Program) (*coresolver.Solution, error) {
	sol := &coresolver.Solution{}
	sc := bufio.NewScanner(r)
	sawHeader := false
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "s":
			if len(f) < 6 {
				return nil, fmt.Errorf("glpk solution header malformed: %q", sc.Text())
			}
			if f[1] != "mip" {
				return nil, fmt.Errorf("glpk solution is %s, want mip", f[1])
			}
			cols, err := strconv.Atoi(f[3])
			if err != nil {
				return nil, fmt.Errorf("glpk solution header: %w", err)
			}
			if cols != p.NumVars() {
				return nil, fmt.Errorf("glpk solution has %d columns, program has %d", cols, p.NumVars())
			}
			sawHeader = true
			sol.Termination = "glpk status " + f[4]
			switch f[4] {
			case "o":
				sol.Status = coresolver.StatusOptimal
			case "f":
				sol.Status = coresolver.StatusFeasible
			case "n":
				sol.Status = coresolver.StatusInfeasible
			default:
				sol.Status = coresolver.StatusUnknown
			}
			if v, err := strconv.ParseFloat(f[5], 64); err == nil {
				sol.Objective = v
			}
			if sol.Status == coresolver.StatusOptimal || sol.Status == coresolver.StatusFeasible {
				sol.Values = make([]float64, p.NumVars())
			}
		case "j":
			if sol.Values == nil || len(f) < 3 {
				continue
			}
			idx, err := strconv.Atoi(f[1])
			if err != nil || idx < 1 || idx > len(sol.Values) {
				return nil, fmt.Errorf("glpk solution column line %q", sc.Text())
			}
			v, err := strconv.ParseFloat(f[2], 64)
			if err != nil {
				return nil, fmt.Errorf("glpk solution value: %w", err)
			}
			sol.Values[idx-1] = v
		case "e":
			if !sawHeader {
				return nil, fmt.Errorf("glpk solution has no header")
			}
			return sol, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !sawHeader {
		return nil, fmt.Errorf("glpk solution has no header")
	}
	return sol, nil
}

// glpkLogStatus classifies an undefined solution from the glpsol terminal
// output.
func glpkLogStatus(log []byte) (coresolver.Status, string) {
	msgs := []struct {
		text   string
		status coresolver.Status
	}{
		{"NO PRIMAL FEASIBLE SOLUTION", coresolver.StatusInfeasible},
		{"NO INTEGER FEASIBLE SOLUTION", coresolver.StatusInfeasible},
		{"TIME LIMIT EXCEEDED", coresolver.StatusLimit},
		{"UNBOUNDED", coresolver.StatusUnbounded},
	}
	upper := bytes.ToUpper(log)
	for _, m := range msgs {
		if bytes.Contains(upper, []byte(m.text)) {
			return m.status, strings.ToLower(m.text)
		}
	}
	return coresolver.StatusError, tail(string(log), 3)
}
