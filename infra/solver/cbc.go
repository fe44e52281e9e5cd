package solver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/unitcommit/core/logger"
	"github.com/kilianp07/unitcommit/core/milp"
	coresolver "github.com/kilianp07/unitcommit/core/solver"
)

// CBCConfig configures the cbc executable backend.
type CBCConfig struct {
	Path      string  `json:"path"`
	Threads   int     `json:"threads"`
	Gap       float64 `json:"gap"`
	WorkDir   string  `json:"work_dir"`
	KeepFiles bool    `json:"keep_files"`
}

// CBC runs the COIN-OR cbc executable.
type CBC struct {
	cfg CBCConfig
	log logger.Logger
}

// NewCBC returns a CBC backend. An empty path looks up cbc in PATH.
func NewCBC(cfg CBCConfig, log logger.Logger) *CBC {
	if cfg.Path == "" {
		cfg.Path = "cbc"
	}
	return &CBC{cfg: cfg, log: log}
}

// Solve writes p as an LP file, runs cbc and parses its solution file.
func (c *CBC) Solve(ctx context.Context, p *milp.Program) (*coresolver.Solution, error) {
	ws, err := newWorkspace(c.cfg.WorkDir, "cbc-", c.cfg.KeepFiles)
	if err != nil {
		return nil, err
	}
	defer ws.close()

	lp, err := ws.writeProgram(p)
	if err != nil {
		return nil, err
	}
	sol := ws.path("model.sol")
	args := []string{lp, "sec", strconv.Itoa(timeLimit(ctx, coresolver.DefaultTimeout))}
	if c.cfg.Threads > 0 {
		args = append(args, "threads", strconv.Itoa(c.cfg.Threads))
	}
	if c.cfg.Gap > 0 {
		args = append(args, "ratio", strconv.FormatFloat(c.cfg.Gap, 'g', -1, 64))
	}
	args = append(args, "solve", "solu", sol)

	start := time.Now()
	if _, err := run(ctx, c.cfg.Path, args...); err != nil {
		return nil, err
	}
	c.log.Debugf("cbc finished in %s (files in %s)", time.Since(start), ws.dir)

	f, err := os.Open(sol)
	if err != nil {
		return nil, fmt.Errorf("cbc wrote no solution: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parseCBCSolution(f, p)
}

// parseCBCSolution reads a cbc solution file. The first line holds the
// status and objective; every other line is "index name value reduced",
// optionally prefixed by "**" when the value breaks a bound. Columns
// missing from the file are zero.
func parseCBCSolution(r io.Reader, p *milp.Program) (*coresolver.Solution, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("cbc solution is empty")
	}
	header := strings.TrimSpace(sc.Text())
	sol := &coresolver.Solution{Status: cbcStatus(header), Termination: header}
	if i := strings.LastIndex(header, "objective value"); i >= 0 {
		v, err := strconv.ParseFloat(strings.TrimSpace(header[i+len("objective value"):]), 64)
		if err == nil {
			sol.Objective = v
		}
	}
	if sol.Status != coresolver.StatusOptimal && sol.Status != coresolver.StatusFeasible {
		return sol, nil
	}

	sol.Values = make([]float64, p.NumVars())
	for sc.Scan() {
		fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(sc.Text()), "**"))
		if len(fields) < 3 {
			continue
		}
		col, ok := p.Col(fields[1])
		if !ok {
			return nil, fmt.Errorf("cbc solution names unknown column %q", fields[1])
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("cbc solution value for %s: %w", fields[1], err)
		}
		sol.Values[col] = v
	}
	return sol, sc.Err()
}

func cbcStatus(header string) coresolver.Status {
	h := strings.ToLower(header)
	switch {
	case strings.HasPrefix(h, "optimal"):
		return coresolver.StatusOptimal
	case strings.HasPrefix(h, "stopped"):
		if strings.Contains(h, "no integer solution") {
			return coresolver.StatusLimit
		}
		return coresolver.StatusFeasible
	case strings.Contains(h, "infeasible"):
		return coresolver.StatusInfeasible
	case strings.HasPrefix(h, "unbounded"):
		return coresolver.StatusUnbounded
	default:
		return coresolver.StatusError
	}
}
