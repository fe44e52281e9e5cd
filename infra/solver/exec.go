package solver

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kilianp07/unitcommit/core/milp"
)

// execCommand builds solver processes. Tests replace it.
var execCommand = exec.CommandContext

// deadlineMargin is kept free for reading the solution back.
const deadlineMargin = 2 * time.Second

// workspace is a scratch directory holding the model and solution files of
// one run.
type workspace struct {
	dir  string
	keep bool
}

func newWorkspace(base, prefix string, keep bool) (*workspace, error) {
	dir, err := os.MkdirTemp(base, prefix)
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	return &workspace{dir: dir, keep: keep}, nil
}

func (w *workspace) path(name string) string { return filepath.Join(w.dir, name) }

func (w *workspace) close() {
	if !w.keep {
		_ = os.RemoveAll(w.dir)
	}
}

// writeProgram stores p in CPLEX LP format and returns the file path.
func (w *workspace) writeProgram(p *milp.Program) (string, error) {
	path := w.path("model.lp")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := milp.WriteLP(f, p); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write lp: %w", err)
	}
	return path, f.Close()
}

// timeLimit converts the context deadline into whole seconds for the
// solver's own limit. Without a deadline it returns fallback.
func timeLimit(ctx context.Context, fallback time.Duration) int {
	d := fallback
	if dl, ok := ctx.Deadline(); ok {
		d = time.Until(dl)
		if d > 2*deadlineMargin {
			d -= deadlineMargin
		}
	}
	return int(math.Max(1, math.Floor(d.Seconds())))
}

// run executes a solver binary and returns its combined output. When ctx
// ends first the context error is returned.
func run(ctx context.Context, path string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := execCommand(ctx, path, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = time.Second
	err := cmd.Run()
	if ctx.Err() != nil {
		return out.Bytes(), ctx.Err()
	}
	if err != nil {
		return out.Bytes(), fmt.Errorf("%s: %w: %s", filepath.Base(path), err, tail(out.String(), 5))
	}
	return out.Bytes(), nil
}

// tail returns the last n non-empty lines of s.
func tail(s string, n int) string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, strings.TrimSpace(l))
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
