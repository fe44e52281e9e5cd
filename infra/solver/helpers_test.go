package solver

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/kilianp07/unitcommit/core/milp"
	"github.com/kilianp07/unitcommit/infra/logger"
)

var nop = logger.NopLogger{}

// tinyProgram: min x + 5b s.t. x - 10b <= 0, x >= 3, x in [0,10], b binary.
func tinyProgram() *milp.Program {
	p := milp.New("tiny")
	x := p.AddVar("x", 0, 10, milp.Continuous)
	b := p.AddVar("b", 0, 1, milp.Binary)
	p.AddRow("link", milp.LE, 0, milp.T(x, 1), milp.T(b, -10))
	p.AddRow("floor", milp.GE, 3, milp.T(x, 1))
	p.AddCost(x, 1)
	p.AddCost(b, 5)
	return p
}

// fakeExecutable writes a shell script standing in for a solver binary.
func fakeExecutable(t *testing.T, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}
