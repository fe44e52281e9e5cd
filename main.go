package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kilianp07/unitcommit/app"
	"github.com/kilianp07/unitcommit/cmd"
	coremon "github.com/kilianp07/unitcommit/core/monitoring"
)

func main() {
	err := cmd.Execute()
	coremon.Flush(2 * time.Second)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(app.ExitCode(err))
	}
}
