package cmd

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/unitcommit/core/commit"
	"github.com/kilianp07/unitcommit/core/milp"
	"github.com/kilianp07/unitcommit/infra/logger"
)

var exportOutput string

var exportLPCmd = &cobra.Command{
	Use:   "export-lp INPUT",
	Short: "Write the built program in CPLEX LP format",
	Args:  cobra.ExactArgs(1),
	RunE:  exportLP,
}

func init() {
	exportLPCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "LP file, stdout when empty")
	rootCmd.AddCommand(exportLPCmd)
}

func exportLP(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	req, err := loadRequest(args[0], cfg)
	if err != nil {
		return err
	}
	log := logger.New("export-lp")
	m, err := commit.NewScheduler(cfg.Model, nil, log).Prepare(req.Units, req.Profiles)
	var ce *commit.CapacityError
	switch {
	case errors.As(err, &ce) && m != nil:
		// the program is still useful to inspect
		log.Warnf("capacity screen: %v", ce)
	case err != nil:
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return milp.WriteLP(w, m.Program)
}
