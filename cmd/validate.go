package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/unitcommit/core/commit"
	"github.com/kilianp07/unitcommit/infra/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate INPUT",
	Short: "Check the input and screen the capacity without solving",
	Args:  cobra.ExactArgs(1),
	RunE:  validateInput,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateInput(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	req, err := loadRequest(args[0], cfg)
	if err != nil {
		return err
	}
	m, err := commit.NewScheduler(cfg.Model, nil, logger.New("validate")).Prepare(req.Units, req.Profiles)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d thermal, %d batteries, %d variables, %d rows, %d binaries\n",
		len(m.Fleet.Thermal), len(m.Fleet.Batteries), m.Program.NumVars(), m.Program.NumRows(), m.Program.NumBinaries())
	return nil
}
