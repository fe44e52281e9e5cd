package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/unitcommit/app"
	"github.com/kilianp07/unitcommit/config"
	"github.com/kilianp07/unitcommit/core/model"
	coremon "github.com/kilianp07/unitcommit/core/monitoring"
	_ "github.com/kilianp07/unitcommit/infra/metrics"
	"github.com/kilianp07/unitcommit/infra/monitoring"
	_ "github.com/kilianp07/unitcommit/infra/solver"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "unitcommit",
	Short:         "Day-ahead unit commitment scheduler",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML or JSON)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// setup loads the configuration and initialises logging and error
// reporting.
func setup() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Logging.Apply(); err != nil {
		return nil, &model.ConfigurationError{Field: "logging.file", Reason: err.Error()}
	}
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)
	return cfg, nil
}

func loadRequest(path string, cfg *config.Config) (app.Request, error) {
	in, err := config.LoadInput(path)
	if err != nil {
		return app.Request{}, err
	}
	units, profiles, start, err := in.Resolve(cfg.Model.Horizon)
	if err != nil {
		return app.Request{}, err
	}
	return app.Request{Units: units, Profiles: profiles, Start: start}, nil
}
