package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/unitcommit/app"
	"github.com/kilianp07/unitcommit/core/model"
	"github.com/kilianp07/unitcommit/infra/logger"
	"github.com/kilianp07/unitcommit/pkg/export"
)

var (
	runFormat string
	runOutput string
)

var runCmd = &cobra.Command{
	Use:   "run INPUT",
	Short: "Solve a schedule and print it",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedule,
}

func init() {
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "json", "output format: json, csv, table or html")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write the schedule to a file instead of stdout")
	rootCmd.AddCommand(runCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	switch runFormat {
	case "json", "table", "csv", "html":
	default:
		return &model.ConfigurationError{Field: "format", Reason: fmt.Sprintf("unknown format %q", runFormat)}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := setup()
	if err != nil {
		return err
	}
	req, err := loadRequest(args[0], cfg)
	if err != nil {
		return err
	}
	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	res, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if runOutput != "" {
		f, err := os.Create(runOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	switch runFormat {
	case "table":
		return writeTable(w, res.Report.Schedule, cfg.Model.Horizon, req.Start)
	case "csv":
		return export.WriteCSV(w, res.Report.Schedule, req.Start)
	case "html":
		return export.WriteHTML(w, res.Report.Schedule, req.Start)
	default:
		return export.WriteJSON(w, res.Report.Schedule)
	}
}

// writeTable prints one row per hour and one column per unit.
func writeTable(w io.Writer, s *model.Schedule, h model.Horizon, start time.Time) error {
	names := make([]string, 0, len(s.Units))
	for n := range s.Units {
		names = append(names, n)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "hour\tstart\t")
	for _, n := range names {
		fmt.Fprintf(tw, "%s\t", n)
	}
	fmt.Fprintln(tw)
	for _, hour := range h.Hours() {
		fmt.Fprintf(tw, "%d\t%s\t", hour, start.Add(time.Duration(hour-1)*time.Hour).Format("15:04"))
		for _, n := range names {
			p, _ := s.Power(n, hour)
			fmt.Fprintf(tw, "%s\t", strconv.FormatFloat(p, 'f', 2, 64))
		}
		fmt.Fprintln(tw)
	}
	fmt.Fprintf(tw, "run %s\ttotal cost %s\t\n", s.RunID, strconv.FormatFloat(s.TotalCost, 'f', 2, 64))
	return tw.Flush()
}
