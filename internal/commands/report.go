package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vorrawut/poon-sub000/internal/config"
	"github.com/vorrawut/poon-sub000/internal/domain"
	"github.com/vorrawut/poon-sub000/internal/logger"
	"github.com/vorrawut/poon-sub000/internal/report"
)

type reportOptions struct {
	preset string
	style  string
	raw    bool
}

func newReportCommand(configPath *string) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard for the seeded data set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(*configPath)
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level)
			return runReport(cmd.Context(), cmd.OutOrStdout(), cfg, opts, log)
		},
	}

	cmd.Flags().StringVar(&opts.preset, "preset", string(domain.PresetMonth), "date range: week, month, quarter, year or all")
	cmd.Flags().StringVar(&opts.style, "style", report.DefaultStyle, "glamour style (dark, light, notty, ...)")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print Markdown without styling")

	return cmd
}

func runReport(ctx context.Context, out io.Writer, cfg *config.Config, opts reportOptions, log zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	if err := a.initialize(ctx); err != nil {
		return err
	}

	ws := a.workspace
	ws.Transactions.SetFilters(domain.FilterPatch{
		DateRange: &domain.DateRange{Preset: domain.DatePreset(opts.preset)},
	})
	snapshot := ws.Snapshot(ws.Now())

	if opts.raw {
		_, err := fmt.Fprint(out, report.Markdown(snapshot))
		return err
	}

	rendered, err := report.Render(snapshot, opts.style)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}
