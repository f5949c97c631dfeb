package cmd

import (
	"github.com/spf13/cobra"

	"booklog/internal/catalog"
	"booklog/internal/cli"
	"booklog/internal/core"
	"booklog/internal/log"
	"booklog/internal/tui"
)

var (
	tuiYear  int
	tuiMonth int
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the calendar in the terminal",
	Long: `Browse the calendar in the terminal.

Keys: ←/→ change month, h/j/k/l or ↑/↓ move the day cursor, enter opens the
month detail page in the browser (BASE_URL), a opens the full list.
Dragging with the mouse swipes between months.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := cli.SignalContext(cmd.Context(), logger)
		defer cancel()

		// The terminal belongs to the calendar; only errors are logged.
		quiet := cli.SetupLogger("error", cmd.ErrOrStderr())

		cat, res, err := cli.OpenCatalog(ctx, cfg, quiet)
		if err != nil {
			return err
		}
		defer res.Close()

		if cfg.WatchData && res.WatchPath != "" {
			w := catalog.WatchCatalog(cat, res.WatchPath, log.Discard())
			go func() { _ = w.Run(ctx) }()
		}

		var start core.MonthScope
		if tuiYear != 0 && tuiMonth != 0 {
			start = core.NormalizeMonth(tuiYear, tuiMonth)
		}

		return tui.Run(ctx, tui.Options{
			Catalog:        cat,
			BaseURL:        cfg.BaseURL,
			Start:          start,
			SwipeThreshold: cfg.SwipeThreshold,
			Location:       cfg.Location(),
			Logger:         log.Discard(),
		})
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().IntVar(&tuiYear, "year", 0, "year to show first (with --month)")
	tuiCmd.Flags().IntVar(&tuiMonth, "month", 0, "month to show first, 1-12 (with --year)")
}
