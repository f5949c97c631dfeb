package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"booklog/internal/cli"
	"booklog/internal/core"
)

var listCmd = &cobra.Command{
	Use:   "list [year month | all]",
	Short: "List books grouped by day",
	Long: `List the books of a month, one line per book ordered by day, or every
month with "all". Without arguments the current month is listed.

Examples:
  booklog list
  booklog list 2024 3
  booklog list all`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, res, err := cli.OpenCatalog(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer res.Close()

		snap, err := cat.Snapshot()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		scope, err := listScope(args)
		if err != nil {
			return err
		}

		if scope.All {
			for _, m := range snap.Months {
				fmt.Fprintf(out, "%s\n", m.Scope)
				if err := core.WriteDays(out, m.Days); err != nil {
					return err
				}
			}
			if snap.Undated > 0 {
				fmt.Fprintf(out, "%d undated records are not shown.\n", snap.Undated)
			}
			return nil
		}

		days := snap.Days(scope.Month)
		if days.Count() == 0 {
			fmt.Fprintf(out, "No books in %s.\n", scope.Month)
			return nil
		}
		return core.WriteDays(out, days)
	},
}

// listScope turns the positional arguments into a scope: none is the
// current month, "all" the whole log, two numbers a normalised month.
func listScope(args []string) (core.Scope, error) {
	switch len(args) {
	case 0:
		return core.InMonth(core.DateOf(nowIn()).Scope()), nil
	case 1:
		if args[0] == "all" {
			return core.AllScope(), nil
		}
		return core.Scope{}, fmt.Errorf("expected \"all\" or a year and a month, got %q", args[0])
	default:
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return core.Scope{}, fmt.Errorf("invalid year %q", args[0])
		}
		month, err := strconv.Atoi(args[1])
		if err != nil {
			return core.Scope{}, fmt.Errorf("invalid month %q", args[1])
		}
		return core.InMonth(core.NormalizeMonth(year, month)), nil
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
