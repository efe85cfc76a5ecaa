package inventory

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shelfkeeper/cmd/client/cmd/cmdutil"
	"shelfkeeper/internal/domain/item"
)

var LocationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Активные позиции по отделам и холодильникам",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		groups, err := app.Inventory.Locations(cmd.Context())
		if err != nil {
			return err
		}

		if cmdutil.JSON(cmd) {
			return cmdutil.PrintJSON(cmd.OutOrStdout(), groups)
		}
		printLocations(cmd.OutOrStdout(), groups)
		return nil
	},
}

var SummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Сводка по состояниям и срокам",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		s, err := app.Inventory.Summary(cmd.Context())
		if err != nil {
			return err
		}

		if cmdutil.JSON(cmd) {
			return cmdutil.PrintJSON(cmd.OutOrStdout(), s)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "=== Сводка ===")
		fmt.Fprintf(out, "Активных: %d\n", s.Active)
		fmt.Fprintf(out, "  %s: %d\n", cmdutil.StatusColor(item.StatusGood).Sprint(item.StatusGood.DisplayName()), s.Good)
		fmt.Fprintf(out, "  %s: %d\n", cmdutil.StatusColor(item.StatusWarning).Sprint(item.StatusWarning.DisplayName()), s.Warning)
		fmt.Fprintf(out, "  %s: %d\n", cmdutil.StatusColor(item.StatusExpired).Sprint(item.StatusExpired.DisplayName()), s.Expired)
		fmt.Fprintf(out, "Списано: %d\n", s.Discarded)
		fmt.Fprintf(out, "Израсходовано: %d\n", s.Finished)
		return nil
	},
}

func printLocations(out io.Writer, groups []item.DepartmentGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(out, "Активных позиций нет")
		return
	}

	bold := color.New(color.Bold)
	for _, d := range groups {
		bold.Fprintf(out, "%s (%d)\n", d.Department, d.Count)
		for _, f := range d.Fridges {
			fmt.Fprintf(out, "  %s: %d", f.FridgeName, f.Count)
			if f.Statuses.Expired > 0 {
				cmdutil.StatusColor(item.StatusExpired).Fprintf(out, ", просрочено %d", f.Statuses.Expired)
			}
			if f.Statuses.Warning > 0 {
				cmdutil.StatusColor(item.StatusWarning).Fprintf(out, ", скоро %d", f.Statuses.Warning)
			}
			fmt.Fprintln(out)
			for _, it := range f.Items {
				fmt.Fprintf(out, "    %s %s %g %s\n", it.ID, it.ProductName, it.Amount, it.Unit)
			}
		}
	}
}
