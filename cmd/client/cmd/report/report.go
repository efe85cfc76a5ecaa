package report

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shelfkeeper/cmd/client/cmd/cmdutil"
	"shelfkeeper/internal/domain/item"
)

var (
	fromDate string
	toDate   string
)

var ReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Отчеты",
}

var DiscardsCmd = &cobra.Command{
	Use:   "discards",
	Short: "Отчет по списаниям",
	Long: `Списания, сгруппированные по продукту, по убыванию количества.
Границы периода включительные: --from 2025-03-01 --to 2025-03-31.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		from, err := cmdutil.ParseDate(fromDate, false)
		if err != nil {
			return err
		}
		to, err := cmdutil.ParseDate(toDate, true)
		if err != nil {
			return err
		}

		rows, err := app.Inventory.DiscardReport(cmd.Context(), item.DateRange{From: from, To: to})
		if err != nil {
			return err
		}

		if cmdutil.JSON(cmd) {
			return cmdutil.PrintJSON(cmd.OutOrStdout(), rows)
		}

		out := cmd.OutOrStdout()
		if len(rows) == 0 {
			fmt.Fprintln(out, "Списаний за период нет")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ПРОДУКТ\tВСЕГО\tРАЗ\tСРЕДНЕЕ\tПРИЧИНЫ\tПОСЛЕДНЕЕ")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%g %s\t%d\t%.2f\t%s\t%s\n",
				r.ProductName,
				r.TotalQuantity, r.Unit,
				r.DiscardCount,
				r.AverageQuantity,
				formatReasons(r.Reasons),
				r.LastDiscardedAt.Local().Format(cmdutil.TimeLayout),
			)
		}
		return w.Flush()
	},
}

func formatReasons(reasons map[item.DiscardReason]int) string {
	keys := make([]string, 0, len(reasons))
	for k := range reasons {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	s := ""
	for i, k := range keys {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s: %d", k, reasons[item.DiscardReason(k)])
	}
	return s
}

func init() {
	DiscardsCmd.Flags().StringVar(&fromDate, "from", "", "начало периода")
	DiscardsCmd.Flags().StringVar(&toDate, "to", "", "конец периода")
}
