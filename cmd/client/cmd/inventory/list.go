package inventory

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"shelfkeeper/cmd/client/cmd/cmdutil"
	"shelfkeeper/internal/domain/item"
)

var (
	listFilter string
	listArea   string
	listFridge string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список позиций",
	Long: `Список позиций из локального кэша, по возрастанию срока годности.

Фильтры: all, active, expiring, expired, discarded, finished.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		kind, err := item.ParseFilterKind(listFilter)
		if err != nil {
			return err
		}

		items, err := app.Inventory.ListItems(cmd.Context(), item.Filter{
			Kind:     kind,
			Area:     listArea,
			FridgeID: listFridge,
		})
		if err != nil {
			return fmt.Errorf("ошибка получения списка позиций: %w", err)
		}

		if cmdutil.JSON(cmd) {
			return cmdutil.PrintJSON(cmd.OutOrStdout(), items)
		}
		printItems(cmd.OutOrStdout(), items, time.Now())
		return nil
	},
}

func printItems(out io.Writer, items []item.Item, now time.Time) {
	if len(items) == 0 {
		fmt.Fprintln(out, "Позиции не найдены")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tПРОДУКТ\tКОЛ-ВО\tОТДЕЛ\tГОДЕН ДО\tОСТАЛОСЬ\tСТАТУС")
	for _, it := range items {
		status := item.Classify(it, now)
		label := status.DisplayName()
		if st := it.State(); st != item.StateActive {
			label = string(st)
		}
		fmt.Fprintf(w, "%s\t%s\t%g %s\t%s\t%s\t%s\t%s\n",
			it.ID,
			it.ProductName,
			it.Amount, it.Unit,
			it.Area,
			it.ExpiryTime.Local().Format(cmdutil.TimeLayout),
			cmdutil.HumanizeLeft(item.TimeLeft(it, now)),
			cmdutil.StatusColor(status).Sprint(label),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nВсего: %d\n", len(items))
}

func init() {
	ListCmd.Flags().StringVar(&listFilter, "filter", string(item.FilterActive), "фильтр позиций")
	ListCmd.Flags().StringVar(&listArea, "area", "", "отдел")
	ListCmd.Flags().StringVar(&listFridge, "fridge", "", "холодильник")
}
