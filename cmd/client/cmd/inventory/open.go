package inventory

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shelfkeeper/cmd/client/cmd/cmdutil"
)

var openFridge string

var OpenCmd = &cobra.Command{
	Use:   "open <продукт> <количество>",
	Short: "Открыть продукт",
	Long: `Создает открытую позицию по продукту из каталога. Продукт задается
идентификатором или названием. Срок годности рассчитывается по каталогу.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("неверное количество %q", args[1])
		}

		it, res, err := app.Inventory.OpenProduct(cmd.Context(), args[0], amount, openFridge)
		if err != nil {
			return fmt.Errorf("ошибка открытия продукта: %w", err)
		}

		if cmdutil.JSON(cmd) {
			return cmdutil.PrintJSON(cmd.OutOrStdout(), it)
		}

		out := cmd.OutOrStdout()
		cmdutil.PrintWrite(out, "Открыто", res)
		fmt.Fprintf(out, "  %s, %g %s\n", it.ProductName, it.Amount, it.Unit)
		fmt.Fprintf(out, "  Годен до: %s\n", it.ExpiryTime.Local().Format(cmdutil.TimeLayout))
		return nil
	},
}

func init() {
	OpenCmd.Flags().StringVar(&openFridge, "fridge", "", "идентификатор холодильника")
}
