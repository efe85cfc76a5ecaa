package inventory

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shelfkeeper/cmd/client/cmd/cmdutil"
	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/item"
)

var (
	discardQuantity string
	discardReason   string

	updateAmount string
	updateFridge string
	updateArea   string
)

var DiscardCmd = &cobra.Command{
	Use:   "discard <id>",
	Short: "Списать позицию",
	Long: `Списывает позицию. Без --quantity списывается все количество.
Причины: expired, damaged, other.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		opts := item.DiscardOptions{Reason: item.DiscardReason(discardReason)}
		if discardQuantity != "" {
			q, err := strconv.ParseFloat(discardQuantity, 64)
			if err != nil {
				return fmt.Errorf("неверное количество %q", discardQuantity)
			}
			opts.Quantity = &q
		}

		res, err := app.Inventory.DiscardItem(cmd.Context(), entity.Parse(args[0]), opts)
		if err != nil {
			return fmt.Errorf("ошибка списания: %w", err)
		}
		cmdutil.PrintWrite(cmd.OutOrStdout(), "Списано", res)
		return nil
	},
}

var FinishCmd = &cobra.Command{
	Use:   "finish <id>",
	Short: "Отметить позицию израсходованной",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		res, err := app.Inventory.FinishItem(cmd.Context(), entity.Parse(args[0]))
		if err != nil {
			return fmt.Errorf("ошибка завершения: %w", err)
		}
		cmdutil.PrintWrite(cmd.OutOrStdout(), "Израсходовано", res)
		return nil
	},
}

var UpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Изменить позицию",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		var patch item.Patch
		if cmd.Flags().Changed("amount") {
			a, err := strconv.ParseFloat(updateAmount, 64)
			if err != nil {
				return fmt.Errorf("неверное количество %q", updateAmount)
			}
			patch.Amount = &a
		}
		if cmd.Flags().Changed("fridge") {
			patch.FridgeID = &updateFridge
		}
		if cmd.Flags().Changed("area") {
			patch.Area = &updateArea
		}

		res, err := app.Inventory.UpdateItem(cmd.Context(), entity.Parse(args[0]), patch)
		if err != nil {
			return fmt.Errorf("ошибка изменения: %w", err)
		}
		cmdutil.PrintWrite(cmd.OutOrStdout(), "Изменено", res)
		return nil
	},
}

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Удалить позицию",
	Long:  `Удаляет позицию целиком. Доступно менеджерам.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		res, err := app.Inventory.DeleteItem(cmd.Context(), entity.Parse(args[0]))
		if err != nil {
			return fmt.Errorf("ошибка удаления: %w", err)
		}
		cmdutil.PrintWrite(cmd.OutOrStdout(), "Удалено", res)
		return nil
	},
}

func init() {
	DiscardCmd.Flags().StringVar(&discardQuantity, "quantity", "", "списываемое количество")
	DiscardCmd.Flags().StringVar(&discardReason, "reason", "", "причина списания")

	UpdateCmd.Flags().StringVar(&updateAmount, "amount", "", "количество")
	UpdateCmd.Flags().StringVar(&updateFridge, "fridge", "", "холодильник")
	UpdateCmd.Flags().StringVar(&updateArea, "area", "", "отдел")
}
