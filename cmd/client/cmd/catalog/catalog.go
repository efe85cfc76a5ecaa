package catalog

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shelfkeeper/cmd/client/cmd/cmdutil"
	"shelfkeeper/internal/domain/item"
	"shelfkeeper/internal/domain/product"
)

var (
	productShelfLife int
	productUnit      string
	productArea      string
	productCategory  string
	productName      string
)

// ProductCmd родительская команда для каталога продуктов
var ProductCmd = &cobra.Command{
	Use:     "product",
	Aliases: []string{"products"},
	Short:   "Каталог продуктов",
	Long:    `Просмотр каталога и управление им. Изменение каталога доступно менеджерам.`,
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список продуктов",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		products, err := app.Inventory.Products(cmd.Context())
		if err != nil {
			return err
		}

		if cmdutil.JSON(cmd) {
			return cmdutil.PrintJSON(cmd.OutOrStdout(), products)
		}

		out := cmd.OutOrStdout()
		if len(products) == 0 {
			fmt.Fprintln(out, "Каталог пуст")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tНАЗВАНИЕ\tСРОК, ДН\tЕД.\tОТДЕЛ")
		for _, p := range products {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", p.ID, p.Name, p.ShelfLifeDays, p.Unit, p.Area)
		}
		return w.Flush()
	},
}

var AddCmd = &cobra.Command{
	Use:   "add <название>",
	Short: "Добавить продукт",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		p := product.Product{
			Name:          args[0],
			ShelfLifeDays: productShelfLife,
			Unit:          item.Unit(productUnit),
			Area:          productArea,
			CategoryID:    productCategory,
		}
		res, err := app.Inventory.AddProduct(cmd.Context(), p)
		if err != nil {
			return fmt.Errorf("ошибка добавления продукта: %w", err)
		}
		cmdutil.PrintWrite(cmd.OutOrStdout(), "Добавлено", res)
		return nil
	},
}

var UpdateCmd = &cobra.Command{
	Use:   "update <id|название>",
	Short: "Изменить продукт",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		var patch product.Patch
		flags := cmd.Flags()
		if flags.Changed("name") {
			patch.Name = &productName
		}
		if flags.Changed("shelf-life") {
			patch.ShelfLifeDays = &productShelfLife
		}
		if flags.Changed("unit") {
			u := item.Unit(productUnit)
			patch.Unit = &u
		}
		if flags.Changed("area") {
			patch.Area = &productArea
		}
		if flags.Changed("category") {
			patch.CategoryID = &productCategory
		}

		res, err := app.Inventory.UpdateProduct(cmd.Context(), args[0], patch)
		if err != nil {
			return fmt.Errorf("ошибка изменения продукта: %w", err)
		}
		cmdutil.PrintWrite(cmd.OutOrStdout(), "Изменено", res)
		return nil
	},
}

var DeleteCmd = &cobra.Command{
	Use:   "delete <id|название>",
	Short: "Удалить продукт",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		res, err := app.Inventory.DeleteProduct(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ошибка удаления продукта: %w", err)
		}
		cmdutil.PrintWrite(cmd.OutOrStdout(), "Удалено", res)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{AddCmd, UpdateCmd} {
		c.Flags().IntVar(&productShelfLife, "shelf-life", 0, "срок хранения после вскрытия, дней")
		c.Flags().StringVar(&productUnit, "unit", string(item.UnitUnits), "единица: kg или units")
		c.Flags().StringVar(&productArea, "area", "", "отдел, по умолчанию отдел пользователя")
		c.Flags().StringVar(&productCategory, "category", "", "категория")
	}
	UpdateCmd.Flags().StringVar(&productName, "name", "", "новое название")
}
