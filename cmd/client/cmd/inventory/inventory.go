package inventory

import (
	"github.com/spf13/cobra"
)

// ItemCmd родительская команда для операций с открытыми позициями
var ItemCmd = &cobra.Command{
	Use:     "item",
	Aliases: []string{"items"},
	Short:   "Открытые позиции",
	Long:    `Открытие продуктов, просмотр сроков годности, списание и расход.`,
}
