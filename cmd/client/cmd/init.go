package cmd

import (
	"shelfkeeper/cmd/client/cmd/catalog"
	"shelfkeeper/cmd/client/cmd/inventory"
	"shelfkeeper/cmd/client/cmd/report"
	"shelfkeeper/cmd/client/cmd/sync"
)

func init() {
	// Открытые позиции
	rootCmd.AddCommand(inventory.ItemCmd)
	inventory.ItemCmd.AddCommand(inventory.OpenCmd)
	inventory.ItemCmd.AddCommand(inventory.ListCmd)
	inventory.ItemCmd.AddCommand(inventory.DiscardCmd)
	inventory.ItemCmd.AddCommand(inventory.FinishCmd)
	inventory.ItemCmd.AddCommand(inventory.UpdateCmd)
	inventory.ItemCmd.AddCommand(inventory.DeleteCmd)
	inventory.ItemCmd.AddCommand(inventory.LocationsCmd)
	inventory.ItemCmd.AddCommand(inventory.SummaryCmd)

	// Каталог
	rootCmd.AddCommand(catalog.ProductCmd)
	catalog.ProductCmd.AddCommand(catalog.ListCmd)
	catalog.ProductCmd.AddCommand(catalog.AddCmd)
	catalog.ProductCmd.AddCommand(catalog.UpdateCmd)
	catalog.ProductCmd.AddCommand(catalog.DeleteCmd)

	rootCmd.AddCommand(report.ReportCmd)
	report.ReportCmd.AddCommand(report.DiscardsCmd)

	rootCmd.AddCommand(sync.SyncCmd)
}
