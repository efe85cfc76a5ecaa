package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shelfkeeper/cmd/client/cmd/cmdutil"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Следить за связью и синхронизировать очередь",
	Long: `Фоновый режим: периодически проверяет сервер и после восстановления
связи отправляет накопленные изменения. Завершается по Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printed := make(chan struct{})
		go func() {
			defer close(printed)
			for t := range app.Monitor.Transitions() {
				if t.Online {
					color.New(color.FgGreen).Fprintf(out, "%s сервер доступен\n", t.At.Format(cmdutil.TimeLayout))
				} else {
					color.New(color.FgRed).Fprintf(out, "%s нет связи с сервером\n", t.At.Format(cmdutil.TimeLayout))
				}
			}
		}()

		fmt.Fprintln(out, "Мониторинг запущен, Ctrl+C для выхода")
		err = app.Run(cmd.Context())
		// Run закрывает канал переходов, дочитываем оставшиеся.
		<-printed
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
