package sync

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shelfkeeper/cmd/client/cmd/cmdutil"
	"shelfkeeper/internal/app/client"
	"shelfkeeper/internal/domain/queue"
)

var (
	forceSync   bool
	syncStatus  bool
	resetStats  bool
	showDead    bool
	requeueDead bool
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Управление синхронизацией",
	Long: `Отправка отложенных изменений на сервер.

Без флагов выполняет один проход очереди. --force дополнительно
перечитывает все кэшируемые коллекции.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.App(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		ctx := cmd.Context()

		switch {
		case syncStatus:
			return showSyncStatus(ctx, out, app)
		case resetStats:
			app.Sync.ResetStats()
			fmt.Fprintln(out, "Статистика синхронизации сброшена")
			return nil
		case showDead:
			return showDeadLetters(ctx, out, app)
		case requeueDead:
			n, err := app.Sync.RequeueDeadLetters(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Возвращено в очередь: %d\n", n)
			return nil
		}

		return runSync(ctx, out, app, forceSync)
	},
}

func runSync(ctx context.Context, out io.Writer, app *client.App, force bool) error {
	fmt.Fprintln(out, "=== Синхронизация ===")

	fmt.Fprintln(out, "Проверка соединения с сервером...")
	if err := app.CheckConnection(ctx); err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}

	start := time.Now()

	var (
		res queue.DrainResult
		err error
	)
	if force {
		res, err = app.Sync.ForceSync(ctx)
	} else {
		res, err = app.Sync.Sync(ctx)
	}
	if err != nil {
		return fmt.Errorf("ошибка синхронизации: %w", err)
	}

	if res.Coalesced {
		fmt.Fprintln(out, "Синхронизация уже выполняется")
		return nil
	}

	fmt.Fprintln(out)
	color.New(color.FgGreen).Fprintln(out, "✅ Синхронизация завершена")
	fmt.Fprintf(out, "Время выполнения: %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(out, "Отправлено: %d\n", res.Committed)
	if res.Skipped > 0 {
		fmt.Fprintf(out, "Пропущено: %d\n", res.Skipped)
	}

	if len(res.Failed) > 0 {
		color.New(color.FgYellow).Fprintf(out, "Осталось в очереди: %d\n", len(res.Failed))
		for i, p := range res.Failed {
			if i == 3 {
				fmt.Fprintf(out, "  ... и еще %d\n", len(res.Failed)-3)
				break
			}
			fmt.Fprintf(out, "  • %s %s: %s\n", p.Op.Kind(), p.Op.Target(), p.LastError)
		}
	}
	if len(res.DeadLettered) > 0 {
		color.New(color.FgRed).Fprintf(out, "Отклонено окончательно: %d, см. 'shelfkeeper sync --dead'\n", len(res.DeadLettered))
	}
	return nil
}

func showSyncStatus(ctx context.Context, out io.Writer, app *client.App) error {
	stats := app.Sync.GetStats()

	fmt.Fprintln(out, "=== Статус синхронизации ===")
	fmt.Fprintf(out, "В очереди: %d\n", app.Sync.Pending(ctx))

	fmt.Fprintln(out, "📊 Статистика:")
	fmt.Fprintf(out, "  Всего синхронизаций: %d\n", stats.TotalSyncs)
	fmt.Fprintf(out, "  Отправлено: %d\n", stats.TotalCommitted)
	fmt.Fprintf(out, "  Пропущено: %d\n", stats.TotalSkipped)
	fmt.Fprintf(out, "  Неудачных попыток: %d\n", stats.TotalFailed)
	fmt.Fprintf(out, "  Отклонено окончательно: %d\n", stats.TotalDeadLetter)
	fmt.Fprintf(out, "  Среднее время: %.2f сек\n", stats.AvgSyncDuration)

	if !stats.LastSync.IsZero() {
		fmt.Fprintf(out, "\n⏰ Последняя: %s\n", stats.LastSync.Local().Format(cmdutil.TimeLayout))
	}
	if !stats.LastSuccessful.IsZero() {
		fmt.Fprintf(out, "   Последняя успешная: %s\n", stats.LastSuccessful.Local().Format(cmdutil.TimeLayout))
	}
	if stats.LastError != "" {
		fmt.Fprintf(out, "   Последняя ошибка: %s\n", stats.LastError)
	}

	fmt.Fprintf(out, "\n🌐 Соединение с сервером: ")
	if err := app.CheckConnection(ctx); err != nil {
		color.New(color.FgRed).Fprintf(out, "❌ %v\n", err)
	} else {
		color.New(color.FgGreen).Fprintln(out, "✅ OK")
	}
	return nil
}

func showDeadLetters(ctx context.Context, out io.Writer, app *client.App) error {
	dead, err := app.Sync.DeadLetters(ctx)
	if err != nil {
		return err
	}
	if len(dead) == 0 {
		fmt.Fprintln(out, "Отклоненных операций нет")
		return nil
	}

	for _, p := range dead {
		fmt.Fprintf(out, "%s %s %s (попыток: %d)\n  %s\n",
			time.UnixMilli(p.Timestamp).Local().Format(cmdutil.TimeLayout),
			p.Op.Kind(), p.Op.Target(), p.Attempts, p.LastError)
	}
	fmt.Fprintln(out, "\nВернуть в очередь: shelfkeeper sync --requeue")
	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&forceSync, "force", false, "обновить весь кэш после отправки")
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "показать статус")
	SyncCmd.Flags().BoolVar(&resetStats, "reset-stats", false, "сбросить статистику")
	SyncCmd.Flags().BoolVar(&showDead, "dead", false, "показать отклоненные операции")
	SyncCmd.Flags().BoolVar(&requeueDead, "requeue", false, "вернуть отклоненные операции в очередь")
	SyncCmd.MarkFlagsMutuallyExclusive("force", "status", "reset-stats", "dead", "requeue")
}
