package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"shelfkeeper/cmd/client/cmd/cmdutil"
	"shelfkeeper/internal/app/client"
	"shelfkeeper/internal/app/client/config"
	"shelfkeeper/internal/utils/logger"
)

var (
	cfg        *config.Config
	log        *slog.Logger
	app        *client.App
	debug      bool
	jsonOutput bool
	serverAddr string
	offline    bool
)

var rootCmd = &cobra.Command{
	Use:   "shelfkeeper",
	Short: "Shelfkeeper - учет открытых продуктов и сроков годности",
	Long: `Shelfkeeper помогает вести учет открытых продуктов в барах и на кухнях:
сроки годности, списания и расход.

Клиент работает и без связи с сервером: изменения сохраняются локально
и отправляются при восстановлении соединения.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	cmdutil.SetupColor(os.Stdout)

	err := rootCmd.Execute()
	if app != nil {
		if shutdownErr := app.Shutdown(); shutdownErr != nil {
			log.Warn("Ошибка при завершении", "error", shutdownErr)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

// needsApp сообщает, нужно ли команде собранное приложение.
func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["standalone"] == "true" {
			return false
		}
	}
	return true
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	if serverAddr != "" {
		cfg.ServerAddress = serverAddr
	}

	log = logger.NewTo(os.Stderr, cfg.Env, logLevel(cmd))

	if !needsApp(cmd) {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err = client.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	if !offline {
		warmUp(ctx, app)
	}

	cmd.SetContext(cmdutil.WithApp(ctx, app))
	return nil
}

// warmUp при наличии связи отправляет очередь и обновляет кэш. Пока в
// очереди остаются операции, кэш не перезаписывается, чтобы не потерять
// локальные изменения.
func warmUp(ctx context.Context, app *client.App) {
	if err := app.CheckConnection(ctx); err != nil {
		log.Debug("Сервер недоступен, работаем с локальным кэшем", "error", err)
		return
	}

	if app.Sync.Pending(ctx) > 0 {
		if _, err := app.Sync.Sync(ctx); err != nil {
			log.Warn("Ошибка синхронизации", "error", err)
		}
	}
	if app.Sync.Pending(ctx) > 0 {
		return
	}

	if err := app.Refresher.Refresh(ctx); err != nil {
		log.Debug("Кэш обновлен не полностью", "error", err)
	}
}

// logLevel для разовых команд по умолчанию warn, подробный журнал нужен
// только в watch или с --debug.
func logLevel(cmd *cobra.Command) string {
	switch {
	case debug:
		return "debug"
	case cfg.LogLevel != "":
		return cfg.LogLevel
	case cmd.Name() == "watch":
		return "info"
	default:
		return "warn"
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "", "адрес сервера host:port")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "не обновлять кэш перед командой")
}
