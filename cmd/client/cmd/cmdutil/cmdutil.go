// Package cmdutil общие помощники команд клиента: доступ к приложению из
// контекста команды и форматированный вывод.
package cmdutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"shelfkeeper/internal/app/client"
	"shelfkeeper/internal/domain/item"
)

type appKey struct{}

// ErrNoApp команда запущена без инициализированного приложения.
var ErrNoApp = errors.New("приложение не инициализировано")

const TimeLayout = "2006-01-02 15:04"

// WithApp кладет приложение в контекст команды.
func WithApp(ctx context.Context, app *client.App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// App достает приложение из контекста команды.
func App(cmd *cobra.Command) (*client.App, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, ErrNoApp
	}
	app, ok := ctx.Value(appKey{}).(*client.App)
	if !ok || app == nil {
		return nil, ErrNoApp
	}
	return app, nil
}

// SetupColor отключает цвета, если вывод идет не в терминал.
func SetupColor(out *os.File) {
	if !term.IsTerminal(int(out.Fd())) {
		color.NoColor = true
	}
}

// PrintJSON выводит значение с отступами.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintWrite сообщает итог записи.
func PrintWrite(w io.Writer, action string, res client.WriteResult) {
	if res.Queued {
		color.New(color.FgYellow).Fprintf(w, "⏳ %s: сохранено локально, будет отправлено при синхронизации (%s)\n", action, res.Ref)
		return
	}
	color.New(color.FgGreen).Fprintf(w, "✓ %s: %s\n", action, res.Ref)
}

// StatusColor цвет для статуса срока годности.
func StatusColor(s item.Status) *color.Color {
	switch s {
	case item.StatusExpired:
		return color.New(color.FgRed, color.Bold)
	case item.StatusWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

// HumanizeLeft оставшееся время в виде "2д 4ч" или "просрочено 3ч".
func HumanizeLeft(d time.Duration) string {
	prefix := ""
	if d < 0 {
		prefix = "просрочено "
		d = -d
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	if days > 0 {
		return fmt.Sprintf("%s%dд %dч", prefix, days, hours)
	}
	return fmt.Sprintf("%s%dч %dм", prefix, hours, int(d.Minutes())%60)
}

// ParseDate разбирает дату отчета: YYYY-MM-DD или RFC3339. Пустая строка
// дает нулевое время. endOfDay сдвигает дату без времени на конец дня.
func ParseDate(s string, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("неверная дата %q, ожидается YYYY-MM-DD", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// JSON сообщает, запрошен ли вывод в JSON.
func JSON(cmd *cobra.Command) bool {
	v, err := cmd.Flags().GetBool("json")
	return err == nil && v
}
