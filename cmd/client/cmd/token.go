package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"shelfkeeper/internal/app/server/api/http/middleware/auth"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Выпустить токен доступа для текущего пользователя",
	Long: `Подписывает JWT секретом сервера (JWT_SECRET) для пользователя из
конфигурации. Токен указывается клиенту в AUTH_TOKEN.`,
	Annotations: map[string]string{"standalone": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			return errors.New("не задан JWT_SECRET")
		}

		token, err := auth.IssueToken(secret, cfg.Actor(), tokenTTL)
		if err != nil {
			return fmt.Errorf("ошибка выпуска токена: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", auth.TokenExpiry, "срок действия токена")
	rootCmd.AddCommand(tokenCmd)
}
