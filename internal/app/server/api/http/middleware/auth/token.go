package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"shelfkeeper/internal/domain/user"
)

// TokenExpiry срок жизни токена по умолчанию.
const TokenExpiry = 30 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims полезная нагрузка токена: набор возможностей пользователя.
type Claims struct {
	Name       string `json:"name,omitempty"`
	Department string `json:"department,omitempty"`
	BusinessID string `json:"businessId"`
	IsAdmin    bool   `json:"isAdmin,omitempty"`
	IsManager  bool   `json:"isManager,omitempty"`
	jwt.RegisteredClaims
}

func (c Claims) Actor() user.Actor {
	return user.Actor{
		UserID:      c.Subject,
		DisplayName: c.Name,
		Department:  c.Department,
		BusinessID:  c.BusinessID,
		IsAdmin:     c.IsAdmin,
		IsManager:   c.IsManager,
	}
}

// IssueToken подписывает токен для пользователя (HS256).
func IssueToken(secret string, actor user.Actor, ttl time.Duration) (string, error) {
	if err := actor.Validate(); err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = TokenExpiry
	}

	now := time.Now()
	claims := Claims{
		Name:       actor.DisplayName,
		Department: actor.Department,
		BusinessID: actor.BusinessID,
		IsAdmin:    actor.IsAdmin,
		IsManager:  actor.IsManager,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   actor.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken проверяет подпись и срок действия и возвращает пользователя.
func ParseToken(secret, tokenStr string) (user.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return user.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return user.Actor{}, ErrInvalidToken
	}

	actor := claims.Actor()
	if err := actor.Validate(); err != nil {
		return user.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return actor, nil
}
