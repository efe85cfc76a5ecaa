package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrStorage ошибка локального хранилища (сериализация, квота, диск).
// Хранилище работает по принципу best-effort: вызывающий код логирует
// ошибку и продолжает работу.
var ErrStorage = errors.New("local storage error")

// Store строковое key/value хранилище, переживающее перезапуск клиента.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Wrap помечает ошибку как ErrStorage.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

// GetJSON читает значение по ключу и декодирует его в target.
// Возвращает false, если ключ отсутствует.
func GetJSON(ctx context.Context, s Store, key string, target any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return false, Wrap("decode "+key, err)
	}
	return true, nil
}

// SetJSON сериализует value и сохраняет его по ключу.
func SetJSON(ctx context.Context, s Store, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return Wrap("encode "+key, err)
	}
	return s.Set(ctx, key, string(data))
}
