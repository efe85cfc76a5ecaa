package remote

import (
	"fmt"
	"time"
)

// Collection именованная коллекция удаленного хранилища.
type Collection string

const (
	CollectionItems      Collection = "items"
	CollectionProducts   Collection = "products"
	CollectionFridges    Collection = "fridges"
	CollectionCategories Collection = "categories"
	CollectionUsers      Collection = "users"
)

// Collections возвращает все известные коллекции.
func Collections() []Collection {
	return []Collection{
		CollectionItems,
		CollectionProducts,
		CollectionFridges,
		CollectionCategories,
		CollectionUsers,
	}
}

func (c Collection) String() string {
	return string(c)
}

// Validate проверяет, что коллекция известна.
func (c Collection) Validate() error {
	switch c {
	case CollectionItems, CollectionProducts, CollectionFridges, CollectionCategories, CollectionUsers:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownCollection, string(c))
}

// Fields набор полей документа.
type Fields map[string]any

// Compact удаляет поля с nil значением: удаленное хранилище их не принимает.
func (f Fields) Compact() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if isNil(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// HasNil сообщает, есть ли среди полей nil значения.
func (f Fields) HasNil() bool {
	for _, v := range f {
		if isNil(v) {
			return true
		}
	}
	return false
}

func (f Fields) String(key string) string {
	s, _ := f[key].(string)
	return s
}

func (f Fields) Bool(key string) bool {
	b, _ := f[key].(bool)
	return b
}

// Float читает числовое поле независимо от того, как оно было декодировано.
func (f Fields) Float(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Time читает поле времени: time.Time или строку RFC3339.
func (f Fields) Time(key string) (time.Time, bool) {
	switch v := f[key].(type) {
	case time.Time:
		return v, true
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch p := v.(type) {
	case *string:
		return p == nil
	case *float64:
		return p == nil
	case *int:
		return p == nil
	case *bool:
		return p == nil
	case *time.Time:
		return p == nil
	}
	return false
}

// Document документ удаленного хранилища.
type Document struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}
