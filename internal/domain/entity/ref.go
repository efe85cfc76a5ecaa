package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LocalPrefix префикс временных идентификаторов, выданных клиентом до
// подтверждения записи удаленным хранилищем.
const LocalPrefix = "offline-"

var ErrEmptyRef = errors.New("empty entity reference")

// RemoteID идентификатор документа, подтвержденный удаленным хранилищем.
// Получить его можно только из Remote ссылки.
type RemoteID string

func (id RemoteID) String() string {
	return string(id)
}

// Ref ссылка на сущность: либо Remote(id), либо Local(tempID).
type Ref struct {
	id    string
	local bool
}

// Remote возвращает ссылку на сущность, существующую в удаленном хранилище.
func Remote(id string) Ref {
	return Ref{id: id}
}

// Local возвращает ссылку на сущность, созданную только на клиенте.
func Local(tempID string) Ref {
	return Ref{id: tempID, local: true}
}

// NewLocal выдает временный идентификатор вида offline-<timestamp>.
func NewLocal(timestamp int64) Ref {
	return Local(LocalPrefix + strconv.FormatInt(timestamp, 10))
}

// Parse восстанавливает ссылку из строкового представления. Используется
// только для снимков, сохраненных старыми клиентами.
func Parse(s string) Ref {
	if strings.HasPrefix(s, LocalPrefix) {
		return Local(s)
	}
	return Remote(s)
}

func (r Ref) IsZero() bool {
	return r.id == ""
}

func (r Ref) IsLocal() bool {
	return r.local
}

// RemoteID возвращает идентификатор для операций над удаленным хранилищем.
// Для Local ссылок второй результат false.
func (r Ref) RemoteID() (RemoteID, bool) {
	if r.local || r.id == "" {
		return "", false
	}
	return RemoteID(r.id), true
}

func (r Ref) String() string {
	return r.id
}

type refJSON struct {
	Remote string `json:"remote,omitempty"`
	Local  string `json:"local,omitempty"`
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.id == "" {
		return []byte("null"), nil
	}
	if r.local {
		return json.Marshal(refJSON{Local: r.id})
	}
	return json.Marshal(refJSON{Remote: r.id})
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ref{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Parse(s)
		return nil
	}

	var v refJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode entity ref: %w", err)
	}

	switch {
	case v.Local != "":
		*r = Local(v.Local)
	case v.Remote != "":
		*r = Remote(v.Remote)
	default:
		return ErrEmptyRef
	}
	return nil
}
