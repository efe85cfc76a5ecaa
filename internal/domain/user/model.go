package user

import "strings"

// Actor набор возможностей текущего пользователя. Пакет только читает его:
// аутентификация и выдача ролей выполняются внешней системой.
type Actor struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Department  string `json:"department,omitempty"`
	BusinessID  string `json:"businessId"`
	IsAdmin     bool   `json:"isAdmin,omitempty"`
	IsManager   bool   `json:"isManager,omitempty"`
}

// CanManageCatalog сообщает, может ли пользователь менять каталог продуктов,
// холодильники и удалять позиции.
func (a Actor) CanManageCatalog() bool {
	return a.IsAdmin || a.IsManager
}

// Name возвращает отображаемое имя, а если оно не задано, идентификатор.
func (a Actor) Name() string {
	if strings.TrimSpace(a.DisplayName) != "" {
		return a.DisplayName
	}
	return a.UserID
}

// Validate проверяет обязательные поля.
func (a Actor) Validate() error {
	if strings.TrimSpace(a.UserID) == "" {
		return &FieldError{Field: "userId"}
	}
	if strings.TrimSpace(a.BusinessID) == "" {
		return &FieldError{Field: "businessId"}
	}
	return nil
}
