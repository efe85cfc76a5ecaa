package collection

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "collections-create",
		Method:        http.MethodPost,
		Path:          "/api/v1/collections/{collection}",
		Summary:       "Создать документ",
		Tags:          []string{"collections"},
		Security:      bearer,
		Middlewares:   h.middleware,
		DefaultStatus: http.StatusCreated,
	}
}

func (h *Handler) patchOp() huma.Operation {
	return huma.Operation{
		OperationID: "collections-patch",
		Method:      http.MethodPatch,
		Path:        "/api/v1/collections/{collection}/{id}",
		Summary:     "Частично обновить документ",
		Tags:        []string{"collections"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "collections-delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collections/{collection}/{id}",
		Summary:     "Удалить документ",
		Tags:        []string{"collections"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) queryOp() huma.Operation {
	return huma.Operation{
		OperationID: "collections-query",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/{collection}",
		Summary:     "Найти документы по значению поля",
		Description: "Возвращает документы бизнеса пользователя, у которых поле field равно value.",
		Tags:        []string{"collections"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}
