package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) healthOp() huma.Operation {
	return huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Connectivity probe",
		Description: "Used by clients to detect that the document store is reachable. Answers 503 when the database does not respond.",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}
