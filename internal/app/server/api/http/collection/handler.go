package collection

import (
	"context"
	"errors"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"shelfkeeper/internal/app/server/api/http/middleware/auth"
	"shelfkeeper/internal/domain/document"
	"shelfkeeper/internal/domain/remote"
)

type Handler struct {
	service    document.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service document.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With("component", "collection_handler"),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.patchOp(), h.patch)
	huma.Register(api, h.deleteOp(), h.delete)
	huma.Register(api, h.queryOp(), h.query)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*createOutput, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	id, err := h.service.Create(ctx, actor, remote.Collection(input.Collection), remote.Fields(input.Body))
	if err != nil {
		return nil, h.toHTTPError(err)
	}

	return &createOutput{
		Body: createResponse{ID: id, Status: "Ok"},
	}, nil
}

func (h *Handler) patch(ctx context.Context, input *patchInput) (*statusOutput, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	err := h.service.Patch(ctx, actor, remote.Collection(input.Collection), input.ID, remote.Fields(input.Body))
	if err != nil {
		return nil, h.toHTTPError(err)
	}
	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*statusOutput, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, actor, remote.Collection(input.Collection), input.ID); err != nil {
		return nil, h.toHTTPError(err)
	}
	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) query(ctx context.Context, input *queryInput) (*queryOutput, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	value, err := parseValue(input.Value, input.Type)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid value", err)
	}

	docs, err := h.service.Query(ctx, actor, remote.Collection(input.Collection), input.Field, value)
	if err != nil {
		return nil, h.toHTTPError(err)
	}
	if docs == nil {
		docs = []remote.Document{}
	}
	return &queryOutput{Body: queryResponse{Documents: docs}}, nil
}

func parseValue(raw, typ string) (any, error) {
	switch typ {
	case "number":
		return strconv.ParseFloat(raw, 64)
	case "bool":
		return strconv.ParseBool(raw)
	default:
		return raw, nil
	}
}

// toHTTPError переводит доменные ошибки в коды ответа. Клиент различает
// по ним временные отказы и отказы политики.
func (h *Handler) toHTTPError(err error) error {
	switch {
	case errors.Is(err, document.ErrInvalid):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, document.ErrForbidden), errors.Is(err, document.ErrReadOnly):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, document.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	}
	h.log.Error("request failed", "error", err)
	return huma.Error500InternalServerError("internal error")
}
