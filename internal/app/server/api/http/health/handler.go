package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

const (
	StorageOK          = "ok"
	StorageUnavailable = "unavailable"
	StorageNone        = "none"
)

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler отвечает на пробы доступности клиентов.
type Handler struct {
	db         Pinger
	version    string
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(db Pinger, version string, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		db:         db,
		version:    version,
		log:        log.With("component", "health"),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthOp(), h.health)
}

func (h *Handler) health(ctx context.Context, _ *Input) (*Output, error) {
	storage := StorageNone
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			h.log.Error("storage ping failed", "error", err)
			return nil, huma.Error503ServiceUnavailable("document storage " + StorageUnavailable)
		}
		storage = StorageOK
	}

	return &Output{Body: Response{Status: "OK", Storage: storage, Version: h.version}}, nil
}
