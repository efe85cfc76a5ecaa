// Эталонный сервер удаленного хранилища документов.
//
// GET    /api/v1/health                          # Проверка доступности (публичный)
// POST   /api/v1/collections/{collection}        # Создать документ (auth)
// GET    /api/v1/collections/{collection}        # Поиск по полю (auth)
// PATCH  /api/v1/collections/{collection}/{id}   # Частично обновить документ (auth)
// DELETE /api/v1/collections/{collection}/{id}   # Удалить документ (auth)

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/slog"

	"shelfkeeper/internal/app/server/api/http/collection"
	healthAPI "shelfkeeper/internal/app/server/api/http/health"
	mw "shelfkeeper/internal/app/server/api/http/middleware"
	"shelfkeeper/internal/app/server/api/http/middleware/auth"
	"shelfkeeper/internal/app/server/api/http/middleware/logger"
	"shelfkeeper/internal/domain/document"
)

const Version = "1.0.0"

type Handlers struct {
	Health     *healthAPI.Handler
	Collection *collection.Handler
}

// Deps внешние зависимости API.
type Deps struct {
	Documents document.Repository
	DB        healthAPI.Pinger
	Secret    string
}

// New создает *chi.Mux с ВСЕМИ операциями через huma.Register
func New(deps Deps, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()
	mux.Use(middleware.Recoverer)

	config := huma.DefaultConfig("Shelfkeeper API", Version)
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
	}

	API := humachi.New(mux, config)

	h := handlers(deps, log)
	h.Health.SetupRoutes(API)
	h.Collection.SetupRoutes(API)

	return mux
}

func handlers(deps Deps, log *slog.Logger) *Handlers {
	authMW := auth.New(deps.Secret, log)
	loggerMW := logger.New(log)
	middlewares := mw.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(deps.DB, Version, log, middlewares.GetAllAndClear())

	documentService := document.NewService(deps.Documents, log)
	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(authMW.Middleware())
	collectionHandler := collection.NewHandler(documentService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:     healthHandler,
		Collection: collectionHandler,
	}
}
