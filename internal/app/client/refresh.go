package client

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"shelfkeeper/internal/domain/item"
	"shelfkeeper/internal/domain/product"
	"shelfkeeper/internal/domain/remote"
	"shelfkeeper/internal/domain/user"
)

// CachedCollections коллекции, снимки которых хранятся локально.
var CachedCollections = []remote.Collection{
	remote.CollectionItems,
	remote.CollectionProducts,
	remote.CollectionFridges,
	remote.CollectionCategories,
}

// Refresher перечитывает коллекции из удаленного хранилища и
// перезаписывает локальные снимки.
type Refresher struct {
	remote remote.Store
	cache  *Cache
	actor  user.Actor
	log    *slog.Logger
}

func NewRefresher(store remote.Store, cache *Cache, actor user.Actor, log *slog.Logger) *Refresher {
	return &Refresher{
		remote: store,
		cache:  cache,
		actor:  actor,
		log:    log.With("component", "refresher"),
	}
}

// Refresh обновляет перечисленные коллекции, без аргументов все кэшируемые.
// Ошибка одной коллекции не мешает обновить остальные.
func (r *Refresher) Refresh(ctx context.Context, colls ...remote.Collection) error {
	if len(colls) == 0 {
		colls = CachedCollections
	}

	var errs []error
	for _, coll := range colls {
		if err := r.refreshOne(ctx, coll); err != nil {
			r.log.Warn("Не удалось обновить кэш", "collection", coll, "error", err)
			errs = append(errs, fmt.Errorf("refresh %s: %w", coll, err))
			continue
		}
		r.log.Debug("Кэш обновлен", "collection", coll)
	}
	return errors.Join(errs...)
}

func (r *Refresher) refreshOne(ctx context.Context, coll remote.Collection) error {
	switch coll {
	case remote.CollectionItems, remote.CollectionProducts, remote.CollectionFridges, remote.CollectionCategories:
	default:
		return nil
	}

	docs, err := r.remote.QueryByField(ctx, coll, "businessId", r.actor.BusinessID)
	if err != nil {
		return err
	}

	switch coll {
	case remote.CollectionItems:
		return r.cache.SetItems(ctx, item.FromDocuments(docs))
	case remote.CollectionProducts:
		products := product.FromDocuments(docs)
		if r.actor.Department != "" {
			filtered := products[:0]
			for _, p := range products {
				if p.Area == r.actor.Department {
					filtered = append(filtered, p)
				}
			}
			products = filtered
		}
		return r.cache.SetProducts(ctx, products)
	case remote.CollectionFridges:
		fridges := make([]Fridge, 0, len(docs))
		for _, d := range docs {
			fridges = append(fridges, Fridge{ID: d.ID, Name: d.Fields.String("name"), Area: d.Fields.String("area")})
		}
		return r.cache.SetFridges(ctx, fridges)
	default:
		categories := make([]Category, 0, len(docs))
		for _, d := range docs {
			categories = append(categories, Category{ID: d.ID, Name: d.Fields.String("name")})
		}
		return r.cache.SetCategories(ctx, categories)
	}
}
