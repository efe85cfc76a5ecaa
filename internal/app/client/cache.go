package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/item"
	"shelfkeeper/internal/domain/localstore"
	"shelfkeeper/internal/domain/product"
	"shelfkeeper/internal/domain/queue"
	"shelfkeeper/internal/domain/remote"
	"shelfkeeper/internal/domain/user"
)

const cacheKeyPrefix = "cache:"

// Fridge холодильник из справочника.
type Fridge struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Area string `json:"area,omitempty"`
}

// Category категория каталога продуктов.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// snapshot последний известный снимок коллекции.
type snapshot[T any] struct {
	UpdatedAt time.Time `json:"updatedAt"`
	Data      []T       `json:"data"`
}

// Cache снимки коллекций в локальном хранилище. Снимки разделены по
// бизнесу, продукты дополнительно по отделу, если он задан.
type Cache struct {
	store localstore.Store
	actor user.Actor
	log   *slog.Logger
	now   func() time.Time

	mu sync.Mutex
}

func NewCache(store localstore.Store, actor user.Actor, log *slog.Logger) *Cache {
	return &Cache{
		store: store,
		actor: actor,
		log:   log.With("component", "cache"),
		now:   time.Now,
	}
}

// Key возвращает ключ снимка коллекции.
func (c *Cache) Key(coll remote.Collection) string {
	key := cacheKeyPrefix + coll.String() + ":" + c.actor.BusinessID
	if coll == remote.CollectionProducts && c.actor.Department != "" {
		key += ":" + c.actor.Department
	}
	return key
}

func (c *Cache) Items(ctx context.Context) ([]item.Item, error) {
	return loadSnapshot[item.Item](ctx, c.store, c.Key(remote.CollectionItems))
}

func (c *Cache) SetItems(ctx context.Context, items []item.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return saveSnapshot(ctx, c.store, c.Key(remote.CollectionItems), items, c.now())
}

func (c *Cache) Products(ctx context.Context) ([]product.Product, error) {
	return loadSnapshot[product.Product](ctx, c.store, c.Key(remote.CollectionProducts))
}

func (c *Cache) SetProducts(ctx context.Context, products []product.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return saveSnapshot(ctx, c.store, c.Key(remote.CollectionProducts), products, c.now())
}

func (c *Cache) Fridges(ctx context.Context) ([]Fridge, error) {
	return loadSnapshot[Fridge](ctx, c.store, c.Key(remote.CollectionFridges))
}

func (c *Cache) SetFridges(ctx context.Context, fridges []Fridge) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return saveSnapshot(ctx, c.store, c.Key(remote.CollectionFridges), fridges, c.now())
}

func (c *Cache) Categories(ctx context.Context) ([]Category, error) {
	return loadSnapshot[Category](ctx, c.store, c.Key(remote.CollectionCategories))
}

func (c *Cache) SetCategories(ctx context.Context, categories []Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return saveSnapshot(ctx, c.store, c.Key(remote.CollectionCategories), categories, c.now())
}

// FridgeNames словарь id -> название для группировки.
func (c *Cache) FridgeNames(ctx context.Context) map[string]string {
	fridges, err := c.Fridges(ctx)
	if err != nil {
		c.log.Warn("Не удалось прочитать холодильники из кэша", "error", err)
	}
	names := make(map[string]string, len(fridges))
	for _, f := range fridges {
		names[f.ID] = f.Name
	}
	return names
}

// ApplyOptimistic отражает запись в снимке, не дожидаясь удаленного
// хранилища.
func (c *Cache) ApplyOptimistic(ctx context.Context, op queue.Operation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch o := op.(type) {
	case queue.AddItem:
		return c.updateItemsLocked(ctx, func(items []item.Item) []item.Item {
			it := o.Item
			it.ID = o.Ref
			items = removeItem(items, o.Ref)
			return append(items, it)
		})
	case queue.UpdateItem:
		return c.updateItemsLocked(ctx, func(items []item.Item) []item.Item {
			for i := range items {
				if items[i].ID == o.Ref {
					o.Patch.Apply(&items[i])
				}
			}
			return items
		})
	case queue.MarkItemThrown:
		return c.updateItemsLocked(ctx, func(items []item.Item) []item.Item {
			for i := range items {
				if items[i].ID == o.Ref {
					o.Stamp.Apply(&items[i])
				}
			}
			return items
		})
	case queue.DeleteItem:
		return c.updateItemsLocked(ctx, func(items []item.Item) []item.Item {
			return removeItem(items, o.Ref)
		})
	case queue.AddProduct:
		return c.updateProductsLocked(ctx, func(products []product.Product) []product.Product {
			p := o.Product
			p.ID = o.Ref
			products = removeProduct(products, o.Ref)
			return append(products, p)
		})
	case queue.UpdateProduct:
		return c.updateProductsLocked(ctx, func(products []product.Product) []product.Product {
			for i := range products {
				if products[i].ID == o.Ref {
					o.Patch.Apply(&products[i])
				}
			}
			return products
		})
	case queue.DeleteProduct:
		return c.updateProductsLocked(ctx, func(products []product.Product) []product.Product {
			return removeProduct(products, o.Ref)
		})
	}
	return fmt.Errorf("%w: %T", queue.ErrUnknownOperation, op)
}

// ResolveRefs заменяет временные идентификаторы на выданные удаленным
// хранилищем после успешной синхронизации.
func (c *Cache) ResolveRefs(ctx context.Context, created map[string]string) error {
	if len(created) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	resolve := func(ref entity.Ref) entity.Ref {
		if !ref.IsLocal() {
			return ref
		}
		if id, ok := created[ref.String()]; ok {
			return entity.Remote(id)
		}
		return ref
	}

	errItems := c.updateItemsLocked(ctx, func(items []item.Item) []item.Item {
		for i := range items {
			items[i].ID = resolve(items[i].ID)
		}
		return items
	})
	errProducts := c.updateProductsLocked(ctx, func(products []product.Product) []product.Product {
		for i := range products {
			products[i].ID = resolve(products[i].ID)
		}
		return products
	})
	return errors.Join(errItems, errProducts)
}

func (c *Cache) updateItemsLocked(ctx context.Context, fn func([]item.Item) []item.Item) error {
	key := c.Key(remote.CollectionItems)
	items, err := loadSnapshot[item.Item](ctx, c.store, key)
	if err != nil {
		return err
	}
	return saveSnapshot(ctx, c.store, key, fn(items), c.now())
}

func (c *Cache) updateProductsLocked(ctx context.Context, fn func([]product.Product) []product.Product) error {
	key := c.Key(remote.CollectionProducts)
	products, err := loadSnapshot[product.Product](ctx, c.store, key)
	if err != nil {
		return err
	}
	return saveSnapshot(ctx, c.store, key, fn(products), c.now())
}

func removeItem(items []item.Item, ref entity.Ref) []item.Item {
	out := items[:0]
	for _, it := range items {
		if it.ID != ref {
			out = append(out, it)
		}
	}
	return out
}

func removeProduct(products []product.Product, ref entity.Ref) []product.Product {
	out := products[:0]
	for _, p := range products {
		if p.ID != ref {
			out = append(out, p)
		}
	}
	return out
}

func loadSnapshot[T any](ctx context.Context, store localstore.Store, key string) ([]T, error) {
	var snap snapshot[T]
	if _, err := localstore.GetJSON(ctx, store, key, &snap); err != nil {
		return nil, err
	}
	return snap.Data, nil
}

func saveSnapshot[T any](ctx context.Context, store localstore.Store, key string, data []T, now time.Time) error {
	if data == nil {
		data = []T{}
	}
	return localstore.SetJSON(ctx, store, key, snapshot[T]{UpdatedAt: now, Data: data})
}
