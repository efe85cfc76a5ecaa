package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/slog"

	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/item"
	"shelfkeeper/internal/domain/product"
	"shelfkeeper/internal/domain/queue"
	"shelfkeeper/internal/domain/remote"
	"shelfkeeper/internal/domain/user"
)

var (
	ErrItemNotFound    = errors.New("item not found")
	ErrProductNotFound = errors.New("product not found")
)

// WriteResult итог записи. Queued означает, что запись принята локально и
// будет отправлена при следующей синхронизации.
type WriteResult struct {
	Ref    entity.Ref
	Queued bool
}

// Inventory операции над позициями и каталогом. Запись сначала идет в
// удаленное хранилище; если оно недоступно или отказало по политике,
// операция ставится в очередь и сразу отражается в кэше.
type Inventory struct {
	remote remote.Store
	queue  *queue.Manager
	cache  *Cache
	engine *item.Engine
	actor  user.Actor
	log    *slog.Logger
}

func NewInventory(store remote.Store, q *queue.Manager, cache *Cache, engine *item.Engine, actor user.Actor, log *slog.Logger) *Inventory {
	return &Inventory{
		remote: store,
		queue:  q,
		cache:  cache,
		engine: engine,
		actor:  actor,
		log:    log.With("component", "inventory"),
	}
}

// OpenProduct открывает продукт из каталога: создает активную позицию со
// сроком годности по данным каталога. productKey это id или название.
func (i *Inventory) OpenProduct(ctx context.Context, productKey string, amount float64, fridgeID string) (item.Item, WriteResult, error) {
	products, err := i.cache.Products(ctx)
	if err != nil {
		return item.Item{}, WriteResult{}, fmt.Errorf("read products: %w", err)
	}
	p, ok := product.Find(products, productKey)
	if !ok {
		return item.Item{}, WriteResult{}, fmt.Errorf("%w: %s", ErrProductNotFound, productKey)
	}

	req := p.OpenRequest(amount, i.actor.UserID, fridgeID)
	if req.BusinessID == "" {
		req.BusinessID = i.actor.BusinessID
	}
	if req.Area == "" {
		req.Area = i.actor.Department
	}

	it, err := i.engine.Create(req)
	if err != nil {
		return item.Item{}, WriteResult{}, err
	}

	res, err := i.commit(ctx, queue.AddItem{Item: *it})
	if err != nil {
		return item.Item{}, WriteResult{}, err
	}
	it.ID = res.Ref
	return *it, res, nil
}

// DiscardItem списывает позицию.
func (i *Inventory) DiscardItem(ctx context.Context, ref entity.Ref, opts item.DiscardOptions) (WriteResult, error) {
	it, err := i.FindItem(ctx, ref.String())
	if err != nil {
		return WriteResult{}, err
	}

	if _, err := i.engine.Discard(&it, i.actor, opts); err != nil {
		return WriteResult{}, err
	}

	stamp := item.DiscardStamp{
		At:       *it.DiscardedAt,
		By:       it.DiscardedBy,
		ByName:   it.DiscardedByName,
		Quantity: it.DiscardedQuantity,
		Reason:   it.DiscardReason,
	}
	return i.commit(ctx, queue.MarkItemThrown{Ref: it.ID, Stamp: stamp})
}

// FinishItem отмечает позицию израсходованной.
func (i *Inventory) FinishItem(ctx context.Context, ref entity.Ref) (WriteResult, error) {
	it, err := i.FindItem(ctx, ref.String())
	if err != nil {
		return WriteResult{}, err
	}

	if _, err := i.engine.Finish(&it, i.actor); err != nil {
		return WriteResult{}, err
	}

	stamp := item.FinishStamp{At: *it.FinishedAt, By: it.FinishedBy, ByName: it.FinishedByName}
	return i.commit(ctx, queue.UpdateItem{Ref: it.ID, Patch: item.Patch{Finish: &stamp}})
}

// UpdateItem меняет описательные поля позиции.
func (i *Inventory) UpdateItem(ctx context.Context, ref entity.Ref, patch item.Patch) (WriteResult, error) {
	if err := patch.Validate(); err != nil {
		return WriteResult{}, err
	}
	if patch.IsEmpty() {
		return WriteResult{}, &item.ValidationError{Field: "patch", Reason: "nothing to update"}
	}

	it, err := i.FindItem(ctx, ref.String())
	if err != nil {
		return WriteResult{}, err
	}
	if patch.Finish != nil {
		if st := it.State(); st.IsTerminal() {
			return WriteResult{}, &item.StateError{Op: "finish", State: st}
		}
	}

	return i.commit(ctx, queue.UpdateItem{Ref: it.ID, Patch: patch})
}

// DeleteItem удаляет позицию. Это административная операция, не часть
// жизненного цикла.
func (i *Inventory) DeleteItem(ctx context.Context, ref entity.Ref) (WriteResult, error) {
	it, err := i.FindItem(ctx, ref.String())
	if err != nil {
		return WriteResult{}, err
	}
	return i.commit(ctx, queue.DeleteItem{Ref: it.ID})
}

func (i *Inventory) AddProduct(ctx context.Context, p product.Product) (WriteResult, error) {
	if p.BusinessID == "" {
		p.BusinessID = i.actor.BusinessID
	}
	if p.Area == "" {
		p.Area = i.actor.Department
	}
	if err := p.Validate(); err != nil {
		return WriteResult{}, err
	}
	return i.commit(ctx, queue.AddProduct{Product: p})
}

func (i *Inventory) UpdateProduct(ctx context.Context, key string, patch product.Patch) (WriteResult, error) {
	if err := patch.Validate(); err != nil {
		return WriteResult{}, err
	}
	p, err := i.FindProduct(ctx, key)
	if err != nil {
		return WriteResult{}, err
	}
	return i.commit(ctx, queue.UpdateProduct{Ref: p.ID, Patch: patch})
}

func (i *Inventory) DeleteProduct(ctx context.Context, key string) (WriteResult, error) {
	p, err := i.FindProduct(ctx, key)
	if err != nil {
		return WriteResult{}, err
	}
	return i.commit(ctx, queue.DeleteProduct{Ref: p.ID})
}

// commit выполняет запись напрямую, а при временной ошибке или отказе
// политики ставит ее в очередь. Ошибки самой операции возвращаются сразу.
func (i *Inventory) commit(ctx context.Context, op queue.Operation) (WriteResult, error) {
	if !queue.IsCreate(op) && op.Target().IsLocal() {
		// Сущность еще не создана удаленно, пишем только в очередь.
		return i.enqueue(ctx, op, nil), nil
	}

	created, err := queue.Execute(ctx, i.remote, op)
	if err != nil {
		if !queue.Retryable(err) {
			return WriteResult{}, fmt.Errorf("%s: %w", op.Kind(), err)
		}
		return i.enqueue(ctx, op, err), nil
	}

	ref := op.Target()
	if created != "" {
		ref = entity.Remote(created)
		op = queue.WithRef(op, ref)
	}
	if err := i.cache.ApplyOptimistic(ctx, op); err != nil {
		i.log.Warn("Не удалось обновить кэш", "type", op.Kind(), "error", err)
	}
	return WriteResult{Ref: ref}, nil
}

func (i *Inventory) enqueue(ctx context.Context, op queue.Operation, cause error) WriteResult {
	p := i.queue.Enqueue(ctx, op)
	if err := i.cache.ApplyOptimistic(ctx, p.Op); err != nil {
		i.log.Warn("Не удалось обновить кэш", "type", op.Kind(), "error", err)
	}

	i.log.Info("Запись отложена до синхронизации",
		"type", op.Kind(),
		"id", p.Op.Target().String(),
		"cause", cause,
	)
	return WriteResult{Ref: p.Op.Target(), Queued: true}
}

// FindItem ищет позицию в кэше по идентификатору.
func (i *Inventory) FindItem(ctx context.Context, id string) (item.Item, error) {
	items, err := i.cache.Items(ctx)
	if err != nil {
		return item.Item{}, fmt.Errorf("read items: %w", err)
	}
	for _, it := range items {
		if it.ID.String() == id {
			return it, nil
		}
	}
	return item.Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// FindProduct ищет продукт по id или названию.
func (i *Inventory) FindProduct(ctx context.Context, key string) (product.Product, error) {
	products, err := i.cache.Products(ctx)
	if err != nil {
		return product.Product{}, fmt.Errorf("read products: %w", err)
	}
	p, ok := product.Find(products, key)
	if !ok {
		return product.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, key)
	}
	return p, nil
}

// ListItems позиции из кэша, отсортированные по сроку годности.
func (i *Inventory) ListItems(ctx context.Context, f item.Filter) ([]item.Item, error) {
	items, err := i.cache.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	out := f.Apply(items, i.engine.Now())
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].ExpiryTime.Before(out[b].ExpiryTime)
	})
	return out, nil
}

func (i *Inventory) Summary(ctx context.Context) (item.Summary, error) {
	items, err := i.cache.Items(ctx)
	if err != nil {
		return item.Summary{}, fmt.Errorf("read items: %w", err)
	}
	return item.Summarize(items, i.engine.Now()), nil
}

// Locations активные позиции по отделам и холодильникам.
func (i *Inventory) Locations(ctx context.Context) ([]item.DepartmentGroup, error) {
	items, err := i.cache.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	now := i.engine.Now()
	active := item.Filter{Kind: item.FilterActive}.Apply(items, now)
	return item.GroupByLocation(active, i.cache.FridgeNames(ctx), now), nil
}

func (i *Inventory) DiscardReport(ctx context.Context, rng item.DateRange) ([]item.DiscardSummary, error) {
	items, err := i.cache.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	return item.DiscardReport(items, rng), nil
}

// Products каталог из кэша, по названию.
func (i *Inventory) Products(ctx context.Context) ([]product.Product, error) {
	products, err := i.cache.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	sort.SliceStable(products, func(a, b int) bool {
		return strings.ToLower(products[a].Name) < strings.ToLower(products[b].Name)
	})
	return products, nil
}
