package storage

import (
	"context"
	"encoding/json"
	"reflect"
	"sort"
	"sync"
	"time"

	"shelfkeeper/internal/domain/document"
	"shelfkeeper/internal/domain/remote"
)

// MemoryRepository хранит документы в памяти. Используется в тестах и при
// запуске сервера без базы данных.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[remote.Collection]map[string]document.Document
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		docs: make(map[remote.Collection]map[string]document.Document),
		now:  time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, doc document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.docs[doc.Collection] == nil {
		r.docs[doc.Collection] = make(map[string]document.Document)
	}
	now := r.now()
	doc.CreatedAt, doc.UpdatedAt = now, now
	doc.Fields = normalize(doc.Fields)
	r.docs[doc.Collection][doc.ID] = doc
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, coll remote.Collection, id string) (document.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[coll][id]
	if !ok {
		return document.Document{}, document.ErrNotFound
	}
	return clone(doc), nil
}

func (r *MemoryRepository) Update(_ context.Context, coll remote.Collection, id string, fields remote.Fields) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[coll][id]
	if !ok {
		return document.ErrNotFound
	}
	for k, v := range normalize(fields) {
		doc.Fields[k] = v
	}
	doc.UpdatedAt = r.now()
	r.docs[coll][id] = doc
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, coll remote.Collection, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[coll][id]; !ok {
		return document.ErrNotFound
	}
	delete(r.docs[coll], id)
	return nil
}

func (r *MemoryRepository) QueryByField(_ context.Context, coll remote.Collection, businessID, field string, value any) ([]document.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := normalizeValue(value)
	var out []document.Document
	for _, doc := range r.docs[coll] {
		if doc.BusinessID != businessID {
			continue
		}
		if v, ok := doc.Fields[field]; ok && reflect.DeepEqual(v, want) {
			out = append(out, clone(doc))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// normalize приводит значения к виду, в котором они вернулись бы из jsonb:
// числа float64, время строкой RFC3339.
func normalize(f remote.Fields) remote.Fields {
	data, err := json.Marshal(f)
	if err != nil {
		return f
	}
	out := remote.Fields{}
	if err := json.Unmarshal(data, &out); err != nil {
		return f
	}
	return out
}

func normalizeValue(v any) any {
	return normalize(remote.Fields{"v": v})["v"]
}

func clone(doc document.Document) document.Document {
	fields := make(remote.Fields, len(doc.Fields))
	for k, v := range doc.Fields {
		fields[k] = v
	}
	doc.Fields = fields
	return doc
}
