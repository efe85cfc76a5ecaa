package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"shelfkeeper/internal/domain/document"
	"shelfkeeper/internal/domain/remote"
)

type DocumentRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, log *slog.Logger) *DocumentRepository {
	return &DocumentRepository{
		pool: pool,
		log:  log.With("component", "document_repository"),
	}
}

func (r *DocumentRepository) Create(ctx context.Context, doc document.Document) error {
	const query = `
		INSERT INTO documents (id, collection, business_id, fields)
		VALUES ($1, $2, $3, $4)`

	data, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("%w: %v", document.ErrInvalid, err)
	}

	if _, err := r.pool.Exec(ctx, query, doc.ID, string(doc.Collection), doc.BusinessID, data); err != nil {
		r.log.Error("failed to create document",
			"collection", doc.Collection, "id", doc.ID, "error", err)
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Get(ctx context.Context, coll remote.Collection, id string) (document.Document, error) {
	const query = `
		SELECT id, collection, business_id, fields, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND id = $2`

	if !isDocumentID(id) {
		return document.Document{}, document.ErrNotFound
	}

	doc, err := scanDocument(r.pool.QueryRow(ctx, query, string(coll), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrNotFound
		}
		r.log.Error("failed to get document", "collection", coll, "id", id, "error", err)
		return document.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Update сливает переданные поля с сохраненными (jsonb ||).
func (r *DocumentRepository) Update(ctx context.Context, coll remote.Collection, id string, fields remote.Fields) error {
	const query = `
		UPDATE documents
		SET fields = fields || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2`

	if !isDocumentID(id) {
		return document.ErrNotFound
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", document.ErrInvalid, err)
	}

	tag, err := r.pool.Exec(ctx, query, string(coll), id, data)
	if err != nil {
		r.log.Error("failed to update document", "collection", coll, "id", id, "error", err)
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrNotFound
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, coll remote.Collection, id string) error {
	const query = `DELETE FROM documents WHERE collection = $1 AND id = $2`

	if !isDocumentID(id) {
		return document.ErrNotFound
	}

	tag, err := r.pool.Exec(ctx, query, string(coll), id)
	if err != nil {
		r.log.Error("failed to delete document", "collection", coll, "id", id, "error", err)
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrNotFound
	}
	return nil
}

// QueryByField сравнивает значения как jsonb, поэтому 2 и 2.0 совпадают,
// а строка "true" не совпадает с булевым true.
func (r *DocumentRepository) QueryByField(ctx context.Context, coll remote.Collection, businessID, field string, value any) ([]document.Document, error) {
	const query = `
		SELECT id, collection, business_id, fields, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND business_id = $2 AND fields -> $3 = $4::jsonb
		ORDER BY created_at`

	want, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", document.ErrInvalid, err)
	}

	rows, err := r.pool.Query(ctx, query, string(coll), businessID, field, want)
	if err != nil {
		r.log.Error("failed to query documents",
			"collection", coll, "field", field, "error", err)
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []document.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// isDocumentID колонка id имеет тип uuid. Другой идентификатор не может
// принадлежать документу, и Postgres отклонил бы его с ошибкой 22P02.
func isDocumentID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func scanDocument(row pgx.Row) (document.Document, error) {
	var (
		doc  document.Document
		coll string
		raw  []byte
	)
	if err := row.Scan(&doc.ID, &coll, &doc.BusinessID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return document.Document{}, err
	}
	doc.Collection = remote.Collection(coll)

	doc.Fields = remote.Fields{}
	if err := json.Unmarshal(raw, &doc.Fields); err != nil {
		return document.Document{}, fmt.Errorf("decode fields: %w", err)
	}
	return doc, nil
}
