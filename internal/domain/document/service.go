package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"shelfkeeper/internal/domain/remote"
	"shelfkeeper/internal/domain/user"
)

type Servicer interface {
	Create(ctx context.Context, actor user.Actor, coll remote.Collection, fields remote.Fields) (string, error)
	Patch(ctx context.Context, actor user.Actor, coll remote.Collection, id string, fields remote.Fields) error
	Delete(ctx context.Context, actor user.Actor, coll remote.Collection, id string) error
	Query(ctx context.Context, actor user.Actor, coll remote.Collection, field string, value any) ([]remote.Document, error)
}

type Service struct {
	repo  Repository
	log   *slog.Logger
	newID func() string
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		log:   log.With("component", "document_service"),
		newID: uuid.NewString,
	}
}

// Create stores a new document scoped to the actor's business. A missing
// businessId is filled in; a foreign one is rejected.
func (s *Service) Create(ctx context.Context, actor user.Actor, coll remote.Collection, fields remote.Fields) (string, error) {
	if err := s.checkWrite(actor, coll, false); err != nil {
		return "", err
	}
	if err := checkFields(fields); err != nil {
		return "", err
	}

	stored := make(remote.Fields, len(fields)+1)
	for k, v := range fields {
		stored[k] = v
	}
	if err := claimBusiness(actor, stored); err != nil {
		return "", err
	}

	doc := Document{
		ID:         s.newID(),
		Collection: coll,
		BusinessID: actor.BusinessID,
		Fields:     stored,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return "", fmt.Errorf("create %s: %w", coll, err)
	}

	s.log.Debug("document created", "collection", coll, "id", doc.ID, "user_id", actor.UserID)
	return doc.ID, nil
}

func (s *Service) Patch(ctx context.Context, actor user.Actor, coll remote.Collection, id string, fields remote.Fields) error {
	if err := s.checkWrite(actor, coll, false); err != nil {
		return err
	}
	if err := checkFields(fields); err != nil {
		return err
	}
	if v, ok := fields[BusinessField]; ok && v != actor.BusinessID {
		return fmt.Errorf("%w: cannot move document to another business", ErrForbidden)
	}
	if _, err := s.owned(ctx, actor, coll, id); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, coll, id, fields); err != nil {
		return fmt.Errorf("patch %s/%s: %w", coll, id, err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, actor user.Actor, coll remote.Collection, id string) error {
	if err := s.checkWrite(actor, coll, true); err != nil {
		return err
	}
	if _, err := s.owned(ctx, actor, coll, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, coll, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", coll, id, err)
	}
	s.log.Info("document deleted", "collection", coll, "id", id, "user_id", actor.UserID)
	return nil
}

// Query returns documents of the actor's business where field equals value.
func (s *Service) Query(ctx context.Context, actor user.Actor, coll remote.Collection, field string, value any) ([]remote.Document, error) {
	if err := coll.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if strings.TrimSpace(field) == "" {
		return nil, fmt.Errorf("%w: query field is required", ErrInvalid)
	}
	if field == BusinessField && value != actor.BusinessID {
		return nil, fmt.Errorf("%w: foreign business", ErrForbidden)
	}

	docs, err := s.repo.QueryByField(ctx, coll, actor.BusinessID, field, value)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", coll, err)
	}

	out := make([]remote.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Remote())
	}
	return out, nil
}

// checkWrite applies the collection policy.
func (s *Service) checkWrite(actor user.Actor, coll remote.Collection, deleting bool) error {
	if err := coll.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := actor.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	switch coll {
	case remote.CollectionUsers:
		return ErrReadOnly
	case remote.CollectionProducts, remote.CollectionFridges, remote.CollectionCategories:
		if !actor.CanManageCatalog() {
			s.log.Warn("catalog write denied", "collection", coll, "user_id", actor.UserID)
			return fmt.Errorf("%w: catalog changes require a manager", ErrForbidden)
		}
	case remote.CollectionItems:
		if deleting && !actor.CanManageCatalog() {
			s.log.Warn("item delete denied", "user_id", actor.UserID)
			return fmt.Errorf("%w: deleting items requires a manager", ErrForbidden)
		}
	}
	return nil
}

func (s *Service) owned(ctx context.Context, actor user.Actor, coll remote.Collection, id string) (Document, error) {
	doc, err := s.repo.Get(ctx, coll, id)
	if err != nil {
		return Document{}, err
	}
	if doc.BusinessID != actor.BusinessID {
		return Document{}, fmt.Errorf("%w: foreign business", ErrForbidden)
	}
	return doc, nil
}

func checkFields(fields remote.Fields) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields", ErrInvalid)
	}
	if fields.HasNil() {
		return fmt.Errorf("%w: null field values are not accepted", ErrInvalid)
	}
	return nil
}

func claimBusiness(actor user.Actor, fields remote.Fields) error {
	v, ok := fields[BusinessField]
	if !ok {
		fields[BusinessField] = actor.BusinessID
		return nil
	}
	if v != actor.BusinessID {
		return fmt.Errorf("%w: foreign business", ErrForbidden)
	}
	return nil
}
