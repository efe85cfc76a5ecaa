package document

import (
	"time"

	"shelfkeeper/internal/domain/remote"
)

// Document is a stored document together with its ownership data.
type Document struct {
	ID         string
	Collection remote.Collection
	BusinessID string
	Fields     remote.Fields
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (d Document) Remote() remote.Document {
	return remote.Document{ID: d.ID, Fields: d.Fields}
}

// BusinessField is the field every document is scoped by.
const BusinessField = "businessId"
