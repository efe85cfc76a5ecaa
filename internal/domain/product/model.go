package product

import (
	"fmt"
	"strings"

	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/item"
	"shelfkeeper/internal/domain/remote"
)

// Product позиция каталога. Срок хранения после вскрытия задается в днях.
type Product struct {
	ID            entity.Ref `json:"id"`
	Name          string     `json:"name"`
	ShelfLifeDays int        `json:"shelfLife"`
	Unit          item.Unit  `json:"type"`
	Area          string     `json:"area"`
	BusinessID    string     `json:"businessId"`
	CategoryID    string     `json:"categoryId,omitempty"`
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &item.ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(p.BusinessID) == "" {
		return &item.ValidationError{Field: "businessId", Reason: "is required"}
	}
	if strings.TrimSpace(p.Area) == "" {
		return &item.ValidationError{Field: "area", Reason: "is required"}
	}
	if p.ShelfLifeDays < 0 {
		return &item.ValidationError{Field: "shelfLife", Reason: "must not be negative"}
	}
	if p.Unit != "" {
		return p.Unit.Validate()
	}
	return nil
}

// OpenRequest заготовка запроса на открытие продукта.
func (p Product) OpenRequest(amount float64, userID, fridgeID string) item.CreateRequest {
	var productID string
	if id, ok := p.ID.RemoteID(); ok {
		productID = id.String()
	}
	return item.CreateRequest{
		ProductID:     productID,
		ProductName:   p.Name,
		Unit:          p.Unit,
		Amount:        amount,
		Area:          p.Area,
		BusinessID:    p.BusinessID,
		UserID:        userID,
		FridgeID:      fridgeID,
		ShelfLifeDays: p.ShelfLifeDays,
	}
}

func (p Product) Fields() remote.Fields {
	f := remote.Fields{
		"name":       p.Name,
		"shelfLife":  p.ShelfLifeDays,
		"area":       p.Area,
		"businessId": p.BusinessID,
	}
	if p.Unit != "" {
		f["type"] = string(p.Unit)
	}
	if p.CategoryID != "" {
		f["categoryId"] = p.CategoryID
	}
	return f
}

func FromDocument(doc remote.Document) (Product, error) {
	if doc.ID == "" {
		return Product{}, fmt.Errorf("decode product: %w", entity.ErrEmptyRef)
	}
	return FromFields(entity.Remote(doc.ID), doc.Fields), nil
}

// FromFields восстанавливает продукт из набора полей.
func FromFields(ref entity.Ref, f remote.Fields) Product {
	p := Product{
		ID:         ref,
		Name:       f.String("name"),
		Unit:       item.Unit(f.String("type")),
		Area:       f.String("area"),
		BusinessID: f.String("businessId"),
		CategoryID: f.String("categoryId"),
	}
	if v, ok := f.Float("shelfLife"); ok {
		p.ShelfLifeDays = int(v)
	}
	return p
}

// FromDocuments декодирует список документов, пропуская некорректные.
func FromDocuments(docs []remote.Document) []Product {
	out := make([]Product, 0, len(docs))
	for _, doc := range docs {
		p, err := FromDocument(doc)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Patch частичное изменение позиции каталога.
type Patch struct {
	Name          *string    `json:"name,omitempty"`
	ShelfLifeDays *int       `json:"shelfLife,omitempty"`
	Unit          *item.Unit `json:"type,omitempty"`
	Area          *string    `json:"area,omitempty"`
	CategoryID    *string    `json:"categoryId,omitempty"`
}

func (p Patch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &item.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if p.ShelfLifeDays != nil && *p.ShelfLifeDays < 0 {
		return &item.ValidationError{Field: "shelfLife", Reason: "must not be negative"}
	}
	if p.Unit != nil {
		return p.Unit.Validate()
	}
	return nil
}

func (p Patch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.ShelfLifeDays != nil {
		prod.ShelfLifeDays = *p.ShelfLifeDays
	}
	if p.Unit != nil {
		prod.Unit = *p.Unit
	}
	if p.Area != nil {
		prod.Area = *p.Area
	}
	if p.CategoryID != nil {
		prod.CategoryID = *p.CategoryID
	}
}

// PatchFromFields обратное преобразование для Patch.Fields.
func PatchFromFields(f remote.Fields) Patch {
	var p Patch
	if v, ok := f["name"].(string); ok {
		p.Name = &v
	}
	if v, ok := f.Float("shelfLife"); ok {
		days := int(v)
		p.ShelfLifeDays = &days
	}
	if v, ok := f["type"].(string); ok {
		u := item.Unit(v)
		p.Unit = &u
	}
	if v, ok := f["area"].(string); ok {
		p.Area = &v
	}
	if v, ok := f["categoryId"].(string); ok {
		p.CategoryID = &v
	}
	return p
}

func (p Patch) Fields() remote.Fields {
	f := remote.Fields{}
	if p.Name != nil {
		f["name"] = *p.Name
	}
	if p.ShelfLifeDays != nil {
		f["shelfLife"] = *p.ShelfLifeDays
	}
	if p.Unit != nil {
		f["type"] = string(*p.Unit)
	}
	if p.Area != nil {
		f["area"] = *p.Area
	}
	if p.CategoryID != nil {
		f["categoryId"] = *p.CategoryID
	}
	return f
}

// Find ищет продукт по ссылке или, если ссылка не найдена, по имени без
// учета регистра.
func Find(products []Product, key string) (Product, bool) {
	for _, p := range products {
		if p.ID.String() == key {
			return p, true
		}
	}
	for _, p := range products {
		if strings.EqualFold(p.Name, key) {
			return p, true
		}
	}
	return Product{}, false
}
