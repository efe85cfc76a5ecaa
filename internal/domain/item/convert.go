package item

import (
	"fmt"
	"time"

	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/remote"
)

// Fields представление позиции для удаленного хранилища. Идентификатор
// в поля не входит, пустые необязательные поля отбрасываются.
func (it Item) Fields() remote.Fields {
	f := remote.Fields{
		"productName":   it.ProductName,
		"type":          string(it.Unit),
		"amount":        it.Amount,
		"area":          it.Area,
		"businessId":    it.BusinessID,
		"userId":        it.UserID,
		"openingTime":   it.OpeningTime,
		"expiryTime":    it.ExpiryTime,
		"discarded":     it.Discarded,
		"isThrown":      it.Discarded || it.IsThrown,
		"finished":      it.Finished,
		"reminderSent":  it.ReminderSent,
		"adminNotified": it.AdminNotified,
	}
	if it.DiscardedAt != nil {
		f["discardedAt"] = *it.DiscardedAt
	}
	if it.DiscardedQuantity != nil {
		f["discardedQuantity"] = *it.DiscardedQuantity
	}
	if it.FinishedAt != nil {
		f["finishedAt"] = *it.FinishedAt
	}

	optional := map[string]string{
		"productId":       it.ProductID,
		"fridgeId":        it.FridgeID,
		"discardedBy":     it.DiscardedBy,
		"discardedByName": it.DiscardedByName,
		"discardReason":   string(it.DiscardReason),
		"finishedBy":      it.FinishedBy,
		"finishedByName":  it.FinishedByName,
	}
	for k, v := range optional {
		if v != "" {
			f[k] = v
		}
	}

	return f.Compact()
}

// FromDocument восстанавливает позицию из документа удаленного хранилища.
func FromDocument(doc remote.Document) (Item, error) {
	if doc.ID == "" {
		return Item{}, fmt.Errorf("decode item: %w", entity.ErrEmptyRef)
	}
	return FromFields(entity.Remote(doc.ID), doc.Fields), nil
}

// FromFields восстанавливает позицию из набора полей.
func FromFields(ref entity.Ref, f remote.Fields) Item {
	it := Item{
		ID:              ref,
		ProductID:       f.String("productId"),
		ProductName:     f.String("productName"),
		Unit:            Unit(f.String("type")),
		Area:            f.String("area"),
		BusinessID:      f.String("businessId"),
		UserID:          f.String("userId"),
		FridgeID:        f.String("fridgeId"),
		DiscardedBy:     f.String("discardedBy"),
		DiscardedByName: f.String("discardedByName"),
		DiscardReason:   DiscardReason(f.String("discardReason")),
		FinishedBy:      f.String("finishedBy"),
		FinishedByName:  f.String("finishedByName"),
		Finished:        f.Bool("finished"),
		ReminderSent:    f.Bool("reminderSent"),
		AdminNotified:   f.Bool("adminNotified"),
	}
	if it.Unit == "" {
		it.Unit = UnitUnits
	}

	// Старые документы содержат только isThrown.
	it.Discarded = f.Bool("discarded") || f.Bool("isThrown")
	it.IsThrown = it.Discarded

	if v, ok := f.Float("amount"); ok {
		it.Amount = v
	}
	if v, ok := f.Float("discardedQuantity"); ok {
		it.DiscardedQuantity = &v
	}
	if v, ok := f.Time("openingTime"); ok {
		it.OpeningTime = v
	}
	if v, ok := f.Time("expiryTime"); ok {
		it.ExpiryTime = v
	}
	it.DiscardedAt = timePtr(f, "discardedAt")
	it.FinishedAt = timePtr(f, "finishedAt")

	return it
}

// PatchFromFields обратное преобразование для Patch.Fields.
func PatchFromFields(f remote.Fields) Patch {
	var p Patch
	if v, ok := f["productName"].(string); ok {
		p.ProductName = &v
	}
	if v, ok := f["type"].(string); ok {
		u := Unit(v)
		p.Unit = &u
	}
	if v, ok := f.Float("amount"); ok {
		p.Amount = &v
	}
	if v, ok := f["area"].(string); ok {
		p.Area = &v
	}
	if v, ok := f["fridgeId"].(string); ok {
		p.FridgeID = &v
	}
	if v, ok := f["reminderSent"].(bool); ok {
		p.ReminderSent = &v
	}
	if v, ok := f["adminNotified"].(bool); ok {
		p.AdminNotified = &v
	}
	if f.Bool("finished") {
		stamp := FinishStamp{By: f.String("finishedBy"), ByName: f.String("finishedByName")}
		if at, ok := f.Time("finishedAt"); ok {
			stamp.At = at
		}
		p.Finish = &stamp
	}
	return p
}

// DiscardStampFromFields обратное преобразование для DiscardStamp.Fields.
func DiscardStampFromFields(f remote.Fields) DiscardStamp {
	s := DiscardStamp{
		By:     f.String("discardedBy"),
		ByName: f.String("discardedByName"),
		Reason: DiscardReason(f.String("discardReason")),
	}
	if at, ok := f.Time("discardedAt"); ok {
		s.At = at
	}
	if q, ok := f.Float("discardedQuantity"); ok {
		s.Quantity = &q
	}
	return s
}

// FromDocuments декодирует список документов, пропуская некорректные.
func FromDocuments(docs []remote.Document) []Item {
	items := make([]Item, 0, len(docs))
	for _, doc := range docs {
		it, err := FromDocument(doc)
		if err != nil {
			continue
		}
		items = append(items, it)
	}
	return items
}

func timePtr(f remote.Fields, key string) *time.Time {
	v, ok := f.Time(key)
	if !ok {
		return nil
	}
	return &v
}
