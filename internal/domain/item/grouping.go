package item

import (
	"sort"
	"time"
)

// NoFridge ключ корзины для позиций без холодильника.
const NoFridge = ""

// NoFridgeName отображаемое имя корзины без холодильника.
const NoFridgeName = "Без холодильника"

// StatusCounts количество позиций по статусам.
type StatusCounts struct {
	Good    int `json:"good"`
	Warning int `json:"warning"`
	Expired int `json:"expired"`
}

func (c *StatusCounts) add(s Status) {
	switch s {
	case StatusGood:
		c.Good++
	case StatusWarning:
		c.Warning++
	case StatusExpired:
		c.Expired++
	}
}

// FridgeGroup позиции одного холодильника внутри отдела.
type FridgeGroup struct {
	FridgeID   string       `json:"fridgeId"`
	FridgeName string       `json:"fridgeName"`
	Count      int          `json:"count"`
	Statuses   StatusCounts `json:"statuses"`
	Items      []Item       `json:"items"`
}

// DepartmentGroup позиции отдела, разбитые по холодильникам.
type DepartmentGroup struct {
	Department string        `json:"department"`
	Count      int           `json:"count"`
	Statuses   StatusCounts  `json:"statuses"`
	Fridges    []FridgeGroup `json:"fridges"`
}

// GroupByLocation группирует позиции: отдел, затем холодильник. Позиции без
// холодильника попадают в корзину NoFridge, она всегда последняя.
// fridgeNames сопоставляет id холодильника с именем, неизвестные id
// отображаются как есть.
func GroupByLocation(items []Item, fridgeNames map[string]string, now time.Time) []DepartmentGroup {
	depts := make(map[string]*DepartmentGroup)
	fridges := make(map[string]map[string]*FridgeGroup)

	for _, it := range items {
		d, ok := depts[it.Area]
		if !ok {
			d = &DepartmentGroup{Department: it.Area}
			depts[it.Area] = d
			fridges[it.Area] = make(map[string]*FridgeGroup)
		}

		fg, ok := fridges[it.Area][it.FridgeID]
		if !ok {
			fg = &FridgeGroup{FridgeID: it.FridgeID, FridgeName: fridgeName(it.FridgeID, fridgeNames)}
			fridges[it.Area][it.FridgeID] = fg
		}

		status := Classify(it, now)
		d.Count++
		d.Statuses.add(status)
		fg.Count++
		fg.Statuses.add(status)
		fg.Items = append(fg.Items, it)
	}

	out := make([]DepartmentGroup, 0, len(depts))
	for area, d := range depts {
		for _, fg := range fridges[area] {
			d.Fridges = append(d.Fridges, *fg)
		}
		sort.Slice(d.Fridges, func(i, j int) bool {
			a, b := d.Fridges[i], d.Fridges[j]
			if (a.FridgeID == NoFridge) != (b.FridgeID == NoFridge) {
				return b.FridgeID == NoFridge
			}
			if a.FridgeName != b.FridgeName {
				return a.FridgeName < b.FridgeName
			}
			return a.FridgeID < b.FridgeID
		})
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Department < out[j].Department
	})
	return out
}

func fridgeName(id string, names map[string]string) string {
	if id == NoFridge {
		return NoFridgeName
	}
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}
