package datatable

import (
	"strings"

	"course-portal/internal/model"
)

// Direction is the header sort state. None means the column shows no sort.
type Direction string

const (
	None Direction = ""
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// NextDirection steps the header cycle asc → desc → none → asc.
func NextDirection(d Direction) Direction {
	switch d {
	case Asc:
		return Desc
	case Desc:
		return None
	default:
		return Asc
	}
}

func directionOf(order model.Order) Direction {
	if order == model.OrderAsc {
		return Asc
	}
	return Desc
}

// PageSizes are the page size choices offered under every table.
var PageSizes = []int{5, 10, 25, 50, 100}

// PageChange translates a pager gesture. pageIndex is zero-based.
func PageChange(pageIndex int, pageSize int) model.ParamsPatch {
	page := pageIndex + 1
	if page < 1 {
		page = 1
	}
	return model.ParamsPatch{Page: &page, Limit: &pageSize}
}

// SortChange translates a header click. A cleared sort reports false and
// the host keeps its previous sort.
func SortChange(key string, dir Direction) (model.ParamsPatch, bool) {
	if dir == None {
		return model.ParamsPatch{}, false
	}

	order := model.OrderDesc
	if dir == Asc {
		order = model.OrderAsc
	}
	page := 1
	return model.ParamsPatch{Page: &page, Sort: &key, Order: &order}, true
}

// SearchChange translates a search submission.
func SearchChange(term string) model.ParamsPatch {
	trimmed := strings.TrimSpace(term)
	page := 1
	return model.ParamsPatch{Page: &page, Search: &trimmed}
}
