package model

import (
	"net/url"
	"strconv"
	"strings"
)

type Order string

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

func ParseOrder(raw string) (Order, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(OrderAsc):
		return OrderAsc, true
	case string(OrderDesc):
		return OrderDesc, true
	default:
		return "", false
	}
}

// TableParams is the query tuple every paginated list endpoint accepts.
// Search is a pointer so that an explicit empty search is distinguishable
// from no search at all.
type TableParams struct {
	Page   int
	Limit  int
	Sort   string
	Order  Order
	Search *string
}

// ParamsPatch is a partial update emitted by table gestures. Nil fields
// leave the current value untouched.
type ParamsPatch struct {
	Page   *int
	Limit  *int
	Sort   *string
	Order  *Order
	Search *string
}

func DefaultTableParams() TableParams {
	return TableParams{Page: 1, Limit: 10, Sort: "id", Order: OrderDesc}
}

// Merge applies patch over p, last write wins per field.
func (p TableParams) Merge(patch ParamsPatch) TableParams {
	out := p
	if patch.Page != nil {
		out.Page = *patch.Page
	}
	if patch.Limit != nil {
		out.Limit = *patch.Limit
	}
	if patch.Sort != nil {
		out.Sort = *patch.Sort
	}
	if patch.Order != nil {
		out.Order = *patch.Order
	}
	if patch.Search != nil {
		search := *patch.Search
		out.Search = &search
	}
	return out
}

func (p TableParams) SearchTerm() string {
	if p.Search == nil {
		return ""
	}
	return *p.Search
}

// Values encodes p as query parameters. Zero values are omitted; a set
// search is always sent, even when empty.
func (p TableParams) Values() url.Values {
	values := url.Values{}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Sort != "" {
		values.Set("sort", p.Sort)
	}
	if p.Order != "" {
		values.Set("order", string(p.Order))
	}
	if p.Search != nil {
		values.Set("search", *p.Search)
	}
	return values
}

// ParseTableParams reads the tuple from query values, keeping defaults for
// missing or malformed entries.
func ParseTableParams(values url.Values, defaults TableParams) TableParams {
	out := defaults

	if page, err := strconv.Atoi(strings.TrimSpace(values.Get("page"))); err == nil && page >= 1 {
		out.Page = page
	}
	if limit, err := strconv.Atoi(strings.TrimSpace(values.Get("limit"))); err == nil && limit > 0 {
		out.Limit = limit
	}
	if sort := strings.TrimSpace(values.Get("sort")); sort != "" {
		out.Sort = sort
	}
	if order, ok := ParseOrder(values.Get("order")); ok {
		out.Order = order
	}
	if values.Has("search") {
		search := values.Get("search")
		out.Search = &search
	}

	return out
}

type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Paginated is one immutable page returned by a list endpoint.
type Paginated[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
