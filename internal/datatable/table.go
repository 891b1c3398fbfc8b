// Package datatable turns a page of rows into a view model whose every
// gesture (paging, sorting, searching) is a link carrying the merged
// parameters. It never fetches data.
package datatable

import (
	"fmt"
	"net/url"
	"slices"

	"course-portal/internal/model"
)

// sortClearedParam marks a header cleared by the third click. It only
// affects how the header renders; the query parameters stay as they were.
const sortClearedParam = "sortview"

type Column[T any] struct {
	Key       string
	Label     string
	Sortable  bool
	Value     func(row T) any
	Format    func(value any) string
	CellClass func(value any) string
}

type Table[T any] struct {
	Columns    []Column[T]
	Rows       []T
	Pagination model.Pagination
	RowClass   func(row T) string
	HasActions bool
	EditPath   func(row T) string
	DeletePath func(row T) string

	// Params is the host's authoritative state; Extra carries host filters
	// such as soloActivos that are not part of the table tuple.
	Params      model.TableParams
	Extra       url.Values
	BasePath    string
	SortCleared bool
}

type View struct {
	Headers    []Header
	Rows       []Row
	Pager      Pager
	Search     SearchForm
	HasActions bool
	Empty      bool
}

type Header struct {
	Key       string
	Label     string
	Sortable  bool
	Direction Direction
	Href      string
}

type Row struct {
	Class      string
	Cells      []Cell
	EditHref   string
	DeleteHref string
}

type Cell struct {
	Text  string
	Class string
}

type PageLink struct {
	Number  int
	Href    string
	Current bool
}

type SizeOption struct {
	Size     int
	Href     string
	Selected bool
}

type Pager struct {
	Total      int
	Page       int
	TotalPages int
	From       int
	To         int
	HasPrev    bool
	HasNext    bool
	PrevHref   string
	NextHref   string
	Pages      []PageLink
	Sizes      []SizeOption
}

type HiddenField struct {
	Name  string
	Value string
}

type SearchForm struct {
	Action string
	Term   string
	Hidden []HiddenField
}

// SortCleared reports whether the request came from a header click that
// cleared the sort.
func SortCleared(values url.Values) bool {
	return values.Get(sortClearedParam) == "none"
}

func (t Table[T]) View() View {
	view := View{
		HasActions: t.HasActions,
		Empty:      len(t.Rows) == 0,
		Pager:      t.pager(),
		Search:     t.searchForm(),
	}

	for _, col := range t.Columns {
		view.Headers = append(view.Headers, t.header(col))
	}

	for _, row := range t.Rows {
		view.Rows = append(view.Rows, t.row(row))
	}

	return view
}

func (t Table[T]) header(col Column[T]) Header {
	h := Header{Key: col.Key, Label: col.Label, Sortable: col.Sortable}
	if !col.Sortable {
		return h
	}

	if t.Params.Sort == col.Key && !t.SortCleared {
		h.Direction = directionOf(t.Params.Order)
	}

	patch, emitted := SortChange(col.Key, NextDirection(h.Direction))
	if !emitted {
		h.Href = t.href(t.Params, url.Values{sortClearedParam: {"none"}})
		return h
	}
	h.Href = t.href(t.Params.Merge(patch), nil)
	return h
}

func (t Table[T]) row(row T) Row {
	r := Row{}
	if t.RowClass != nil {
		r.Class = t.RowClass(row)
	}
	if t.HasActions {
		if t.EditPath != nil {
			r.EditHref = t.EditPath(row)
		}
		if t.DeletePath != nil {
			r.DeleteHref = t.DeletePath(row)
		}
	}

	for _, col := range t.Columns {
		var value any
		if col.Value != nil {
			value = col.Value(row)
		}

		cell := Cell{Text: formatValue(col, value)}
		if col.CellClass != nil {
			cell.Class = col.CellClass(value)
		}
		r.Cells = append(r.Cells, cell)
	}

	return r
}

func formatValue[T any](col Column[T], value any) string {
	if col.Format != nil {
		return col.Format(value)
	}
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func (t Table[T]) pager() Pager {
	p := t.Pagination
	limit := p.Limit
	if limit <= 0 {
		limit = t.Params.Limit
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}

	pager := Pager{
		Total:      p.Total,
		Page:       page,
		TotalPages: p.TotalPages,
		HasPrev:    p.HasPrev,
		HasNext:    p.HasNext,
	}

	if p.Total > 0 && limit > 0 {
		pager.From = (page-1)*limit + 1
		pager.To = min(page*limit, p.Total)
	}

	if p.HasPrev {
		pager.PrevHref = t.href(t.Params.Merge(PageChange(page-2, limit)), nil)
	}
	if p.HasNext {
		pager.NextHref = t.href(t.Params.Merge(PageChange(page, limit)), nil)
	}

	for n := max(1, page-2); n <= min(p.TotalPages, page+2); n++ {
		pager.Pages = append(pager.Pages, PageLink{
			Number:  n,
			Href:    t.href(t.Params.Merge(PageChange(n-1, limit)), nil),
			Current: n == page,
		})
	}

	// Changing the size keeps the first visible row on screen.
	firstRow := (page - 1) * limit
	for _, size := range PageSizes {
		pager.Sizes = append(pager.Sizes, SizeOption{
			Size:     size,
			Href:     t.href(t.Params.Merge(PageChange(firstRow/size, size)), nil),
			Selected: size == limit,
		})
	}

	return pager
}

func (t Table[T]) searchForm() SearchForm {
	form := SearchForm{Action: t.BasePath, Term: t.Params.SearchTerm()}

	// Submitting the form sends page=1 and the new term; everything else
	// rides along unchanged.
	merged := t.Params.Merge(SearchChange(""))
	values := merged.Values()
	values.Del("search")
	for key, list := range t.Extra {
		values[key] = list
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		for _, value := range values[key] {
			form.Hidden = append(form.Hidden, HiddenField{Name: key, Value: value})
		}
	}

	return form
}

func (t Table[T]) href(params model.TableParams, marker url.Values) string {
	values := params.Values()
	for key, list := range t.Extra {
		values[key] = list
	}
	for key, list := range marker {
		values[key] = list
	}
	return t.BasePath + "?" + values.Encode()
}
