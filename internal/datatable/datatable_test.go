package datatable

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-portal/internal/model"
)

type course struct {
	ID     int
	Name   string
	Price  float64
	Active bool
}

func ptr[T any](v T) *T { return &v }

func TestNextDirectionCycle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Asc, NextDirection(None))
	assert.Equal(t, Desc, NextDirection(Asc))
	assert.Equal(t, None, NextDirection(Desc))
}

func TestGestures(t *testing.T) {
	t.Parallel()

	patch := PageChange(2, 25)
	assert.Equal(t, 3, *patch.Page)
	assert.Equal(t, 25, *patch.Limit)
	assert.Nil(t, patch.Sort)

	patch, ok := SortChange("nombre", Asc)
	require.True(t, ok)
	assert.Equal(t, 1, *patch.Page)
	assert.Equal(t, "nombre", *patch.Sort)
	assert.Equal(t, model.OrderAsc, *patch.Order)

	_, ok = SortChange("nombre", None)
	assert.False(t, ok)

	patch = SearchChange("  go  ")
	assert.Equal(t, "go", *patch.Search)
	assert.Equal(t, 1, *patch.Page)
	assert.Nil(t, patch.Limit)
}

func TestMergeIsLastWriteWinsPerField(t *testing.T) {
	t.Parallel()

	state := model.TableParams{}
	state = state.Merge(model.ParamsPatch{Search: ptr("x"), Page: ptr(1)})
	state = state.Merge(model.ParamsPatch{Sort: ptr("id"), Order: ptr(model.OrderDesc)})

	assert.Equal(t, model.TableParams{Search: ptr("x"), Page: 1, Sort: "id", Order: model.OrderDesc}, state)

	state = state.Merge(model.ParamsPatch{Search: ptr("y")})
	assert.Equal(t, "y", state.SearchTerm())
	assert.Equal(t, "id", state.Sort)
}

func newTable(rows []course, params model.TableParams) Table[course] {
	return Table[course]{
		Columns: []Column[course]{
			{Key: "id", Label: "ID", Sortable: true, Value: func(c course) any { return c.ID }},
			{Key: "nombre", Label: "Name", Sortable: true, Value: func(c course) any { return c.Name }},
			{
				Key:    "precio",
				Label:  "Price",
				Value:  func(c course) any { return c.Price },
				Format: func(v any) string { return "$" + strconv.FormatFloat(v.(float64), 'f', 2, 64) },
				CellClass: func(v any) string {
					if v.(float64) == 0 {
						return "free"
					}
					return ""
				},
			},
		},
		Rows: rows,
		Pagination: model.Pagination{
			Total: 42, Page: 2, Limit: 10, TotalPages: 5, HasNext: true, HasPrev: true,
		},
		RowClass: func(c course) string {
			if !c.Active {
				return "row-inactive"
			}
			return ""
		},
		HasActions: true,
		EditPath:   func(c course) string { return "/admin/cursos/" + strconv.Itoa(c.ID) + "/editar" },
		DeletePath: func(c course) string { return "/admin/cursos/" + strconv.Itoa(c.ID) + "/eliminar" },
		Params:     params,
		Extra:      url.Values{"soloActivos": {"1"}},
		BasePath:   "/admin/cursos",
	}
}

func query(t *testing.T, href string) url.Values {
	t.Helper()
	u, err := url.Parse(href)
	require.NoError(t, err)
	return u.Query()
}

func TestViewRowsAndCells(t *testing.T) {
	t.Parallel()

	params := model.DefaultTableParams()
	params.Page = 2
	view := newTable([]course{
		{ID: 7, Name: "Go", Price: 0, Active: false},
		{ID: 8, Name: "SQL", Price: 12.5, Active: true},
	}, params).View()

	require.Len(t, view.Rows, 2)
	assert.False(t, view.Empty)
	assert.Equal(t, "row-inactive", view.Rows[0].Class)
	assert.Empty(t, view.Rows[1].Class)
	assert.Equal(t, []Cell{{Text: "7"}, {Text: "Go"}, {Text: "$0.00", Class: "free"}}, view.Rows[0].Cells)
	assert.Equal(t, "$12.50", view.Rows[1].Cells[2].Text)
	assert.Equal(t, "/admin/cursos/8/editar", view.Rows[1].EditHref)
	assert.Equal(t, "/admin/cursos/8/eliminar", view.Rows[1].DeleteHref)
}

func TestViewHeaders(t *testing.T) {
	t.Parallel()

	params := model.DefaultTableParams()
	params.Page = 2
	view := newTable(nil, params).View()
	require.Len(t, view.Headers, 3)
	assert.True(t, view.Empty)

	id := view.Headers[0]
	assert.Equal(t, Desc, id.Direction)
	q := query(t, id.Href)
	assert.Equal(t, "none", q.Get("sortview"))
	assert.Equal(t, "2", q.Get("page"), "clearing the sort emits no change")
	assert.Equal(t, "DESC", q.Get("order"))

	name := view.Headers[1]
	assert.Equal(t, None, name.Direction)
	q = query(t, name.Href)
	assert.Equal(t, "nombre", q.Get("sort"))
	assert.Equal(t, "ASC", q.Get("order"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "1", q.Get("soloActivos"))

	price := view.Headers[2]
	assert.False(t, price.Sortable)
	assert.Empty(t, price.Href)
}

func TestClearedSortRestartsCycle(t *testing.T) {
	t.Parallel()

	table := newTable(nil, model.DefaultTableParams())
	table.SortCleared = SortCleared(url.Values{"sortview": {"none"}})
	require.True(t, table.SortCleared)

	id := table.View().Headers[0]
	assert.Equal(t, None, id.Direction)
	q := query(t, id.Href)
	assert.Equal(t, "ASC", q.Get("order"))
	assert.Empty(t, q.Get("sortview"))
}

func TestViewPager(t *testing.T) {
	t.Parallel()

	search := "go"
	params := model.TableParams{Page: 2, Limit: 10, Sort: "id", Order: model.OrderDesc, Search: &search}
	pager := newTable(nil, params).View().Pager

	assert.Equal(t, 11, pager.From)
	assert.Equal(t, 20, pager.To)
	assert.Equal(t, "1", query(t, pager.PrevHref).Get("page"))
	assert.Equal(t, "3", query(t, pager.NextHref).Get("page"))
	assert.Equal(t, "go", query(t, pager.NextHref).Get("search"))

	numbers := make([]int, 0, len(pager.Pages))
	for _, p := range pager.Pages {
		numbers = append(numbers, p.Number)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, numbers)
	assert.True(t, pager.Pages[1].Current)

	require.Len(t, pager.Sizes, len(PageSizes))
	for _, opt := range pager.Sizes {
		assert.Equal(t, opt.Size == 10, opt.Selected)
	}
	// Row 11 stays visible: page 3 of size 5, page 1 of size 25.
	assert.Equal(t, "3", query(t, pager.Sizes[0].Href).Get("page"))
	assert.Equal(t, "1", query(t, pager.Sizes[2].Href).Get("page"))
	assert.Equal(t, "25", query(t, pager.Sizes[2].Href).Get("limit"))
}

func TestSearchFormResetsPage(t *testing.T) {
	t.Parallel()

	search := "old"
	params := model.TableParams{Page: 4, Limit: 25, Sort: "nombre", Order: model.OrderAsc, Search: &search}
	form := newTable(nil, params).View().Search

	assert.Equal(t, "/admin/cursos", form.Action)
	assert.Equal(t, "old", form.Term)
	assert.Equal(t, []HiddenField{
		{Name: "limit", Value: "25"},
		{Name: "order", Value: "ASC"},
		{Name: "page", Value: "1"},
		{Name: "soloActivos", Value: "1"},
		{Name: "sort", Value: "nombre"},
	}, form.Hidden)
}
