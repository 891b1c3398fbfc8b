package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"course-portal/internal/datatable"
	"course-portal/internal/model"
)

const (
	activeOnlyParam = "soloActivos"
	rowInactive     = "row-inactive"
)

// listData feeds the admin_list template.
type listData struct {
	Heading    string
	NewHref    string
	NewLabel   string
	Filterable bool
	ActiveOnly bool
	FilterHref string
	Table      datatable.View
}

// listQuery holds what an admin list request asked for.
type listQuery struct {
	Params      model.TableParams
	ActiveOnly  bool
	SortCleared bool
	Extra       url.Values
}

func readListQuery(r *http.Request) listQuery {
	values := r.URL.Query()
	q := listQuery{
		Params:      model.ParseTableParams(values, model.DefaultTableParams()),
		ActiveOnly:  values.Get(activeOnlyParam) == "1",
		SortCleared: datatable.SortCleared(values),
	}
	if q.ActiveOnly {
		q.Extra = url.Values{activeOnlyParam: {"1"}}
	}
	return q
}

// filterHref toggles the active-only filter and starts again at page 1.
func (q listQuery) filterHref(base string) string {
	values := q.Params.Merge(model.ParamsPatch{Page: ptr(1)}).Values()
	if !q.ActiveOnly {
		values.Set(activeOnlyParam, "1")
	}
	return base + "?" + values.Encode()
}

func activeRowClass(active int) string {
	if active == 1 {
		return ""
	}
	return rowInactive
}

func yesNo(value any) string {
	if value == 1 || value == true {
		return "Yes"
	}
	return "No"
}

func idPath(base string, id int, suffix string) string {
	return base + "/" + strconv.Itoa(id) + suffix
}

func ptr[T any](v T) *T {
	return &v
}
