package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"course-portal/internal/apiclient"
	"course-portal/internal/datatable"
	"course-portal/internal/model"
)

const usersPath = "/admin/usuarios"

type userFormData struct {
	Heading string
	Action  string
	Editing bool
	Roles   []model.Role
}

var roles = []model.Role{model.RoleUser, model.RoleAdmin}

type UserHandler struct {
	api   *apiclient.Client
	views *Renderer
}

func NewUserHandler(api *apiclient.Client, views *Renderer) *UserHandler {
	return &UserHandler{api: api, views: views}
}

var userColumns = []datatable.Column[model.User]{
	{Key: "id", Label: "ID", Sortable: true, Value: func(u model.User) any { return u.ID }},
	{Key: "nombre", Label: "Name", Sortable: true, Value: func(u model.User) any { return u.Name }},
	{Key: "email", Label: "Email", Sortable: true, Value: func(u model.User) any { return u.Email }},
	{
		Key: "rol", Label: "Role", Sortable: true,
		Value:     func(u model.User) any { return string(u.Role) },
		CellClass: func(v any) string { return "role-" + v.(string) },
	},
	{Key: "fecha_creacion", Label: "Created", Sortable: true, Value: func(u model.User) any { return u.CreatedAt }},
	{
		Key: "activo", Label: "Active", Sortable: true,
		Value:  func(u model.User) any { return u.Active },
		Format: yesNo,
	},
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := readListQuery(r)

	page, err := h.api.UsersAdmin(r.Context(), q.Params, q.ActiveOnly)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	table := datatable.Table[model.User]{
		Columns:     userColumns,
		Rows:        page.Data,
		Pagination:  page.Pagination,
		RowClass:    func(u model.User) string { return activeRowClass(u.Active) },
		HasActions:  true,
		EditPath:    userEditPath,
		DeletePath:  userDeletePath,
		Params:      q.Params,
		Extra:       q.Extra,
		BasePath:    usersPath,
		SortCleared: q.SortCleared,
	}

	h.views.Render(w, r, http.StatusOK, "admin_list", Page{
		Title: "People",
		Data: listData{
			Heading:    "People",
			NewHref:    usersPath + "/nuevo",
			NewLabel:   "New user",
			Filterable: true,
			ActiveOnly: q.ActiveOnly,
			FilterHref: q.filterHref(usersPath),
			Table:      table.View(),
		},
	})
}

func (h *UserHandler) New(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, "user_form", Page{
		Title: "New user",
		Form:  map[string]string{"rol": string(model.RoleUser), "activo": "1"},
		Data:  userFormData{Heading: "New user", Action: usersPath, Roles: roles},
	})
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	page := Page{
		Title: "New user",
		Data:  userFormData{Heading: "New user", Action: usersPath, Roles: roles},
	}
	if err := parseForm(r); err != nil {
		h.views.formFailure(w, r, "user_form", page, err)
		return
	}
	page.Form = formValues(r)

	req := model.UserCreate{
		Name:     formString(r, "nombre"),
		Email:    formString(r, "email"),
		Password: r.PostFormValue("password"),
		Role:     model.Role(formString(r, "rol")),
	}
	if _, err := h.api.CreateUser(r.Context(), req); err != nil {
		h.views.formFailure(w, r, "user_form", page, err)
		return
	}

	redirectWithFlash(w, r, usersPath, flashSuccess, "User created.")
}

// Edit prefills the form from the row values carried by the edit link;
// the API has no single-user lookup.
func (h *UserHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	query := r.URL.Query()
	h.views.Render(w, r, http.StatusOK, "user_form", Page{
		Title: "Edit user",
		Form: map[string]string{
			"nombre": query.Get("nombre"),
			"email":  query.Get("email"),
			"rol":    query.Get("rol"),
			"activo": query.Get("activo"),
		},
		Data: userFormData{Heading: "Edit user", Action: idPath(usersPath, id, ""), Editing: true, Roles: roles},
	})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	page := Page{
		Title: "Edit user",
		Data:  userFormData{Heading: "Edit user", Action: idPath(usersPath, id, ""), Editing: true, Roles: roles},
	}
	if err := parseForm(r); err != nil {
		h.views.formFailure(w, r, "user_form", page, err)
		return
	}
	page.Form = formValues(r)

	// A blank password keeps the current one.
	req := model.UserUpdate{
		ID:       id,
		Name:     formString(r, "nombre"),
		Email:    formString(r, "email"),
		Password: r.PostFormValue("password"),
		Role:     model.Role(formString(r, "rol")),
		Active:   formActive(r),
	}
	if _, err := h.api.UpdateUser(r.Context(), req); err != nil {
		h.views.formFailure(w, r, "user_form", page, err)
		return
	}

	redirectWithFlash(w, r, usersPath, flashSuccess, "User updated.")
}

func (h *UserHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	label := r.URL.Query().Get("nombre")
	if label == "" {
		label = "user #" + strconv.Itoa(id)
	}

	h.views.Render(w, r, http.StatusOK, "confirm_delete", Page{
		Title: "Delete user",
		Data: deleteData{
			Heading: "Delete user",
			Label:   label,
			Action:  idPath(usersPath, id, "/eliminar"),
			Back:    usersPath,
		},
	})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	if err := h.api.DeleteUser(r.Context(), id); err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	redirectWithFlash(w, r, usersPath, flashSuccess, "User deleted.")
}

func userEditPath(u model.User) string {
	values := url.Values{
		"nombre": {u.Name},
		"email":  {u.Email},
		"rol":    {string(u.Role)},
		"activo": {strconv.Itoa(u.Active)},
	}
	return idPath(usersPath, u.ID, "/editar") + "?" + values.Encode()
}

func userDeletePath(u model.User) string {
	return idPath(usersPath, u.ID, "/eliminar") + "?" + url.Values{"nombre": {u.Name}}.Encode()
}
