package handler

import (
	"net/http"
	"strconv"

	"course-portal/internal/apiclient"
	"course-portal/internal/datatable"
	"course-portal/internal/model"
)

const diplomasPath = "/admin/diplomas"

type diplomaFormData struct {
	Heading       string
	Action        string
	Courses       []model.Course
	DocumentTypes []model.DocumentType
}

type DiplomaHandler struct {
	api   *apiclient.Client
	views *Renderer
}

func NewDiplomaHandler(api *apiclient.Client, views *Renderer) *DiplomaHandler {
	return &DiplomaHandler{api: api, views: views}
}

var diplomaColumns = []datatable.Column[model.Diploma]{
	{Key: "id", Label: "ID", Sortable: true, Value: func(d model.Diploma) any { return d.ID }},
	{Key: "nombre_estudiante", Label: "Student", Sortable: true, Value: func(d model.Diploma) any { return d.StudentName }},
	{
		Key: "documento", Label: "Document", Sortable: true,
		Value: func(d model.Diploma) any { return string(d.DocumentType) + " " + d.Document },
	},
	{Key: "curso_nombre", Label: "Course", Sortable: true, Value: func(d model.Diploma) any { return d.CourseName }},
	{Key: "fecha_emision", Label: "Issued", Sortable: true, Value: func(d model.Diploma) any { return d.IssuedAt }},
	{Key: "codigo_verificacion", Label: "Code", Value: func(d model.Diploma) any { return d.VerificationCode }},
	{
		Key: "activo", Label: "Active", Sortable: true,
		Value:  func(d model.Diploma) any { return d.Active },
		Format: yesNo,
	},
}

func (h *DiplomaHandler) List(w http.ResponseWriter, r *http.Request) {
	q := readListQuery(r)

	page, err := h.api.DiplomasAdmin(r.Context(), q.Params, q.ActiveOnly)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	table := datatable.Table[model.Diploma]{
		Columns:     diplomaColumns,
		Rows:        page.Data,
		Pagination:  page.Pagination,
		RowClass:    func(d model.Diploma) string { return activeRowClass(d.Active) },
		HasActions:  true,
		EditPath:    func(d model.Diploma) string { return idPath(diplomasPath, d.ID, "/editar") },
		DeletePath:  func(d model.Diploma) string { return idPath(diplomasPath, d.ID, "/eliminar") },
		Params:      q.Params,
		Extra:       q.Extra,
		BasePath:    diplomasPath,
		SortCleared: q.SortCleared,
	}

	h.views.Render(w, r, http.StatusOK, "admin_list", Page{
		Title: "Diplomas",
		Data: listData{
			Heading:    "Diplomas",
			NewHref:    diplomasPath + "/nuevo",
			NewLabel:   "New diploma",
			Filterable: true,
			ActiveOnly: q.ActiveOnly,
			FilterHref: q.filterHref(diplomasPath),
			Table:      table.View(),
		},
	})
}

func (h *DiplomaHandler) New(w http.ResponseWriter, r *http.Request) {
	data, err := h.formData(r, "New diploma", diplomasPath)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, "diploma_form", Page{
		Title: data.Heading,
		Form:  map[string]string{"activo": "1", "tipo_documento": string(model.DocumentCC)},
		Data:  data,
	})
}

func (h *DiplomaHandler) Create(w http.ResponseWriter, r *http.Request) {
	data, err := h.formData(r, "New diploma", diplomasPath)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}
	page := Page{Title: data.Heading, Data: data}

	if err := parseForm(r); err != nil {
		h.views.formFailure(w, r, "diploma_form", page, err)
		return
	}
	page.Form = formValues(r)

	if _, err := h.api.CreateDiploma(r.Context(), readDiploma(r)); err != nil {
		h.views.formFailure(w, r, "diploma_form", page, err)
		return
	}

	redirectWithFlash(w, r, diplomasPath, flashSuccess, "Diploma created.")
}

func (h *DiplomaHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	diploma, err := h.api.Diploma(r.Context(), id)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	data, err := h.formData(r, "Edit diploma", idPath(diplomasPath, id, ""))
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, "diploma_form", Page{
		Title: data.Heading,
		Form:  diplomaForm(*diploma),
		Data:  data,
	})
}

func (h *DiplomaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	data, err := h.formData(r, "Edit diploma", idPath(diplomasPath, id, ""))
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}
	page := Page{Title: data.Heading, Data: data}

	if err := parseForm(r); err != nil {
		h.views.formFailure(w, r, "diploma_form", page, err)
		return
	}
	page.Form = formValues(r)

	req := model.DiplomaUpdate{ID: id, DiplomaCreate: readDiploma(r)}
	if _, err := h.api.UpdateDiploma(r.Context(), req); err != nil {
		h.views.formFailure(w, r, "diploma_form", page, err)
		return
	}

	redirectWithFlash(w, r, diplomasPath, flashSuccess, "Diploma updated.")
}

func (h *DiplomaHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	diploma, err := h.api.Diploma(r.Context(), id)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, "confirm_delete", Page{
		Title: "Delete diploma",
		Data: deleteData{
			Heading: "Delete diploma",
			Label:   diploma.StudentName + " (" + diploma.VerificationCode + ")",
			Action:  idPath(diplomasPath, id, "/eliminar"),
			Back:    diplomasPath,
		},
	})
}

func (h *DiplomaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	if err := h.api.DeleteDiploma(r.Context(), id); err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	redirectWithFlash(w, r, diplomasPath, flashSuccess, "Diploma deleted.")
}

// formData loads the course picker shown by the diploma form.
func (h *DiplomaHandler) formData(r *http.Request, heading string, action string) (diplomaFormData, error) {
	courses, err := h.api.Courses(r.Context())
	if err != nil {
		return diplomaFormData{}, err
	}
	return diplomaFormData{
		Heading:       heading,
		Action:        action,
		Courses:       courses,
		DocumentTypes: model.DocumentTypes,
	}, nil
}

func readDiploma(r *http.Request) model.DiplomaCreate {
	return model.DiplomaCreate{
		CourseID:     formInt(r, "curso_id"),
		StudentName:  formString(r, "nombre_estudiante"),
		DocumentType: model.DocumentType(formString(r, "tipo_documento")),
		Document:     formString(r, "documento"),
		Email:        formString(r, "email"),
		IssuedAt:     formString(r, "fecha_emision"),
		Instructor:   formString(r, "instructor"),
		Active:       formActive(r),
	}
}

func diplomaForm(d model.Diploma) map[string]string {
	return map[string]string{
		"curso_id":          strconv.Itoa(d.CourseID),
		"nombre_estudiante": d.StudentName,
		"tipo_documento":    string(d.DocumentType),
		"documento":         d.Document,
		"email":             d.Email,
		"fecha_emision":     d.IssuedAt,
		"instructor":        d.Instructor,
		"activo":            strconv.Itoa(d.Active),
	}
}
