package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"course-portal/internal/apiclient"
	"course-portal/internal/datatable"
	"course-portal/internal/model"
	"course-portal/internal/service"
	"course-portal/internal/util"
	"course-portal/internal/validation"
)

const (
	coursesPath      = "/admin/cursos"
	courseImageField = "imagen_archivo"
)

type courseFormData struct {
	Heading string
	Action  string
	Image   string
}

// CourseHandler is the back-office course catalog.
type CourseHandler struct {
	api           *apiclient.Client
	views         *Renderer
	maxUploadSize int64
}

func NewCourseHandler(api *apiclient.Client, views *Renderer, maxUploadSize int64) *CourseHandler {
	return &CourseHandler{api: api, views: views, maxUploadSize: maxUploadSize}
}

var courseColumns = []datatable.Column[model.Course]{
	{Key: "id", Label: "ID", Sortable: true, Value: func(c model.Course) any { return c.ID }},
	{Key: "nombre", Label: "Name", Sortable: true, Value: func(c model.Course) any { return c.Name }},
	{Key: "instructor", Label: "Instructor", Sortable: true, Value: func(c model.Course) any { return c.Instructor }},
	{Key: "duracion", Label: "Duration", Value: func(c model.Course) any { return c.Duration }},
	{
		Key: "precio", Label: "Price", Sortable: true,
		Value:  func(c model.Course) any { return c.Price },
		Format: func(v any) string { return formatPrice(v.(float64)) },
	},
	{
		Key: "preguntas", Label: "Questions",
		Value: func(c model.Course) any { return len(c.Questions) },
	},
	{
		Key: "activo", Label: "Active", Sortable: true,
		Value:  func(c model.Course) any { return c.Active },
		Format: yesNo,
	},
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := readListQuery(r)

	page, err := h.api.CoursesAdmin(r.Context(), q.Params, q.ActiveOnly)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	table := datatable.Table[model.Course]{
		Columns:     courseColumns,
		Rows:        page.Data,
		Pagination:  page.Pagination,
		RowClass:    func(c model.Course) string { return activeRowClass(c.Active) },
		HasActions:  true,
		EditPath:    func(c model.Course) string { return idPath(coursesPath, c.ID, "/editar") },
		DeletePath:  func(c model.Course) string { return idPath(coursesPath, c.ID, "/eliminar") },
		Params:      q.Params,
		Extra:       q.Extra,
		BasePath:    coursesPath,
		SortCleared: q.SortCleared,
	}

	h.views.Render(w, r, http.StatusOK, "admin_list", Page{
		Title: "Courses",
		Data: listData{
			Heading:    "Courses",
			NewHref:    coursesPath + "/nuevo",
			NewLabel:   "New course",
			Filterable: true,
			ActiveOnly: q.ActiveOnly,
			FilterHref: q.filterHref(coursesPath),
			Table:      table.View(),
		},
	})
}

func (h *CourseHandler) New(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, "course_form", Page{
		Title: "New course",
		Form:  map[string]string{"activo": "1"},
		Data:  courseFormData{Heading: "New course", Action: coursesPath},
	})
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	data := courseFormData{Heading: "New course", Action: coursesPath}
	page := Page{Title: data.Heading, Data: data}

	req, err := h.readCourse(w, r)
	page.Form = formValues(r)
	if err != nil {
		h.views.formFailure(w, r, "course_form", page, err)
		return
	}

	if _, err := h.api.CreateCourse(r.Context(), req); err != nil {
		h.views.formFailure(w, r, "course_form", page, err)
		return
	}

	redirectWithFlash(w, r, coursesPath, flashSuccess, "Course created.")
}

func (h *CourseHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	course, err := h.api.Course(r.Context(), id)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, "course_form", Page{
		Title: "Edit course",
		Form:  courseForm(*course),
		Data: courseFormData{
			Heading: "Edit " + course.Name,
			Action:  idPath(coursesPath, id, ""),
			Image:   course.Image,
		},
	})
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	data := courseFormData{Heading: "Edit course", Action: idPath(coursesPath, id, "")}
	page := Page{Title: data.Heading}

	req, err := h.readCourse(w, r)
	page.Form = formValues(r)
	data.Image = req.Image
	page.Data = data
	if err != nil {
		h.views.formFailure(w, r, "course_form", page, err)
		return
	}

	if _, err := h.api.UpdateCourse(r.Context(), model.CourseUpdate{ID: id, CourseCreate: req}); err != nil {
		h.views.formFailure(w, r, "course_form", page, err)
		return
	}

	redirectWithFlash(w, r, coursesPath, flashSuccess, "Course updated.")
}

func (h *CourseHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	course, err := h.api.Course(r.Context(), id)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, "confirm_delete", Page{
		Title: "Delete course",
		Data: deleteData{
			Heading: "Delete course",
			Label:   course.Name,
			Action:  idPath(coursesPath, id, "/eliminar"),
			Back:    coursesPath,
		},
	})
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	if err := h.api.DeleteCourse(r.Context(), id); err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	redirectWithFlash(w, r, coursesPath, flashSuccess, "Course deleted.")
}

// readCourse parses the multipart course form. A new image file, when
// present, is verified and uploaded before the course itself is saved.
func (h *CourseHandler) readCourse(w http.ResponseWriter, r *http.Request) (model.CourseCreate, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.CourseCreate{}, model.ErrImageTooLarge
		}
		return model.CourseCreate{}, model.ErrInvalidInput
	}
	if r.PostForm == nil {
		if err := parseForm(r); err != nil {
			return model.CourseCreate{}, err
		}
	}

	req := model.CourseCreate{
		Name:        formString(r, "nombre"),
		Description: formString(r, "descripcion"),
		Content:     r.PostFormValue("contenido_markdown"),
		VideoURL1:   formString(r, "video_url_1"),
		VideoURL2:   formString(r, "video_url_2"),
		Summary:     r.PostFormValue("resumen"),
		Duration:    formString(r, "duracion"),
		Instructor:  formString(r, "instructor"),
		Price:       formFloat(r, "precio"),
		Image:       formString(r, "imagen"),
		Active:      formActive(r),
	}

	questions, err := service.ParseQuestions(r.PostFormValue("preguntas"))
	if err != nil {
		return req, validation.Errors{"preguntas": strings.TrimSuffix(err.Error(), ": "+model.ErrInvalidInput.Error())}
	}
	req.Questions = questions

	if err := validation.Struct(req); err != nil {
		return req, err
	}

	url, err := h.uploadImage(r)
	if err != nil {
		return req, err
	}
	if url != "" {
		req.Image = url
	}
	return req, nil
}

func (h *CourseHandler) uploadImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile(courseImageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read uploaded image: %w", err)
	}
	defer file.Close()

	img, err := util.ReadImage(header.Filename, file, h.maxUploadSize)
	if err != nil {
		return "", err
	}

	resp, err := h.api.UploadImage(r.Context(), img.Filename, bytes.NewReader(img.Data))
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}

func courseForm(c model.Course) map[string]string {
	return map[string]string{
		"nombre":             c.Name,
		"descripcion":        c.Description,
		"contenido_markdown": c.Content,
		"video_url_1":        c.VideoURL1,
		"video_url_2":        c.VideoURL2,
		"resumen":            c.Summary,
		"duracion":           c.Duration,
		"instructor":         c.Instructor,
		"precio":             strconv.FormatFloat(c.Price, 'f', -1, 64),
		"imagen":             c.Image,
		"activo":             strconv.Itoa(c.Active),
		"preguntas":          service.FormatQuestions(c.Questions),
	}
}
