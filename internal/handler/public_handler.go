package handler

import (
	"net/http"

	"course-portal/internal/apiclient"
	"course-portal/internal/model"
	"course-portal/internal/service"
	"course-portal/internal/session"
)

const featuredCourses = 3

type courseDetail struct {
	Course  model.Course
	Summary []string
}

type contentPage struct {
	Content      service.CourseContent
	NeedsLogin   bool
	CourseID     int
	CourseName   string
	LoginHref    string
	RegisterHref string
}

type validateData struct {
	DocumentTypes []model.DocumentType
	Mode          string
	Searched      bool
	Result        *model.ValidationResponse
	Diplomas      []model.Diploma
}

// PublicHandler serves the pages reachable without signing in.
type PublicHandler struct {
	api   *apiclient.Client
	views *Renderer
}

func NewPublicHandler(api *apiclient.Client, views *Renderer) *PublicHandler {
	return &PublicHandler{api: api, views: views}
}

func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	courses, err := h.api.Courses(r.Context())
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, "home", Page{
		Title: "Training courses",
		Data:  courses[:min(len(courses), featuredCourses)],
	})
}

func (h *PublicHandler) Courses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.api.Courses(r.Context())
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, "courses", Page{Title: "Courses", Data: courses})
}

func (h *PublicHandler) Course(w http.ResponseWriter, r *http.Request) {
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	h.views.Render(w, r, http.StatusOK, "course", Page{
		Title: course.Name,
		Data:  courseDetail{Course: *course, Summary: service.SummaryLines(course.Summary)},
	})
}

// Content shows the course material to signed-in users and a sign-in
// prompt to everyone else.
func (h *PublicHandler) Content(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	store, ok := session.FromContext(r.Context())
	if !ok || !store.IsAuthenticated() {
		h.views.Render(w, r, http.StatusOK, "content", Page{
			Title: "Course content",
			Data: contentPage{
				NeedsLogin:   true,
				CourseID:     id,
				LoginHref:    "/login?next=" + r.URL.EscapedPath(),
				RegisterHref: "/registro",
			},
		})
		return
	}

	course, err := h.api.Course(r.Context(), id)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, "content", Page{
		Title: course.Name,
		Data: contentPage{
			Content:    service.BuildContent(*course),
			CourseID:   course.ID,
			CourseName: course.Name,
		},
	})
}

func (h *PublicHandler) CourseContactForm(w http.ResponseWriter, r *http.Request) {
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	h.views.Render(w, r, http.StatusOK, "course_contact", Page{
		Title: "Ask about " + course.Name,
		Data:  course,
	})
}

func (h *PublicHandler) CourseContact(w http.ResponseWriter, r *http.Request) {
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	page := Page{Title: "Ask about " + course.Name, Data: course}
	if err := parseForm(r); err != nil {
		h.views.formFailure(w, r, "course_contact", page, err)
		return
	}
	page.Form = formValues(r)

	req := model.ContactCourseRequest{
		Name:     formString(r, "nombre"),
		Email:    formString(r, "email"),
		Phone:    formString(r, "telefono"),
		CourseID: course.ID,
		Privacy:  formBool(r, "privacidad"),
	}

	resp, err := h.api.ContactCourse(r.Context(), req)
	if err != nil {
		h.views.formFailure(w, r, "course_contact", page, err)
		return
	}

	redirectWithFlash(w, r, idPath("/cursos", course.ID, ""), flashSuccess, contactMessage(resp))
}

func (h *PublicHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, "contact", Page{Title: "Contact"})
}

func (h *PublicHandler) Contact(w http.ResponseWriter, r *http.Request) {
	page := Page{Title: "Contact"}
	if err := parseForm(r); err != nil {
		h.views.formFailure(w, r, "contact", page, err)
		return
	}
	page.Form = formValues(r)

	req := model.ContactGeneralRequest{
		Name:    formString(r, "nombre"),
		Email:   formString(r, "email"),
		Phone:   formString(r, "telefono"),
		Message: formString(r, "mensaje"),
		Privacy: formBool(r, "privacidad"),
	}

	resp, err := h.api.ContactGeneral(r.Context(), req)
	if err != nil {
		h.views.formFailure(w, r, "contact", page, err)
		return
	}

	redirectWithFlash(w, r, "/contacto", flashSuccess, contactMessage(resp))
}

func (h *PublicHandler) ValidateForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, "validate", Page{
		Title: "Validate a diploma",
		Form:  map[string]string{"modo": "documento", "tipo_documento": string(model.DocumentCC)},
		Data:  validateData{DocumentTypes: model.DocumentTypes, Mode: "documento"},
	})
}

// Validate looks a diploma up either by the holder's document or by its
// verification code, depending on the "modo" field.
func (h *PublicHandler) Validate(w http.ResponseWriter, r *http.Request) {
	data := validateData{DocumentTypes: model.DocumentTypes, Mode: "documento"}
	page := Page{Title: "Validate a diploma"}
	if err := parseForm(r); err != nil {
		page.Data = data
		h.views.formFailure(w, r, "validate", page, err)
		return
	}
	page.Form = formValues(r)

	var (
		resp *model.ValidationResponse
		err  error
	)
	if formString(r, "modo") == "codigo" {
		data.Mode = "codigo"
		resp, err = h.api.ValidateByCode(r.Context(), model.ValidateByCodeRequest{Code: formString(r, "codigo")})
	} else {
		resp, err = h.api.ValidateByDocument(r.Context(), model.ValidateByDocumentRequest{
			DocumentType: model.DocumentType(formString(r, "tipo_documento")),
			Document:     formString(r, "documento"),
		})
	}
	page.Data = data
	if err != nil {
		h.views.formFailure(w, r, "validate", page, err)
		return
	}

	data.Searched = true
	data.Result = resp
	data.Diplomas = resp.All()
	page.Data = data
	h.views.Render(w, r, http.StatusOK, "validate", page)
}

func (h *PublicHandler) loadCourse(w http.ResponseWriter, r *http.Request) (*model.Course, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return nil, false
	}

	course, err := h.api.Course(r.Context(), id)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return nil, false
	}
	return course, true
}

func contactMessage(resp *model.ContactResponse) string {
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	return "Thank you, we will contact you soon."
}
