package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"course-portal/internal/apiclient"
	"course-portal/internal/datatable"
	"course-portal/internal/guard"
	"course-portal/internal/model"
	"course-portal/internal/service"
	"course-portal/internal/session"
)

const examsPath = guard.ExamHistoryPath

type examHistory struct {
	Exams []model.Exam
}

type examTake struct {
	Course    model.Course
	AttemptID string
	Action    string
	Answers   []int
	Answered  int
}

type examResult struct {
	Course     model.Course
	Attempt    service.Attempt
	Result     model.ExamResult
	SaveAction string
	RetryHref  string
}

// ExamHandler runs the exam flow for members and the results table for
// admins. Both live under the same path.
type ExamHandler struct {
	api   *apiclient.Client
	exams *service.ExamService
	views *Renderer
}

func NewExamHandler(api *apiclient.Client, exams *service.ExamService, views *Renderer) *ExamHandler {
	return &ExamHandler{api: api, exams: exams, views: views}
}

var examColumns = []datatable.Column[model.Exam]{
	{Key: "id", Label: "ID", Sortable: true, Value: func(e model.Exam) any { return e.ID }},
	{Key: "usuario_nombre", Label: "Student", Sortable: true, Value: func(e model.Exam) any { return e.UserName }},
	{Key: "usuario_email", Label: "Email", Sortable: true, Value: func(e model.Exam) any { return e.UserEmail }},
	{Key: "curso_nombre", Label: "Course", Sortable: true, Value: func(e model.Exam) any { return e.CourseName }},
	{
		Key: "nota", Label: "Score", Sortable: true,
		Value:     func(e model.Exam) any { return e.Score },
		Format:    func(v any) string { return strconv.FormatFloat(v.(float64), 'f', 1, 64) },
		CellClass: func(v any) string { return service.ScoreClass(v.(float64)) },
	},
	{Key: "estado", Label: "Status", Value: func(e model.Exam) any { return e.Status }},
	{Key: "fecha_presentacion", Label: "Taken", Sortable: true, Value: func(e model.Exam) any { return e.TakenAt }},
}

func (h *ExamHandler) History(w http.ResponseWriter, r *http.Request) {
	store, _ := session.FromContext(r.Context())
	if store != nil && store.IsAdmin() {
		h.adminTable(w, r)
		return
	}

	exams, err := h.api.MyExams(r.Context())
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, "exams", Page{Title: "My exams", Data: examHistory{Exams: exams}})
}

func (h *ExamHandler) adminTable(w http.ResponseWriter, r *http.Request) {
	q := readListQuery(r)

	page, err := h.api.ExamsAdmin(r.Context(), q.Params)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	table := datatable.Table[model.Exam]{
		Columns:     examColumns,
		Rows:        page.Data,
		Pagination:  page.Pagination,
		Params:      q.Params,
		BasePath:    examsPath,
		SortCleared: q.SortCleared,
	}

	h.views.Render(w, r, http.StatusOK, "admin_list", Page{
		Title: "Exam results",
		Data:  listData{Heading: "Exam results", Table: table.View()},
	})
}

// Pick lists the courses that have an exam.
func (h *ExamHandler) Pick(w http.ResponseWriter, r *http.Request) {
	courses, err := h.exams.CoursesWithExam(r.Context())
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, "exam_pick", Page{Title: "Take an exam", Data: courses})
}

// Take opens a new attempt for the course.
func (h *ExamHandler) Take(w http.ResponseWriter, r *http.Request) {
	userID, course, ok := h.loadExam(w, r)
	if !ok {
		return
	}

	attempt := h.exams.Start(userID, course.ID)
	h.views.Render(w, r, http.StatusOK, "exam_take", Page{
		Title: course.Name,
		Data:  h.takeData(*course, attempt.ID, nil),
	})
}

// Grade scores the submitted answers and redirects to the result.
func (h *ExamHandler) Grade(w http.ResponseWriter, r *http.Request) {
	userID, course, ok := h.loadExam(w, r)
	if !ok {
		return
	}
	if err := parseForm(r); err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	attemptID := r.PostFormValue("intento")
	answers := readAnswers(r, len(course.Questions))

	if _, err := h.exams.Record(attemptID, userID, course.Questions, answers); err != nil {
		if errors.Is(err, model.ErrUnanswered) {
			page := Page{Title: course.Name, Data: h.takeData(*course, attemptID, answers)}
			h.views.formFailure(w, r, "exam_take", page, err)
			return
		}
		h.views.handleFailure(w, r, err)
		return
	}

	http.Redirect(w, r, attemptPath(attemptID), http.StatusSeeOther)
}

func (h *ExamHandler) Result(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	attempt, err := h.exams.Attempt(chi.URLParam(r, "attempt"), userID)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}
	if attempt.Result == nil {
		h.views.handleFailure(w, r, model.ErrAttemptUngraded)
		return
	}

	course, err := h.api.Course(r.Context(), attempt.CourseID)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, "exam_result", Page{
		Title: "Result: " + course.Name,
		Data: examResult{
			Course:     *course,
			Attempt:    attempt,
			Result:     *attempt.Result,
			SaveAction: attemptPath(attempt.ID) + "/guardar",
			RetryHref:  idPath(examsPath+"/curso", course.ID, ""),
		},
	})
}

// Save stores a graded attempt once. A failed save can be retried from the
// result page.
func (h *ExamHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	attemptID := chi.URLParam(r, "attempt")
	if _, err := h.exams.Save(r.Context(), attemptID, userID); err != nil {
		if sessionExpired(r, err) || errors.Is(err, model.ErrAttemptNotFound) {
			h.views.handleFailure(w, r, err)
			return
		}
		redirectWithFlash(w, r, attemptPath(attemptID), flashError, messageFor(err))
		return
	}

	redirectWithFlash(w, r, examsPath, flashSuccess, "Exam result saved.")
}

func (h *ExamHandler) loadExam(w http.ResponseWriter, r *http.Request) (int, *model.Course, bool) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return 0, nil, false
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return 0, nil, false
	}

	course, err := h.exams.ExamCourse(r.Context(), id)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return 0, nil, false
	}
	return userID, course, true
}

func (h *ExamHandler) takeData(course model.Course, attemptID string, answers []int) examTake {
	if answers == nil {
		answers = make([]int, len(course.Questions))
		for i := range answers {
			answers[i] = -1
		}
	}

	answered := 0
	for _, a := range answers {
		if a >= 0 {
			answered++
		}
	}

	return examTake{
		Course:    course,
		AttemptID: attemptID,
		Action:    idPath(examsPath+"/curso", course.ID, ""),
		Answers:   answers,
		Answered:  answered,
	}
}

// readAnswers reads respuesta_<i> for every question; a missing or
// malformed answer is -1.
func readAnswers(r *http.Request, count int) []int {
	answers := make([]int, count)
	for i := range answers {
		value, err := strconv.Atoi(r.PostFormValue("respuesta_" + strconv.Itoa(i)))
		if err != nil {
			value = -1
		}
		answers[i] = value
	}
	return answers
}

func attemptPath(attemptID string) string {
	return examsPath + "/intento/" + attemptID
}

func currentUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	store, ok := session.FromContext(r.Context())
	if !ok || store.CurrentUser() == nil {
		http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
		return 0, false
	}
	return store.CurrentUser().ID, true
}
