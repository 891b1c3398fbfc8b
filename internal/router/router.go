package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"course-portal/internal/config"
	"course-portal/internal/handler"
	"course-portal/internal/middleware"
	"course-portal/internal/session"
	"course-portal/internal/websocket"
)

type Handlers struct {
	Public  *handler.PublicHandler
	Auth    *handler.AuthHandler
	Admin   *handler.AdminHandler
	Course  *handler.CourseHandler
	Diploma *handler.DiplomaHandler
	User    *handler.UserHandler
	Email   *handler.EmailHandler
	Exam    *handler.ExamHandler
	Loading *handler.LoadingHandler
}

type Streams struct {
	Hub      *websocket.Hub
	Snapshot websocket.Snapshot
	Metrics  http.Handler
}

func New(cfg *config.Config, sessions *session.Manager, h Handlers, streams Streams) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if streams.Metrics != nil {
		r.Handle("/metrics", streams.Metrics)
	}
	r.Handle("/static/*", handler.Static())

	// Upgraded connections outlive the request timeout.
	r.Get("/ws/loading", streams.Hub.Handler(streams.Snapshot, cfg.CORSOrigins))

	r.Group(func(api chi.Router) {
		api.Use(middleware.CORS(cfg.CORSOrigins))
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Get("/api/loading", h.Loading.State)
		api.Options("/api/loading", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	r.Group(func(web chi.Router) {
		web.Use(middleware.Timeout(cfg.RequestTimeout))
		web.Use(sessions.Middleware)

		web.Get("/", h.Public.Home)
		web.Get("/cursos", h.Public.Courses)
		web.Get("/cursos/{id}", h.Public.Course)
		web.Get("/cursos/{id}/contenido", h.Public.Content)
		web.Get("/cursos/{id}/contacto", h.Public.CourseContactForm)
		web.Post("/cursos/{id}/contacto", h.Public.CourseContact)
		web.Get("/contacto", h.Public.ContactForm)
		web.Post("/contacto", h.Public.Contact)
		web.Get("/validar", h.Public.ValidateForm)
		web.Post("/validar", h.Public.Validate)

		web.Get("/login", h.Auth.LoginForm)
		web.Post("/login", h.Auth.Login)
		web.Get("/registro", h.Auth.RegisterForm)
		web.Post("/registro", h.Auth.Register)
		web.Post("/logout", h.Auth.Logout)

		web.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireAuth)

			admin.Route("/mis-examenes", func(exams chi.Router) {
				exams.Get("/", h.Exam.History)
				exams.Get("/nuevo", h.Exam.Pick)
				exams.Get("/curso/{id}", h.Exam.Take)
				exams.Post("/curso/{id}", h.Exam.Grade)
				exams.Get("/intento/{attempt}", h.Exam.Result)
				exams.Post("/intento/{attempt}/guardar", h.Exam.Save)
			})

			admin.Group(func(staff chi.Router) {
				staff.Use(middleware.RequireAdmin)

				staff.Get("/", h.Admin.Dashboard)
				crud(staff, "/cursos", h.Course)
				crud(staff, "/diplomas", h.Diploma)
				crud(staff, "/usuarios", h.User)

				staff.Get("/correos", h.Email.List)
				staff.Get("/correos/{id}", h.Email.Detail)
				staff.Post("/correos/{id}/eliminar", h.Email.Delete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	return r
}

type resource interface {
	List(w http.ResponseWriter, r *http.Request)
	New(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Edit(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	ConfirmDelete(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

func crud(r chi.Router, base string, h resource) {
	r.Route(base, func(res chi.Router) {
		res.Get("/", h.List)
		res.Post("/", h.Create)
		res.Get("/nuevo", h.New)
		res.Get("/{id}/editar", h.Edit)
		res.Post("/{id}", h.Update)
		res.Get("/{id}/eliminar", h.ConfirmDelete)
		res.Post("/{id}/eliminar", h.Delete)
	})
}
