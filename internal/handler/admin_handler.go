package handler

import (
	"net/http"
)

type dashboardTile struct {
	Title       string
	Description string
	Href        string
}

var dashboardTiles = []dashboardTile{
	{Title: "Courses", Description: "Create, edit and delete catalog courses", Href: "/admin/cursos"},
	{Title: "Diplomas", Description: "Manage diplomas issued to students", Href: "/admin/diplomas"},
	{Title: "People", Description: "Manage users and roles", Href: "/admin/usuarios"},
	{Title: "Exams", Description: "Review every exam result", Href: "/admin/mis-examenes"},
	{Title: "Sent emails", Description: "Browse the outgoing mail log", Href: "/admin/correos"},
}

// deleteData feeds the confirm_delete template.
type deleteData struct {
	Heading string
	Label   string
	Action  string
	Back    string
}

type AdminHandler struct {
	views *Renderer
}

func NewAdminHandler(views *Renderer) *AdminHandler {
	return &AdminHandler{views: views}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, "admin_dashboard", Page{Title: "Dashboard", Data: dashboardTiles})
}
