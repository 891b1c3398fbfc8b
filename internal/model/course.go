package model

// Question is a multiple-choice exam question attached to a course.
// CorrectAnswer indexes into Options.
type Question struct {
	Text          string   `json:"pregunta" validate:"notblank"`
	Options       []string `json:"opciones" validate:"min=2,dive,notblank"`
	CorrectAnswer int      `json:"respuesta_correcta" validate:"gte=0"`
}

type Course struct {
	ID          int        `json:"id"`
	Name        string     `json:"nombre"`
	Description string     `json:"descripcion"`
	Content     string     `json:"contenido_markdown"`
	VideoURL1   string     `json:"video_url_1"`
	VideoURL2   string     `json:"video_url_2"`
	Summary     string     `json:"resumen"`
	Duration    string     `json:"duracion"`
	Instructor  string     `json:"instructor"`
	Price       float64    `json:"precio"`
	Image       string     `json:"imagen"`
	Active      int        `json:"activo"`
	CreatedAt   string     `json:"fecha_creacion"`
	Questions   []Question `json:"preguntas,omitempty"`
}

func (c Course) IsActive() bool {
	return c.Active == 1
}

func (c Course) HasExam() bool {
	return len(c.Questions) > 0
}

type UploadResponse struct {
	URL     string `json:"url"`
	Message string `json:"mensaje"`
}
