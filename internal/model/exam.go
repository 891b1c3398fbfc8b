package model

const (
	ExamPassed = "Aprobado"
	ExamFailed = "Reprobado"
)

type Exam struct {
	ID         int     `json:"id"`
	UserID     int     `json:"usuario_id,omitempty"`
	UserName   string  `json:"usuario_nombre,omitempty"`
	UserEmail  string  `json:"usuario_email,omitempty"`
	CourseID   int     `json:"curso_id"`
	CourseName string  `json:"curso_nombre,omitempty"`
	Score      float64 `json:"nota"`
	Status     string  `json:"estado,omitempty"`
	TakenAt    string  `json:"fecha_presentacion,omitempty"`
}

type ExamResult struct {
	Correct int
	Total   int
	Score   float64
	Passed  bool
}
