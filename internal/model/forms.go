package model

// Request bodies sent to the external API. Each one is validated by
// internal/validation before it leaves the process.

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	RememberMe bool   `json:"-"`
}

type RegisterRequest struct {
	Name            string `json:"nombre" validate:"notblank,min=3"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmar_password" validate:"required,eqfield=Password"`
}

type ContactCourseRequest struct {
	Name     string `json:"nombre" validate:"notblank,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"telefono" validate:"required,phone"`
	CourseID int    `json:"curso_id" validate:"required,gt=0"`
	Privacy  bool   `json:"-" validate:"eq=true"`
}

type ContactGeneralRequest struct {
	Name    string `json:"nombre" validate:"notblank,min=3"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"telefono" validate:"required,phone"`
	Message string `json:"mensaje" validate:"notblank"`
	Privacy bool   `json:"-" validate:"eq=true"`
}

type CourseCreate struct {
	Name        string     `json:"nombre" validate:"notblank"`
	Description string     `json:"descripcion"`
	Content     string     `json:"contenido_markdown"`
	VideoURL1   string     `json:"video_url_1" validate:"omitempty,url"`
	VideoURL2   string     `json:"video_url_2" validate:"omitempty,url"`
	Summary     string     `json:"resumen"`
	Duration    string     `json:"duracion"`
	Instructor  string     `json:"instructor" validate:"notblank"`
	Price       float64    `json:"precio" validate:"gte=0"`
	Image       string     `json:"imagen"`
	Active      int        `json:"activo" validate:"oneof=0 1"`
	Questions   []Question `json:"preguntas,omitempty" validate:"dive"`
}

type CourseUpdate struct {
	ID int `json:"id" validate:"required,gt=0"`
	CourseCreate
}

type DiplomaCreate struct {
	CourseID     int          `json:"curso_id" validate:"required,gt=0"`
	StudentName  string       `json:"nombre_estudiante" validate:"notblank"`
	DocumentType DocumentType `json:"tipo_documento" validate:"required,oneof=CC TI CE PA NIT"`
	Document     string       `json:"documento" validate:"notblank"`
	Email        string       `json:"email,omitempty" validate:"omitempty,email"`
	IssuedAt     string       `json:"fecha_emision,omitempty"`
	Instructor   string       `json:"instructor,omitempty"`
	Active       int          `json:"activo" validate:"oneof=0 1"`
}

type DiplomaUpdate struct {
	ID int `json:"id" validate:"required,gt=0"`
	DiplomaCreate
}

type UserCreate struct {
	Name     string `json:"nombre" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"rol" validate:"required,oneof=admin usuario"`
}

type UserUpdate struct {
	ID       int    `json:"id" validate:"required,gt=0"`
	Name     string `json:"nombre" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     Role   `json:"rol" validate:"required,oneof=admin usuario"`
	Active   int    `json:"activo" validate:"oneof=0 1"`
}

type ValidateByDocumentRequest struct {
	DocumentType DocumentType `json:"tipo_documento" validate:"required,oneof=CC TI CE PA NIT"`
	Document     string       `json:"documento" validate:"required,min=5"`
}

type ValidateByCodeRequest struct {
	Code string `json:"codigo" validate:"notblank"`
}

type ExamSubmission struct {
	CourseID int     `json:"curso_id" validate:"required,gt=0"`
	Score    float64 `json:"nota" validate:"gte=0,lte=100"`
}
