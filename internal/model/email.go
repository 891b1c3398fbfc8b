package model

const (
	EmailSent   = "enviado"
	EmailFailed = "fallido"
)

// SentEmail is an entry of the outgoing mail log kept by the API.
type SentEmail struct {
	ID             int     `json:"id"`
	RecipientEmail string  `json:"destinatario_email"`
	RecipientName  string  `json:"destinatario_nombre"`
	RecipientPhone *string `json:"destinatario_telefono"`
	Subject        string  `json:"asunto"`
	Body           string  `json:"cuerpo"`
	CourseID       *int    `json:"curso_id"`
	CourseName     *string `json:"curso_nombre"`
	SentAt         string  `json:"fecha_envio"`
	Status         string  `json:"estado"`
	ErrorMessage   *string `json:"error_mensaje"`
}

type ContactResponse struct {
	Message string `json:"mensaje"`
	Note    string `json:"nota,omitempty"`
}
