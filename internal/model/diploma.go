package model

type DocumentType string

const (
	DocumentCC  DocumentType = "CC"
	DocumentTI  DocumentType = "TI"
	DocumentCE  DocumentType = "CE"
	DocumentPA  DocumentType = "PA"
	DocumentNIT DocumentType = "NIT"
)

var DocumentTypes = []DocumentType{DocumentCC, DocumentTI, DocumentCE, DocumentPA, DocumentNIT}

type Diploma struct {
	ID               int          `json:"id"`
	CourseID         int          `json:"curso_id"`
	CourseName       string       `json:"curso_nombre,omitempty"`
	CourseDuration   string       `json:"curso_duracion,omitempty"`
	StudentName      string       `json:"nombre_estudiante"`
	DocumentType     DocumentType `json:"tipo_documento"`
	Document         string       `json:"documento"`
	Email            string       `json:"email,omitempty"`
	IssuedAt         string       `json:"fecha_emision"`
	VerificationCode string       `json:"codigo_verificacion"`
	Instructor       string       `json:"instructor,omitempty"`
	Active           int          `json:"activo"`
	CreatedAt        string       `json:"fecha_creacion"`
}

func (d Diploma) IsActive() bool {
	return d.Active == 1
}

// ValidationResponse answers a public diploma lookup. Document lookups fill
// Diplomas, code lookups fill Diploma.
type ValidationResponse struct {
	Valid    bool      `json:"valido"`
	Diplomas []Diploma `json:"diplomas,omitempty"`
	Diploma  *Diploma  `json:"diploma,omitempty"`
	Message  string    `json:"mensaje,omitempty"`
}

// All flattens both response shapes.
func (v ValidationResponse) All() []Diploma {
	out := make([]Diploma, 0, len(v.Diplomas)+1)
	out = append(out, v.Diplomas...)
	if v.Diploma != nil {
		out = append(out, *v.Diploma)
	}
	return out
}
