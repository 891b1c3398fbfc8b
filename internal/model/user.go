package model

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "usuario"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Identity is the authenticated principal held by the session store.
type Identity struct {
	ID    int    `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Role  Role   `json:"rol"`
}

// User is a user row as listed by the admin back-office.
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"nombre"`
	Email     string `json:"email"`
	Role      Role   `json:"rol"`
	Active    int    `json:"activo,omitempty"`
	CreatedAt string `json:"fecha_creacion,omitempty"`
}

type LoginResponse struct {
	Message string    `json:"mensaje"`
	Token   string    `json:"token"`
	User    *Identity `json:"usuario"`
}

// MessageResponse is the body most mutating endpoints answer with.
type MessageResponse struct {
	Message string `json:"mensaje"`
	ID      int    `json:"id,omitempty"`
}
