package entity

import "time"

// Roles válidos. RoleAnonymous nunca se persiste: identifica al remitente sin sesión.
const (
	RoleAnonymous = "anonymous"
	RoleCompany   = "company"
	RoleAdmin     = "admin"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa una cuenta de acceso al panel (personal de empresa o administrador).
type User struct {
	ID           string
	CompanyID    *int64 // nil para administradores de plataforma
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // company, admin
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal es el actor autenticado que llega a cada operación del núcleo.
// Es inmutable: se construye a partir del token emitido por el servidor.
type Principal struct {
	Role      string
	UserID    string
	CompanyID int64 // solo con Role = company
}

// Anonymous devuelve el principal sin sesión.
func Anonymous() Principal {
	return Principal{Role: RoleAnonymous}
}

func (p Principal) IsAnonymous() bool {
	return p.Role == "" || p.Role == RoleAnonymous
}
