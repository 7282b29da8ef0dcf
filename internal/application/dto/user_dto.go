package dto

import "time"

// RegisterRequest alta de cuenta: crea la empresa y su usuario de acceso.
type RegisterRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=1,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Name        string `json:"name" validate:"omitempty,max=200"`
	Employees   int    `json:"employees" validate:"min=0"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID *int64    `json:"company_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RegisterResponse salida del alta: token listo para usar y la empresa creada.
type RegisterResponse struct {
	Token   string          `json:"token"`
	User    UserResponse    `json:"user"`
	Company CompanyResponse `json:"company"`
}
