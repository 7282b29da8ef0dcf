package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCompanyRequest entrada para registrar una empresa (acción de administrador).
type CreateCompanyRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	AdminContact string `json:"admin_contact" validate:"required,min=1,max=200"`
	Employees    int    `json:"employees" validate:"min=0"`
}

// UpdateCompanyRequest entrada para actualizar el perfil (campos opcionales).
type UpdateCompanyRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Employees *int    `json:"employees" validate:"omitempty,min=0"`
}

// TransitionStatusRequest cambio de estado del ciclo de vida.
type TransitionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=trial active blocked"`
}

// ChangePlanRequest cambio de plan.
type ChangePlanRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
}

// CompanyResponse salida de una empresa. EffectiveStatus refleja la expiración perezosa del trial.
type CompanyResponse struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Code               string          `json:"code"`
	AdminContact       string          `json:"admin_contact"`
	Status             string          `json:"status"`
	EffectiveStatus    string          `json:"effective_status"`
	PlanID             string          `json:"plan_id"`
	RegisteredAt       time.Time       `json:"registered_at"`
	TrialEndsAt        *time.Time      `json:"trial_ends_at,omitempty"`
	Employees          int             `json:"employees"`
	MessagesThisPeriod int64           `json:"messages_this_period"`
	StorageUsed        decimal.Decimal `json:"storage_used"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// UsageResponse consumo actual frente a los límites del plan.
type UsageResponse struct {
	MessagesThisPeriod int64           `json:"messages_this_period"`
	MessagesLimit      int64           `json:"messages_limit"`
	MessagesUnlimited  bool            `json:"messages_unlimited"`
	MessagesPercent    decimal.Decimal `json:"messages_percent"`
	StorageUsed        decimal.Decimal `json:"storage_used"`
	StorageLimit       decimal.Decimal `json:"storage_limit"`
	StorageUnlimited   bool            `json:"storage_unlimited"`
	StoragePercent     decimal.Decimal `json:"storage_percent"`
	TrialActive        bool            `json:"trial_active"`
}
