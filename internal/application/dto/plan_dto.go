package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePlanRequest definición de un plan personalizado.
type CreatePlanRequest struct {
	Name          map[string]string   `json:"name" validate:"required,min=1"`
	Price         int64               `json:"price"`
	MessagesLimit int64               `json:"messages_limit"`
	StorageLimit  decimal.Decimal     `json:"storage_limit"`
	Features      []map[string]string `json:"features"`
	Capabilities  []string            `json:"capabilities" validate:"dive,oneof=growth_metrics reports_pdf"`
}

// PlanResponse salida de un plan. Los textos localizados se devuelven sin interpretar.
type PlanResponse struct {
	ID             string              `json:"id"`
	Name           map[string]string   `json:"name"`
	Price          int64               `json:"price"`
	MessagesLimit  int64               `json:"messages_limit"`
	StorageLimit   decimal.Decimal     `json:"storage_limit"`
	Features       []map[string]string `json:"features"`
	Capabilities   []string            `json:"capabilities"`
	Custom         bool                `json:"custom"`
	FreePeriodDays *int                `json:"free_period_days,omitempty"`
}

// FreePlanSettingsDTO configuración del plan gratuito.
type FreePlanSettingsDTO struct {
	MessagesLimit  int64           `json:"messages_limit"`
	StorageLimit   decimal.Decimal `json:"storage_limit"`
	FreePeriodDays int             `json:"free_period_days"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

// UpdateFreePlanSettingsRequest actualización parcial: solo se aplican los campos presentes.
type UpdateFreePlanSettingsRequest struct {
	MessagesLimit  *int64           `json:"messages_limit"`
	StorageLimit   *decimal.Decimal `json:"storage_limit"`
	FreePeriodDays *int             `json:"free_period_days"`
}
