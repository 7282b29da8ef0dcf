package repository

import (
	"context"

	"github.com/jhoicas/feedback-api/internal/domain/entity"
)

// PlanRepository guarda solo los planes personalizados; los incorporados viven en código.
type PlanRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	GetByID(ctx context.Context, id string) (*entity.Plan, error)
	// List en orden de creación.
	List(ctx context.Context) ([]*entity.Plan, error)
}

// SettingsRepository persiste el singleton FreePlanSettings.
type SettingsRepository interface {
	// GetFreePlanSettings devuelve (nil, nil) si nunca se guardó.
	GetFreePlanSettings(ctx context.Context) (*entity.FreePlanSettings, error)
	SaveFreePlanSettings(ctx context.Context, s entity.FreePlanSettings) error
}
