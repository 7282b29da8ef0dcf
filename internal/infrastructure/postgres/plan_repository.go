package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
)

var (
	_ repository.PlanRepository     = (*PlanRepo)(nil)
	_ repository.SettingsRepository = (*SettingsRepo)(nil)
)

// PlanRepo planes personalizados. Los textos localizados y capacidades se guardan en JSONB.
type PlanRepo struct {
	pool *pgxpool.Pool
}

func NewPlanRepository(pool *pgxpool.Pool) *PlanRepo {
	return &PlanRepo{pool: pool}
}

func (r *PlanRepo) Create(ctx context.Context, p *entity.Plan) error {
	const query = `
		INSERT INTO custom_plans (id, name, price, messages_limit, storage_limit, features, capabilities, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Price, p.MessagesLimit, p.StorageLimit, p.Features, p.Capabilities, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

const planColumns = `id, name, price, messages_limit, storage_limit, features, capabilities, created_at`

func (r *PlanRepo) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	p, err := scanPlan(r.pool.QueryRow(ctx, `SELECT `+planColumns+` FROM custom_plans WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// List en orden de creación.
func (r *PlanRepo) List(ctx context.Context) ([]*entity.Plan, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+planColumns+` FROM custom_plans ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Plan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanPlan(row rowScanner) (*entity.Plan, error) {
	var p entity.Plan
	if err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.MessagesLimit, &p.StorageLimit, &p.Features, &p.Capabilities, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.Custom = true
	return &p, nil
}

// SettingsRepo fila única (id = 1) con los ajustes del plan gratuito.
type SettingsRepo struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

func (r *SettingsRepo) GetFreePlanSettings(ctx context.Context) (*entity.FreePlanSettings, error) {
	const query = `
		SELECT messages_limit, storage_limit, free_period_days, updated_at
		FROM free_plan_settings WHERE id = 1`
	var s entity.FreePlanSettings
	err := r.pool.QueryRow(ctx, query).Scan(&s.MessagesLimit, &s.StorageLimit, &s.FreePeriodDays, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get free plan settings: %w", err)
	}
	return &s, nil
}

func (r *SettingsRepo) SaveFreePlanSettings(ctx context.Context, s entity.FreePlanSettings) error {
	const query = `
		INSERT INTO free_plan_settings (id, messages_limit, storage_limit, free_period_days, updated_at)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			messages_limit = EXCLUDED.messages_limit,
			storage_limit = EXCLUDED.storage_limit,
			free_period_days = EXCLUDED.free_period_days,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.pool.Exec(ctx, query, s.MessagesLimit, s.StorageLimit, s.FreePeriodDays, s.UpdatedAt); err != nil {
		return fmt.Errorf("save free plan settings: %w", err)
	}
	return nil
}
