package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository  = (*CompanyRepo)(nil)
	_ repository.CompanyStatsReader = (*CompanyRepo)(nil)
)

const companyColumns = `
	id, name, code, admin_contact, status, plan_id, registered_at, trial_ends_at,
	employees, messages_this_period, storage_used, created_at, updated_at`

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{pool: pool, tx: NewTxRunner(pool)}
}

// Create persiste una nueva empresa y rellena su ID.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	const query = `
		INSERT INTO companies (name, code, admin_contact, status, plan_id, registered_at, trial_ends_at,
			employees, messages_this_period, storage_used, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		c.Name, c.Code, c.AdminContact, string(c.Status), c.PlanID, c.RegisteredAt, c.TrialEndsAt,
		c.Employees, c.MessagesThisPeriod, c.StorageUsed, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id int64) (*entity.Company, error) {
	c, err := getCompany(ctx, r.pool, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetByCode obtiene una empresa por su código público.
func (r *CompanyRepo) GetByCode(ctx context.Context, code string) (*entity.Company, error) {
	c, err := getCompany(ctx, r.pool, `SELECT `+companyColumns+` FROM companies WHERE code = $1`, code)
	if err != nil {
		return nil, fmt.Errorf("get company by code: %w", err)
	}
	return c, nil
}

func (r *CompanyRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies WHERE code = $1)`, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists company code: %w", err)
	}
	return exists, nil
}

// List devuelve empresas con paginación, más recientes primero.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limitArg(limit), offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// UpdateLocked bloquea la fila (SELECT ... FOR UPDATE), aplica fn y guarda en la misma transacción.
func (r *CompanyRepo) UpdateLocked(ctx context.Context, id int64, fn func(c *entity.Company) error) (*entity.Company, error) {
	var out *entity.Company
	err := r.tx.Run(ctx, func(q Querier) error {
		c, err := getCompany(ctx, q, `SELECT `+companyColumns+` FROM companies WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return fmt.Errorf("lock company: %w", err)
		}
		if c == nil {
			return nil
		}
		if err := fn(c); err != nil {
			return err
		}
		const update = `
			UPDATE companies SET name = $2, admin_contact = $3, status = $4, plan_id = $5, trial_ends_at = $6,
				employees = $7, messages_this_period = $8, storage_used = $9, updated_at = $10
			WHERE id = $1`
		if _, err := q.Exec(ctx, update,
			id, c.Name, c.AdminContact, string(c.Status), c.PlanID, c.TrialEndsAt,
			c.Employees, c.MessagesThisPeriod, c.StorageUsed, c.UpdatedAt,
		); err != nil {
			return fmt.Errorf("update company: %w", err)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CountCompanies total y activas; un trial vencido cuenta como activa.
func (r *CompanyRepo) CountCompanies(ctx context.Context, now time.Time) (repository.CompanyCounts, error) {
	const query = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (
				WHERE status = 'active'
				   OR (status = 'trial' AND trial_ends_at IS NOT NULL AND trial_ends_at < $1)
			)
		FROM companies`
	var out repository.CompanyCounts
	if err := r.pool.QueryRow(ctx, query, now).Scan(&out.Total, &out.Active); err != nil {
		return out, fmt.Errorf("count companies: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*entity.Company, error) {
	var c entity.Company
	var status string
	err := row.Scan(
		&c.ID, &c.Name, &c.Code, &c.AdminContact, &status, &c.PlanID, &c.RegisteredAt, &c.TrialEndsAt,
		&c.Employees, &c.MessagesThisPeriod, &c.StorageUsed, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = entity.CompanyStatus(status)
	return &c, nil
}

func getCompany(ctx context.Context, q Querier, query string, args ...any) (*entity.Company, error) {
	c, err := scanCompany(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}
