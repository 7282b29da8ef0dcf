package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para las estadísticas de feedback.
type AnalyticsRepo struct {
	*CompanyRepo
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{CompanyRepo: NewCompanyRepository(pool), pool: pool}
}

// CountByType mensajes de la empresa agrupados por tipo.
func (r *AnalyticsRepo) CountByType(ctx context.Context, companyCode string) (map[entity.MessageType]int, error) {
	counts, err := r.groupCount(ctx, "type", companyCode)
	if err != nil {
		return nil, fmt.Errorf("analytics.CountByType: %w", err)
	}
	out := make(map[entity.MessageType]int, len(counts))
	for k, v := range counts {
		out[entity.MessageType(k)] = v
	}
	return out, nil
}

// CountByStatus mensajes de la empresa agrupados por estado.
func (r *AnalyticsRepo) CountByStatus(ctx context.Context, companyCode string) (map[entity.MessageStatus]int, error) {
	counts, err := r.groupCount(ctx, "status", companyCode)
	if err != nil {
		return nil, fmt.Errorf("analytics.CountByStatus: %w", err)
	}
	out := make(map[entity.MessageStatus]int, len(counts))
	for k, v := range counts {
		out[entity.MessageStatus(k)] = v
	}
	return out, nil
}

// groupCount column es una constante interna (type | status), nunca entrada del usuario.
func (r *AnalyticsRepo) groupCount(ctx context.Context, column, companyCode string) (map[string]int, error) {
	query := `SELECT ` + column + `, COUNT(*) FROM messages WHERE company_code = $1 GROUP BY ` + column
	rows, err := r.pool.Query(ctx, query, companyCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}

// CountCreatedBetween mensajes creados en [from, to).
func (r *AnalyticsRepo) CountCreatedBetween(ctx context.Context, companyCode string, from, to time.Time) (int, error) {
	const query = `
		SELECT COUNT(*) FROM messages
		WHERE company_code = $1 AND created_at >= $2 AND created_at < $3`
	var n int
	if err := r.pool.QueryRow(ctx, query, companyCode, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountCreatedBetween: %w", err)
	}
	return n, nil
}

// CountMessages totales de plataforma.
func (r *AnalyticsRepo) CountMessages(ctx context.Context) (repository.MessageTotals, error) {
	const query = `SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'resolved') FROM messages`
	var out repository.MessageTotals
	if err := r.pool.QueryRow(ctx, query).Scan(&out.Total, &out.Resolved); err != nil {
		return out, fmt.Errorf("analytics.CountMessages: %w", err)
	}
	return out, nil
}
