package repository

import (
	"context"
	"time"

	"github.com/jhoicas/feedback-api/internal/domain/entity"
)

// MessageTotals agregados globales de mensajes.
type MessageTotals struct {
	Total    int
	Resolved int
}

// AnalyticsRepository define las consultas de lectura para estadísticas de feedback.
// Las implementaciones son read-only y se recalculan en cada llamada (sin caché).
type AnalyticsRepository interface {
	CompanyStatsReader

	// CountByType cuenta mensajes de una empresa por tipo.
	CountByType(ctx context.Context, companyCode string) (map[entity.MessageType]int, error)

	// CountByStatus cuenta mensajes de una empresa por estado.
	CountByStatus(ctx context.Context, companyCode string) (map[entity.MessageStatus]int, error)

	// CountCreatedBetween cuenta mensajes creados en [from, to).
	CountCreatedBetween(ctx context.Context, companyCode string, from, to time.Time) (int, error)

	CountMessages(ctx context.Context) (MessageTotals, error)
}
