// Package quota aplica los límites de uso del plan de cada empresa.
//
// La comprobación y el incremento son un único paso indivisible por empresa
// (CompanyRepository.UpdateLocked); no existe forma de comprobar sin reservar.
// Los contadores no se reinician al cambiar de periodo: no hay rollover.
package quota

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
	"github.com/jhoicas/feedback-api/internal/monitoring"
	"github.com/jhoicas/feedback-api/pkg/logger"
)

// ResourceKind recurso limitado por el plan.
type ResourceKind string

const (
	ResourceMessage     ResourceKind = "message"
	ResourceStorageUnit ResourceKind = "storage_unit"
)

// PlanLookup resuelve el plan vigente de una empresa.
type PlanLookup interface {
	Plan(ctx context.Context, id string) (*entity.Plan, error)
}

// Enforcer es el QuotaEnforcer.
type Enforcer struct {
	companies   repository.CompanyRepository
	plans       PlanLookup
	storageUnit decimal.Decimal
	log         *logger.Logger
	metrics     *monitoring.Metrics
	now         func() time.Time
}

// NewEnforcer construye el enforcer. storageUnit es el tamaño en GB de una reserva de almacenamiento.
func NewEnforcer(
	companies repository.CompanyRepository,
	plans PlanLookup,
	storageUnit decimal.Decimal,
	log *logger.Logger,
	metrics *monitoring.Metrics,
) *Enforcer {
	if log == nil {
		log = logger.Nop()
	}
	return &Enforcer{
		companies:   companies,
		plans:       plans,
		storageUnit: storageUnit,
		log:         log.Component("quota"),
		metrics:     metrics,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (e *Enforcer) WithClock(now func() time.Time) *Enforcer {
	e.now = now
	return e
}

// CheckAndReserve reserva una unidad del recurso o falla con QuotaExceeded.
// Durante el Trial efectivo siempre permite (el contador avanza igualmente).
// Un Trial vencido se persiste como Active en esta misma escritura.
func (e *Enforcer) CheckAndReserve(ctx context.Context, companyID int64, kind ResourceKind) error {
	if kind != ResourceMessage && kind != ResourceStorageUnit {
		return domain.NewValidationError("resource_kind")
	}
	now := e.now()
	company, err := e.companies.UpdateLocked(ctx, companyID, func(c *entity.Company) error {
		c.CatchUpTrial(now)
		if c.Status != entity.CompanyStatusTrial {
			plan, err := e.plans.Plan(ctx, c.PlanID)
			if err != nil {
				return err
			}
			if err := checkLimit(c, plan, kind); err != nil {
				return err
			}
		}
		e.increment(c, kind)
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		if de, ok := domain.AsError(err); ok && de.Kind == domain.KindQuotaExceeded {
			e.metrics.QuotaRejected(string(kind))
			e.log.Warn().
				Int64("company_id", companyID).
				Str("resource", string(kind)).
				Str("limit", de.Limit).
				Msg("cuota excedida")
		}
		return err
	}
	if company == nil {
		return domain.NewNotFoundError("company")
	}
	return nil
}

// Release devuelve una unidad reservada cuando la operación protegida falló después.
// Nunca deja el contador por debajo de cero.
func (e *Enforcer) Release(ctx context.Context, companyID int64, kind ResourceKind) error {
	company, err := e.companies.UpdateLocked(ctx, companyID, func(c *entity.Company) error {
		switch kind {
		case ResourceMessage:
			if c.MessagesThisPeriod > 0 {
				c.MessagesThisPeriod--
			}
		case ResourceStorageUnit:
			c.StorageUsed = decimal.Max(decimal.Zero, c.StorageUsed.Sub(e.storageUnit))
		}
		return nil
	})
	if err != nil {
		return err
	}
	if company == nil {
		return domain.NewNotFoundError("company")
	}
	return nil
}

// CurrentUsage consumo frente a los límites del plan. Solo lectura.
func (e *Enforcer) CurrentUsage(ctx context.Context, companyID int64) (*dto.UsageResponse, error) {
	company, err := e.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NewNotFoundError("company")
	}
	plan, err := e.plans.Plan(ctx, company.PlanID)
	if err != nil {
		return nil, err
	}

	hundred := decimal.NewFromInt(100)
	out := &dto.UsageResponse{
		MessagesThisPeriod: company.MessagesThisPeriod,
		MessagesLimit:      plan.MessagesLimit,
		MessagesUnlimited:  plan.MessagesLimit == entity.UnlimitedQuota,
		MessagesPercent:    decimal.Zero,
		StorageUsed:        company.StorageUsed,
		StorageLimit:       plan.StorageLimit,
		StorageUnlimited:   plan.StorageLimit.IsZero(),
		StoragePercent:     decimal.Zero,
		TrialActive:        company.EffectiveStatus(e.now()) == entity.CompanyStatusTrial,
	}
	if !out.MessagesUnlimited {
		out.MessagesPercent = decimal.NewFromInt(company.MessagesThisPeriod).
			Mul(hundred).
			Div(decimal.NewFromInt(plan.MessagesLimit)).
			Round(1)
	}
	if !out.StorageUnlimited {
		out.StoragePercent = company.StorageUsed.Mul(hundred).Div(plan.StorageLimit).Round(1)
	}
	return out, nil
}

func checkLimit(c *entity.Company, plan *entity.Plan, kind ResourceKind) error {
	switch kind {
	case ResourceMessage:
		if plan.MessagesLimit != entity.UnlimitedQuota && c.MessagesThisPeriod >= plan.MessagesLimit {
			return domain.NewQuotaExceededError(
				string(kind),
				strconv.FormatInt(plan.MessagesLimit, 10),
				strconv.FormatInt(c.MessagesThisPeriod, 10),
			)
		}
	case ResourceStorageUnit:
		if !plan.StorageLimit.IsZero() && c.StorageUsed.GreaterThanOrEqual(plan.StorageLimit) {
			return domain.NewQuotaExceededError(string(kind), plan.StorageLimit.String(), c.StorageUsed.String())
		}
	}
	return nil
}

func (e *Enforcer) increment(c *entity.Company, kind ResourceKind) {
	switch kind {
	case ResourceMessage:
		c.MessagesThisPeriod++
	case ResourceStorageUnit:
		c.StorageUsed = c.StorageUsed.Add(e.storageUnit)
	}
}
