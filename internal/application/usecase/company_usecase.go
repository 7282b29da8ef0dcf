package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
	"github.com/jhoicas/feedback-api/internal/monitoring"
	"github.com/jhoicas/feedback-api/pkg/logger"
)

// maxCodeAttempts reintentos de generación de código ante colisión.
const maxCodeAttempts = 5

// PlanCatalog lo que el ciclo de vida necesita del catálogo de planes.
type PlanCatalog interface {
	FreePlanSettings(ctx context.Context) (entity.FreePlanSettings, error)
	Plan(ctx context.Context, id string) (*entity.Plan, error)
}

// CompanyCodeGenerator genera códigos públicos de empresa.
type CompanyCodeGenerator interface {
	CompanyCode() string
}

// CompanyUseCase gestiona el ciclo de vida del tenant: alta, código único, Trial → Active → Blocked y plan.
type CompanyUseCase struct {
	repo    repository.CompanyRepository
	plans   PlanCatalog
	codes   CompanyCodeGenerator
	log     *logger.Logger
	metrics *monitoring.Metrics
	now     func() time.Time
}

// NewCompanyUseCase construye el caso de uso. log y metrics pueden ser nil.
func NewCompanyUseCase(
	repo repository.CompanyRepository,
	plans PlanCatalog,
	codes CompanyCodeGenerator,
	log *logger.Logger,
	metrics *monitoring.Metrics,
) *CompanyUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CompanyUseCase{
		repo:    repo,
		plans:   plans,
		codes:   codes,
		log:     log.Component("company"),
		metrics: metrics,
		now:     time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *CompanyUseCase) WithClock(now func() time.Time) *CompanyUseCase {
	uc.now = now
	return uc
}

// Register da de alta una empresa en Trial con el plan gratuito. La fecha de fin de prueba
// se fija con el periodo gratuito vigente en este momento y no se recalcula nunca.
func (uc *CompanyUseCase) Register(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	name := strings.TrimSpace(in.Name)
	contact := strings.TrimSpace(in.AdminContact)
	if name == "" {
		return nil, domain.NewValidationError("name")
	}
	if contact == "" {
		return nil, domain.NewValidationError("admin_contact")
	}
	if in.Employees < 0 {
		return nil, domain.NewValidationError("employees")
	}

	settings, err := uc.plans.FreePlanSettings(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	trialEnd := now.AddDate(0, 0, settings.FreePeriodDays)

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := uc.codes.CompanyCode()
		exists, err := uc.repo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		company := &entity.Company{
			Name:         name,
			Code:         code,
			AdminContact: contact,
			Status:       entity.CompanyStatusTrial,
			PlanID:       entity.PlanFree,
			RegisteredAt: now,
			TrialEndsAt:  &trialEnd,
			Employees:    in.Employees,
			StorageUsed:  decimal.Zero,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		err = uc.repo.Create(ctx, company)
		if errors.Is(err, domain.ErrDuplicate) {
			// otro alta ganó la carrera con el mismo código
			continue
		}
		if err != nil {
			return nil, err
		}
		uc.metrics.CompanyRegistered()
		uc.log.Info().
			Int64("company_id", company.ID).
			Str("code", company.Code).
			Time("trial_ends_at", trialEnd).
			Msg("empresa registrada")
		return CompanyToResponse(company, now), nil
	}
	uc.log.Error().Int("attempts", maxCodeAttempts).Msg("no se pudo generar un código de empresa único")
	return nil, domain.NewConflictError("company", "code")
}

// GetByID obtiene una empresa por ID o NotFound.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id int64) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NewNotFoundError("company")
	}
	return CompanyToResponse(company, uc.now()), nil
}

// GetByCode obtiene una empresa por su código público o NotFound.
func (uc *CompanyUseCase) GetByCode(ctx context.Context, code string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NewNotFoundError("company")
	}
	return CompanyToResponse(company, uc.now()), nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, limit, offset int) (*dto.CompanyListResponse, error) {
	list, total, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *CompanyToResponse(c, now))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// TransitionStatus aplica una transición explícita sobre el estado almacenado.
// Salir de Trial elimina la fecha de fin de prueba; los contadores no se tocan.
func (uc *CompanyUseCase) TransitionStatus(ctx context.Context, id int64, status string) (*dto.CompanyResponse, error) {
	to := entity.CompanyStatus(strings.ToLower(strings.TrimSpace(status)))
	if !to.Valid() {
		return nil, domain.NewValidationError("status")
	}
	now := uc.now()
	var from entity.CompanyStatus
	company, err := uc.repo.UpdateLocked(ctx, id, func(c *entity.Company) error {
		c.CatchUpTrial(now)
		if !entity.CanTransition(c.Status, to) {
			return domain.NewConflictError("company", "status")
		}
		from = c.Status
		if from == entity.CompanyStatusTrial {
			c.TrialEndsAt = nil
		}
		c.Status = to
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NewNotFoundError("company")
	}
	uc.metrics.CompanyTransition(string(from), string(to))
	uc.log.Info().
		Int64("company_id", id).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("transición de estado")
	return CompanyToResponse(company, now), nil
}

// ChangePlan asigna un plan del catálogo. Permitido en cualquier estado.
func (uc *CompanyUseCase) ChangePlan(ctx context.Context, id int64, planID string) (*dto.CompanyResponse, error) {
	plan, err := uc.plans.Plan(ctx, planID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	company, err := uc.repo.UpdateLocked(ctx, id, func(c *entity.Company) error {
		c.CatchUpTrial(now)
		c.PlanID = plan.ID
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NewNotFoundError("company")
	}
	uc.log.Info().Int64("company_id", id).Str("plan_id", plan.ID).Msg("cambio de plan")
	return CompanyToResponse(company, now), nil
}

// UpdateProfile actualiza nombre y número de empleados.
func (uc *CompanyUseCase) UpdateProfile(ctx context.Context, id int64, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	var name string
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name")
		}
	}
	if in.Employees != nil && *in.Employees < 0 {
		return nil, domain.NewValidationError("employees")
	}
	now := uc.now()
	company, err := uc.repo.UpdateLocked(ctx, id, func(c *entity.Company) error {
		c.CatchUpTrial(now)
		if in.Name != nil {
			c.Name = name
		}
		if in.Employees != nil {
			c.Employees = *in.Employees
		}
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NewNotFoundError("company")
	}
	return CompanyToResponse(company, now), nil
}

// CompanyToResponse convierte la entidad en DTO calculando el estado efectivo en now.
func CompanyToResponse(c *entity.Company, now time.Time) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	out := &dto.CompanyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Code:               c.Code,
		AdminContact:       c.AdminContact,
		Status:             string(c.Status),
		EffectiveStatus:    string(c.EffectiveStatus(now)),
		PlanID:             c.PlanID,
		RegisteredAt:       c.RegisteredAt,
		Employees:          c.Employees,
		MessagesThisPeriod: c.MessagesThisPeriod,
		StorageUsed:        c.StorageUsed,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
	if c.TrialEndsAt != nil {
		t := *c.TrialEndsAt
		out.TrialEndsAt = &t
	}
	return out
}
