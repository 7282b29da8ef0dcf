package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
)

// CapabilityService verifica qué funcionalidades opcionales concede el plan de una empresa.
// Es el único punto de la aplicación que conoce esa regla.
type CapabilityService struct {
	companies repository.CompanyRepository
	plans     PlanCatalog
	now       func() time.Time
}

// NewCapabilityService construye el servicio.
func NewCapabilityService(companies repository.CompanyRepository, plans PlanCatalog) *CapabilityService {
	return &CapabilityService{companies: companies, plans: plans, now: time.Now}
}

// HasCapability informa si la empresa puede usar la funcionalidad.
// El periodo de prueba efectivo concede todas.
// Devuelve error solo si la empresa no existe o falla la infraestructura.
func (s *CapabilityService) HasCapability(ctx context.Context, companyID int64, capability entity.Capability) (bool, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return false, err
	}
	if company == nil {
		return false, domain.NewNotFoundError("company")
	}
	if company.EffectiveStatus(s.now()) == entity.CompanyStatusTrial {
		return true, nil
	}
	plan, err := s.plans.Plan(ctx, company.PlanID)
	if err != nil {
		return false, err
	}
	return plan.HasCapability(capability), nil
}
