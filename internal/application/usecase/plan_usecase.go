package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
)

// paidPlans catálogo incorporado de pago, en orden ascendente de precio.
// Se copia en cada lectura para que nadie mute el registro.
var paidPlans = []entity.Plan{
	{
		ID:            entity.PlanStandard,
		Name:          entity.LocalizedText{entity.LocaleRU: "Стандарт", entity.LocaleEN: "Standard", entity.LocaleKK: "Стандарт"},
		Price:         2999,
		MessagesLimit: 100,
		StorageLimit:  decimal.NewFromInt(10),
		Features: []entity.LocalizedText{
			{entity.LocaleRU: "До 100 сообщений в месяц", entity.LocaleEN: "Up to 100 messages per month"},
			{entity.LocaleRU: "10 ГБ хранилища", entity.LocaleEN: "10 GB storage"},
			{entity.LocaleRU: "Метрики роста", entity.LocaleEN: "Growth metrics"},
		},
		Capabilities: []entity.Capability{entity.CapabilityGrowthMetrics},
	},
	{
		ID:            entity.PlanPro,
		Name:          entity.LocalizedText{entity.LocaleRU: "Про", entity.LocaleEN: "Pro", entity.LocaleKK: "Про"},
		Price:         9999,
		MessagesLimit: 500,
		StorageLimit:  decimal.NewFromInt(50),
		Features: []entity.LocalizedText{
			{entity.LocaleRU: "До 500 сообщений в месяц", entity.LocaleEN: "Up to 500 messages per month"},
			{entity.LocaleRU: "50 ГБ хранилища", entity.LocaleEN: "50 GB storage"},
			{entity.LocaleRU: "Метрики роста", entity.LocaleEN: "Growth metrics"},
			{entity.LocaleRU: "Экспорт отчётов в PDF", entity.LocaleEN: "PDF report export"},
		},
		Capabilities: []entity.Capability{entity.CapabilityGrowthMetrics, entity.CapabilityReportsPDF},
	},
}

var freePlanName = entity.LocalizedText{
	entity.LocaleRU: "Бесплатный",
	entity.LocaleEN: "Free",
	entity.LocaleKK: "Тегін",
}

// PlanUseCase es el catálogo de planes: incorporados + personalizados + ajustes del plan gratuito.
type PlanUseCase struct {
	planRepo     repository.PlanRepository
	settingsRepo repository.SettingsRepository
	defaults     entity.FreePlanSettings
	mu           sync.Mutex // serializa la fusión de ajustes parciales
	now          func() time.Time
}

// NewPlanUseCase construye el catálogo. defaults se usa mientras no haya ajustes guardados.
func NewPlanUseCase(planRepo repository.PlanRepository, settingsRepo repository.SettingsRepository, defaults entity.FreePlanSettings) *PlanUseCase {
	return &PlanUseCase{planRepo: planRepo, settingsRepo: settingsRepo, defaults: defaults, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *PlanUseCase) WithClock(now func() time.Time) *PlanUseCase {
	uc.now = now
	return uc
}

// FreePlanSettings devuelve los ajustes vigentes (guardados o por defecto).
func (uc *PlanUseCase) FreePlanSettings(ctx context.Context) (entity.FreePlanSettings, error) {
	s, err := uc.settingsRepo.GetFreePlanSettings(ctx)
	if err != nil {
		return entity.FreePlanSettings{}, err
	}
	if s == nil {
		return uc.defaults, nil
	}
	return *s, nil
}

// GetFreePlanSettings operación plan.freeSettings.
func (uc *PlanUseCase) GetFreePlanSettings(ctx context.Context) (*dto.FreePlanSettingsDTO, error) {
	s, err := uc.FreePlanSettings(ctx)
	if err != nil {
		return nil, err
	}
	return settingsToDTO(s), nil
}

// UpdateFreePlanSettings fusiona los campos presentes sobre el singleton.
// No modifica fechas de fin de prueba ya calculadas.
func (uc *PlanUseCase) UpdateFreePlanSettings(ctx context.Context, in dto.UpdateFreePlanSettingsRequest) (*dto.FreePlanSettingsDTO, error) {
	if in.MessagesLimit != nil && *in.MessagesLimit < 0 {
		return nil, domain.NewValidationError("messages_limit")
	}
	if in.StorageLimit != nil && in.StorageLimit.IsNegative() {
		return nil, domain.NewValidationError("storage_limit")
	}
	if in.FreePeriodDays != nil && *in.FreePeriodDays < 0 {
		return nil, domain.NewValidationError("free_period_days")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	s, err := uc.FreePlanSettings(ctx)
	if err != nil {
		return nil, err
	}
	if in.MessagesLimit != nil {
		s.MessagesLimit = *in.MessagesLimit
	}
	if in.StorageLimit != nil {
		s.StorageLimit = *in.StorageLimit
	}
	if in.FreePeriodDays != nil {
		s.FreePeriodDays = *in.FreePeriodDays
	}
	s.UpdatedAt = uc.now()
	if err := uc.settingsRepo.SaveFreePlanSettings(ctx, s); err != nil {
		return nil, err
	}
	return settingsToDTO(s), nil
}

// Plans devuelve el catálogo completo: free, pagos por precio y personalizados por creación.
func (uc *PlanUseCase) Plans(ctx context.Context) ([]*entity.Plan, error) {
	settings, err := uc.FreePlanSettings(ctx)
	if err != nil {
		return nil, err
	}
	custom, err := uc.planRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Plan, 0, 1+len(paidPlans)+len(custom))
	out = append(out, freePlan(settings))
	for i := range paidPlans {
		out = append(out, copyPlan(&paidPlans[i]))
	}
	out = append(out, custom...)
	return out, nil
}

// Plan resuelve un plan por ID. El plan gratuito se construye con los ajustes actuales.
func (uc *PlanUseCase) Plan(ctx context.Context, id string) (*entity.Plan, error) {
	if id == entity.PlanFree {
		settings, err := uc.FreePlanSettings(ctx)
		if err != nil {
			return nil, err
		}
		return freePlan(settings), nil
	}
	for i := range paidPlans {
		if paidPlans[i].ID == id {
			return copyPlan(&paidPlans[i]), nil
		}
	}
	p, err := uc.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFoundError("plan")
	}
	return p, nil
}

// ListPlans operación plan.list.
func (uc *PlanUseCase) ListPlans(ctx context.Context) ([]dto.PlanResponse, error) {
	plans, err := uc.Plans(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := uc.FreePlanSettings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		r := planToResponse(p)
		if p.ID == entity.PlanFree {
			days := settings.FreePeriodDays
			r.FreePeriodDays = &days
		}
		out = append(out, r)
	}
	return out, nil
}

// CreateCustomPlan añade un plan de pago personalizado con un ID nuevo.
func (uc *PlanUseCase) CreateCustomPlan(ctx context.Context, in dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	switch {
	case in.Price < 0:
		return nil, domain.NewValidationError("price")
	case in.Price == 0:
		// solo puede existir un plan gratuito
		return nil, domain.NewValidationError("price")
	case in.MessagesLimit < 0:
		return nil, domain.NewValidationError("messages_limit")
	case in.StorageLimit.IsNegative():
		return nil, domain.NewValidationError("storage_limit")
	}
	name, err := toLocalized(in.Name)
	if err != nil || len(name) == 0 {
		return nil, domain.NewValidationError("name")
	}
	features := make([]entity.LocalizedText, 0, len(in.Features))
	for _, f := range in.Features {
		lt, err := toLocalized(f)
		if err != nil {
			return nil, domain.NewValidationError("features")
		}
		features = append(features, lt)
	}
	caps := make([]entity.Capability, 0, len(in.Capabilities))
	for _, c := range in.Capabilities {
		cp := entity.Capability(c)
		if cp != entity.CapabilityGrowthMetrics && cp != entity.CapabilityReportsPDF {
			return nil, domain.NewValidationError("capabilities")
		}
		caps = append(caps, cp)
	}

	plan := &entity.Plan{
		ID:            "custom-" + uuid.NewString(),
		Name:          name,
		Price:         in.Price,
		MessagesLimit: in.MessagesLimit,
		StorageLimit:  in.StorageLimit,
		Features:      features,
		Capabilities:  caps,
		Custom:        true,
		CreatedAt:     uc.now(),
	}
	if err := uc.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	r := planToResponse(plan)
	return &r, nil
}

// toLocalized valida que cada clave sea una etiqueta BCP 47.
func toLocalized(m map[string]string) (entity.LocalizedText, error) {
	out := make(entity.LocalizedText, len(m))
	for k, v := range m {
		if _, err := language.Parse(k); err != nil {
			return nil, err
		}
		out[entity.Locale(k)] = v
	}
	return out, nil
}

func freePlan(s entity.FreePlanSettings) *entity.Plan {
	return &entity.Plan{
		ID:            entity.PlanFree,
		Name:          copyText(freePlanName),
		Price:         0,
		MessagesLimit: s.MessagesLimit,
		StorageLimit:  s.StorageLimit,
		Features: []entity.LocalizedText{
			{entity.LocaleRU: "Все функции в пробный период", entity.LocaleEN: "All features during the trial"},
		},
	}
}

func copyPlan(p *entity.Plan) *entity.Plan {
	out := *p
	out.Name = copyText(p.Name)
	out.Features = make([]entity.LocalizedText, len(p.Features))
	for i, f := range p.Features {
		out.Features[i] = copyText(f)
	}
	out.Capabilities = append([]entity.Capability(nil), p.Capabilities...)
	return &out
}

func copyText(t entity.LocalizedText) entity.LocalizedText {
	out := make(entity.LocalizedText, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

func planToResponse(p *entity.Plan) dto.PlanResponse {
	name := make(map[string]string, len(p.Name))
	for k, v := range p.Name {
		name[string(k)] = v
	}
	features := make([]map[string]string, 0, len(p.Features))
	for _, f := range p.Features {
		m := make(map[string]string, len(f))
		for k, v := range f {
			m[string(k)] = v
		}
		features = append(features, m)
	}
	caps := make([]string, 0, len(p.Capabilities))
	for _, c := range p.Capabilities {
		caps = append(caps, string(c))
	}
	return dto.PlanResponse{
		ID:            p.ID,
		Name:          name,
		Price:         p.Price,
		MessagesLimit: p.MessagesLimit,
		StorageLimit:  p.StorageLimit,
		Features:      features,
		Capabilities:  caps,
		Custom:        p.Custom,
	}
}

func settingsToDTO(s entity.FreePlanSettings) *dto.FreePlanSettingsDTO {
	out := &dto.FreePlanSettingsDTO{
		MessagesLimit:  s.MessagesLimit,
		StorageLimit:   s.StorageLimit,
		FreePeriodDays: s.FreePeriodDays,
	}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}
