package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
)

var (
	_ repository.PlanRepository     = (*PlanStore)(nil)
	_ repository.SettingsRepository = (*SettingsStore)(nil)
)

// PlanStore guarda los planes personalizados en orden de creación (solo se añaden).
type PlanStore struct {
	mu    sync.RWMutex
	plans []*entity.Plan
}

func NewPlanStore() *PlanStore {
	return &PlanStore{}
}

func (s *PlanStore) Create(_ context.Context, plan *entity.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.plans {
		if p.ID == plan.ID {
			return domain.ErrDuplicate
		}
	}
	s.plans = append(s.plans, clonePlan(plan))
	return nil
}

func (s *PlanStore) GetByID(_ context.Context, id string) (*entity.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.plans {
		if p.ID == id {
			return clonePlan(p), nil
		}
	}
	return nil, nil
}

func (s *PlanStore) List(_ context.Context) ([]*entity.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.Plan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, clonePlan(p))
	}
	return out, nil
}

func clonePlan(p *entity.Plan) *entity.Plan {
	out := *p
	out.Name = cloneText(p.Name)
	out.Features = make([]entity.LocalizedText, len(p.Features))
	for i, f := range p.Features {
		out.Features[i] = cloneText(f)
	}
	out.Capabilities = append([]entity.Capability(nil), p.Capabilities...)
	return &out
}

func cloneText(t entity.LocalizedText) entity.LocalizedText {
	out := make(entity.LocalizedText, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// SettingsStore guarda el singleton de ajustes del plan gratuito.
type SettingsStore struct {
	mu       sync.RWMutex
	settings *entity.FreePlanSettings
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{}
}

func (s *SettingsStore) GetFreePlanSettings(_ context.Context) (*entity.FreePlanSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, nil
	}
	cp := *s.settings
	return &cp, nil
}

func (s *SettingsStore) SaveFreePlanSettings(_ context.Context, settings entity.FreePlanSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = &settings
	return nil
}
