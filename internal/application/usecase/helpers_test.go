package usecase_test

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/feedback-api/internal/application/quota"
	"github.com/jhoicas/feedback-api/internal/application/usecase"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/identifier"
	"github.com/jhoicas/feedback-api/internal/infrastructure/memory"
)

// fixture arma los casos de uso sobre stores en memoria con un reloj controlable.
type fixture struct {
	now       time.Time
	companies *memory.CompanyStore
	messages  *memory.MessageStore
	plans     *usecase.PlanUseCase
	company   *usecase.CompanyUseCase
	message   *usecase.MessageUseCase
	quota     *quota.Enforcer
}

type fixtureOpts struct {
	codes usecase.CompanyCodeGenerator
	ids   usecase.MessageIDGenerator
}

func newFixture(t *testing.T, opts ...func(*fixtureOpts)) *fixture {
	t.Helper()
	o := fixtureOpts{codes: identifier.NewGenerator(), ids: identifier.NewGenerator()}
	for _, fn := range opts {
		fn(&o)
	}

	f := &fixture{
		now:       time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
		companies: memory.NewCompanyStore(),
		messages:  memory.NewMessageStore(),
	}
	clock := func() time.Time { return f.now }

	f.plans = usecase.NewPlanUseCase(memory.NewPlanStore(), memory.NewSettingsStore(), entity.DefaultFreePlanSettings()).
		WithClock(clock)
	f.company = usecase.NewCompanyUseCase(f.companies, f.plans, o.codes, nil, nil).WithClock(clock)
	f.quota = quota.NewEnforcer(f.companies, f.plans, decimal.NewFromInt(1), nil, nil).WithClock(clock)
	f.message = usecase.NewMessageUseCase(f.messages, f.companies, f.quota, o.ids, nil, nil).WithClock(clock)
	return f
}

func withCodes(codes ...string) func(*fixtureOpts) {
	return func(o *fixtureOpts) { o.codes = &scripted{values: codes} }
}

func withMessageIDs(ids ...string) func(*fixtureOpts) {
	return func(o *fixtureOpts) { o.ids = &scripted{values: ids} }
}

// scripted devuelve los valores en orden y repite el último cuando se agotan.
type scripted struct {
	mu     sync.Mutex
	values []string
	calls  int
}

func (s *scripted) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.values) {
		i = len(s.values) - 1
	}
	s.calls++
	return s.values[i]
}

func (s *scripted) CompanyCode() string { return s.next() }

func (s *scripted) MessageID(time.Time) string { return s.next() }
