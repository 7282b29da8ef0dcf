package main

import (
	"context"

	"github.com/jhoicas/feedback-api/internal/domain/repository"
	"github.com/jhoicas/feedback-api/internal/infrastructure/memory"
	"github.com/jhoicas/feedback-api/internal/infrastructure/postgres"
	"github.com/jhoicas/feedback-api/pkg/config"
	"github.com/jhoicas/feedback-api/pkg/logger"
)

// stores adaptadores de persistencia elegidos por STORE_DRIVER.
type stores struct {
	companies repository.CompanyRepository
	messages  repository.MessageRepository
	plans     repository.PlanRepository
	settings  repository.SettingsRepository
	users     repository.UserRepository
	analytics repository.AnalyticsRepository
	close     func()
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		companies := memory.NewCompanyStore()
		messages := memory.NewMessageStore()
		return &stores{
			companies: companies,
			messages:  messages,
			plans:     memory.NewPlanStore(),
			settings:  memory.NewSettingsStore(),
			users:     memory.NewUserStore(),
			analytics: memory.NewAnalyticsStore(companies, messages),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	return &stores{
		companies: postgres.NewCompanyRepository(pool),
		messages:  postgres.NewMessageRepository(pool),
		plans:     postgres.NewPlanRepository(pool),
		settings:  postgres.NewSettingsRepository(pool),
		users:     postgres.NewUserRepository(pool),
		analytics: postgres.NewAnalyticsRepository(pool),
		close:     pool.Close,
	}, nil
}
