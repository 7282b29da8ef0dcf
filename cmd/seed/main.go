// seed crea el administrador de plataforma y una empresa de demostración con algunos mensajes.
//
// Uso: SEED_ADMIN_PASSWORD=... go run ./cmd/seed
// Es idempotente: si el admin o la cuenta demo ya existen no se duplican.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/jhoicas/feedback-api/internal/application/auth"
	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/application/quota"
	"github.com/jhoicas/feedback-api/internal/application/usecase"
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/identifier"
	"github.com/jhoicas/feedback-api/internal/infrastructure/postgres"
	"github.com/jhoicas/feedback-api/pkg/config"
	"github.com/jhoicas/feedback-api/pkg/logger"
)

const (
	demoEmail    = "demo@acme.test"
	demoPassword = "demo-acme-2026"
)

var demoMessages = []dto.SubmitMessageRequest{
	{Type: "complaint", Content: "La sala de reuniones siempre está ocupada"},
	{Type: "praise", Content: "El nuevo horario flexible funciona muy bien"},
	{Type: "suggestion", Content: "Podríamos tener una reunión mensual abierta con dirección"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr}).Component("seed")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companies := postgres.NewCompanyRepository(pool)
	gen := identifier.NewGenerator()
	plans := usecase.NewPlanUseCase(postgres.NewPlanRepository(pool), postgres.NewSettingsRepository(pool), entity.FreePlanSettings{
		MessagesLimit:  cfg.Plans.FreeMessagesLimit,
		StorageLimit:   cfg.Plans.FreeStorageLimitGB,
		FreePeriodDays: cfg.Plans.FreePeriodDays,
	})
	companyUC := usecase.NewCompanyUseCase(companies, plans, gen, log, nil)
	enforcer := quota.NewEnforcer(companies, plans, cfg.Plans.StorageUnitGB, log, nil)
	messageUC := usecase.NewMessageUseCase(postgres.NewMessageRepository(pool), companies, enforcer, gen, log, nil)
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), companyUC, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	if cfg.Seed.AdminPassword == "" {
		log.Fatal().Msg("SEED_ADMIN_PASSWORD es requerido")
	}
	admin, created, err := authUC.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, "Administrador")
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}
	log.Info().Str("email", admin.Email).Bool("created", created).Msg("administrador")

	reg, err := authUC.Register(ctx, dto.RegisterRequest{
		CompanyName: "Acme Demo",
		Email:       demoEmail,
		Password:    demoPassword,
		Name:        "RR. HH. Acme",
		Employees:   42,
	})
	if errors.Is(err, domain.ErrConflict) {
		log.Info().Str("email", demoEmail).Msg("la cuenta demo ya existe")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("crear cuenta demo")
	}

	for _, m := range demoMessages {
		m.CompanyCode = reg.Company.Code
		out, err := messageUC.Submit(ctx, m)
		if err != nil {
			log.Fatal().Err(err).Msg("crear mensaje demo")
		}
		log.Info().Str("id", out.ID).Str("type", out.Type).Msg("mensaje demo")
	}
	log.Info().
		Str("code", reg.Company.Code).
		Str("email", demoEmail).
		Msg("empresa demo lista")
}
