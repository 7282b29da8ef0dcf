package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/feedback-api/internal/application/analytics"
	"github.com/jhoicas/feedback-api/internal/application/auth"
	"github.com/jhoicas/feedback-api/internal/application/quota"
	"github.com/jhoicas/feedback-api/internal/application/usecase"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/identifier"
	infrapdf "github.com/jhoicas/feedback-api/internal/infrastructure/pdf"
	"github.com/jhoicas/feedback-api/internal/infrastructure/ratelimit"
	httpRouter "github.com/jhoicas/feedback-api/internal/interfaces/http"
	"github.com/jhoicas/feedback-api/internal/monitoring"
	"github.com/jhoicas/feedback-api/pkg/config"
	"github.com/jhoicas/feedback-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer st.close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.New(registry)

	gen := identifier.NewGenerator()
	planUC := usecase.NewPlanUseCase(st.plans, st.settings, entity.FreePlanSettings{
		MessagesLimit:  cfg.Plans.FreeMessagesLimit,
		StorageLimit:   cfg.Plans.FreeStorageLimitGB,
		FreePeriodDays: cfg.Plans.FreePeriodDays,
	})
	companyUC := usecase.NewCompanyUseCase(st.companies, planUC, gen, log, metrics)
	enforcer := quota.NewEnforcer(st.companies, planUC, cfg.Plans.StorageUnitGB, log, metrics)
	messageUC := usecase.NewMessageUseCase(st.messages, st.companies, enforcer, gen, log, metrics)
	statsUC := analytics.NewStatsUseCase(st.analytics, st.companies, infrapdf.NewStatsReportGenerator())
	authUC := auth.NewAuthUseCase(st.users, companyUC, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	// Con almacenamiento en memoria no hay cmd/seed: el admin se crea al arrancar.
	if cfg.Seed.AdminPassword != "" {
		if _, created, err := authUC.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, "Administrador"); err != nil {
			log.Error().Err(err).Msg("crear administrador inicial")
		} else if created {
			log.Info().Str("email", cfg.Seed.AdminEmail).Msg("administrador inicial creado")
		}
	}

	deps := httpRouter.RouterDeps{
		CompanyUC:    companyUC,
		PlanUC:       planUC,
		MessageUC:    messageUC,
		UserUC:       usecase.NewUserUseCase(st.users),
		Capabilities: usecase.NewCapabilityService(st.companies, planUC),
		Quota:        enforcer,
		StatsUC:      statsUC,
		AuthUC:       authUC,
		Metrics:      metrics,
		Logger:       log,
		JWTSecret:    cfg.JWT.Secret,
	}

	// Rate limiting de rutas anónimas solo si hay Redis configurado.
	if cfg.Redis.Addr != "" {
		rdb := ratelimit.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no responde; el limitador dejará pasar las peticiones")
		}
		deps.Limiter = ratelimit.NewLimiter(rdb, cfg.RateLimit.PerMinute, time.Minute, log)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Feedback API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
