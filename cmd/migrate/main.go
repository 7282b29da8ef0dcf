// migrate aplica o revierte las migraciones SQL de migrations/.
//
// Uso: go run ./cmd/migrate -command up|down|force|version [-version N] [-path file://migrations]
// La conexión se toma de la misma configuración que la API (DATABASE_URL o DB_*).
package main

import (
	"flag"
	"os"

	"github.com/jhoicas/feedback-api/internal/infrastructure/postgres"
	"github.com/jhoicas/feedback-api/pkg/config"
	"github.com/jhoicas/feedback-api/pkg/logger"
)

func main() {
	var (
		command = flag.String("command", "up", "Comando de migración (up, down, force, version)")
		version = flag.Int("version", 1, "Versión a fijar con -command force")
		source  = flag.String("path", "file://migrations", "Origen de los scripts")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr}).Component("migrate")

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), *source)
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()

	switch *command {
	case "up":
		log.Info().Msg("aplicando migraciones...")
		if err := m.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
	case "down":
		log.Info().Msg("revirtiendo migraciones...")
		if err := m.Down(); err != nil {
			log.Fatal().Err(err).Msg("revertir migraciones")
		}
	case "force":
		log.Info().Int("version", *version).Msg("forzando versión...")
		if err := m.Force(*version); err != nil {
			log.Fatal().Err(err).Msg("forzar versión")
		}
	case "version":
	default:
		log.Fatal().Str("command", *command).Msg("comando desconocido")
	}

	v, dirty, err := m.Version()
	if err != nil {
		log.Fatal().Err(err).Msg("leer versión")
	}
	log.Info().Uint("version", v).Bool("dirty", dirty).Msg("estado de migraciones")
}
