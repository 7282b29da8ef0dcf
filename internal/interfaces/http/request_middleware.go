package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/feedback-api/internal/monitoring"
	"github.com/jhoicas/feedback-api/pkg/logger"
)

// RequestLogger registra cada petición con zerolog y observa su latencia en Prometheus.
func RequestLogger(log *logger.Logger, metrics *monitoring.Metrics) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		c.Locals(LocalLogger, log)
		err := c.Next()
		if err != nil {
			// deja que el ErrorHandler fije el status antes de medir
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		metrics.ObserveHTTP(c.Method(), status, elapsed)

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", elapsed).
			Msg("request")
		return nil
	}
}
