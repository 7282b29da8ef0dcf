package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/monitoring"
)

// RateLimiter lo implementa *ratelimit.Limiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit limita por IP de cliente las rutas anónimas. Con limiter nil no limita.
func RateLimit(route string, limiter RateLimiter, metrics *monitoring.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}
		if !limiter.Allow(c.UserContext(), route+":"+c.IP()) {
			metrics.RateLimitHit(route)
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code: CodeRateLimited, Message: "demasiadas peticiones, intente más tarde",
			})
		}
		return c.Next()
	}
}
