// Package ratelimit limita por ventana fija las peticiones anónimas usando Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/feedback-api/pkg/logger"
)

// RedisClient subconjunto de *redis.Client que usa el limitador.
type RedisClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Limiter contador por clave y ventana. Si Redis falla deja pasar la petición.
type Limiter struct {
	client RedisClient
	limit  int64
	window time.Duration
	log    *logger.Logger
	now    func() time.Time
}

// NewLimiter construye el limitador con limit peticiones por window.
func NewLimiter(client RedisClient, limit int, window time.Duration, log *logger.Logger) *Limiter {
	if log == nil {
		log = logger.Nop()
	}
	return &Limiter{
		client: client,
		limit:  int64(limit),
		window: window,
		log:    log.Component("ratelimit"),
		now:    time.Now,
	}
}

// NewRedisClient abre el cliente a partir de la dirección configurada.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Allow informa si key puede hacer otra petición en la ventana actual.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l.limit <= 0 {
		return true
	}
	bucket := l.now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	n, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("redis no disponible, se omite el rate limit")
		return true
	}
	if n == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", redisKey).Msg("no se pudo fijar la expiración")
		}
	}
	return n <= l.limit
}
