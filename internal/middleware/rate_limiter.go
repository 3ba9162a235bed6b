package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// LimiteStore counts hits in fixed windows. Incrementar returns the count
// after this hit and the time left in the current window.
type LimiteStore interface {
	Incrementar(ctx context.Context, chave string, janela time.Duration) (int64, time.Duration, error)
}

// ── In-memory store ───────────────────────────────────────────────────────────

// janelaEntry tracks the hits of one key within a fixed window.
type janelaEntry struct {
	count     int64
	windowEnd time.Time
}

// MemoryStore is the per-process store used when Redis is not configured.
type MemoryStore struct {
	mu       sync.Mutex
	entradas map[string]*janelaEntry
	now      func() time.Time
}

const purgeInterval = 5 * time.Minute

// NewMemoryStore starts a goroutine that drops expired windows until ctx is done.
func NewMemoryStore(ctx context.Context) *MemoryStore {
	s := &MemoryStore{entradas: make(map[string]*janelaEntry), now: time.Now}
	go s.purge(ctx)
	return s
}

func (s *MemoryStore) Incrementar(_ context.Context, chave string, janela time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entradas[chave]
	if !ok || !now.Before(e.windowEnd) {
		e = &janelaEntry{windowEnd: now.Add(janela)}
		s.entradas[chave] = e
	}
	e.count++
	return e.count, e.windowEnd.Sub(now), nil
}

func (s *MemoryStore) purge(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		now := s.now()
		s.mu.Lock()
		purged := 0
		for k, e := range s.entradas {
			if !now.Before(e.windowEnd) {
				delete(s.entradas, k)
				purged++
			}
		}
		remaining := len(s.entradas)
		s.mu.Unlock()

		if purged > 0 {
			log.Debug().Int("purged", purged).Int("remaining", remaining).Msg("rate limiter entries purged")
		}
	}
}

// ── Redis store ───────────────────────────────────────────────────────────────

// RedisStore shares the counters between instances: INCR on a key that
// expires with the window.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func (s *RedisStore) Incrementar(ctx context.Context, chave string, janela time.Duration) (int64, time.Duration, error) {
	key := "estoque:ratelimit:" + chave
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("ratelimit: redis: %w", err)
	}

	restante := ttl.Val()
	// A key without expiry is a fresh window (or one whose EXPIRE was lost).
	if restante < 0 {
		if err := s.rdb.PExpire(ctx, key, janela).Err(); err != nil {
			return 0, 0, fmt.Errorf("ratelimit: redis: %w", err)
		}
		restante = janela
	}
	return incr.Val(), restante, nil
}

// ── Middleware ────────────────────────────────────────────────────────────────

// RateLimit allows limite requests per client IP per janela for one route
// class. Store failures let the request through.
func RateLimit(store LimiteStore, classe string, limite int, janela time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, restante, err := store.Incrementar(c.Request.Context(), classe+":"+c.ClientIP(), janela)
		if err != nil {
			log.Warn().Err(err).Str("classe", classe).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		remaining := int64(limite) - count
		if remaining < 0 {
			remaining = 0
		}
		reset := int64((restante + time.Second - 1) / time.Second)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limite))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

		if count > int64(limite) {
			metrics.RateLimited.WithLabelValues(classe).Inc()
			c.Header("Retry-After", strconv.FormatInt(reset, 10))
			_ = c.Error(apierror.LimiteExcedido("Muitas requisições. Tente novamente mais tarde."))
			c.Abort()
			return
		}
		c.Next()
	}
}
