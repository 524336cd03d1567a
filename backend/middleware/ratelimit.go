package middleware

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	lru "github.com/hashicorp/golang-lru"

	"github.com/orbitalbot/dashboard/backend/handlers"
	"github.com/orbitalbot/dashboard/backend/utils"
)

const defaultMaxClients = 10000

// Quota is a client's standing in its current window.
type Quota struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// RateLimiter is a sliding window limiter keyed by client. Clients are held in an
// LRU cache so memory stays bounded however many addresses show up.
type RateLimiter struct {
	mutex   sync.Mutex
	clients *lru.Cache
	window  time.Duration
	limit   int
	now     func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration, maxClients int) *RateLimiter {
	if maxClients <= 0 {
		maxClients = defaultMaxClients
	}
	// lru.New only fails for a non-positive size
	clients, _ := lru.New(maxClients)

	return &RateLimiter{
		clients: clients,
		window:  window,
		limit:   limit,
		now:     time.Now,
	}
}

// hits returns the key's requests still inside the window. Callers hold the mutex.
func (rl *RateLimiter) hits(key string, now time.Time) []time.Time {
	value, ok := rl.clients.Get(key)
	if !ok {
		return nil
	}

	cutoff := now.Add(-rl.window)
	var valid []time.Time
	for _, t := range value.([]time.Time) {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	return valid
}

func (rl *RateLimiter) quota(hits []time.Time, now time.Time) Quota {
	q := Quota{
		Allowed:   len(hits) < rl.limit,
		Limit:     rl.limit,
		Remaining: rl.limit - len(hits),
		Reset:     now.Add(rl.window),
	}
	if q.Remaining < 0 {
		q.Remaining = 0
	}
	if len(hits) > 0 {
		q.Reset = hits[0].Add(rl.window)
	}
	return q
}

// Allow counts a request for key when it is under the limit.
func (rl *RateLimiter) Allow(key string) Quota {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	hits := rl.hits(key, now)
	q := rl.quota(hits, now)
	if !q.Allowed {
		rl.clients.Add(key, hits)
		return q
	}

	hits = append(hits, now)
	rl.clients.Add(key, hits)
	return rl.quota(hits, now)
}

// Peek reports the quota for key without counting a request.
func (rl *RateLimiter) Peek(key string) Quota {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	return rl.quota(rl.hits(key, now), now)
}

// Record counts a request for key unconditionally.
func (rl *RateLimiter) Record(key string) Quota {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	hits := append(rl.hits(key, now), now)
	rl.clients.Add(key, hits)
	return rl.quota(hits, now)
}

// RateLimitConfig configures one limiter middleware.
type RateLimitConfig struct {
	Limit      int
	Window     time.Duration
	MaxClients int
	// SkipSuccessful counts only failed requests, as flagged by utils.IsAuthFailure.
	SkipSuccessful bool
	TrustProxy     bool
	Message        string
}

// setQuotaHeaders writes the RateLimit-* headers and returns the seconds until reset.
func setQuotaHeaders(c *fiber.Ctx, q Quota, now time.Time) int {
	reset := int(q.Reset.Sub(now).Round(time.Second) / time.Second)
	if reset < 0 {
		reset = 0
	}
	c.Set("RateLimit-Limit", strconv.Itoa(q.Limit))
	c.Set("RateLimit-Remaining", strconv.Itoa(q.Remaining))
	c.Set("RateLimit-Reset", strconv.Itoa(reset))
	return reset
}

// RateLimit middleware limits requests per IP address
func RateLimit(cfg RateLimitConfig) fiber.Handler {
	return rateLimitWith(NewRateLimiter(cfg.Limit, cfg.Window, cfg.MaxClients), cfg)
}

func rateLimitWith(limiter *RateLimiter, cfg RateLimitConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := utils.GetIPAddress(c, cfg.TrustProxy)

		var q Quota
		if cfg.SkipSuccessful {
			q = limiter.Peek(ip)
		} else {
			q = limiter.Allow(ip)
		}

		if !q.Allowed {
			reset := setQuotaHeaders(c, q, limiter.now())
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(reset))

			slog.Warn("Rate limit exceeded",
				slog.String("type", "http"),
				slog.String("ip", ip),
				slog.String("path", c.Path()),
				slog.String("method", c.Method()),
				slog.Int("limit", cfg.Limit),
				slog.Duration("window", cfg.Window))

			return utils.SendTooManyRequests(c, cfg.Message)
		}

		if !cfg.SkipSuccessful {
			setQuotaHeaders(c, q, limiter.now())
			return c.Next()
		}

		err := c.Next()
		if err != nil || utils.IsAuthFailure(c) {
			q = limiter.Record(ip)
		}
		setQuotaHeaders(c, q, limiter.now())
		return err
	}
}

// APIRateLimit limits every /api request per client
func APIRateLimit(webApp *handlers.WebApp) fiber.Handler {
	limits := webApp.Config.GetRateLimitConfig()
	return RateLimit(RateLimitConfig{
		Limit:      limits.GeneralLimit,
		Window:     limits.GeneralWindow.Duration,
		MaxClients: limits.MaxClients,
		TrustProxy: webApp.Config.GetWebConfig().TrustProxy,
		Message:    "Muitas requisições, tente novamente mais tarde",
	})
}

// AuthRateLimit limits failed login attempts per client
func AuthRateLimit(webApp *handlers.WebApp) fiber.Handler {
	limits := webApp.Config.GetRateLimitConfig()
	return RateLimit(RateLimitConfig{
		Limit:          limits.AuthLimit,
		Window:         limits.AuthWindow.Duration,
		MaxClients:     limits.MaxClients,
		SkipSuccessful: true,
		TrustProxy:     webApp.Config.GetWebConfig().TrustProxy,
		Message:        "Muitas tentativas de login, tente novamente mais tarde",
	})
}
