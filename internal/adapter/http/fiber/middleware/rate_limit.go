package middleware

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/seu-repo/voice-profile-skill/internal/domain"
	"github.com/seu-repo/voice-profile-skill/pkg/config"
)

// RateLimit limits skill requests per platform user, falling back to the client IP.
func RateLimit(cfg config.RateLimitingConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Next:              func(c *fiber.Ctx) bool { return !cfg.Enabled },
		Max:               cfg.MaxRequests,
		Expiration:        cfg.Window,
		KeyGenerator:      rateLimitKey,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached:      rateLimitReached,
	})
}

func rateLimitKey(c *fiber.Ctx) string {
	var env domain.RequestEnvelope
	if err := json.Unmarshal(c.Body(), &env); err == nil {
		if id := env.UserID(); id != "" {
			return "user:" + id
		}
	}
	return "ip:" + c.IP()
}

func rateLimitReached(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": "Too many requests",
	})
}
