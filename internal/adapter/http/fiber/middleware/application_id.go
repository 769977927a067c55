package middleware

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/voice-profile-skill/internal/domain"
)

// VerifyApplicationID rejects envelopes addressed to another skill. An empty
// allow list disables the check.
func VerifyApplicationID(allowed []string) fiber.Handler {
	ids := make(map[string]struct{}, len(allowed))
	for _, id := range allowed {
		if id != "" {
			ids[id] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		if len(ids) == 0 {
			return c.Next()
		}

		var env domain.RequestEnvelope
		if err := json.Unmarshal(c.Body(), &env); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
		}

		id := env.ApplicationID()
		if _, ok := ids[id]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unknown application id"})
		}

		return c.Next()
	}
}
