package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-profile-skill/internal/domain"
	"github.com/seu-repo/voice-profile-skill/internal/service/skill"
)

// SkillHandler is the webhook the voice platform posts request envelopes to.
type SkillHandler struct {
	router *skill.Router
	log    *zap.Logger
}

func NewSkillHandler(router *skill.Router, log *zap.Logger) *SkillHandler {
	return &SkillHandler{
		router: router,
		log:    log,
	}
}

func (h *SkillHandler) Handle(c *fiber.Ctx) error {
	var env domain.RequestEnvelope
	if err := c.BodyParser(&env); err != nil {
		h.log.Warn("Malformed request envelope", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	out, err := h.router.Dispatch(c.UserContext(), &env)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEnvelope) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request envelope"})
		}
		return err
	}

	return c.JSON(out)
}
