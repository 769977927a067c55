package skill

import (
	"context"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-profile-skill/internal/domain"
)

// ProfileErrorHandler turns Customer Profile API failures into speech. A 403
// means the user has not granted the skill's permissions yet.
type ProfileErrorHandler struct {
	settings domain.SkillSettings
	log      *zap.Logger
}

func NewProfileErrorHandler(settings domain.SkillSettings, log *zap.Logger) *ProfileErrorHandler {
	return &ProfileErrorHandler{settings: settings, log: log}
}

func (h *ProfileErrorHandler) CanHandle(err error) bool {
	_, ok := domain.AsServiceError(err)
	return ok
}

// Handle must only be called when CanHandle(err) is true.
func (h *ProfileErrorHandler) Handle(ctx context.Context, env *domain.RequestEnvelope, err error) *domain.Response {
	se, _ := domain.AsServiceError(err)
	s := newSpeech(env.Locale(), h.settings.Mode())

	if se != nil && se.PermissionDenied() {
		h.log.Info("Requesting profile permissions",
			zap.Strings("permissions", h.settings.Permissions()),
		)
		return domain.NewResponseBuilder().
			Speak(s.text(msgPermissionRequired, s.grantLabel())).
			WithAskForPermissionsConsentCard(h.settings.Permissions()).
			Response()
	}

	h.log.Error("Profile API error", zap.Error(err))
	text := s.text(msgServiceFailed)
	return domain.NewResponseBuilder().
		Speak(text).
		Reprompt(text).
		Response()
}
