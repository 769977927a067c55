package skill

import (
	"context"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-profile-skill/internal/domain"
	"github.com/seu-repo/voice-profile-skill/internal/ports"
)

// profileHandler holds what the three lookup intents share.
type profileHandler struct {
	handlerBase
	profiles ports.ProfileClient
	log      *zap.Logger
	// noPerson is the catalog key spoken when no voice profile was resolved.
	noPerson string
}

// recognizedPerson returns nil and the guidance response when no voice profile was resolved.
func (h profileHandler) recognizedPerson(env *domain.RequestEnvelope) (*domain.Person, *domain.Response) {
	person := env.Person()
	if person == nil {
		text := h.speechFor(env).text(h.noPerson)
		return nil, domain.NewResponseBuilder().Speak(text).Response()
	}
	h.log.Info("Received person id",
		zap.String("person_id", person.PersonID),
		zap.String("kind", h.kind.String()),
	)
	return person, nil
}

// lookupFailed recovers generic failures locally. ServiceErrors are returned
// so the profile error handler can answer them uniformly.
func (h profileHandler) lookupFailed(env *domain.RequestEnvelope, err error) (*domain.Response, error) {
	if se, ok := domain.AsServiceError(err); ok {
		h.log.Warn("Profile API refused lookup",
			zap.String("kind", h.kind.String()),
			zap.Int("status_code", se.StatusCode),
		)
		return nil, err
	}

	h.log.Error("Profile lookup failed", zap.String("kind", h.kind.String()), zap.Error(err))
	return domain.NewResponseBuilder().
		Speak(h.speechFor(env).text(msgLookupFailed)).
		Response(), nil
}

func speak(text string) *domain.Response {
	return domain.NewResponseBuilder().Speak(text).Response()
}

type FullNameHandler struct {
	profileHandler
}

func NewFullNameHandler(settings domain.SkillSettings, profiles ports.ProfileClient, log *zap.Logger) *FullNameHandler {
	return &FullNameHandler{profileHandler{
		handlerBase: handlerBase{kind: KindFullName, settings: settings},
		profiles:    profiles,
		log:         log,
		noPerson:    msgVoiceProfileRequired,
	}}
}

func (h *FullNameHandler) Handle(ctx context.Context, env *domain.RequestEnvelope) (*domain.Response, error) {
	if _, resp := h.recognizedPerson(env); resp != nil {
		return resp, nil
	}

	name, err := h.profiles.FullName(ctx, env.APIAccess())
	if err != nil {
		return h.lookupFailed(env, err)
	}
	h.log.Debug("Full name retrieved")

	s := h.speechFor(env)
	if name == "" {
		return speak(s.text(msgFullNameUnset)), nil
	}
	return speak(s.text(msgFullNameIs, escapeSSML(name))), nil
}

type GivenNameHandler struct {
	profileHandler
}

func NewGivenNameHandler(settings domain.SkillSettings, profiles ports.ProfileClient, log *zap.Logger) *GivenNameHandler {
	return &GivenNameHandler{profileHandler{
		handlerBase: handlerBase{kind: KindGivenName, settings: settings},
		profiles:    profiles,
		log:         log,
		noPerson:    msgNoVoiceProfile,
	}}
}

func (h *GivenNameHandler) Handle(ctx context.Context, env *domain.RequestEnvelope) (*domain.Response, error) {
	if _, resp := h.recognizedPerson(env); resp != nil {
		return resp, nil
	}

	name, err := h.profiles.GivenName(ctx, env.APIAccess())
	if err != nil {
		return h.lookupFailed(env, err)
	}
	h.log.Debug("Given name retrieved")

	s := h.speechFor(env)
	if name == "" {
		return speak(s.text(msgGivenNameUnset)), nil
	}
	return speak(s.text(msgGivenNameIs, escapeSSML(name))), nil
}

type NumberHandler struct {
	profileHandler
}

func NewNumberHandler(settings domain.SkillSettings, profiles ports.ProfileClient, log *zap.Logger) *NumberHandler {
	return &NumberHandler{profileHandler{
		handlerBase: handlerBase{kind: KindNumber, settings: settings},
		profiles:    profiles,
		log:         log,
		noPerson:    msgNoVoiceProfile,
	}}
}

func (h *NumberHandler) Handle(ctx context.Context, env *domain.RequestEnvelope) (*domain.Response, error) {
	if _, resp := h.recognizedPerson(env); resp != nil {
		return resp, nil
	}

	number, err := h.profiles.MobileNumber(ctx, env.APIAccess())
	if err != nil {
		return h.lookupFailed(env, err)
	}
	h.log.Debug("Mobile number retrieved")

	s := h.speechFor(env)
	if number.IsEmpty() {
		return speak(s.text(msgNumberUnset)), nil
	}
	return speak(s.text(msgNumberIs, telephone(*number))), nil
}
