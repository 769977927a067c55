package skill

import (
	"context"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-profile-skill/internal/domain"
)

// RequestHandler produces the response for one kind of request.
type RequestHandler interface {
	Kind() RequestKind
	CanHandle(env *domain.RequestEnvelope) bool
	Handle(ctx context.Context, env *domain.RequestEnvelope) (*domain.Response, error)
}

type handlerBase struct {
	kind     RequestKind
	settings domain.SkillSettings
}

func (h handlerBase) Kind() RequestKind {
	return h.kind
}

func (h handlerBase) CanHandle(env *domain.RequestEnvelope) bool {
	return Classify(env, h.settings.Mode()) == h.kind
}

func (h handlerBase) speechFor(env *domain.RequestEnvelope) speech {
	return newSpeech(env.Locale(), h.settings.Mode())
}

// LaunchHandler greets the user and asks which value they want to hear.
type LaunchHandler struct {
	handlerBase
}

func NewLaunchHandler(settings domain.SkillSettings) *LaunchHandler {
	return &LaunchHandler{handlerBase{kind: KindLaunch, settings: settings}}
}

func (h *LaunchHandler) Handle(ctx context.Context, env *domain.RequestEnvelope) (*domain.Response, error) {
	s := h.speechFor(env)
	question := s.text(msgQuestion, s.nameLabel())
	return domain.NewResponseBuilder().
		Speak(s.text(msgIntro) + question).
		Reprompt(question).
		Response(), nil
}

type HelpHandler struct {
	handlerBase
}

func NewHelpHandler(settings domain.SkillSettings) *HelpHandler {
	return &HelpHandler{handlerBase{kind: KindHelp, settings: settings}}
}

func (h *HelpHandler) Handle(ctx context.Context, env *domain.RequestEnvelope) (*domain.Response, error) {
	s := h.speechFor(env)
	text := s.text(msgHelp, s.nameLabel())
	return domain.NewResponseBuilder().
		Speak(text).
		Reprompt(text).
		Response(), nil
}

// StopCancelHandler says goodbye and closes the session.
type StopCancelHandler struct {
	handlerBase
}

func NewStopCancelHandler(settings domain.SkillSettings) *StopCancelHandler {
	return &StopCancelHandler{handlerBase{kind: KindStopCancel, settings: settings}}
}

func (h *StopCancelHandler) Handle(ctx context.Context, env *domain.RequestEnvelope) (*domain.Response, error) {
	return domain.NewResponseBuilder().
		Speak(h.speechFor(env).text(msgGoodbye)).
		WithShouldEndSession(true).
		Response(), nil
}

// SessionEndedHandler acknowledges the end of a session. The platform ignores any speech here.
type SessionEndedHandler struct {
	handlerBase
	log *zap.Logger
}

func NewSessionEndedHandler(settings domain.SkillSettings, log *zap.Logger) *SessionEndedHandler {
	return &SessionEndedHandler{
		handlerBase: handlerBase{kind: KindSessionEnded, settings: settings},
		log:         log,
	}
}

func (h *SessionEndedHandler) Handle(ctx context.Context, env *domain.RequestEnvelope) (*domain.Response, error) {
	fields := []zap.Field{zap.String("reason", env.Request.Reason)}
	if e := env.Request.Error; e != nil {
		fields = append(fields, zap.String("error_type", e.Type), zap.String("error_message", e.Message))
	}
	h.log.Info("Session ended", fields...)

	return domain.NewResponseBuilder().Response(), nil
}

// UnhandledHandler matches everything and must be consulted last.
type UnhandledHandler struct {
	handlerBase
}

func NewUnhandledHandler(settings domain.SkillSettings) *UnhandledHandler {
	return &UnhandledHandler{handlerBase{kind: KindUnhandled, settings: settings}}
}

func (h *UnhandledHandler) CanHandle(env *domain.RequestEnvelope) bool {
	return true
}

func (h *UnhandledHandler) Handle(ctx context.Context, env *domain.RequestEnvelope) (*domain.Response, error) {
	s := h.speechFor(env)
	text := s.text(msgUnsupported, s.nameLabel())
	return domain.NewResponseBuilder().
		Speak(text).
		Reprompt(text).
		Response(), nil
}
