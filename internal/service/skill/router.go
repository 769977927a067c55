package skill

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-profile-skill/internal/domain"
	"github.com/seu-repo/voice-profile-skill/internal/observability/telemetry"
	"github.com/seu-repo/voice-profile-skill/internal/ports"
)

// Router classifies each envelope and dispatches it to exactly one handler.
// It holds no per-request state and is safe for concurrent use once built.
type Router struct {
	settings     domain.SkillSettings
	handlers     map[RequestKind]RequestHandler
	fallback     RequestHandler
	errorHandler *ProfileErrorHandler
	requestInts  []RequestInterceptor
	responseInts []ResponseInterceptor
	tracer       trace.Tracer
	log          *zap.Logger
}

func NewRouter(settings domain.SkillSettings, profiles ports.ProfileClient, log *zap.Logger) *Router {
	r := &Router{
		settings:     settings,
		handlers:     make(map[RequestKind]RequestHandler),
		fallback:     NewUnhandledHandler(settings),
		errorHandler: NewProfileErrorHandler(settings, log),
		tracer:       otel.Tracer("voice-profile-skill/skill"),
		log:          log,
	}

	r.Register(NewLaunchHandler(settings))
	r.Register(NewNumberHandler(settings, profiles, log))
	r.Register(NewHelpHandler(settings))
	r.Register(NewStopCancelHandler(settings))
	r.Register(NewSessionEndedHandler(settings, log))

	// Only the name intent of the active mode gets a handler.
	switch settings.Mode() {
	case domain.ModeFullName:
		r.Register(NewFullNameHandler(settings, profiles, log))
	default:
		r.Register(NewGivenNameHandler(settings, profiles, log))
	}

	return r
}

// Register replaces the handler for h.Kind(). Call it before serving requests.
func (r *Router) Register(h RequestHandler) {
	if h.Kind() == KindUnhandled {
		r.fallback = h
		return
	}
	r.handlers[h.Kind()] = h
}

func (r *Router) AddRequestInterceptors(interceptors ...RequestInterceptor) {
	r.requestInts = append(r.requestInts, interceptors...)
}

func (r *Router) AddResponseInterceptors(interceptors ...ResponseInterceptor) {
	r.responseInts = append(r.responseInts, interceptors...)
}

// Dispatch produces the response envelope for env. Profile API failures are
// answered with speech; any other handler error is returned.
func (r *Router) Dispatch(ctx context.Context, env *domain.RequestEnvelope) (*domain.ResponseEnvelope, error) {
	if env == nil {
		return nil, domain.ErrInvalidEnvelope
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	kind := Classify(env, r.settings.Mode())

	ctx, span := r.tracer.Start(ctx, "skill.dispatch", trace.WithAttributes(
		attribute.String("skill.request_type", env.RequestType()),
		attribute.String("skill.intent", env.IntentName()),
		attribute.String("skill.kind", kind.String()),
		attribute.String("skill.mode", string(r.settings.Mode())),
	))
	defer span.End()

	r.runRequestInterceptors(ctx, env)

	resp, err := r.handlerFor(kind, env).Handle(ctx, env)
	outcome := OutcomeOK
	if err != nil {
		if !r.errorHandler.CanHandle(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "handler failed")
			telemetry.SkillRequestsTotal.WithLabelValues(kind.String(), OutcomeError).Inc()
			r.log.Error("Handler failed",
				zap.String("kind", kind.String()),
				zap.String("request_id", env.Request.RequestID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("skill: dispatch %s: %w", kind, err)
		}

		outcome = OutcomeServiceError
		if se, _ := domain.AsServiceError(err); se.PermissionDenied() {
			outcome = OutcomePermissionDenied
		}
		span.SetAttributes(attribute.String("skill.profile_error", outcome))
		resp = r.errorHandler.Handle(ctx, env, err)
	}

	duration := time.Since(start)
	r.runResponseInterceptors(ctx, env, resp, Interaction{Kind: kind, Outcome: outcome, Duration: duration})

	telemetry.SkillRequestsTotal.WithLabelValues(kind.String(), outcome).Inc()
	telemetry.SkillDispatchDuration.Observe(duration.Seconds())

	return domain.NewResponseEnvelope(resp), nil
}

func (r *Router) handlerFor(kind RequestKind, env *domain.RequestEnvelope) RequestHandler {
	if h, ok := r.handlers[kind]; ok && h.CanHandle(env) {
		return h
	}
	return r.fallback
}

func (r *Router) runRequestInterceptors(ctx context.Context, env *domain.RequestEnvelope) {
	for _, i := range r.requestInts {
		r.guard("request", func() { i.ProcessRequest(ctx, env) })
	}
}

func (r *Router) runResponseInterceptors(ctx context.Context, env *domain.RequestEnvelope, resp *domain.Response, in Interaction) {
	for _, i := range r.responseInts {
		r.guard("response", func() { i.ProcessResponse(ctx, env, resp, in) })
	}
}

// guard keeps a misbehaving interceptor from failing the request.
func (r *Router) guard(stage string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Interceptor panicked",
				zap.String("stage", stage),
				zap.Any("panic", rec),
			)
		}
	}()
	fn()
}
