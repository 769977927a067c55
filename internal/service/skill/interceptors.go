package skill

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-profile-skill/internal/adapter/queue"
	"github.com/seu-repo/voice-profile-skill/internal/domain"
	"github.com/seu-repo/voice-profile-skill/internal/observability/telemetry"
)

// Dispatch outcomes, also used as metric labels.
const (
	OutcomeOK               = "ok"
	OutcomePermissionDenied = "permission_denied"
	OutcomeServiceError     = "service_error"
	OutcomeError            = "error"
)

// Interaction summarizes one dispatched request for response interceptors.
type Interaction struct {
	Kind     RequestKind
	Outcome  string
	Duration time.Duration
}

// RequestInterceptor runs before the handler. Interceptors must not fail the request.
type RequestInterceptor interface {
	ProcessRequest(ctx context.Context, env *domain.RequestEnvelope)
}

type ResponseInterceptor interface {
	ProcessResponse(ctx context.Context, env *domain.RequestEnvelope, resp *domain.Response, in Interaction)
}

// RequestInterceptorFunc adapts a function to RequestInterceptor.
type RequestInterceptorFunc func(ctx context.Context, env *domain.RequestEnvelope)

func (f RequestInterceptorFunc) ProcessRequest(ctx context.Context, env *domain.RequestEnvelope) {
	f(ctx, env)
}

type ResponseInterceptorFunc func(ctx context.Context, env *domain.RequestEnvelope, resp *domain.Response, in Interaction)

func (f ResponseInterceptorFunc) ProcessResponse(ctx context.Context, env *domain.RequestEnvelope, resp *domain.Response, in Interaction) {
	f(ctx, env, resp, in)
}

// LogRequestInterceptor logs the inbound envelope with the access token redacted.
type LogRequestInterceptor struct {
	log *zap.Logger
}

func NewLogRequestInterceptor(log *zap.Logger) *LogRequestInterceptor {
	return &LogRequestInterceptor{log: log}
}

func (i *LogRequestInterceptor) ProcessRequest(ctx context.Context, env *domain.RequestEnvelope) {
	redacted := *env
	if redacted.Context.System.APIAccessToken != "" {
		redacted.Context.System.APIAccessToken = "[REDACTED]"
	}

	body, err := encodeLogJSON(redacted)
	if err != nil {
		i.log.Warn("Could not encode request envelope", zap.Error(err))
		return
	}
	i.log.Info("Request received",
		zap.String("request_id", env.Request.RequestID),
		zap.String("type", env.RequestType()),
		zap.ByteString("envelope", body),
	)
}

type LogResponseInterceptor struct {
	log *zap.Logger
}

func NewLogResponseInterceptor(log *zap.Logger) *LogResponseInterceptor {
	return &LogResponseInterceptor{log: log}
}

func (i *LogResponseInterceptor) ProcessResponse(ctx context.Context, env *domain.RequestEnvelope, resp *domain.Response, in Interaction) {
	body, err := encodeLogJSON(resp)
	if err != nil {
		i.log.Warn("Could not encode response", zap.Error(err))
		return
	}
	i.log.Info("Response sent",
		zap.String("request_id", env.Request.RequestID),
		zap.String("kind", in.Kind.String()),
		zap.String("outcome", in.Outcome),
		zap.Duration("duration", in.Duration),
		zap.ByteString("response", body),
	)
}

// encodeLogJSON keeps SSML markup readable in log lines.
func encodeLogJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// InteractionEvent is what EventInterceptor publishes. It carries no profile data.
type InteractionEvent struct {
	ID        string    `json:"id"`
	RequestID string    `json:"requestId"`
	Kind      string    `json:"kind"`
	Outcome   string    `json:"outcome"`
	Locale    string    `json:"locale"`
	Timestamp time.Time `json:"timestamp"`
}

// EventInterceptor publishes an InteractionEvent per response. Publish failures are only logged.
type EventInterceptor struct {
	mq      queue.MessageQueue
	subject string
	log     *zap.Logger
	now     func() time.Time
}

func NewEventInterceptor(mq queue.MessageQueue, subject string, log *zap.Logger) *EventInterceptor {
	return &EventInterceptor{
		mq:      mq,
		subject: subject,
		log:     log,
		now:     time.Now,
	}
}

func (i *EventInterceptor) ProcessResponse(ctx context.Context, env *domain.RequestEnvelope, resp *domain.Response, in Interaction) {
	event := InteractionEvent{
		ID:        uuid.NewString(),
		RequestID: env.Request.RequestID,
		Kind:      in.Kind.String(),
		Outcome:   in.Outcome,
		Locale:    env.Locale(),
		Timestamp: i.now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		telemetry.EventsPublishedTotal.WithLabelValues("error").Inc()
		i.log.Error("Failed to encode interaction event", zap.Error(err))
		return
	}

	if err := i.mq.Publish(i.subject, data); err != nil {
		telemetry.EventsPublishedTotal.WithLabelValues("error").Inc()
		i.log.Warn("Failed to publish interaction event",
			zap.String("subject", i.subject),
			zap.Error(err),
		)
		return
	}
	telemetry.EventsPublishedTotal.WithLabelValues("ok").Inc()
}
