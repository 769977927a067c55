package middleware

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-profile-skill/pkg/config"
)

const envelopeForApp = `{"version":"1.0","context":{"System":{"application":{"applicationId":"amzn1.ask.skill.ours"}}},"request":{"type":"LaunchRequest"}}`

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Post("/skill", handlers...)
	return app
}

func ok(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

func post(t *testing.T, app *fiber.App, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/skill", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(data)
}

func TestVerifyApplicationID(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		body    string
		want    int
	}{
		{"disabled", nil, `{}`, fiber.StatusOK},
		{"known id", []string{"amzn1.ask.skill.ours"}, envelopeForApp, fiber.StatusOK},
		{"unknown id", []string{"amzn1.ask.skill.other"}, envelopeForApp, fiber.StatusForbidden},
		{"session fallback", []string{"amzn1.ask.skill.ours"},
			`{"session":{"application":{"applicationId":"amzn1.ask.skill.ours"}},"request":{"type":"LaunchRequest"}}`, fiber.StatusOK},
		{"malformed", []string{"amzn1.ask.skill.ours"}, `{not json`, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(VerifyApplicationID(tt.allowed), ok)

			status, _ := post(t, app, tt.body)

			if status != tt.want {
				t.Errorf("expected %d, got %d", tt.want, status)
			}
		})
	}
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	app := newApp(func(c *fiber.Ctx) error {
		return errors.New("dial tcp 10.0.0.1: secret detail")
	})

	status, body := post(t, app, `{}`)

	if status != fiber.StatusInternalServerError {
		t.Errorf("expected 500, got %d", status)
	}
	if strings.Contains(body, "secret detail") {
		t.Errorf("response leaked error text: %s", body)
	}
}

func TestErrorHandler_KeepsClientErrors(t *testing.T) {
	app := newApp(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTooManyRequests, "Slow down")
	})

	status, body := post(t, app, `{}`)

	if status != fiber.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", status)
	}
	if !strings.Contains(body, "Slow down") {
		t.Errorf("expected client error message, got %s", body)
	}
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	// Arrange
	cfg := config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}
	calls := 0
	app := newApp(CircuitBreaker(cfg, zap.NewNop()), func(c *fiber.Ctx) error {
		calls++
		return errors.New("downstream failed")
	})

	// Act
	for i := 0; i < 2; i++ {
		if status, _ := post(t, app, `{}`); status != fiber.StatusInternalServerError {
			t.Fatalf("expected 500 before tripping, got %d", status)
		}
	}
	status, _ := post(t, app, `{}`)

	// Assert
	if status != fiber.StatusServiceUnavailable {
		t.Errorf("expected 503 once open, got %d", status)
	}
	if calls != 2 {
		t.Errorf("expected open breaker to skip the handler, got %d calls", calls)
	}
}

func TestCircuitBreaker_Disabled(t *testing.T) {
	app := newApp(CircuitBreaker(config.CircuitBreakerConfig{}, zap.NewNop()), ok)

	if status, _ := post(t, app, `{}`); status != fiber.StatusOK {
		t.Errorf("expected 200, got %d", status)
	}
}

func TestRateLimit(t *testing.T) {
	app := newApp(RateLimit(config.RateLimitingConfig{Enabled: true, MaxRequests: 2, Window: time.Minute}), ok)

	for i := 0; i < 2; i++ {
		if status, _ := post(t, app, `{}`); status != fiber.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, status)
		}
	}
	if status, _ := post(t, app, `{}`); status != fiber.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", status)
	}
}

func TestRateLimit_PerUser(t *testing.T) {
	app := newApp(RateLimit(config.RateLimitingConfig{Enabled: true, MaxRequests: 1, Window: time.Minute}), ok)
	alice := `{"context":{"System":{"user":{"userId":"amzn1.ask.account.alice"}}},"request":{"type":"LaunchRequest"}}`
	bob := `{"session":{"user":{"userId":"amzn1.ask.account.bob"}},"request":{"type":"LaunchRequest"}}`

	// All requests share one source address in app.Test.
	if status, _ := post(t, app, alice); status != fiber.StatusOK {
		t.Fatalf("alice: expected 200, got %d", status)
	}
	if status, _ := post(t, app, bob); status != fiber.StatusOK {
		t.Fatalf("bob: expected 200, got %d", status)
	}
	if status, _ := post(t, app, alice); status != fiber.StatusTooManyRequests {
		t.Errorf("alice again: expected 429, got %d", status)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	app := newApp(RateLimit(config.RateLimitingConfig{Enabled: false, MaxRequests: 1, Window: time.Minute}), ok)

	for i := 0; i < 3; i++ {
		if status, _ := post(t, app, `{}`); status != fiber.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, status)
		}
	}
}
