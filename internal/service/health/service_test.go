package health

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type fakeBreaker string

func (f fakeBreaker) BreakerState() string {
	return string(f)
}

type fakeConn struct {
	connected bool
	closed    bool
}

func (f fakeConn) Connected() bool {
	return f.connected
}

func (f fakeConn) Closed() bool {
	return f.closed
}

func TestReady_AllHealthy(t *testing.T) {
	svc := NewService(&Config{ProfileAPI: fakeBreaker("closed"), Events: fakeConn{connected: true}}, zap.NewNop())

	resp := svc.Ready(context.Background())

	if !resp.Ready || resp.Status != StatusHealthy {
		t.Errorf("expected ready/healthy, got %v/%s", resp.Ready, resp.Status)
	}
	if len(resp.Checks) != 2 {
		t.Errorf("expected 2 checks, got %d", len(resp.Checks))
	}
}

func TestReady_OpenBreakerIsDegraded(t *testing.T) {
	svc := NewService(&Config{ProfileAPI: fakeBreaker("open")}, zap.NewNop())

	resp := svc.Ready(context.Background())

	if !resp.Ready {
		t.Error("a degraded profile API must not take the skill out of rotation")
	}
	if resp.Status != StatusDegraded {
		t.Errorf("expected degraded, got %s", resp.Status)
	}
	if resp.Checks["profile_api"].Message != "breaker open" {
		t.Errorf("unexpected message %q", resp.Checks["profile_api"].Message)
	}
}

func TestReady_DisconnectedNATSIsDegraded(t *testing.T) {
	svc := NewService(&Config{Events: fakeConn{}}, zap.NewNop())

	resp := svc.Ready(context.Background())

	if resp.Checks["nats"].Status != StatusDegraded {
		t.Errorf("expected degraded nats check, got %s", resp.Checks["nats"].Status)
	}
	if !resp.Ready {
		t.Error("a reconnecting NATS client must keep the skill ready")
	}
}

func TestReady_ClosedNATSIsUnhealthy(t *testing.T) {
	// Arrange
	svc := NewService(&Config{ProfileAPI: fakeBreaker("closed"), Events: fakeConn{closed: true}}, zap.NewNop())
	app := fiber.New()
	NewFiberHandler(svc).RegisterRoutes(app)

	// Act
	resp := svc.Ready(context.Background())
	httpResp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil))

	// Assert
	if resp.Ready || resp.Status != StatusUnhealthy {
		t.Errorf("expected not ready/unhealthy, got %v/%s", resp.Ready, resp.Status)
	}
	if resp.Checks["nats"].Status != StatusUnhealthy {
		t.Errorf("expected unhealthy nats check, got %s", resp.Checks["nats"].Status)
	}
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if httpResp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", httpResp.StatusCode)
	}
}

func TestReady_UnhealthyChecker(t *testing.T) {
	svc := NewService(&Config{}, zap.NewNop())
	svc.RegisterChecker("custom", func(ctx context.Context) CheckResult {
		return CheckResult{Name: "custom", Status: StatusUnhealthy, Timestamp: time.Now()}
	})

	resp := svc.Ready(context.Background())

	if resp.Ready || resp.Status != StatusUnhealthy {
		t.Errorf("expected not ready/unhealthy, got %v/%s", resp.Ready, resp.Status)
	}
}

func TestFiberHandler_Routes(t *testing.T) {
	// Arrange
	svc := NewService(&Config{Version: "1.2.3", Mode: "fullname", ProfileAPI: fakeBreaker("closed")}, zap.NewNop())
	svc.RegisterChecker("broken", func(ctx context.Context) CheckResult {
		return CheckResult{Name: "broken", Status: StatusUnhealthy}
	})
	app := fiber.New()
	NewFiberHandler(svc).RegisterRoutes(app)

	// Act / Assert
	for path, want := range map[string]int{
		"/health":       fiber.StatusOK,
		"/health/live":  fiber.StatusOK,
		"/health/ready": fiber.StatusServiceUnavailable,
	} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if resp.StatusCode != want {
			t.Errorf("%s: expected %d, got %d", path, want, resp.StatusCode)
		}
	}

	resp, _ := app.Test(httptest.NewRequest("GET", "/health", nil))
	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Version != "1.2.3" || body.Mode != "fullname" {
		t.Errorf("unexpected health body %+v", body)
	}
}
