package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthResponse represents the overall health response
type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Mode      string    `json:"mode,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse represents the readiness response
type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker defines a health check function
type Checker func(ctx context.Context) CheckResult

// BreakerReporter exposes a circuit breaker state ("closed", "half-open", "open" or "disabled").
type BreakerReporter interface {
	BreakerState() string
}

// ConnectionReporter is implemented by the NATS queue. Closed means the
// client gave up reconnecting.
type ConnectionReporter interface {
	Connected() bool
	Closed() bool
}

// Service handles health checks
type Service struct {
	startTime time.Time
	version   string
	mode      string
	checkers  map[string]Checker
	log       *zap.Logger
	mu        sync.RWMutex
}

// Config holds health service configuration
type Config struct {
	Version    string
	Mode       string
	ProfileAPI BreakerReporter
	Events     ConnectionReporter
}

// NewService creates a new health service
func NewService(config *Config, log *zap.Logger) *Service {
	s := &Service{
		startTime: time.Now(),
		version:   config.Version,
		mode:      config.Mode,
		checkers:  make(map[string]Checker),
		log:       log,
	}

	if config.ProfileAPI != nil {
		s.RegisterChecker("profile_api", breakerChecker("profile_api", config.ProfileAPI))
	}
	if config.Events != nil {
		s.RegisterChecker("nats", connectionChecker("nats", config.Events, log))
	}

	return s
}

// RegisterChecker registers a custom health checker
func (s *Service) RegisterChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
	s.log.Info("Registered health checker", zap.String("name", name))
}

// Health performs a basic liveness check
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Mode:      s.mode,
		Uptime:    time.Since(s.startTime).String(),
		Timestamp: time.Now(),
	}
}

// Ready runs every checker concurrently. Degraded dependencies keep the
// service ready; only an unhealthy one takes it out of rotation.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	checkers := make(map[string]Checker, len(s.checkers))
	for k, v := range s.checkers {
		checkers[k] = v
	}
	s.mu.RUnlock()

	results := make(map[string]CheckResult)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			result := checker(checkCtx)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}

	wg.Wait()

	overallStatus := StatusHealthy
	allReady := true

	for _, result := range results {
		if result.Status == StatusUnhealthy {
			overallStatus = StatusUnhealthy
			allReady = false
		} else if result.Status == StatusDegraded && overallStatus != StatusUnhealthy {
			overallStatus = StatusDegraded
		}
	}

	return &ReadyResponse{
		Ready:     allReady,
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    results,
	}
}

// breakerChecker reports an open breaker as degraded: the skill still answers
// with an apology while the profile API is failing.
func breakerChecker(name string, b BreakerReporter) Checker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		state := b.BreakerState()

		result := CheckResult{
			Name:      name,
			Status:    StatusHealthy,
			Message:   "breaker " + state,
			Timestamp: start,
		}
		if state == "open" || state == "half-open" {
			result.Status = StatusDegraded
		}
		result.Duration = time.Since(start)
		return result
	}
}

func connectionChecker(name string, c ConnectionReporter, log *zap.Logger) Checker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		result := CheckResult{
			Name:      name,
			Status:    StatusHealthy,
			Message:   "connected",
			Timestamp: start,
		}

		switch {
		case c.Closed():
			result.Status = StatusUnhealthy
			result.Message = "connection closed, reconnect attempts exhausted"
			log.Error("Health check failed", zap.String("name", name))
		case !c.Connected():
			result.Status = StatusDegraded
			result.Message = "disconnected, interaction events are being dropped"
			log.Warn("Health check degraded", zap.String("name", name))
		}
		result.Duration = time.Since(start)
		return result
	}
}
