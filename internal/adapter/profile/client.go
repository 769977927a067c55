package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-profile-skill/internal/domain"
	"github.com/seu-repo/voice-profile-skill/internal/observability/telemetry"
	"github.com/seu-repo/voice-profile-skill/pkg/config"
)

const (
	pathFullName     = "/v2/persons/~current/profile/name"
	pathGivenName    = "/v2/persons/~current/profile/givenName"
	pathMobileNumber = "/v2/persons/~current/profile/mobileNumber"

	maxErrorBody = 4 << 10
)

var ErrEndpointNotAllowed = errors.New("profile: api endpoint not allowed")

// Client calls the person-level Customer Profile API.
type Client struct {
	httpClient   *http.Client
	breaker      *gobreaker.CircuitBreaker
	userAgent    string
	allowedHosts map[string]struct{}
	log          *zap.Logger
}

// NewClient builds a client from config. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg config.ProfileAPIConfig, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedHosts))
	for _, h := range cfg.AllowedHosts {
		allowed[strings.ToLower(h)] = struct{}{}
	}

	c := &Client{
		httpClient:   httpClient,
		userAgent:    cfg.UserAgent,
		allowedHosts: allowed,
		log:          log,
	}
	if cfg.Breaker.Enabled {
		c.breaker = newBreaker(cfg.Breaker, log)
	}
	return c
}

func newBreaker(cfg config.CircuitBreakerConfig, log *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "profile-api",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests || counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: countsAsSuccess,
	})
}

// countsAsSuccess keeps answers about the user (403 not granted, 404...) from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	se, ok := domain.AsServiceError(err)
	if !ok {
		return false
	}
	return se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests
}

// BreakerState reports the breaker state for health checks ("disabled" without a breaker).
func (c *Client) BreakerState() string {
	if c.breaker == nil {
		return "disabled"
	}
	return c.breaker.State().String()
}

func (c *Client) FullName(ctx context.Context, access domain.APIAccess) (string, error) {
	var name *string
	if err := c.get(ctx, access, "name", pathFullName, &name); err != nil {
		return "", err
	}
	if name == nil {
		return "", nil
	}
	return *name, nil
}

func (c *Client) GivenName(ctx context.Context, access domain.APIAccess) (string, error) {
	var name *string
	if err := c.get(ctx, access, "given_name", pathGivenName, &name); err != nil {
		return "", err
	}
	if name == nil {
		return "", nil
	}
	return *name, nil
}

func (c *Client) MobileNumber(ctx context.Context, access domain.APIAccess) (*domain.MobileNumber, error) {
	var number *domain.MobileNumber
	if err := c.get(ctx, access, "mobile_number", pathMobileNumber, &number); err != nil {
		return nil, err
	}
	if number.IsEmpty() {
		return nil, nil
	}
	return number, nil
}

// get decodes the body into out. 204 leaves out untouched.
func (c *Client) get(ctx context.Context, access domain.APIAccess, lookup, path string, out interface{}) error {
	endpoint, err := c.resolve(access.Endpoint, path)
	if err != nil {
		telemetry.ProfileAPIRequestsTotal.WithLabelValues(lookup, "rejected").Inc()
		return err
	}

	start := time.Now()
	body, err := c.execute(func() ([]byte, error) {
		return c.do(ctx, endpoint, access.Token)
	})
	telemetry.ProfileAPILatency.WithLabelValues(lookup).Observe(time.Since(start).Seconds())

	if err != nil {
		if se, ok := domain.AsServiceError(err); ok {
			telemetry.ProfileAPIRequestsTotal.WithLabelValues(lookup, strconv.Itoa(se.StatusCode)).Inc()
			return se
		}
		telemetry.ProfileAPIRequestsTotal.WithLabelValues(lookup, "error").Inc()
		return fmt.Errorf("profile: %s lookup: %w", lookup, err)
	}

	telemetry.ProfileAPIRequestsTotal.WithLabelValues(lookup, "ok").Inc()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("profile: decode %s: %w", lookup, err)
	}
	return nil
}

func (c *Client) execute(fn func() ([]byte, error)) ([]byte, error) {
	if c.breaker == nil {
		return fn()
	}
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (c *Client) do(ctx context.Context, endpoint, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return body, nil
	default:
		var apiErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		json.Unmarshal(raw, &apiErr)
		return nil, domain.NewServiceError(resp.StatusCode, apiErr.Message)
	}
}

func (c *Client) resolve(apiEndpoint, path string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(apiEndpoint, "/"))
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrEndpointNotAllowed, apiEndpoint)
	}
	if len(c.allowedHosts) > 0 {
		if _, ok := c.allowedHosts[strings.ToLower(u.Hostname())]; !ok {
			c.log.Warn("Rejected profile API endpoint", zap.String("host", u.Host))
			return "", fmt.Errorf("%w: %q", ErrEndpointNotAllowed, u.Host)
		}
	}
	return u.String() + path, nil
}
