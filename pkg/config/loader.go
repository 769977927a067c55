package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads config.yaml from the usual locations, then applies environment overrides.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AddConfigPath("/app/configs")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// env vars and defaults only
	}

	return unmarshal(v)
}

// LoadFile reads the given file instead of searching for config.yaml.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow common env vars without APP_ prefix for container deploys
	v.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	v.BindEnv("skill.mode", "SKILL_MODE", "APP_SKILL_MODE")
	v.BindEnv("nats.url", "NATS_URL", "APP_NATS_URL")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("logging.level", "LOG_LEVEL")

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "voice-profile-skill")
	v.SetDefault("app.version", "v1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.skill_path", "/skill")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)

	v.SetDefault("skill.mode", "fullname")

	v.SetDefault("profile_api.user_agent", "cookbook/customer-profile/v1")
	v.SetDefault("profile_api.timeout", 5*time.Second)
	v.SetDefault("profile_api.allowed_hosts", []string{
		"api.amazonalexa.com",
		"api.eu.amazonalexa.com",
		"api.fe.amazonalexa.com",
	})
	v.SetDefault("profile_api.breaker.enabled", true)
	v.SetDefault("profile_api.breaker.max_requests", 3)
	v.SetDefault("profile_api.breaker.interval", time.Minute)
	v.SetDefault("profile_api.breaker.timeout", 30*time.Second)
	v.SetDefault("profile_api.breaker.min_requests", 5)
	v.SetDefault("profile_api.breaker.failure_threshold", 0.6)

	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", 2*time.Second)
	v.SetDefault("nats.timeout", 5*time.Second)

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.subject", "skill.interactions")

	v.SetDefault("opentelemetry.enabled", false)
	v.SetDefault("opentelemetry.service_name", "voice-profile-skill")
	v.SetDefault("opentelemetry.jaeger.endpoint", "http://jaeger:14268/api/traces")
	v.SetDefault("opentelemetry.jaeger.sampler_param", 1.0)

	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("rate_limiting.enabled", true)
	v.SetDefault("rate_limiting.max_requests", 100)
	v.SetDefault("rate_limiting.window", time.Minute)

	v.SetDefault("circuit_breaker.enabled", true)
	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", time.Minute)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.min_requests", 3)
	v.SetDefault("circuit_breaker.failure_threshold", 0.6)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late at start-up.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Skill.Mode) {
	case "fullname", "givenname":
	default:
		return fmt.Errorf("invalid config: skill.mode must be fullname or givenname, got %q", c.Skill.Mode)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid config: http.port %d out of range", c.HTTP.Port)
	}
	if !strings.HasPrefix(c.HTTP.SkillPath, "/") {
		return errors.New("invalid config: http.skill_path must start with /")
	}
	if c.Events.Enabled && c.NATS.URL == "" {
		return errors.New("invalid config: events.enabled requires nats.url")
	}
	return nil
}
