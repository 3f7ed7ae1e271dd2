package profile

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Driver is the key-value store driver (redis or memory)
	Driver string
	// LogLevel is the slog level (debug, info, warn, error)
	LogLevel string
	// Version is the current version of server
	Version string

	// Redis configuration
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RedisPoolSize     int
	RedisMinIdleConns int

	// SessionTTL is the write TTL applied to session documents.
	// Zero keeps documents forever.
	SessionTTL time.Duration

	// AI configuration
	AIAPIKey     string
	AIBaseURL    string
	AIModel      string
	AITimeout    time.Duration
	AIMaxRetries int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// ListenAddr returns the host:port pair the server binds to.
func (p *Profile) ListenAddr() string {
	return fmt.Sprintf("%s:%d", p.Addr, p.Port)
}

// Validate checks the profile for unusable combinations and fills defaults.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		p.Mode = "dev"
	}
	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port: %d", p.Port)
	}
	switch p.Driver {
	case "redis":
		if p.RedisAddr == "" {
			return errors.New("redis driver requires a redis address")
		}
	case "memory":
	default:
		return errors.Errorf("unknown store driver: %q", p.Driver)
	}
	if p.SessionTTL < 0 {
		return errors.Errorf("session TTL must not be negative: %s", p.SessionTTL)
	}
	if p.AITimeout == 0 {
		p.AITimeout = 15 * time.Second
	}
	if p.AIMaxRetries == 0 {
		p.AIMaxRetries = 3
	}
	return nil
}
