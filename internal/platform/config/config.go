// Package config loads process configuration from the environment.
package config

import (
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	PublicBaseURL  string
	Environment    string
	RequestTimeout time.Duration
	TrustedProxies []netip.Prefix

	Database  Database
	Admin     Admin
	Share     Share
	Push      Push
	Email     Email
	RateLimit RateLimit
	Audit     Audit
	Retention Retention
	Kafka     Kafka

	DeviceCapture bool
	SeedDemo      bool
}

// Database configures the optional Postgres backing store.
// An empty URL selects the in-memory stores.
type Database struct {
	URL string
}

// Admin configures authentication for operator endpoints.
// TokenHash (bcrypt) wins over Token when both are set.
type Admin struct {
	Token     string
	TokenHash string
}

// Enabled reports whether admin endpoints can be mounted at all.
func (a Admin) Enabled() bool {
	return a.Token != "" || a.TokenHash != ""
}

// Share configures signed share-link tokens for alert lookups.
// An empty signing key disables share links.
type Share struct {
	SigningKey string
	TokenTTL   time.Duration
}

// Push configures the push notification provider.
type Push struct {
	Endpoint string
	AppID    string
	APIKey   string
	Timeout  time.Duration
}

// Configured reports whether push credentials are present.
func (p Push) Configured() bool {
	return p.AppID != "" && p.APIKey != ""
}

// Email configures the transactional email provider.
type Email struct {
	Endpoint    string
	APIKey      string
	SenderName  string
	SenderEmail string
	Timeout     time.Duration
}

// Configured reports whether email credentials are present.
func (e Email) Configured() bool {
	return e.APIKey != "" && e.SenderEmail != ""
}

// RateLimit configures the optional per-subject alert limiter.
// A zero Every disables limiting entirely.
type RateLimit struct {
	Every time.Duration
	Burst int
}

// Enabled reports whether the limiter should be wired in.
func (r RateLimit) Enabled() bool {
	return r.Every > 0
}

// Audit configures the async audit trail recorder.
type Audit struct {
	Buffer int
}

// Retention configures the audit retention sweeper.
// A non-positive MaxAge disables sweeping entirely (keep forever).
type Retention struct {
	Interval time.Duration
	MaxAge   time.Duration
}

// Kafka configures optional alert event publishing.
// Empty Brokers disables publishing.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether event publishing should be wired in.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:           env("LIFELINE_ADDR", ":8080"),
		PublicBaseURL:  strings.TrimRight(env("LIFELINE_PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		Environment:    env("LIFELINE_ENV", "dev"),
		RequestTimeout: envDuration("LIFELINE_REQUEST_TIMEOUT", 30*time.Second),
		TrustedProxies: envPrefixes("LIFELINE_TRUSTED_PROXIES"),
		Database: Database{
			URL: os.Getenv("LIFELINE_DATABASE_URL"),
		},
		Admin: Admin{
			Token:     os.Getenv("LIFELINE_ADMIN_TOKEN"),
			TokenHash: os.Getenv("LIFELINE_ADMIN_TOKEN_HASH"),
		},
		Share: Share{
			SigningKey: os.Getenv("LIFELINE_SHARE_SIGNING_KEY"),
			TokenTTL:   envDuration("LIFELINE_SHARE_TOKEN_TTL", 24*time.Hour),
		},
		Push: Push{
			Endpoint: env("LIFELINE_PUSH_ENDPOINT", "https://onesignal.com/api/v1"),
			AppID:    os.Getenv("LIFELINE_PUSH_APP_ID"),
			APIKey:   os.Getenv("LIFELINE_PUSH_API_KEY"),
			Timeout:  envDuration("LIFELINE_PUSH_TIMEOUT", 5*time.Second),
		},
		Email: Email{
			Endpoint:    env("LIFELINE_EMAIL_ENDPOINT", "https://api.brevo.com/v3/smtp/email"),
			APIKey:      os.Getenv("LIFELINE_EMAIL_API_KEY"),
			SenderName:  env("LIFELINE_EMAIL_SENDER_NAME", "Lifeline Alerts"),
			SenderEmail: os.Getenv("LIFELINE_EMAIL_SENDER_EMAIL"),
			Timeout:     envDuration("LIFELINE_EMAIL_TIMEOUT", 5*time.Second),
		},
		RateLimit: RateLimit{
			Every: envDuration("LIFELINE_RATELIMIT_EVERY", 0),
			Burst: envInt("LIFELINE_RATELIMIT_BURST", 3),
		},
		Audit: Audit{
			Buffer: envInt("LIFELINE_AUDIT_BUFFER", 256),
		},
		Retention: Retention{
			Interval: envDuration("LIFELINE_RETENTION_INTERVAL", time.Hour),
			MaxAge:   envDuration("LIFELINE_RETENTION_MAX_AGE", 0),
		},
		Kafka: Kafka{
			Brokers: envList("LIFELINE_KAFKA_BROKERS"),
			Topic:   env("LIFELINE_KAFKA_TOPIC", "lifeline.alerts"),
		},
		DeviceCapture: envBool("LIFELINE_DEVICE_CAPTURE", true),
		SeedDemo:      envBool("LIFELINE_SEED_DEMO", false),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// envPrefixes parses a comma-separated list of CIDR prefixes.
// Malformed entries are dropped; the metadata middleware treats an empty
// list as "trust no proxy", which is the safe default.
func envPrefixes(key string) []netip.Prefix {
	var prefixes []netip.Prefix
	for _, entry := range envList(key) {
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			prefixes = append(prefixes, prefix)
		}
	}
	return prefixes
}
