package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	SeedFile        string        // path to an optional subscriptions.yaml seed file (empty = seeding disabled)
	ReloadInterval  time.Duration // interval to reload the seed file (default: 24h)
	DefaultCurrency string        // currency used when a record omits one (default: EUR)

	ReminderWindow time.Duration // look-ahead window for the reminder sweep (default: 168h = 7 days)
	SweepInterval  time.Duration // interval between reminder sweeps (default: 6h)
	UrgentDays     int           // entries due within this many days are flagged urgent (default: 3)

	PurgeInterval  time.Duration // interval between purge runs for soft-deleted records (default: 24h)
	PurgeThreshold time.Duration // how long a soft-deleted record survives before purge (default: 720h = 30 days)

	// AI assist (optional; empty key disables the feature)
	OpenAIKey     string // API key for the OpenAI-compatible endpoint
	OpenAIModel   string // model name (default: gpt-4o-mini)
	OpenAIBaseURL string // override for self-hosted gateways (default: https://api.openai.com/v1)

	// Email reminders (optional; empty key falls back to log-only notifications)
	SendGridKey  string // SendGrid API key
	ReminderFrom string // sender address for reminder mail
	ReminderTo   string // recipient address for reminder mail

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedCIDRS []string // optional, restrict /api/reload and /infra to specific IPs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SUBTRACK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SUBTRACK_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SUBTRACK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SUBTRACK_PRETTY_LOG", true),

		// Seed file
		SeedFile:        getenv("SUBTRACK_SEED_FILE", ""), // Optional, empty = seeding disabled
		ReloadInterval:  mustDuration("SUBTRACK_RELOAD_INTERVAL", 24*time.Hour),
		DefaultCurrency: getenv("SUBTRACK_DEFAULT_CURRENCY", "EUR"),

		// Reminder sweep
		ReminderWindow: mustDuration("SUBTRACK_REMINDER_WINDOW", 7*24*time.Hour),
		SweepInterval:  mustDuration("SUBTRACK_SWEEP_INTERVAL", 6*time.Hour),
		UrgentDays:     getenvInt("SUBTRACK_URGENT_DAYS", 3),

		// Purge of soft-deleted subscriptions
		PurgeInterval:  mustDuration("SUBTRACK_PURGE_INTERVAL", 24*time.Hour),
		PurgeThreshold: mustDuration("SUBTRACK_PURGE_THRESHOLD", 30*24*time.Hour),

		// AI assist
		OpenAIKey:     getenv("SUBTRACK_OPENAI_API_KEY", ""),
		OpenAIModel:   getenv("SUBTRACK_OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getenv("SUBTRACK_OPENAI_BASE_URL", "https://api.openai.com/v1"),

		// Email reminders
		SendGridKey:  getenv("SUBTRACK_SENDGRID_API_KEY", ""),
		ReminderFrom: getenv("SUBTRACK_REMINDER_FROM", ""),
		ReminderTo:   getenv("SUBTRACK_REMINDER_TO", ""),

		// Redis settings
		RedisAddr:             requireEnv("SUBTRACK_REDIS_ADDR"),
		RedisUser:             getenv("SUBTRACK_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("SUBTRACK_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("SUBTRACK_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("SUBTRACK_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedCIDRS: splitAndTrim(getenv("SUBTRACK_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("SUBTRACK_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: SUBTRACK_REDIS_PASSWORD is required when SUBTRACK_REDIS_PASSWORD_REQUIRED=true")
	}

	// Email reminders need both addresses once a key is set
	if cfg.SendGridKey != "" && (cfg.ReminderFrom == "" || cfg.ReminderTo == "") {
		panic("❌ FATAL: SUBTRACK_REMINDER_FROM and SUBTRACK_REMINDER_TO are required when SUBTRACK_SENDGRID_API_KEY is set")
	}

	if cfg.UrgentDays < 0 {
		cfg.UrgentDays = 0
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.OpenAIKey != "" {
			cfgCopy.OpenAIKey = "***REDACTED***"
		}
		if cfg.SendGridKey != "" {
			cfgCopy.SendGridKey = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// WindowDays converts the reminder window to whole calendar days.
func (c *Config) WindowDays() int {
	days := int(c.ReminderWindow / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
