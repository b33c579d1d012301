package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/subtrack/internal/ai"
	"github.com/MrSnakeDoc/subtrack/internal/index"
	"github.com/MrSnakeDoc/subtrack/internal/logger"
	redisstore "github.com/MrSnakeDoc/subtrack/internal/store/redis"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TimeNow         func() time.Time   // for testing, defaults to time.Now
	AllowedCIDRS    []string           // IPs allowed to access reload/infra endpoints
	TrustProxy      bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RedisClient     *redis.Client      // Redis client connection (nil in tests)
	Store           *redisstore.Store  // durable subscription store (nil in tests)
	MemoryIndex     *index.MemoryIndex // in-memory subscription collection
	Assistant       ai.Client          // AI assist client (nil when no API key configured)
	ReloadTrigger   chan struct{}      // channel to trigger a manual seed reload (nil if seeding disabled)
	WindowDays      int                // default look-ahead window for /api/upcoming
	UrgentDays      int                // entries due within this many days are flagged urgent
	DefaultCurrency string             // currency applied when a request omits one
}

// Now returns the injected clock, falling back to time.Now.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
