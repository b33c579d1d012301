package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/subtrack/internal/ai"
	"github.com/MrSnakeDoc/subtrack/internal/config"
	"github.com/MrSnakeDoc/subtrack/internal/httpserver"
	"github.com/MrSnakeDoc/subtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/subtrack/internal/index"
	"github.com/MrSnakeDoc/subtrack/internal/logger"
	"github.com/MrSnakeDoc/subtrack/internal/notify"
	"github.com/MrSnakeDoc/subtrack/internal/redis"
	"github.com/MrSnakeDoc/subtrack/internal/scheduler"
	"github.com/MrSnakeDoc/subtrack/internal/sources/seed"
	redisstore "github.com/MrSnakeDoc/subtrack/internal/store/redis"
	"github.com/MrSnakeDoc/subtrack/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memIndex    *index.MemoryIndex
	reloader    *scheduler.SeedReloader
	sweep       *scheduler.ReminderSweep
	purger      *scheduler.Purger
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	memIndex := index.NewMemoryIndex()
	store := redisstore.NewStore(redisClient)

	// Load persisted subscriptions into memory on startup
	syncer := scheduler.NewRedisSyncer(store, memIndex, loggerClient)
	if err := syncer.Sync(context.Background()); err != nil {
		loggerClient.Warn("failed to sync from redis on startup, starting with an empty collection",
			logger.Error(err))
	}

	// Initialize seed reloader (if a seed file is configured)
	var reloader *scheduler.SeedReloader
	var reloadTrigger chan struct{}
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, initializing seed reloader",
			logger.String("file", cfg.SeedFile))
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewSeedReloader(
			seed.NewLoader(cfg.SeedFile),
			seed.NewMapper(cfg.DefaultCurrency),
			store,
			memIndex,
			loggerClient,
			cfg.ReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("seed file not configured, seeding disabled")
	}

	// Initialize AI assistant (if an API key is configured)
	var assistant ai.Client
	if cfg.OpenAIKey != "" {
		assistant, err = ai.New(ai.Config{
			APIKey:  cfg.OpenAIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			loggerClient.Warn("AI assist disabled",
				logger.Error(err))
			assistant = nil
		} else {
			loggerClient.Info("AI assist enabled",
				logger.String("model", cfg.OpenAIModel))
		}
	} else {
		loggerClient.Info("AI assist not configured")
	}

	// Pick the notifier: mail when SendGrid is configured, log-only otherwise
	var notifier notify.Notifier
	if cfg.SendGridKey != "" {
		mailer, err := notify.NewEmailNotifier(cfg.SendGridKey, cfg.ReminderFrom, cfg.ReminderTo)
		if err != nil {
			loggerClient.Errorf("Failed to initialize mail notifier: %v", err)
			os.Exit(1)
		}
		notifier = mailer
		loggerClient.Info("reminder mail enabled",
			logger.String("to", cfg.ReminderTo))
	} else {
		notifier = notify.NewLogNotifier(loggerClient)
		loggerClient.Info("reminder mail not configured, reminders go to the log")
	}

	sweep := scheduler.NewReminderSweep(
		memIndex,
		store,
		notifier,
		loggerClient,
		cfg.SweepInterval,
		cfg.WindowDays(),
		cfg.UrgentDays,
	)

	purger := scheduler.NewPurger(
		store,
		memIndex,
		loggerClient,
		cfg.PurgeInterval,
		cfg.PurgeThreshold,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RedisClient:     redisClient,
		Store:           store,
		MemoryIndex:     memIndex,
		Assistant:       assistant,
		ReloadTrigger:   reloadTrigger,
		WindowDays:      cfg.WindowDays(),
		UrgentDays:      cfg.UrgentDays,
		DefaultCurrency: cfg.DefaultCurrency,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		memIndex:    memIndex,
		reloader:    reloader,
		sweep:       sweep,
		purger:      purger,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting subtrack v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("subtrack %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start seed reloader (if enabled)
	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start seed reloader: %w", err)
		}
		a.logger.Info("seed reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	// Start reminder sweep
	if err := a.sweep.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reminder sweep: %w", err)
	}
	a.logger.Info("reminder sweep started",
		logger.Duration("interval", a.cfg.SweepInterval),
		logger.Int("window_days", a.cfg.WindowDays()))

	// Start purger
	if err := a.purger.Start(ctx); err != nil {
		return fmt.Errorf("failed to start purger: %w", err)
	}
	a.logger.Info("purger started",
		logger.Duration("interval", a.cfg.PurgeInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}
	a.sweep.Stop()
	a.purger.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ subtrack stopped cleanly")
	return nil
}
