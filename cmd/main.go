package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/okian/hireflow/internal/adapters/cache"
	"github.com/okian/hireflow/internal/adapters/http/api"
	"github.com/okian/hireflow/internal/adapters/notify"
	"github.com/okian/hireflow/internal/adapters/repository"
	"github.com/okian/hireflow/internal/app"
	"github.com/okian/hireflow/internal/config"
	"github.com/okian/hireflow/internal/domain/scoring"
	"github.com/okian/hireflow/pkg/logger"
	"github.com/okian/hireflow/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
	nsPerMillisecond      = 1e6
)

func main() {
	_ = godotenv.Load()

	metrics.Init()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString(err.Error() + "\n")
		}
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Error(ctx, "failed to connect database", logger.Error(err))
		return
	}

	storeOpts := []repository.Option{}
	if cfg.AutoMigrate {
		storeOpts = append(storeOpts, repository.WithAutoMigrate())
	}
	store, err := repository.NewGormStore(db, storeOpts...)
	if err != nil {
		log.Error(ctx, "failed to initialize store", logger.Error(err))
		return
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	cacheSvc := cache.New(
		cache.NewRedisBackend(rdb),
		cache.WithDefaultTTL(time.Duration(cfg.CacheTTLSeconds)*time.Second),
		cache.WithLogger(log.Named("cache")),
	)

	var scorer scoring.Scorer
	switch cfg.Scorer {
	case "openai":
		opts := []scoring.OpenAIOption{}
		if cfg.OpenAIModel != "" {
			opts = append(opts, scoring.WithModel(cfg.OpenAIModel))
		}
		scorer = scoring.NewOpenAIScorer(cfg.OpenAIAPIKey, opts...)
		log.Info(ctx, "using openai scorer", logger.String("model", cfg.OpenAIModel))
	default:
		scorer = scoring.NewHeuristicScorer()
		log.Info(ctx, "using heuristic scorer")
	}

	svcOpts := []app.Option{
		app.WithLogger(log.Named("app")),
		app.WithStore(store),
		app.WithCache(cacheSvc),
		app.WithScorer(scorer),
		app.WithRateLimit(time.Duration(cfg.RateLimitWindowSeconds)*time.Second, cfg.RateLimitMax),
	}

	if cfg.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			log.Error(ctx, "failed to connect notification broker", logger.Error(err))
			return
		}
		defer conn.Close()
		ch, err := conn.Channel()
		if err != nil {
			log.Error(ctx, "failed to open notification channel", logger.Error(err))
			return
		}
		if err := notify.DeclareExchange(ch, cfg.NotifyExchange); err != nil {
			log.Error(ctx, "failed to declare notification exchange", logger.Error(err))
			return
		}
		svcOpts = append(svcOpts, app.WithNotifier(notify.NewAMQPTrigger(ch, notify.WithExchange(cfg.NotifyExchange))))
	} else {
		log.Warn(ctx, "notification dispatch disabled; amqp_url not set")
	}

	svc := app.New(svcOpts...)
	defer svc.Close()

	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiOpts := []api.Option{}
	if cfg.EmailWebhookSecret != "" {
		apiOpts = append(apiOpts, api.WithEmailWebhookSecret(cfg.EmailWebhookSecret))
	}
	apiServer := api.NewServer(svc, apiOpts...)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater updates runtime metrics on a ticker.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
