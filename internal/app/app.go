package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/navbar/internal/config"
	"github.com/MrSnakeDoc/navbar/internal/domain"
	"github.com/MrSnakeDoc/navbar/internal/httpserver"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navbar/internal/index"
	"github.com/MrSnakeDoc/navbar/internal/logger"
	"github.com/MrSnakeDoc/navbar/internal/metrics"
	"github.com/MrSnakeDoc/navbar/internal/redis"
	"github.com/MrSnakeDoc/navbar/internal/render"
	"github.com/MrSnakeDoc/navbar/internal/scheduler"
	"github.com/MrSnakeDoc/navbar/internal/session"
	redisstore "github.com/MrSnakeDoc/navbar/internal/store/redis"
	"github.com/MrSnakeDoc/navbar/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	catalog     *index.CatalogIndex
	syncer      *scheduler.RedisSyncer
	reloader    *scheduler.CatalogReloader
	gc          *scheduler.SessionGC // nil with the redis backend
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	m := metrics.New()

	catalog := index.NewCatalogIndex(domain.DefaultCatalog(), scheduler.SourceBuiltin)

	var (
		redisClient    *goredis.Client
		sessions       session.Store
		publisher      scheduler.CatalogPublisher
		syncer         *scheduler.RedisSyncer
		gc             *scheduler.SessionGC
		sessionCounter func() int
	)

	switch cfg.SessionBackend {
	case config.BackendRedis:
		// Fail fast if Redis is selected but unavailable
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.OptionsFromConfig(cfg), loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")

		store := redisstore.NewStore(client, cfg.SessionTTL)
		redisClient = client
		sessions = store
		publisher = store
		syncer = scheduler.NewRedisSyncer(store, catalog, loggerClient)
		sessionCounter = func() int {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			n, err := store.CountSessions(ctx)
			if err != nil {
				return -1
			}
			return n
		}

	default:
		store := session.NewMemoryStore()
		sessions = store
		sessionCounter = store.Count
		gc = scheduler.NewSessionGC(store, m.SessionsSwept, loggerClient, cfg.GCInterval, cfg.SessionTTL)
	}

	m.RegisterGauge("navbar_sessions", "Navbar sessions currently stored.", func() float64 {
		return float64(sessionCounter())
	})
	m.RegisterGauge("navbar_catalog_entries", "Top-level entries in the active catalog.", func() float64 {
		return float64(catalog.Count())
	})

	renderer, err := render.NewHTML(render.HTMLOptions{
		Title:     cfg.SiteTitle,
		ScriptSrc: cfg.ScriptSrc,
	})
	if err != nil {
		// Templates are embedded; this only fails on a broken build.
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewCatalogReloader(
		cfg.CatalogFile,
		publisher,
		catalog,
		loggerClient,
		m.Reloads,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		RedisClient:    redisClient,
		Catalog:        catalog,
		Sessions:       sessions,
		SessionBackend: cfg.SessionBackend,
		SessionCounter: sessionCounter,
		SecureCookie:   cfg.SecureCookie,
		Renderer:       renderer,
		Metrics:        m,
		StaticDir:      cfg.StaticDir,
		RateBurst:      cfg.RateBurst,
		RateRefillMin:  cfg.RateRefillMin,
		ReloadTrigger:  reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		catalog:     catalog,
		syncer:      syncer,
		reloader:    reloader,
		gc:          gc,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Restore the catalog another replica published, then let the file win
	if a.syncer != nil {
		if err := a.syncer.Sync(ctx); err != nil {
			a.logger.Warn("failed to sync catalog from redis on startup",
				logger.Error(err))
		}
	}
	if err := a.reloader.Reload(ctx); err != nil {
		a.logger.Error("initial catalog load failed, serving previous catalog",
			logger.String("source", a.catalog.Source()),
			logger.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.reloader.Run(gctx) })
	a.logger.Info("catalog reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	if a.gc != nil {
		g.Go(func() error { return a.gc.Run(gctx) })
		a.logger.Info("session garbage collector started",
			logger.Duration("interval", a.cfg.GCInterval))
	}

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")
		return a.shutdown()
	})

	err := g.Wait()
	a.logger.Info("✅ navbar stopped")
	_ = a.logger.Sync()
	return err
}

// shutdown stops every component and reports all failures together.
func (a *App) shutdown() error {
	a.reloader.Stop()
	if a.gc != nil {
		a.gc.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var err error
	if serr := a.server.Stop(shutdownCtx); serr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to stop server: %w", serr))
	}

	if a.redisClient != nil {
		if rerr := a.redisClient.Close(); rerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close redis: %w", rerr))
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	return err
}
