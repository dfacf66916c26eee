// @title        Maraseel Site API
// @version      1.0
// @description  Accounts, password reset, tracking, quotes and contact for the Maraseel shipping site.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/maraseel/shipping-site/internal/api"
	"github.com/maraseel/shipping-site/internal/api/handler"
	"github.com/maraseel/shipping-site/internal/core/domain"
	"github.com/maraseel/shipping-site/internal/core/ports"
	"github.com/maraseel/shipping-site/internal/core/service"
	"github.com/maraseel/shipping-site/internal/infrastructure/db/memory"
	mongodb "github.com/maraseel/shipping-site/internal/infrastructure/db/mongo"
	"github.com/maraseel/shipping-site/internal/infrastructure/db/postgres"
	redisdb "github.com/maraseel/shipping-site/internal/infrastructure/db/redis"
	"github.com/maraseel/shipping-site/internal/infrastructure/notify"
	"github.com/maraseel/shipping-site/internal/infrastructure/queue"
	"github.com/maraseel/shipping-site/internal/infrastructure/session"
	"github.com/maraseel/shipping-site/internal/pkg/config"
	"github.com/maraseel/shipping-site/internal/pkg/password"
	"github.com/maraseel/shipping-site/internal/pkg/token"
	"github.com/maraseel/shipping-site/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// credentialStore bundles the three repository ports backed by one store.
type credentialStore struct {
	accounts ports.AccountRepository
	tokens   ports.ResetTokenRepository
	admin    ports.AdminRepository
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Env:     cfg.Env,
		Service: "maraseel-site",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	readiness := map[string]handler.PingFunc{}
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	// --- Credential store ---
	var store credentialStore
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		mem := memory.NewStore()
		store = credentialStore{accounts: mem, tokens: mem, admin: mem}
		readiness["credentials"] = mem.Ping
		log.Warn().Msg("using in-memory credential store, accounts are lost on restart")
	default:
		pool, err := postgres.Connect(ctx, postgres.Config{
			URL:      cfg.Postgres.URL,
			MaxConns: cfg.Postgres.MaxConns,
		}, log)
		if err != nil {
			return err
		}
		closers = append(closers, pool.Close)
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		store = credentialStore{
			accounts: postgres.NewAccountRepository(pool),
			tokens:   postgres.NewResetTokenRepository(pool),
			admin:    postgres.NewAdminRepository(pool),
		}
		readiness["postgres"] = pool.Ping
	}

	// --- Site data ---
	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	}, logger.Component("mongodb"))
	if err != nil {
		return err
	}
	closers = append(closers, func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	})
	shipments := mongodb.NewShipmentRepository(mongoDB)
	if err := shipments.EnsureIndexes(ctx); err != nil {
		return err
	}
	readiness["mongodb"] = func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }

	// --- Rate limit window (optional) ---
	var resetLimiter *redisdb.WindowLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		resetLimiter = redisdb.NewWindowLimiter(rdb, "forgot_password", 3, time.Hour)
		readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// --- Notifications ---
	notifier, closeNotifier := buildNotifier(cfg, logger.Component("notify"))
	if closeNotifier != nil {
		closers = append(closers, closeNotifier)
	}
	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, notifier, cfg.Notify.Sink, logger.Component("dispatcher"))
	dispatcher.Start(ctx)

	// --- Sessions ---
	issuer := token.NewIssuer()
	sessions := session.NewMemoryStore(issuer, domain.SessionTTL)
	go sessions.RunJanitor(ctx, 0, logger.Component("session"))
	cookies, err := session.NewCookies(cfg.SessionSecret, cfg.IsProduction())
	if err != nil {
		return err
	}

	// --- Services ---
	authService := service.NewAuthService(
		store.accounts,
		store.tokens,
		sessions,
		password.NewBcryptHasher(cfg.BcryptCost),
		issuer,
		dispatcher,
		service.AuthOptions{AppURL: cfg.AppURL, ExposeDevLink: cfg.IsDevelopment()},
		logger.Component("auth"),
	)
	adminService := service.NewAdminService(store.admin, logger.Component("admin"))
	siteService := service.NewSiteService(
		shipments,
		mongodb.NewQuoteRepository(mongoDB),
		mongodb.NewContactRepository(mongoDB),
		logger.Component("site"),
	)

	deps := api.Dependencies{
		Auth:      authService,
		Admin:     adminService,
		Site:      siteService,
		Cookies:   cookies,
		Readiness: readiness,
		Log:       logger.Component("http"),
	}
	if resetLimiter != nil {
		deps.ResetLimiter = resetLimiter
	}
	e := api.NewRouter(deps, api.Options{
		AllowOrigins: cfg.AllowOrigins,
		StaticDir:    cfg.StaticDir,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// buildNotifier returns the sink selected by NOTIFY_SINK and, when the sink
// holds resources, a function releasing them.
func buildNotifier(cfg *config.Config, log zerolog.Logger) (ports.ResetNotifier, func()) {
	switch cfg.Notify.Sink {
	case config.NotifySinkResend:
		rc := notify.ResendConfig{
			APIKey:  cfg.Notify.ResendAPIKey,
			From:    cfg.Notify.ResendFrom,
			BaseURL: cfg.Notify.ResendBaseURL,
			Timeout: cfg.Notify.ResendTimeout,
		}
		if !cfg.IsProduction() {
			rc.TestRecipient = cfg.Notify.ResendTestRecipient
		}
		return notify.NewResendNotifier(rc, log), nil
	case config.NotifySinkKafka:
		k := notify.NewKafkaNotifier(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic)
		return k, func() {
			if err := k.Close(); err != nil {
				log.Warn().Err(err).Msg("closing kafka writer")
			}
		}
	default:
		return notify.NewLogNotifier(log), nil
	}
}
