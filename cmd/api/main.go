package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/funnelhub/funnelhub-backend/api/routes"
	"github.com/funnelhub/funnelhub-backend/internal/admins"
	"github.com/funnelhub/funnelhub-backend/internal/auth"
	"github.com/funnelhub/funnelhub-backend/internal/campaigns"
	"github.com/funnelhub/funnelhub-backend/internal/funnels"
	"github.com/funnelhub/funnelhub-backend/internal/licenses"
	"github.com/funnelhub/funnelhub-backend/internal/resets"
	"github.com/funnelhub/funnelhub-backend/internal/tenancy"
	"github.com/funnelhub/funnelhub-backend/internal/users"
	"github.com/funnelhub/funnelhub-backend/pkg/config"
	"github.com/funnelhub/funnelhub-backend/pkg/db"
	"github.com/funnelhub/funnelhub-backend/pkg/logger"
	"github.com/funnelhub/funnelhub-backend/pkg/mailer"
	"github.com/funnelhub/funnelhub-backend/pkg/metrics"
	"github.com/funnelhub/funnelhub-backend/pkg/migrate"
	"github.com/funnelhub/funnelhub-backend/pkg/redis"
	"github.com/funnelhub/funnelhub-backend/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			_ = dbClient.Close()
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis not configured, auth rate limits and reset cooldown disabled")
	}

	closeAll := func(ctx context.Context) {
		if err := multierr.Combine(dbClient.Close(), redisClient.Close()); err != nil {
			logg.Error(ctx, "error closing resources", err)
		}
	}

	handler, err := buildHandler(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to wire api", err)
		closeAll(context.Background())
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			exitCode = 1
		}
		cancel()
	}

	closeAll(ctx)
	os.Exit(exitCode)
}

// buildHandler constructs one repository per entity and injects them into
// the services and the router.
func buildHandler(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (http.Handler, error) {
	hasher := security.NewPasswordHasher(cfg.Password)

	userRepo := users.NewRepository(dbClient.DB())
	adminRepo := admins.NewRepository(dbClient.DB())
	licenseRepo := licenses.NewRepository(dbClient.DB())
	campaignRepo := campaigns.NewRepository(dbClient.DB())
	funnelRepo := funnels.NewRepository(dbClient.DB())
	resetRepo := resets.NewRepository(dbClient.DB())

	scopes, err := tenancy.NewResolver(userRepo, licenseRepo)
	if err != nil {
		return nil, err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Users:     userRepo,
		Admins:    adminRepo,
		Verifier:  hasher,
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		return nil, err
	}

	resetParams := resets.ServiceParams{
		Resets: resetRepo,
		Users:  userRepo,
		Admins: adminRepo,
		DB:     dbClient,
		Hasher: hasher,
		Mailer: mailer.New(cfg.Sendgrid, logg),
		App:    cfg.App,
		Logger: logg,
	}
	if redisClient != nil {
		resetParams.Cooldown = redisClient
	}
	resetService, err := resets.NewService(resetParams)
	if err != nil {
		return nil, err
	}

	licenseService, err := licenses.NewService(licenseRepo)
	if err != nil {
		return nil, err
	}
	userService, err := users.NewService(users.ServiceParams{
		Users:    userRepo,
		Licenses: licenseRepo,
		DB:       dbClient,
		Hasher:   hasher,
	})
	if err != nil {
		return nil, err
	}
	adminService, err := admins.NewService(admins.ServiceParams{
		Repo:   adminRepo,
		Hasher: hasher,
		JWT:    cfg.JWT,
	})
	if err != nil {
		return nil, err
	}
	campaignService, err := campaigns.NewService(campaignRepo, licenseRepo)
	if err != nil {
		return nil, err
	}
	funnelService, err := funnels.NewService(funnelRepo, campaignRepo)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		metrics.NewHTTPMetrics(registry),
		registry,
		scopes,
		authService,
		resetService,
		licenseService,
		userService,
		adminService,
		campaignService,
		funnelService,
	)
}
