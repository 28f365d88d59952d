package routes

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/funnelhub/funnelhub-backend/api/controllers"
	"github.com/funnelhub/funnelhub-backend/api/middleware"
	"github.com/funnelhub/funnelhub-backend/internal/admins"
	"github.com/funnelhub/funnelhub-backend/internal/auth"
	"github.com/funnelhub/funnelhub-backend/internal/campaigns"
	"github.com/funnelhub/funnelhub-backend/internal/funnels"
	"github.com/funnelhub/funnelhub-backend/internal/licenses"
	"github.com/funnelhub/funnelhub-backend/internal/resets"
	"github.com/funnelhub/funnelhub-backend/internal/users"
	"github.com/funnelhub/funnelhub-backend/pkg/config"
	"github.com/funnelhub/funnelhub-backend/pkg/db"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	"github.com/funnelhub/funnelhub-backend/pkg/logger"
	"github.com/funnelhub/funnelhub-backend/pkg/metrics"
	"github.com/funnelhub/funnelhub-backend/pkg/redis"
)

// NewRouter mounts every endpoint. redisClient and gatherer may be nil: the
// auth rate limits and /metrics are then left out.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	scopes controllers.ScopeResolver,
	authService auth.Service,
	resetService resets.Service,
	licenseService licenses.Service,
	userService users.Service,
	adminService admins.Service,
	campaignService campaigns.Service,
	funnelService funnels.Service,
) (http.Handler, error) {
	apiLimit, err := middleware.APIRateLimit(cfg.APIRateLimit, logg)
	if err != nil {
		return nil, fmt.Errorf("api rate limit: %w", err)
	}

	var (
		counters    middleware.CounterStore
		redisPinger controllers.Pinger
	)
	if redisClient != nil {
		counters = redisClient
		redisPinger = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
		apiLimit,
	)

	authz := middleware.NewAuthorizer(cfg.JWT, authService, httpMetrics, logg)
	loginLimit := middleware.AuthRateLimit(middleware.LoginRateLimitPolicy(cfg.AuthRateLimit), counters, logg)
	resetLimit := middleware.AuthRateLimit(middleware.ResetRateLimitPolicy(cfg.AuthRateLimit), counters, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisPinger,
		}, logg))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))
	}

	r.Route("/api", func(r chi.Router) {
		r.With(loginLimit).Post("/login/{kind}", controllers.AuthLogin(authService, cfg.JWT, logg))

		r.Route("/reset", func(r chi.Router) {
			r.With(resetLimit).Post("/request/{kind}", controllers.ResetRequest(resetService, logg))
			r.Post("/submit/{kind}", controllers.ResetSubmit(resetService, logg))
		})

		r.Route("/licenses", func(r chi.Router) {
			r.Use(authz.Authorize(middleware.GateUserOrAdmin))
			r.Get("/", controllers.LicenseList(licenseService, scopes, logg))
			r.Post("/", controllers.LicenseCreate(licenseService, scopes, logg))
			r.Get("/{uuid}", controllers.LicenseGet(licenseService, scopes, logg))
			r.Put("/{uuid}", controllers.LicenseUpdate(licenseService, scopes, logg))
			r.Delete("/{uuid}", controllers.LicenseDelete(licenseService, scopes, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.With(authz.OptionalIdentity()).Post("/", controllers.UserCreate(userService, scopes, logg))
			r.Group(func(r chi.Router) {
				r.Use(authz.Authorize(middleware.GateUserOrAdmin))
				r.Get("/", controllers.UserList(userService, scopes, logg))
				r.Get("/{uuid}", controllers.UserGet(userService, scopes, logg))
				r.Put("/{uuid}", controllers.UserUpdate(userService, scopes, logg))
				r.Delete("/{uuid}", controllers.UserDelete(userService, scopes, logg))
			})
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Use(authz.Authorize(middleware.GateUserOrAdmin))
			r.Get("/", controllers.CampaignList(campaignService, scopes, logg))
			r.Post("/", controllers.CampaignCreate(campaignService, scopes, logg))
			r.Get("/{uuid}", controllers.CampaignGet(campaignService, scopes, logg))
			r.Put("/{uuid}", controllers.CampaignUpdate(campaignService, scopes, logg))
			r.Delete("/{uuid}", controllers.CampaignDelete(campaignService, scopes, logg))
		})

		r.Route("/funnels", func(r chi.Router) {
			r.Use(authz.Authorize(middleware.GateUserOrAdmin))
			r.Get("/", controllers.FunnelList(funnelService, scopes, logg))
			r.Post("/", controllers.FunnelCreate(funnelService, scopes, logg))
			r.Get("/{uuid}", controllers.FunnelGet(funnelService, scopes, logg))
			r.Put("/{uuid}", controllers.FunnelUpdate(funnelService, scopes, logg))
			r.Delete("/{uuid}", controllers.FunnelDelete(funnelService, scopes, logg))
		})

		r.Route("/admins", func(r chi.Router) {
			r.Use(authz.Authorize(middleware.GateAdmin))
			r.Use(middleware.RequirePermission(adminService, enums.PrincipalAdmin, admins.PermManageAdmins, httpMetrics, logg))
			r.Get("/", controllers.AdminList(adminService, logg))
			r.Post("/", controllers.AdminCreate(adminService, logg))
			r.Get("/{uuid}", controllers.AdminGet(adminService, logg))
			r.Put("/{uuid}", controllers.AdminUpdate(adminService, logg))
			r.Delete("/{uuid}", controllers.AdminDelete(adminService, logg))
		})
	})

	return r, nil
}
