package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leadspark-io/leadspark-backend/api/controllers"
	"github.com/leadspark-io/leadspark-backend/api/middleware"
	"github.com/leadspark-io/leadspark-backend/internal/aiwriter"
	"github.com/leadspark-io/leadspark-backend/internal/auth"
	"github.com/leadspark-io/leadspark-backend/internal/leads"
	"github.com/leadspark-io/leadspark-backend/internal/requests"
	"github.com/leadspark-io/leadspark-backend/internal/templates"
	"github.com/leadspark-io/leadspark-backend/internal/usage"
	"github.com/leadspark-io/leadspark-backend/internal/users"
	"github.com/leadspark-io/leadspark-backend/internal/webhooks"
	"github.com/leadspark-io/leadspark-backend/pkg/auth/session"
	"github.com/leadspark-io/leadspark-backend/pkg/config"
	"github.com/leadspark-io/leadspark-backend/pkg/db"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	"github.com/leadspark-io/leadspark-backend/pkg/logger"
	"github.com/leadspark-io/leadspark-backend/pkg/redis"
)

// Deps carries everything NewRouter wires into handlers. Fields left nil
// surface as internal errors on the routes that need them rather than
// panicking at startup.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	Registry       *prometheus.Registry

	AuthService     auth.Service
	RegisterService auth.RegisterService
	UsersRepo       *users.Repository
	UsageService    *usage.Service
	LeadsService    leads.Service
	TemplateService templates.Service
	RequestService  requests.Service
	AIWriter        *aiwriter.Service
	Webhooks        *webhooks.Dispatcher
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// A nil *redis.Client must not become a non-nil store interface.
	var idemStore redis.IdempotencyStore
	if deps.Redis != nil {
		idemStore = deps.Redis
	}
	idempotency := middleware.Idempotency(idemStore, logg)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
			idempotency,
		).Post("/register", controllers.Register(deps.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AdminAuthLogin(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(idempotency)

		r.Get("/me", controllers.Me(deps.UsersRepo, logg))
		r.Get("/me/usage", controllers.MeUsage(deps.UsageService, logg))
		r.Get("/plans", controllers.PlansCatalog())

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", controllers.LeadsList(deps.LeadsService, logg))
			r.Get("/{id}/download", controllers.LeadDownload(deps.LeadsService, logg))
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", controllers.TemplatesList(deps.TemplateService, logg))
			r.Get("/{id}", controllers.TemplateGet(deps.TemplateService, logg))
		})

		r.Post("/ai/emails", controllers.AIGenerateEmail(deps.AIWriter, logg))
		r.Post("/lms/enroll", controllers.LMSEnroll(deps.Webhooks, logg))

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", controllers.RequestsList(deps.RequestService, logg))
			r.Post("/", controllers.RequestCreate(deps.RequestService, logg))
			r.Patch("/{id}", controllers.RequestUpdate(deps.RequestService, logg))
			r.Delete("/{id}", controllers.RequestDelete(deps.RequestService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.RequireRole(enums.RoleAdmin.String(), logg))
		r.Use(idempotency)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUsersList(deps.UsersRepo, logg))
			r.Patch("/{id}/plan", controllers.AdminUserPlanUpdate(deps.UsersRepo, logg))
			r.Patch("/{id}/status", controllers.AdminUserStatusUpdate(deps.UsersRepo, logg))
			r.Post("/{id}/usage/reset", controllers.AdminUserUsageReset(deps.UsersRepo, deps.UsageService, logg))
		})

		r.Route("/leads", func(r chi.Router) {
			r.Post("/", controllers.AdminLeadCreate(deps.LeadsService, logg))
			r.Patch("/{id}", controllers.AdminLeadUpdate(deps.LeadsService, logg))
			r.Delete("/{id}", controllers.AdminLeadDelete(deps.LeadsService, logg))
		})

		r.Route("/templates", func(r chi.Router) {
			r.Post("/", controllers.AdminTemplateCreate(deps.TemplateService, logg))
			r.Patch("/{id}", controllers.AdminTemplateUpdate(deps.TemplateService, logg))
			r.Delete("/{id}", controllers.AdminTemplateDelete(deps.TemplateService, logg))
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", controllers.AdminRequestsList(deps.RequestService, logg))
			r.Post("/{id}/transition", controllers.AdminRequestTransition(deps.RequestService, logg))
			r.Patch("/{id}/delivery", controllers.AdminRequestDelivery(deps.RequestService, logg))
		})
	})

	return r
}
