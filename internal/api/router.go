package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/workerhub/jobboard/internal/api/handler"
	"github.com/workerhub/jobboard/internal/api/metrics"
	"github.com/workerhub/jobboard/internal/api/middleware"
	"github.com/workerhub/jobboard/internal/api/view"
	"github.com/workerhub/jobboard/internal/core/domain"
	"github.com/workerhub/jobboard/internal/core/ports"
	"github.com/workerhub/jobboard/internal/core/service"
	"github.com/workerhub/jobboard/internal/infrastructure/config"
	mongorepo "github.com/workerhub/jobboard/internal/infrastructure/db/mongo"
	redisstore "github.com/workerhub/jobboard/internal/infrastructure/db/redis"
)

// Services are the use cases the HTTP layer drives.
type Services struct {
	Auth         ports.AuthService
	Listings     ports.ListingService
	Applications ports.ApplicationService
	// Checks are the readiness probes, keyed by dependency name.
	Checks map[string]handler.Check
}

// Options tune the router. A nil Registry uses the prometheus defaults;
// otherwise the HTTP and business collectors are all served from it.
type Options struct {
	CookieSecure bool
	Registry     *prometheus.Registry
	Logger       zerolog.Logger
}

// NewRouter wires the MongoDB and Redis adapters into the services and
// returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	// --- Dependencies ---
	users := mongorepo.NewUserRepository(db)
	listings := mongorepo.NewListingRepository(db)
	events := mongorepo.NewEventRepository(db)
	revocations := redisstore.NewRevocationStore(rdb)

	svc := Services{
		Auth:         service.NewAuthService(users, revocations, cfg.JWTSecret, cfg.SessionTTL, log),
		Listings:     service.NewListingService(listings, users, log),
		Applications: service.NewApplicationService(listings, users, events, log),
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return db.Client().Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	}
	return New(svc, Options{CookieSecure: cfg.CookieSecure, Logger: log})
}

// New builds the Echo instance over already constructed services.
func New(svc Services, opts Options) (*echo.Echo, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	log := opts.Logger
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
		for _, c := range metrics.Collectors() {
			if err := registerer.Register(c); err != nil {
				return nil, fmt.Errorf("register metrics: %w", err)
			}
		}
	}

	// --- Global middleware ---
	// HTML forms can only send GET and POST; PUT and DELETE travel in _method.
	e.Pre(echomiddleware.MethodOverrideWithConfig(echomiddleware.MethodOverrideConfig{
		Getter: echomiddleware.MethodFromForm("_method"),
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/metrics" || strings.HasPrefix(p, "/health")
		},
	}))
	e.Use(middleware.LoadSession(svc.Auth, opts.CookieSecure, log))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Auth, opts.CookieSecure, log)
	listingHandler := handler.NewListingHandler(svc.Listings)
	applicationHandler := handler.NewApplicationHandler(svc.Applications, svc.Listings, log)
	healthHandler := handler.NewHealthHandler(svc.Checks)

	requireAuth := middleware.RequireAuth()
	builderOnly := middleware.RequireRole(domain.RoleBuilder)
	workerOnly := middleware.RequireRole(domain.RoleWorker)

	// --- Public routes ---
	e.GET("/", listingHandler.Index)
	e.GET("/login", authHandler.LoginForm)
	e.POST("/login", authHandler.Login)
	e.GET("/signup", authHandler.SignupForm)
	e.POST("/signup", authHandler.Signup)
	e.GET("/logout", authHandler.Logout)

	// --- Listing routes ---
	e.GET("/addListing", listingHandler.New, requireAuth, builderOnly)
	e.POST("/addListing", listingHandler.Create, requireAuth, builderOnly)
	e.GET("/profile", listingHandler.Profile, requireAuth)
	e.GET("/listings/:id", listingHandler.Show, requireAuth)
	e.GET("/listings/:id/edit", listingHandler.Edit, requireAuth)
	e.PUT("/listings/:id", listingHandler.Update, requireAuth)
	e.DELETE("/listings/:id", listingHandler.Delete, requireAuth)

	// --- Application routes ---
	e.POST("/listings/:id/apply", applicationHandler.Apply, requireAuth, workerOnly)
	e.GET("/listings/:id/applicants", applicationHandler.Applicants, requireAuth)
	e.POST("/listings/:jobId/applicants/:workerId/accept", applicationHandler.Accept, requireAuth, builderOnly)
	e.POST("/listings/:jobId/applicants/:workerId/reject", applicationHandler.Reject, requireAuth, builderOnly)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	return e, nil
}
