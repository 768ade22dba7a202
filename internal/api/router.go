package api

import (
	"net/http"

	"github.com/dom/shift-monitor/internal/api/handlers"
	"github.com/dom/shift-monitor/internal/api/middleware"
	"github.com/dom/shift-monitor/internal/config"
	"github.com/dom/shift-monitor/internal/domain"
	"github.com/dom/shift-monitor/internal/metrics"
	"github.com/dom/shift-monitor/internal/repository"
	"github.com/dom/shift-monitor/internal/service"
	"github.com/dom/shift-monitor/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func NewRouter(services *service.Services, hub *websocket.Hub, store repository.HealthChecker, gate *middleware.StoreGate, m *metrics.Metrics, cfg *config.Config, log *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(m.Middleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	// Initialize handlers
	errs := handlers.NewErrorWriter(log, !cfg.IsProduction())
	healthHandler := handlers.NewHealthHandler(store, cfg.Environment)
	authHandler := handlers.NewAuthHandler(services.Auth, services.Directory, errs, cfg.CookieSecure)
	operatorHandler := handlers.NewOperatorHandler(services.Directory, errs)
	monitoringHandler := handlers.NewMonitoringHandler(services.Ledger, errs)
	wsHandler := handlers.NewWebSocketHandler(hub, cfg.CORSAllowedOrigins, log)

	authenticate := middleware.Auth(services.Auth, log)
	supervisorOnly := middleware.RequireRole(domain.AccessLevelSupervisor)
	operatorOnly := middleware.RequireRole(domain.AccessLevelOperator)

	// Health check and metrics stay reachable while the store is down
	r.Get("/health", healthHandler.Check)
	r.Handle("/metrics", m.Handler())

	timeout := chiMiddleware.Timeout(cfg.RequestTimeout)

	r.Group(func(r chi.Router) {
		r.Use(gate.Handler)

		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Use(timeout)
			r.Post("/login-operador", authHandler.LoginOperator)
			r.Post("/login-supervisor", authHandler.LoginSupervisor)
			r.Post("/register-supervisor", authHandler.RegisterSupervisor)
			r.Post("/logout", authHandler.Logout)

			r.With(authenticate).Get("/me", authHandler.Me)
		})

		// Operator roster
		r.Route("/operador", func(r chi.Router) {
			r.Use(timeout, authenticate, supervisorOnly)
			r.Post("/cadastrar", operatorHandler.Create)
			r.Get("/list", operatorHandler.List)
		})

		// Status ledger
		r.Route("/monitoramento", func(r chi.Router) {
			r.Use(authenticate)

			// Status feed is long-lived; it sits outside the request timeout
			r.With(supervisorOnly).Get("/ws", wsHandler.Handle)

			r.Group(func(r chi.Router) {
				r.Use(timeout)
				r.With(operatorOnly).Post("/registrar", monitoringHandler.Record)

				r.Group(func(r chi.Router) {
					r.Use(supervisorOnly)
					r.Get("/status", monitoringHandler.List)
					r.Get("/{operadorId}", monitoringHandler.Get)
					r.Put("/{operadorId}/status", monitoringHandler.SetStatus)
				})
			})
		})
	})

	return r
}
