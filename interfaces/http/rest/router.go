// Package rest wires the HTTP surface: routing, middleware, and the
// handler-to-bus glue.
package rest

import (
	"net/http"

	"eventbase/application/commands/bus"
	querybus "eventbase/application/queries/bus"
	"eventbase/infrastructure/config"
	"eventbase/interfaces/http/rest/handlers"
	"eventbase/interfaces/http/rest/middleware"
	"eventbase/pkg/auth"
	apperrors "eventbase/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	validator  *auth.JWTValidator
	cfg        *config.Config
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	validator *auth.JWTValidator,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		validator:  validator,
		cfg:        cfg,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	errorHandler := apperrors.NewErrorHandler(rt.logger, rt.cfg.IsDevelopment())
	authenticate := middleware.Authenticate(
		rt.validator,
		auth.NewIPRateLimiter(rt.cfg.RateLimitPerMinute),
		auth.NewUserRateLimiter(rt.cfg.RateLimitPerMinute*2),
		rt.logger,
	)

	userHandler := handlers.NewUserHandler(rt.commandBus, rt.queryBus, errorHandler, rt.logger)
	notificationHandler := handlers.NewNotificationHandler(rt.commandBus, rt.queryBus, errorHandler, rt.logger)
	eventSourcingHandler := handlers.NewEventSourcingHandler(rt.queryBus, errorHandler, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		// Registration and sign-in are the only unauthenticated routes
		r.Post("/users", userHandler.CreateUser)
		r.Post("/users/signin", userHandler.SignIn)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.ListUsers)
				r.Put("/{userID}", userHandler.UpdateUser)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Post("/", notificationHandler.CreateNotification)
				r.Get("/", notificationHandler.ListNotifications)
				r.Get("/stats", notificationHandler.NotificationStats)
				r.Patch("/read-all", notificationHandler.MarkAllRead)
				r.Get("/{notificationID}", notificationHandler.GetNotification)
				r.Patch("/{notificationID}/read", notificationHandler.MarkRead)
				r.Delete("/{notificationID}", notificationHandler.DeleteNotification)
			})

			r.Route("/events/{entityID}", func(r chi.Router) {
				r.Get("/replay", eventSourcingHandler.ReplayEvents)
				r.Get("/state-at/{timestamp}", eventSourcingHandler.StateAtTime)
				r.Get("/state-after/{count}", eventSourcingHandler.StateAfterEvents)
				r.Get("/timeline", eventSourcingHandler.EventTimeline)
				r.Get("/statistics", eventSourcingHandler.EventStatistics)
				r.Get("/events", eventSourcingHandler.EntityEvents)
				r.Get("/compare", eventSourcingHandler.CompareStates)
				r.Get("/batch/{batchNumber}", eventSourcingHandler.StreamBatch)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
