// Package subscriptiontracker предоставляет маршруты для основного приложения.
package subscriptiontracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/andreevms/subscription-tracker/internal/http/handlers/auth/login"
	"github.com/andreevms/subscription-tracker/internal/http/handlers/auth/register"
	"github.com/andreevms/subscription-tracker/internal/http/handlers/dashboard"
	"github.com/andreevms/subscription-tracker/internal/http/handlers/health"
	"github.com/andreevms/subscription-tracker/internal/http/handlers/subscription/create"
	"github.com/andreevms/subscription-tracker/internal/http/handlers/subscription/list"
	"github.com/andreevms/subscription-tracker/internal/http/handlers/subscription/read"
	"github.com/andreevms/subscription-tracker/internal/http/handlers/subscription/remove"
	"github.com/andreevms/subscription-tracker/internal/http/handlers/subscription/update"
	"github.com/andreevms/subscription-tracker/internal/http/middlewarectx"
	authservice "github.com/andreevms/subscription-tracker/internal/services/auth"
	dashboardservice "github.com/andreevms/subscription-tracker/internal/services/dashboard"
	subscriptionservice "github.com/andreevms/subscription-tracker/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	subscriptionService *subscriptionservice.SubscriptionService,
	dashboardService *dashboardservice.DashboardService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/list", list.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/{id}", read.New(logger, subscriptionService).ServeHTTP)
			r.Put("/subscriptions/{id}", update.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/subscriptions/{id}", remove.New(logger, subscriptionService).ServeHTTP)
			r.Get("/dashboard", dashboard.New(logger, dashboardService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
