package http

import (
	"net/http"

	"github.com/autorenta/api/internal/delivery/http/middleware"
	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/pkg/config"
	"github.com/autorenta/api/internal/pkg/jwt"
	"github.com/autorenta/api/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	authHandler        *AuthHandler
	vehicleHandler     *VehicleHandler
	reservationHandler *ReservationHandler
	userHandler        *UserHandler
	tokenService       *jwt.TokenService
	config             *config.Config
	logger             logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	authHandler *AuthHandler,
	vehicleHandler *VehicleHandler,
	reservationHandler *ReservationHandler,
	userHandler *UserHandler,
	tokenService *jwt.TokenService,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		authHandler:        authHandler,
		vehicleHandler:     vehicleHandler,
		reservationHandler: reservationHandler,
		userHandler:        userHandler,
		tokenService:       tokenService,
		config:             config,
		logger:             logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	// Health check endpoint (публичный)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (без аутентификации)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.authHandler.Register)
			r.Post("/login", rt.authHandler.Login)
			r.Post("/refresh", rt.authHandler.RefreshToken)
			r.Post("/logout", rt.authHandler.Logout)
		})

		// Публичный каталог
		r.Get("/vehicles", rt.vehicleHandler.ListAvailable)
		r.Get("/vehicles/{id}", rt.vehicleHandler.GetByID)
		r.Get("/categories", rt.vehicleHandler.ListCategories)
		r.Get("/categories/{id}", rt.vehicleHandler.GetCategoryByID)

		// Protected routes (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokenService))

			r.Get("/auth/me", rt.authHandler.GetMe)

			// Reservation endpoints
			r.Route("/reservations", func(r chi.Router) {
				r.Post("/", rt.reservationHandler.Create)
				r.Get("/", rt.reservationHandler.List)
				r.Get("/{id}", rt.reservationHandler.GetByID)
				r.Get("/{id}/contract", rt.reservationHandler.Contract)
				r.Post("/{id}/cancel", rt.reservationHandler.Cancel)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleAdmin))
					r.Get("/stats", rt.reservationHandler.Stats)
					r.Post("/{id}/approve", rt.reservationHandler.Approve)
					r.Post("/{id}/reject", rt.reservationHandler.Reject)
					r.Patch("/{id}/status", rt.reservationHandler.ChangeStatus)
				})
			})

			// Admin only: управление парком
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))

				r.Get("/vehicles/all", rt.vehicleHandler.ListAll)
				r.Post("/vehicles", rt.vehicleHandler.Create)
				r.Put("/vehicles/{id}", rt.vehicleHandler.Update)
				r.Patch("/vehicles/{id}/availability", rt.vehicleHandler.SetAvailability)
				r.Delete("/vehicles/{id}", rt.vehicleHandler.Delete)

				r.Post("/categories", rt.vehicleHandler.CreateCategory)
				r.Put("/categories/{id}", rt.vehicleHandler.UpdateCategory)
				r.Delete("/categories/{id}", rt.vehicleHandler.DeleteCategory)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", rt.userHandler.List)
					r.Post("/", rt.userHandler.Create)
					r.Get("/{id}", rt.userHandler.GetByID)
					r.Put("/{id}", rt.userHandler.Update)
					r.Patch("/{id}/status", rt.userHandler.SetStatus)
					r.Delete("/{id}", rt.userHandler.Delete)
				})
			})
		})
	})

	return r
}
