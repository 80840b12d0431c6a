package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/staynest/booking-service/internal/app/config"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/platform/metrics"
	"github.com/staynest/booking-service/internal/service"
)

// Handlers bundles the per-area HTTP handlers for routing.
type Handlers struct {
	Auth         *AuthHandler
	Listing      *ListingHandler
	Booking      *BookingHandler
	Notification *NotificationHandler
	Message      *MessageHandler
	Review       *ReviewHandler
	Admin        *AdminHandler
}

type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

func NewServer(
	cfg config.HTTPServerConfig,
	jwtSecret string,
	authService service.AuthService,
	handlers Handlers,
	metricsManager *metrics.Manager,
	log logger.Logger,
) *Server {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(log))
	r.Use(RequestMetrics(metricsManager))

	// Public routes.
	r.Post("/api/auth/register", handlers.Auth.Register)
	r.Post("/api/auth/verify-email", handlers.Auth.VerifyEmail)
	r.Post("/api/auth/login", handlers.Auth.Login)
	r.Post("/api/auth/forgot-password", handlers.Auth.ForgotPassword)
	r.Post("/api/auth/reset-password", handlers.Auth.ResetPassword)

	r.Get("/api/listings", handlers.Listing.Search)
	r.Get("/api/listings/discounts", handlers.Listing.Discounts)
	r.Get("/api/listings/{id}", handlers.Listing.GetByID)
	r.Get("/api/listings/{id}/calendar", handlers.Listing.GetCalendar)
	r.Get("/api/listings/{id}/reviews", handlers.Listing.Reviews)
	r.Get("/api/listings/{id}/rating", handlers.Listing.Rating)
	r.Get("/api/listings/{id}/bookings", handlers.Booking.ListActiveForListing)
	r.Get("/api/locations", handlers.Listing.Locations)

	// Authenticated routes.
	r.Group(func(authRouter chi.Router) {
		authRouter.Use(JWTAuth(jwtSecret, authService, log))

		authRouter.Get("/api/user/profile", handlers.Auth.GetProfile)
		authRouter.Put("/api/user/profile", handlers.Auth.UpdateProfile)
		authRouter.Post("/api/user/avatar", handlers.Auth.UploadAvatar)
		authRouter.Post("/api/user/change-password", handlers.Auth.ChangePassword)

		authRouter.Post("/api/listings", handlers.Listing.Create)
		authRouter.Get("/api/user/listings", handlers.Listing.ListMine)
		authRouter.Put("/api/listings/{id}", handlers.Listing.Update)
		authRouter.Delete("/api/listings/{id}", handlers.Listing.Delete)
		authRouter.Post("/api/listings/{id}/photos", handlers.Listing.UploadPhoto)
		authRouter.Put("/api/listings/{id}/calendar", handlers.Listing.SetCalendarDay)
		authRouter.Post("/api/listings/{id}/favorite", handlers.Review.ToggleFavorite)
		authRouter.Get("/api/user/favorites", handlers.Review.ListFavorites)

		authRouter.Post("/api/bookings", handlers.Booking.Create)
		authRouter.Get("/api/bookings/{id}", handlers.Booking.GetByID)
		authRouter.Patch("/api/bookings/{id}/status", handlers.Booking.UpdateStatus)
		authRouter.Get("/api/user/bookings", handlers.Booking.ListMine)
		authRouter.Get("/api/user/listing-bookings", handlers.Booking.ListForMyListings)

		authRouter.Get("/api/notifications", handlers.Notification.ListMine)
		authRouter.Post("/api/notifications/read", handlers.Notification.MarkAllRead)

		authRouter.Post("/api/messages", handlers.Message.Send)
		authRouter.Get("/api/chats", handlers.Message.Chats)
		authRouter.Get("/api/chats/{userID}", handlers.Message.Dialog)

		authRouter.Post("/api/reviews", handlers.Review.Create)
		authRouter.Post("/api/reports", handlers.Admin.CreateReport)

		// Admin routes.
		authRouter.Group(func(adminRouter chi.Router) {
			adminRouter.Use(AdminOnly)

			adminRouter.Get("/api/admin/stats", handlers.Admin.Stats)
			adminRouter.Get("/api/admin/users", handlers.Admin.ListUsers)
			adminRouter.Get("/api/admin/bookings", handlers.Admin.ListBookings)
			adminRouter.Get("/api/admin/listings", handlers.Admin.ListListings)
			adminRouter.Post("/api/admin/users/{id}/ban", handlers.Admin.SetBanned)
			adminRouter.Put("/api/admin/users/{id}", handlers.Admin.UpdateUser)
			adminRouter.Delete("/api/admin/users/{id}", handlers.Admin.DeleteUser)
			adminRouter.Put("/api/admin/listings/{id}", handlers.Admin.UpdateListing)
			adminRouter.Post("/api/admin/listings/{id}/status", handlers.Admin.ModerateListing)
			adminRouter.Get("/api/admin/reports", handlers.Admin.ListReports)
			adminRouter.Post("/api/admin/reports/{id}/resolve", handlers.Admin.ResolveReport)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		log: log,
	}
}

// Start blocks until the server stops.
func (s *Server) Start() error {
	s.log.Infof("HTTP server starting on %s", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
