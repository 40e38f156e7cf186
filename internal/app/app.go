// Package app builds the HTTP engine with every module wired to its
// repositories and the tracking hub.
package app

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"courier/internal/config"
	"courier/internal/middleware"
	"courier/internal/modules/auth"
	"courier/internal/modules/booking"
	"courier/internal/modules/feedback"
	"courier/internal/modules/payment"
	"courier/internal/modules/tracking"
	jwtsvc "courier/internal/pkg/jwt"
	"courier/internal/pkg/response"
	"courier/internal/repository"
)

type App struct {
	Engine *gin.Engine
	Hub    *tracking.Hub
}

// New wires the service. cache may be nil, in which case invoices are
// rebuilt on every request.
func New(cfg *config.Config, db *gorm.DB, log *logrus.Logger, cache payment.InvoiceCache) *App {
	customerRepo := repository.NewCustomerRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	txManager := repository.NewTxManager(db)

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := tracking.NewHub(log)

	authService := auth.NewService(customerRepo, tokens, log)
	authHandler := auth.NewHandler(authService)

	bookingService := booking.NewService(bookingRepo, customerRepo, txManager, hub, log)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(
		bookingRepo,
		paymentRepo,
		customerRepo,
		txManager,
		payment.NewSimulatedGateway(),
		log,
	).WithPublisher(hub).WithIssuer(cfg.Issuer)
	if cache != nil {
		paymentService.WithInvoiceCache(cache)
	}
	paymentHandler := payment.NewHandler(paymentService, log)

	feedbackService := feedback.NewService(feedbackRepo, bookingRepo, log)
	feedbackHandler := feedback.NewHandler(feedbackService)

	wsHandler := tracking.NewWSHandler(hub, tokens, middleware.AllowedOrigins(cfg.CORSOrigins), log)

	r := gin.New()
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorLogger(log))

	r.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok", "tracking_clients": hub.GetOnlineCount()})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)

		// token travels in the query string
		wsHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(tokens))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			feedbackHandler.RegisterRoutes(protected)
		}

		officer := v1.Group("/officer")
		officer.Use(middleware.JWTAuth(tokens), middleware.OfficerOnly())
		{
			bookingHandler.RegisterOfficerRoutes(officer)
			feedbackHandler.RegisterOfficerRoutes(officer)
		}
	}

	return &App{Engine: r, Hub: hub}
}
