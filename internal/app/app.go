package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	emailadapter "github.com/staynest/booking-service/internal/adapter/email"
	mongoadapter "github.com/staynest/booking-service/internal/adapter/mongo"
	natsadapter "github.com/staynest/booking-service/internal/adapter/nats"
	redisadapter "github.com/staynest/booking-service/internal/adapter/redis"
	storageadapter "github.com/staynest/booking-service/internal/adapter/storage"
	"github.com/staynest/booking-service/internal/app/config"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/platform/metrics"
	"github.com/staynest/booking-service/internal/platform/tracer"
	httpport "github.com/staynest/booking-service/internal/port/http"
	"github.com/staynest/booking-service/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	cfg                 *config.Config
	log                 logger.Logger
	server              *httpport.Server
	notificationService service.NotificationService
	mongoClient         *mongo.Client
	redisClient         *redis.Client
	natsConn            *natsgo.Conn
	tracerProvider      *sdktrace.TracerProvider
	metricsManager      *metrics.Manager
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.NewZapLogger(logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	tracerProvider := tracer.Init(cfg.Tracing.ServiceName, cfg.Tracing.OTLPEndpoint, appLogger)
	metricsManager := metrics.NewManager("booking_service")

	appLogger.Info("Initializing MongoDB client...")
	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}

	appLogger.Info("Initializing Redis client...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}

	appLogger.Info("Initializing NATS connection...")
	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS connection: %w", err)
	}
	msgPublisher, err := natsadapter.NewNATSPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS publisher: %w", err)
	}

	emailSender, err := emailadapter.NewSMTPSender(cfg.SMTP, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SMTP sender: %w", err)
	}

	photoStorage, err := storageadapter.NewMinioStorage(ctx, cfg.Storage, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize photo storage: %w", err)
	}

	bookingRepo := mongoadapter.NewBookingRepository(mongoClient, cfg.MongoDB)
	listingRepo := mongoadapter.NewListingRepository(mongoClient, cfg.MongoDB)
	userRepo := mongoadapter.NewUserRepository(mongoClient, cfg.MongoDB)
	notificationRepo := mongoadapter.NewNotificationRepository(mongoClient, cfg.MongoDB)
	messageRepo := mongoadapter.NewMessageRepository(mongoClient, cfg.MongoDB)
	reviewRepo := mongoadapter.NewReviewRepository(mongoClient, cfg.MongoDB)
	favoriteRepo := mongoadapter.NewFavoriteRepository(mongoClient, cfg.MongoDB)
	reportRepo := mongoadapter.NewReportRepository(mongoClient, cfg.MongoDB)
	calendarRepo := mongoadapter.NewCalendarRepository(mongoClient, cfg.MongoDB)
	listingCache := redisadapter.NewListingCache(redisClient, cfg.Cache.ListingTTL)

	notificationService := service.NewNotificationService(notificationRepo, messageRepo, msgPublisher, metricsManager, appLogger)
	authService := service.NewAuthService(userRepo, emailSender, photoStorage, cfg.Auth, appLogger)
	bookingService := service.NewBookingService(bookingRepo, listingRepo, calendarRepo, notificationService, msgPublisher, metricsManager, appLogger)
	listingService := service.NewListingService(listingRepo, bookingRepo, calendarRepo, favoriteRepo, messageRepo, userRepo, listingCache, photoStorage, appLogger)
	messageService := service.NewMessageService(messageRepo, userRepo, listingRepo, notificationService, appLogger)
	reviewService := service.NewReviewService(reviewRepo, bookingRepo, listingRepo, notificationService, appLogger)
	favoriteService := service.NewFavoriteService(favoriteRepo, listingRepo, appLogger)
	adminService := service.NewAdminService(userRepo, listingRepo, bookingRepo, reportRepo, favoriteRepo, notificationService, appLogger)

	handlers := httpport.Handlers{
		Auth:         httpport.NewAuthHandler(authService, appLogger),
		Listing:      httpport.NewListingHandler(listingService, reviewService, appLogger),
		Booking:      httpport.NewBookingHandler(bookingService, appLogger),
		Notification: httpport.NewNotificationHandler(notificationService, appLogger),
		Message:      httpport.NewMessageHandler(messageService, appLogger),
		Review:       httpport.NewReviewHandler(reviewService, favoriteService, appLogger),
		Admin:        httpport.NewAdminHandler(adminService, appLogger),
	}

	server := httpport.NewServer(cfg.HTTPServer, cfg.Auth.JWTSecret, authService, handlers, metricsManager, appLogger)

	return &App{
		cfg:                 cfg,
		log:                 appLogger,
		server:              server,
		notificationService: notificationService,
		mongoClient:         mongoClient,
		redisClient:         redisClient,
		natsConn:            natsConn,
		tracerProvider:      tracerProvider,
		metricsManager:      metricsManager,
	}, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	a.notificationService.Start()

	go func() {
		if err := metrics.StartServer(a.cfg.Metrics.Port, a.log, a.metricsManager.Registry); err != nil {
			a.log.Errorf("Metrics server stopped: %v", err)
		}
	}()

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	}

	// Drain pending notifications before closing their backends.
	a.notificationService.Stop()

	if a.natsConn != nil {
		a.natsConn.Close()
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		}
	}
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("Error shutting down tracer provider: %v", err)
		}
	}

	a.log.Info("Application shut down successfully")
}
