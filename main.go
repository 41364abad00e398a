package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/event-registration/config"
	"github.com/Eursukkul/event-registration/internal/auth"
	"github.com/Eursukkul/event-registration/internal/consumer"
	"github.com/Eursukkul/event-registration/internal/handler"
	"github.com/Eursukkul/event-registration/internal/middleware"
	"github.com/Eursukkul/event-registration/internal/notifier"
	"github.com/Eursukkul/event-registration/internal/repository"
	"github.com/Eursukkul/event-registration/internal/service"
	"github.com/Eursukkul/event-registration/pkg/database"
	"github.com/Eursukkul/event-registration/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	shutdownTimeout  = 10 * time.Second
	consumerPrefetch = 10
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("registration service stopped", zap.Error(err))
	}
	logger.Info("registration service stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) (err error) {
	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, database.Close(db)) }()

	// Repositories
	eventRepo := repository.NewEventRepository(db)
	userRepo := repository.NewUserRepository(db)
	regRepo := repository.NewRegistrationRepository(db)

	mail := newMailNotifier(cfg, logger)

	g, gctx := errgroup.WithContext(ctx)

	// Notifications go straight to mail unless queue mode hands them to the
	// broker and a consumer delivers them.
	paymentNotifier := mail
	if cfg.RabbitURL != "" {
		closeMQ, notif, mqErr := startMessaging(gctx, g, cfg, eventRepo, userRepo, mail, logger)
		if mqErr != nil {
			return mqErr
		}
		defer func() { err = multierr.Append(err, closeMQ()) }()
		if notif != nil {
			paymentNotifier = notif
		}
	} else {
		logger.Warn("RABBITMQ_URL not set, catalog sync disabled")
	}

	// Services
	registrationSvc := service.NewRegistrationService(regRepo, eventRepo, logger)
	paymentSvc := service.NewPaymentService(regRepo, eventRepo, userRepo, paymentNotifier, logger, cfg.NotifyTimeout)

	e := newServer(cfg, db, logger)
	authn := middleware.Authenticate(auth.NewTokenVerifier(cfg.JWTSecret), userRepo, logger)
	api := e.Group("/api")
	handler.NewRegistrationHandler(registrationSvc, logger).RegisterRoutes(api, authn)
	handler.NewPaymentHandler(paymentSvc, logger).RegisterRoutes(api, authn)

	g.Go(func() error {
		logger.Info("registration service starting", zap.String("port", cfg.ServerPort))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// startMessaging starts the catalog sync consumer and, in queue mode, the
// notification publisher and consumer. The returned notifier is nil in
// direct mode.
func startMessaging(
	ctx context.Context,
	g *errgroup.Group,
	cfg *config.Config,
	events repository.EventRepository,
	users repository.UserRepository,
	mail notifier.Notifier,
	logger *zap.Logger,
) (func() error, notifier.Notifier, error) {
	var closers []func() error
	closeAll := func() error {
		var err error
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
		return err
	}
	fail := func(err error) (func() error, notifier.Notifier, error) {
		return nil, nil, multierr.Append(err, closeAll())
	}

	syncMQ, err := rabbitmq.NewConsumer(cfg.RabbitURL, consumer.SyncQueue, consumer.SyncBindings, consumerPrefetch, logger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, syncMQ.Close)

	syncMsgs, err := syncMQ.Consume(ctx)
	if err != nil {
		return fail(err)
	}
	syncer := consumer.NewSyncConsumer(events, users, logger)
	g.Go(func() error { return syncer.Run(ctx, syncMsgs) })

	if cfg.NotifyMode != config.NotifyQueue {
		return closeAll, nil, nil
	}

	pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, logger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, pub.Close)

	notifyMQ, err := rabbitmq.NewConsumer(cfg.RabbitURL, consumer.NotificationQueue, consumer.NotificationBindings, consumerPrefetch, logger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, notifyMQ.Close)

	notifyMsgs, err := notifyMQ.Consume(ctx)
	if err != nil {
		return fail(err)
	}
	mailer := consumer.NewNotificationConsumer(mail, cfg.NotifyTimeout, logger)
	g.Go(func() error { return mailer.Run(ctx, notifyMsgs) })

	logger.Info("registration emails routed through broker")
	return closeAll, notifier.NewQueueNotifier(pub), nil
}

func newMailNotifier(cfg *config.Config, logger *zap.Logger) notifier.Notifier {
	if !cfg.SMTPConfigured() {
		logger.Warn("SMTP not configured, registration emails are logged only")
		return notifier.NewLogNotifier(logger)
	}
	return notifier.NewSMTPNotifier(notifier.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.Sender(),
		Secure:   cfg.SMTPSecure,
	})
}

func newServer(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewRequestValidator()

	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	origins := []string{"*"}
	if cfg.ClientURL != "" {
		origins = []string{cfg.ClientURL}
	}
	e.Use(echoMw.CORSWithConfig(echoMw.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		status := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			status = "degraded"
		}
		return c.JSON(http.StatusOK, map[string]string{"status": status, "service": "registration-service"})
	})

	return e
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	return zc.Build()
}
