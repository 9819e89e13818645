package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/checkin-service/internal/api/http"
	"github.com/spec-kit/checkin-service/internal/api/http/handlers"
	"github.com/spec-kit/checkin-service/internal/auth"
	"github.com/spec-kit/checkin-service/internal/calendar"
	"github.com/spec-kit/checkin-service/internal/config"
	"github.com/spec-kit/checkin-service/internal/credential"
	"github.com/spec-kit/checkin-service/internal/events"
	"github.com/spec-kit/checkin-service/internal/observability"
	"github.com/spec-kit/checkin-service/internal/persistence"
	"github.com/spec-kit/checkin-service/internal/repository"
	"github.com/spec-kit/checkin-service/internal/service"
	"github.com/spec-kit/checkin-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	attendeeRepo := repository.NewAttendeeRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	cal := calendar.New(cfg.Event.StartDate, cfg.Event.DurationDays)
	codec := credential.NewCodec(cfg.Credential.Secret, cfg.Event.ID, cfg.Credential.TTL(), cfg.Credential.AllowLegacyPlain)
	if codec.AllowsLegacy() {
		logger.Warn("legacy unsigned credentials enabled; tokens in this mode are forgeable")
	}

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(cfg.Auth, staffRepo, resetRepo)
	registrationService := service.NewRegistrationService(attendeeRepo, codec, dispatcher, cfg.Event.ID, logger)
	checkinService := service.NewCheckinService(cal, attendanceRepo, dispatcher, cfg.Postgres.QueryTimeout(), logger)
	scanService := service.NewScanService(codec, attendeeRepo, checkinService, logger)
	statsService := service.NewStatsService(redis, attendanceRepo, cfg.Event.ID, logger)
	statsService.RegisterHandlers(dispatcher)
	reportService := service.NewReportService(attendanceRepo, attendeeRepo, statsService, cal, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), staffRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Staff:          handlers.NewStaffHandler(authService),
		Registrations:  handlers.NewRegistrationsHandler(registrationService),
		Scans:          handlers.NewScansHandler(scanService, metrics),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
