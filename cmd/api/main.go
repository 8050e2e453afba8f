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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/internship-api/api/swagger"
	"github.com/noah-isme/internship-api/internal/handler"
	"github.com/noah-isme/internship-api/internal/repository"
	"github.com/noah-isme/internship-api/internal/router"
	"github.com/noah-isme/internship-api/internal/service"
	"github.com/noah-isme/internship-api/pkg/auth"
	"github.com/noah-isme/internship-api/pkg/cache"
	"github.com/noah-isme/internship-api/pkg/config"
	"github.com/noah-isme/internship-api/pkg/database"
	"github.com/noah-isme/internship-api/pkg/export"
	"github.com/noah-isme/internship-api/pkg/logger"
)

// @title Internship Placement API
// @version 1.0.0
// @description Students, mentors, employers, placements and evaluations.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database, logr)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logr); err != nil {
			logr.Fatal("failed to migrate schema", zap.Error(err))
		}
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	hasher := auth.NewPasswordHasher(cfg.Password.BcryptCost)
	tokens := auth.NewTokenIssuer(auth.TokenConfig{
		Secret: cfg.JWT.Secret,
		TTL:    cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})

	studentRepo := repository.NewStudentRepository(db)
	mentorRepo := repository.NewMentorRepository(db)
	employerRepo := repository.NewEmployerRepository(db)
	placementRepo := repository.NewPlacementRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	reportRepo := repository.NewReportRepository(db)

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}

	// attempts stays a nil interface unless Redis answered.
	var attempts service.AttemptStore
	if cfg.Login.ThrottleEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, login throttling disabled", zap.String("addr", cache.Addr(cfg.Redis)), zap.Error(err))
		} else {
			attemptRepo := repository.NewAttemptRepository(client, logr)
			defer attemptRepo.Close() //nolint:errcheck
			attempts = attemptRepo
			checks["redis"] = attemptRepo.Ping
		}
	}

	authSvc := service.NewAuthService(
		service.AuthRepositories{Students: studentRepo, Mentors: mentorRepo, Employers: employerRepo},
		hasher,
		tokens,
		attempts,
		metrics,
		validate,
		logr,
		service.AuthConfig{
			ThrottleEnabled: cfg.Login.ThrottleEnabled,
			MaxAttempts:     cfg.Login.MaxAttempts,
			LockoutWindow:   cfg.Login.LockoutWindow,
		},
	)

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Students:    handler.NewStudentHandler(service.NewStudentService(studentRepo, hasher, validate, logr)),
		Mentors:     handler.NewMentorHandler(service.NewMentorService(mentorRepo, studentRepo, hasher, validate, logr)),
		Employers:   handler.NewEmployerHandler(service.NewEmployerService(employerRepo, hasher, validate, logr)),
		Placements:  handler.NewPlacementHandler(service.NewPlacementService(placementRepo, studentRepo, validate, logr)),
		Evaluations: handler.NewEvaluationHandler(service.NewEvaluationService(evaluationRepo, validate, logr)),
		Reports:     handler.NewReportHandler(service.NewReportService(reportRepo, metrics, logr, export.NewCSVExporter(), export.NewPDFExporter())),
		Metrics:     handler.NewMetricsHandler(metrics, checks),
	}

	engine := router.New(handlers, authSvc, metrics, router.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		EnableMetrics:  cfg.Metrics.Enabled,
		Logger:         logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
