package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/config"
	activitylogrepo "github.com/Ramsey-B/clover/internal/repositories/activitylog"
	relationshiprepo "github.com/Ramsey-B/clover/internal/repositories/relationship"
	activitysvc "github.com/Ramsey-B/clover/internal/services/activity"
	contactsvc "github.com/Ramsey-B/clover/internal/services/contact"
	relationshipsvc "github.com/Ramsey-B/clover/internal/services/relationship"
	reportsvc "github.com/Ramsey-B/clover/internal/services/report"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/directory"
	"github.com/Ramsey-B/clover/pkg/health"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/middleware"
	activityroutes "github.com/Ramsey-B/clover/pkg/routes/activity"
	contactroutes "github.com/Ramsey-B/clover/pkg/routes/contact"
	relationshiproutes "github.com/Ramsey-B/clover/pkg/routes/relationship"
	reportroutes "github.com/Ramsey-B/clover/pkg/routes/report"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Config{}
	if err := ectoenv.BindEnv(&cfg); err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger := newLogger(cfg)
	logger.Infof("Starting %s", cfg.AppName)

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	tracing.SetTracer(tp.Tracer(cfg.AppName))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	db, err := database.Connect(database.Config{
		Driver:          cfg.DatabaseDriver,
		Host:            cfg.DatabaseHost,
		Port:            cfg.DatabasePort,
		UserName:        cfg.DatabaseUserName,
		Password:        cfg.DatabasePassword,
		Name:            cfg.DatabaseName,
		SSLMode:         cfg.DatabaseSSLMode,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		logger.WithError(err).Error("Failed to create migration driver")
		os.Exit(1)
	}
	migrations := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
	})
	if err := migrations.Migrate(cfg.DatabaseName, driver); err != nil {
		logger.WithError(err).Error("Failed to apply migrations")
		os.Exit(1)
	}

	contactDir, err := directory.NewRedisDirectory(directory.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to Redis")
		os.Exit(1)
	}
	defer contactDir.Close()

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaExportTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: cfg.KafkaRequiredAcks,
		Compression:  cfg.KafkaCompression,
	}, logger)
	defer producer.Close()

	activityRepo := activitylogrepo.NewRepository(db, logger)
	relationshipRepo := relationshiprepo.NewRepository(db, logger)

	contactService := contactsvc.NewService(contactDir, activityRepo, logger)
	relationshipService := relationshipsvc.NewService(relationshipRepo, contactDir, activityRepo, logger)
	activityService := activitysvc.NewService(activityRepo, contactDir, logger)
	reportService := reportsvc.NewService(contactDir, relationshipRepo, relationshipService, activityRepo, producer, logger)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(echomw.Recover())
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second

	checker := health.NewChecker(db, contactDir.Client())
	checker.RegisterRoutes(e)

	contactroutes.NewHandler(contactService, logger).RegisterRoutes(e.Group("/contacts"))
	relationshiproutes.NewHandler(relationshipService, reportService, logger).RegisterRoutes(e.Group("/contacts/relationships"))
	activityroutes.NewHandler(activityService, logger).RegisterRoutes(e.Group("/activities"))
	reportroutes.NewHandler(reportService, logger).RegisterRoutes(e.Group("/reports"))

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Failed to start server")
			os.Exit(1)
		}
	}()
	checker.SetReady(true)
	logger.WithField("port", cfg.Port).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	checker.SetReady(false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func newLogger(cfg config.Config) ectologger.Logger {
	var zapLogger *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}
