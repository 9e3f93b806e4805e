package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/lift-board/internal/config"
	"github.com/iliyamo/lift-board/internal/database"
	"github.com/iliyamo/lift-board/internal/handler"
	"github.com/iliyamo/lift-board/internal/middleware"
	"github.com/iliyamo/lift-board/internal/queue"
	"github.com/iliyamo/lift-board/internal/router"
	"github.com/iliyamo/lift-board/internal/service"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()
	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("schema migration failed", zap.Error(err))
		}
	}

	rdb := config.NewRedisClient(ctx, config.RedisOptions())
	if rdb == nil {
		logger.Warn("redis unavailable, board cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	var events service.EventPublisher
	if cfg.BrokerURL != "" {
		events = queue.NewPublisher(cfg.BrokerURL, logger)
	}
	if cfg.ConsumerEnabled && cfg.BrokerURL != "" {
		consumer := queue.NewConsumer(cfg.BrokerURL, cfg.LogDir, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("assignment consumer stopped", zap.Error(err))
			}
		}()
	}

	store := service.NewSQLStore(db)
	cache := service.NewBoardCache(config.LoadCacheConfig(), rdb)
	board := service.NewBoardService(store, cache, logger)
	assignments := service.NewAssignmentService(store.Assignments, cache, events, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(requestLogger(logger))

	router.RegisterRoutes(e)
	router.RegisterBoard(e,
		handler.NewBoardHandler(board, board.Resolver(), assignments, logger),
		cfg.JWTSecret,
		middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb, logger),
	)

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	assignments.Flush()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProd() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// requestLogger writes one zap line per request.
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if id := middleware.UserID(c); id != "" {
				fields = append(fields, zap.String("user_id", id))
			}
			if v.Error != nil {
				logger.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
