package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	badgecache "groupware-approval/internal/adapter/cache"
	httpadp "groupware-approval/internal/adapter/http"
	mw "groupware-approval/internal/adapter/middleware"
	"groupware-approval/internal/adapter/publisher"
	"groupware-approval/internal/adapter/repository/gormrepo"
	"groupware-approval/internal/config"
	"groupware-approval/internal/domain/event"
	"groupware-approval/internal/infrastructure/cache"
	"groupware-approval/internal/infrastructure/db"
	"groupware-approval/internal/infrastructure/logger"
	"groupware-approval/internal/infrastructure/messaging"
	"groupware-approval/internal/usecase/document"
	"groupware-approval/internal/usecase/notification"
	"groupware-approval/internal/usecase/transition"
	"groupware-approval/pkg/id"
)

func main() {
	cfg := config.Load()
	lg := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), cfg.DBLogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open db")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	// redis backs idempotency and the badge cache; no address disables both
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		if rdb, err = cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("open redis")
		}
		defer rdb.Close()
	}

	nc, err := messaging.OpenNATS(cfg.NATSURL, "groupware-approval")
	if err != nil {
		log.Fatal().Err(err).Msg("open nats")
	}
	var next event.Publisher = event.NopPublisher{}
	if nc != nil {
		defer nc.Drain()
		next = publisher.NewNATSPublisher(nc, cfg.NATSSubjectPrefix, lg)
	}

	docs := gormrepo.NewDocumentRepository(gdb)
	routes := gormrepo.NewRouteRepository(gdb)
	members := gormrepo.NewMemberRepository(gdb)
	tx := gormrepo.NewGormUoW(gdb, cfg.LockRetries)

	var badges notification.Cache
	if rdb != nil {
		badges = badgecache.NewBadgeCache(rdb, cfg.BadgeTTL())
	}
	tracker := notification.NewTracker(docs, routes, badges, next)

	h := httpadp.NewHandler(
		document.NewUsecase(docs, routes, members, tx, tracker),
		transition.NewUsecase(tx, tracker),
		tracker,
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: id.New}),
		middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogMethod:    true,
			LogURI:       true,
			LogStatus:    true,
			LogLatency:   true,
			LogRequestID: true,
			LogError:     true,
			HandleError:  true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				ev := log.Info()
				if v.Error != nil {
					ev = log.Error().Err(v.Error)
				}
				ev.Str("request_id", v.RequestID).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
				return nil
			},
		}),
		middleware.Recover(),
	)

	var mutate []echo.MiddlewareFunc
	if rdb != nil {
		mutate = append(mutate, mw.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL()))
	}
	h.Register(e, mw.RequireActor(), mutate...)

	addr := ":" + cfg.AppPort
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.AppEnv).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Dur("timeout", cfg.ShutdownTimeout).Time("at", time.Now().UTC()).Msg("stopped")
}
