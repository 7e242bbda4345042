package dependency

import (
	"context"
	"errors"
	"fmt"

	"github.com/itsDrac/authgate/internal/cache"
	"github.com/itsDrac/authgate/internal/db"
	"github.com/itsDrac/authgate/internal/handlers"
	"github.com/itsDrac/authgate/internal/middleware"
	"github.com/itsDrac/authgate/internal/repository"
	"github.com/itsDrac/authgate/internal/service"
	"github.com/itsDrac/authgate/pkg/config"
	"github.com/itsDrac/authgate/pkg/jwt"
	"github.com/itsDrac/authgate/pkg/logger"
)

// Dependencies holds all the intialized instances required by the application.
type Dependencies struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            *db.DB
	Cache         cache.Cacher
	Store         repository.UserStore
	JWT           *jwt.JwtManager
	Services      *service.Services
	Limiter       middleware.Limiter
	AuthHandler   *handlers.AuthHandler
	UserHandler   *handlers.UserHandler
	HealthHandler *handlers.HealthHandler
}

// NewDependencies connects to the backing stores, and wires up all services.
// Without DB_DSN users live in memory; without REDIS_ADDR the rate limiter
// is per process.
func NewDependencies(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Logger: log}

	if cfg.DBDsn != "" {
		if cfg.DBMigrate {
			if err := db.Migrate(cfg.DBDsn, cfg.MigrationsP); err != nil {
				log.Errorw("[DB] migration failed -> ", "error", err)
				return nil, err
			}
			log.Info("[DB] migrations applied")
		}
		conn, err := db.NewDB(ctx, cfg.DBDsn, log)
		if err != nil {
			log.Errorw("[DB] connection failed -> ", "error", err)
			return nil, err
		}
		deps.DB = conn
		deps.Store = repository.NewUserRepo(conn)
	} else {
		log.Warn("[DB] DB_DSN not set, using in-memory user store")
		deps.Store = repository.NewMemoryUserStore()
	}

	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisClient(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Errorw("[Cache] failed to initialized ->", "error", err)
			_ = deps.Close(ctx)
			return nil, err
		}
		log.Info("[Cache] connected")
		deps.Cache = rc
		deps.Limiter = middleware.NewRedisLimiter(rc, cfg.RateLimit)
	} else {
		deps.Limiter = middleware.NewMemoryLimiter(cfg.RateLimit)
	}

	jm, err := jwt.NewJwtManager(cfg.JWT)
	if err != nil {
		_ = deps.Close(ctx)
		return nil, err
	}
	deps.JWT = jm

	issuer := service.NewTokenIssuer(jm, cfg.EnableCookies)
	services, err := service.NewServices(deps.Store, issuer, log)
	if err != nil {
		log.Errorw("[Service] failed to initialized -> ", "error", err)
		_ = deps.Close(ctx)
		return nil, err
	}
	deps.Services = services

	if deps.AuthHandler, err = handlers.NewAuthHandler(services.AuthService, issuer); err != nil {
		_ = deps.Close(ctx)
		return nil, fmt.Errorf("[Auth Handler] failed to initialized -> %w", err)
	}
	if deps.UserHandler, err = handlers.NewUserHandler(services.UserService, issuer); err != nil {
		_ = deps.Close(ctx)
		return nil, fmt.Errorf("[User Handler] failed to initialized -> %w", err)
	}
	var cachePinger handlers.Pinger
	if deps.Cache != nil {
		cachePinger = deps.Cache
	}
	deps.HealthHandler = handlers.NewHealthHandler(services.UserService, cachePinger)

	return deps, nil
}

// Close releases the database pool and cache client.
func (d *Dependencies) Close(ctx context.Context) error {
	var errs []error
	if d.DB != nil {
		if err := d.DB.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close db connection: %w", err))
		}
	}
	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close cache: %w", err))
		}
	}
	return errors.Join(errs...)
}
