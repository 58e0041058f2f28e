package app

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/lifedash/questlog/internal/config"
	"github.com/lifedash/questlog/internal/db"
	"github.com/lifedash/questlog/internal/feed"
	"github.com/lifedash/questlog/internal/middleware"
	"github.com/lifedash/questlog/internal/repository"
	"github.com/lifedash/questlog/internal/service"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Redis           *redis.Client
	Hub             *feed.Hub
	FeedBridge      *feed.RedisBridge // nil without REDIS_URL
	RateLimiter     *middleware.RateLimiter
	AuthService     *service.AuthService
	UserService     *service.UserService
	GoalService     *service.GoalService
	ActivityService *service.ActivityService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	if cfg.MigrateOnStart {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			_ = db.Close(database)
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	a := &App{
		Cfg: cfg,
		DB:  database,
		Hub: feed.NewHub(),
	}

	// Live feed: local hub, bridged over Redis when configured
	var publisher service.Publisher = a.Hub
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		a.Redis = redis.NewClient(opts)
		a.FeedBridge = feed.NewRedisBridge(a.Redis, a.Hub, cfg.FeedChannel)
		publisher = a.FeedBridge
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	goalProgressRepository := repository.NewGoalProgressRepository(database)
	activityRepository := repository.NewActivityRepository(database)

	// Services
	a.AuthService = service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry)
	a.UserService = service.NewUserService(userRepository)
	a.GoalService = service.NewGoalService(goalRepository, goalProgressRepository, activityRepository, cfg.HistoryLimit)
	a.ActivityService = service.NewActivityService(activityRepository, publisher)
	a.RateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	return a, nil
}

func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, db.Close(a.DB))
	}
	return errors.Join(errs...)
}
