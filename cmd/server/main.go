package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/veritydate/verity-backend/internal/app"
	"github.com/veritydate/verity-backend/internal/cache"
	"github.com/veritydate/verity-backend/internal/config"
	"github.com/veritydate/verity-backend/internal/db"
	httpSrv "github.com/veritydate/verity-backend/internal/http"
	"github.com/veritydate/verity-backend/internal/http/handlers"
	"github.com/veritydate/verity-backend/internal/http/middleware"
	"github.com/veritydate/verity-backend/internal/logger"
	"github.com/veritydate/verity-backend/internal/notify"
	"github.com/veritydate/verity-backend/internal/repository"
	"github.com/veritydate/verity-backend/internal/service/date"
	"github.com/veritydate/verity-backend/internal/service/discovery"
	"github.com/veritydate/verity-backend/internal/service/profile"
	"github.com/veritydate/verity-backend/internal/service/swipe"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	notifier := notify.NewStoreNotifier(
		repository.NewNotificationRepository(database),
		redisCache,
		log,
	)

	appCtx := app.New(database, redisCache, log, notifier)

	if cfg.App.ENV == "development" {
		if err := db.SeedDemoData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	// The real room provider is an external video service; this default
	// mints room urls under the configured base.
	rooms := date.RoomProviderFunc(func(ctx context.Context, dateID string) (string, error) {
		return fmt.Sprintf("%s/verity-%s", cfg.Rooms.BaseURL, uuid.NewString()), nil
	})

	discoverySvc := discovery.NewService(appCtx)
	swipeSvc := swipe.NewService(appCtx)
	dateSvc := date.NewService(appCtx, rooms)
	profileSvc := profile.NewService(appCtx)

	server := httpSrv.NewServer(httpSrv.RouterConfig{
		AuthHandler:         handlers.NewAuthHandler(appCtx, cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour),
		AuthMiddleware:      middleware.NewAuthMiddleware(cfg.JWT.Secret),
		DiscoverHandler:     handlers.NewDiscoverHandler(discoverySvc),
		SwipeHandler:        handlers.NewSwipeHandler(swipeSvc),
		DateHandler:         handlers.NewDateHandler(dateSvc),
		ProfileHandler:      handlers.NewProfileHandler(profileSvc),
		NotificationHandler: handlers.NewNotificationHandler(appCtx),
		HealthHandler:       handlers.NewHealthHandler(appCtx),
	})

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting http server", "addr", addr)

	if err := server.Run(addr); err != nil {
		log.Error("failed to start http server", "err", err)
	}
}
