package server

import (
	"backend-travique/internal/auth"
	"backend-travique/internal/config"
	"backend-travique/internal/history"
	"backend-travique/internal/marker"
	"backend-travique/internal/notify"
	"backend-travique/internal/stats"
	"backend-travique/internal/store"
	"backend-travique/internal/stream"
	"backend-travique/internal/tracking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Stream  *stream.Hub
	Feed    *tracking.FeedSource
	Manager *tracking.Manager
	Gateway *store.Gateway
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	hub := stream.NewHub(redisClient)
	gateway := store.NewGateway(remoteStore(db), store.NewLocalCache(redisClient))
	feed := tracking.NewFeedSource()
	notifier := notify.NewHubSink(hub, "notifications")

	s := &Server{
		App:     app,
		Cfg:     cfg,
		DB:      db,
		Redis:   redisClient,
		Stream:  hub,
		Feed:    feed,
		Gateway: gateway,
		Manager: tracking.NewManager(feed, gateway, notifier, hub, tracking.Cadence{
			FlushWaypoints: cfg.FlushWaypoints,
			FlushInterval:  cfg.FlushInterval,
			RetryDelay:     cfg.GPSRetryDelay,
		}),
	}

	registerRoutes(s)
	return s
}

func remoteStore(db *pgxpool.Pool) *store.RemoteStore {
	if db == nil {
		return nil
	}
	return store.NewRemoteStore(db)
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	// auth and markers live in postgres only; without a pool they get a
	// clean 503 instead of a nil dereference. Trip routes keep working
	// through the gateway's local fallback.
	requireDB := requireStorage(s.DB)

	auth.RegisterRoutes(s.App.Group("/auth", requireDB), auth.NewService(s.Cfg.JWTSecret, s.DB))
	tracking.RegisterRoutes(s.App.Group("/tracking"), s.Manager, s.Feed, jwtMiddleware)
	history.RegisterRoutes(s.App.Group("/trips"), s.Gateway, jwtMiddleware)
	stats.RegisterRoutes(s.App.Group("/stats"), stats.NewService(s.Gateway), jwtMiddleware)
	marker.RegisterRoutes(s.App.Group("/markers", requireDB), marker.NewService(s.DB), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}

func requireStorage(db *pgxpool.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "storage unavailable")
		}
		return c.Next()
	}
}
