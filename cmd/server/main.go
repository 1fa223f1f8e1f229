package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/osmapp/osm-backend/internal/config"
	"github.com/osmapp/osm-backend/internal/database"
	"github.com/osmapp/osm-backend/internal/handler"
	"github.com/osmapp/osm-backend/internal/middleware"
	"github.com/osmapp/osm-backend/internal/queue"
	"github.com/osmapp/osm-backend/internal/repository"
	"github.com/osmapp/osm-backend/internal/router"
	"github.com/osmapp/osm-backend/internal/validation"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	actors := repository.NewActorRepo(db)
	resets := repository.NewResetTokenRepo(db)
	requests := repository.NewServiceRequestRepo(db)

	authHandler := handler.NewAuthHandler(cfg, actors, resets)
	requestHandler := handler.NewRequestHandler(requests)
	mechanicHandler := handler.NewMechanicHandler(actors)
	profileHandler := handler.NewProfileHandler(actors)

	// Rate limiting degrades to a pass-through when Redis is absent.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// The notification consumer is the out-of-band delivery stand-in;
	// it reconnects on its own and never takes the API down.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Validator = validation.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, limiter)
	router.RegisterRequests(e, requestHandler)
	router.RegisterCustomer(e, requestHandler, profileHandler, cfg.JWTSecret)
	router.RegisterMechanic(e, requestHandler, mechanicHandler, profileHandler, cfg.JWTSecret)
	router.RegisterProfile(e, profileHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
