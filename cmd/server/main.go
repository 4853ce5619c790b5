package main

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/iliyamo/flight-reservation-api/internal/config"
    "github.com/iliyamo/flight-reservation-api/internal/database"
    "github.com/iliyamo/flight-reservation-api/internal/handler"
    appmw "github.com/iliyamo/flight-reservation-api/internal/middleware"
    "github.com/iliyamo/flight-reservation-api/internal/notify"
    "github.com/iliyamo/flight-reservation-api/internal/queue"
    "github.com/iliyamo/flight-reservation-api/internal/repository"
    "github.com/iliyamo/flight-reservation-api/internal/router"
)

func main() {
    // .env is optional; real deployments set env vars directly.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connection failed: %v", err)
    }
    if err := database.Migrate(db); err != nil {
        log.Fatalf("database migration failed: %v", err)
    }

    // Redis is optional; without it the rate limiter becomes a no-op.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable, rate limiting disabled")
    }
    limiter := appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

    principals := repository.NewPrincipalRepo(db)
    tokens := repository.NewTokenRepo(db)
    passengers := repository.NewPassengerRepo(db)
    flights := repository.NewFlightRepo(db)
    reservations := repository.NewReservationRepo(db)

    notifier := notify.New(notify.NewHTTPSink())

    authHandler := handler.NewAuthHandler(principals, tokens, cfg)
    reservationHandler := handler.NewReservationHandler(reservations, passengers, flights, notifier)

    // Mirrors published notification events into a local audit log.
    go queue.StartNotificationConsumer()

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.Logger())

    router.RegisterRoutes(e, authHandler, reservationHandler, cfg.JWTSecret, limiter)

    log.Printf("starting %s on :%s", cfg.Env, cfg.Port)
    if err := e.Start(":" + cfg.Port); err != nil {
        log.Fatalf("server stopped: %v", err)
    }
}
