package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/ZNLong2203/airzkare-booking/internal/cache"
	"github.com/ZNLong2203/airzkare-booking/internal/config"
	"github.com/ZNLong2203/airzkare-booking/internal/database"
	"github.com/ZNLong2203/airzkare-booking/internal/handler"
	"github.com/ZNLong2203/airzkare-booking/internal/queue"
	"github.com/ZNLong2203/airzkare-booking/internal/repository"
	"github.com/ZNLong2203/airzkare-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	store := cache.New(rdb, cfg.CacheTTL)

	userRepo := repository.NewUserRepo(db)
	airplaneRepo := repository.NewAirplaneRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	flightRepo := repository.NewFlightRepo(db)
	flightSeatRepo := repository.NewFlightSeatRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	passengerRepo := repository.NewPassengerRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo)
	airplaneHandler := handler.NewAirplaneHandler(airplaneRepo, seatRepo, flightRepo, store)
	flightHandler := handler.NewFlightHandler(flightRepo, flightSeatRepo, airplaneRepo, seatRepo, store)
	bookingHandler := handler.NewBookingHandler(bookingRepo, passengerRepo, flightSeatRepo, flightRepo, store)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, flightHandler, airplaneHandler)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, airplaneHandler, flightHandler, cfg.JWTSecret)
	router.RegisterBooking(e, bookingHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
