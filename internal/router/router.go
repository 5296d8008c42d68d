// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ZNLong2203/airzkare-booking/internal/handler"
	"github.com/ZNLong2203/airzkare-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check and the public flight browse endpoints.  Guests can
// search flights and inspect seat maps before logging in to book.
func RegisterRoutes(e *echo.Echo, f *handler.FlightHandler, a *handler.AirplaneHandler) {
	e.GET("/healthz", handler.Health)

	e.GET("/v1/flights", f.ListFlights)
	e.GET("/v1/flights/:id", f.GetFlight)
	e.GET("/v1/airplanes", a.ListAirplanes)
	e.GET("/v1/airplanes/:id", a.GetAirplane)
}

// RegisterAuth registers authentication routes.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterAdmin registers fleet and schedule management endpoints.
// All of them require a valid token with the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AirplaneHandler, f *handler.FlightHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.POST("/airplanes", a.CreateAirplane)
	g.PUT("/airplanes/:id/capacity", a.ResizeAirplane)
	g.DELETE("/airplanes/:id", a.DeleteAirplane)

	g.POST("/flights", f.CreateFlight)
	g.PUT("/flights/:id", f.UpdateFlight)
	g.DELETE("/flights/:id", f.DeleteFlight)
}

// RegisterBooking registers the booking lifecycle endpoints.  Both
// customers and admins can book.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("CUSTOMER", "ADMIN"))

	g.POST("", b.StartBooking)
	g.GET("/history", b.GetHistory)
	g.POST("/:id/passengers", b.AttachPassengers)
	g.POST("/:id/confirm", b.ConfirmBooking)
	g.POST("/:id/cancel", b.CancelBooking)
}
