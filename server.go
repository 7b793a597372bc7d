package main

import (
	"log/slog"
	"net/http"

	"github.com/Eursukkul/venue-booking/internal/handler"
	"github.com/Eursukkul/venue-booking/internal/middleware"
	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func newServer(a *app, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewValidator()
	e.Use(echoMw.Recover())
	e.Use(middleware.RequestLogger(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": programName})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	handler.NewEmailHandler(a.bookings).RegisterRoutes(e)

	bookingHandler := handler.NewBookingHandler(a.bookings, a.venues)
	api := e.Group("/api/v1", middleware.BasicAuth(a.users))
	api.GET("/venues", bookingHandler.ListVenues)

	api.POST("/faculty/availability", bookingHandler.Availability,
		middleware.RequireRole(models.RoleFaculty, models.RoleAdmin))

	faculty := api.Group("/faculty", middleware.RequireRole(models.RoleFaculty))
	bookingHandler.RegisterRoutes(faculty)

	admin := api.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	handler.NewAdminHandler(a.bookings, a.venues, a.users).RegisterRoutes(admin)

	return e
}
