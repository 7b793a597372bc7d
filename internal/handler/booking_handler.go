package handler

import (
	"net/http"

	"github.com/Eursukkul/venue-booking/internal/dto"
	"github.com/Eursukkul/venue-booking/internal/service"
	"github.com/labstack/echo/v4"
)

// BookingHandler serves the faculty booking workflow.
type BookingHandler struct {
	svc    service.BookingService
	venues service.VenueService
}

func NewBookingHandler(svc service.BookingService, venues service.VenueService) *BookingHandler {
	return &BookingHandler{svc: svc, venues: venues}
}

// RegisterRoutes mounts the faculty-only routes on g, which must already carry
// authentication and role checks. Availability is shared with admins and is
// mounted separately.
func (h *BookingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/bookings", h.SubmitBooking)
	g.GET("/bookings", h.MyBookings)
	g.DELETE("/bookings/:id", h.CancelBooking)
}

func (h *BookingHandler) ListVenues(c echo.Context) error {
	venues, err := h.venues.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, venues)
}

func (h *BookingHandler) Availability(c echo.Context) error {
	var req dto.VenueDateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	avail, err := h.svc.SlotsFor(c.Request().Context(), req.Venue, req.Date)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToAvailabilityResponse(avail))
}

func (h *BookingHandler) SubmitBooking(c echo.Context) error {
	who, err := actor(c)
	if err != nil {
		return err
	}

	var req dto.SubmitBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	bookings, err := h.svc.Submit(c.Request().Context(), who, service.SubmitInput{
		EventName:         req.EventName,
		Venue:             req.Venue,
		Date:              req.Date,
		Slots:             req.Slots,
		NumPeople:         req.NumPeople,
		CanteenRequired:   req.CanteenRequired,
		CanteenDetails:    req.CanteenDetails,
		OtherRequirements: req.OtherRequirements,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.SubmitResponse{
		PrimaryID: bookings[0].ID,
		Bookings:  dto.ToBookingResponses(bookings),
	})
}

func (h *BookingHandler) MyBookings(c echo.Context) error {
	who, err := actor(c)
	if err != nil {
		return err
	}

	bookings, err := h.svc.MyBookings(c.Request().Context(), who)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	who, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	if err := h.svc.Cancel(c.Request().Context(), who, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
