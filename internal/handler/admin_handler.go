package handler

import (
	"net/http"

	"github.com/Eursukkul/venue-booking/internal/dto"
	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/Eursukkul/venue-booking/internal/service"
	"github.com/labstack/echo/v4"
)

// AdminHandler serves the administrator dashboard, decisions and the venue
// and faculty registries.
type AdminHandler struct {
	bookings service.BookingService
	venues   service.VenueService
	users    service.UserService
}

func NewAdminHandler(bookings service.BookingService, venues service.VenueService, users service.UserService) *AdminHandler {
	return &AdminHandler{bookings: bookings, venues: venues, users: users}
}

func (h *AdminHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard", h.Dashboard)
	g.POST("/slot-details", h.SlotDetails)
	g.POST("/bookings/:id/approve", h.Approve)
	g.POST("/bookings/:id/reject", h.Reject)
	g.DELETE("/bookings", h.ClearHistory)

	g.GET("/venues", h.ListVenues)
	g.POST("/venues", h.CreateVenue)
	g.DELETE("/venues/:id", h.DeleteVenue)

	g.GET("/faculty", h.ListFaculty)
	g.POST("/faculty", h.CreateFaculty)
	g.DELETE("/faculty/:id", h.DeleteFaculty)
	g.POST("/faculty/:id/password", h.ResetPassword)
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	groups, err := h.bookings.Dashboard(ctx)
	if err != nil {
		return httpError(err)
	}
	stats, err := h.bookings.Stats(ctx)
	if err != nil {
		return httpError(err)
	}
	if groups == nil {
		groups = []models.GroupSummary{}
	}

	return c.JSON(http.StatusOK, dto.DashboardResponse{
		Groups: groups,
		Stats:  dto.ToStatsResponse(stats),
	})
}

func (h *AdminHandler) SlotDetails(c echo.Context) error {
	var req dto.VenueDateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	details, err := h.bookings.SlotDetails(c.Request().Context(), req.Venue, req.Date)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.SlotDetailsResponse{
		Booked:  dto.ToBookingResponses(details.Booked),
		Pending: dto.ToBookingResponses(details.Pending),
	})
}

func (h *AdminHandler) Approve(c echo.Context) error {
	return h.decide(c, models.ActionApprove)
}

func (h *AdminHandler) Reject(c echo.Context) error {
	return h.decide(c, models.ActionReject)
}

func (h *AdminHandler) decide(c echo.Context, action models.Action) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	result, err := h.bookings.Decide(c.Request().Context(), id, action)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToDecisionResponse(result))
}

func (h *AdminHandler) ClearHistory(c echo.Context) error {
	who, err := actor(c)
	if err != nil {
		return err
	}

	deleted, err := h.bookings.ClearHistory(c.Request().Context(), who)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ClearHistoryResponse{Deleted: deleted})
}

func (h *AdminHandler) ListVenues(c echo.Context) error {
	venues, err := h.venues.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, venues)
}

func (h *AdminHandler) CreateVenue(c echo.Context) error {
	var req dto.CreateVenueRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	venue, err := h.venues.Add(c.Request().Context(), req.Name, req.Capacity, req.Location)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, venue)
}

func (h *AdminHandler) DeleteVenue(c echo.Context) error {
	id, err := parseID(c, "venue")
	if err != nil {
		return err
	}
	if err := h.venues.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ListFaculty(c echo.Context) error {
	users, err := h.users.ListFaculty(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = dto.ToUserResponse(&users[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) CreateFaculty(c echo.Context) error {
	var req dto.CreateFacultyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.AddFaculty(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

func (h *AdminHandler) DeleteFaculty(c echo.Context) error {
	id, err := parseID(c, "user")
	if err != nil {
		return err
	}
	if err := h.users.DeleteFaculty(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ResetPassword(c echo.Context) error {
	id, err := parseID(c, "user")
	if err != nil {
		return err
	}

	var req dto.ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.users.ResetPassword(c.Request().Context(), id, req.NewPassword); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
