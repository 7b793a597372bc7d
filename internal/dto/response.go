package dto

import (
	"time"

	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/Eursukkul/venue-booking/internal/service"
)

type BookingResponse struct {
	ID                uint                 `json:"id"`
	EventName         string               `json:"event_name"`
	FacultyName       string               `json:"faculty_name"`
	Venue             string               `json:"venue"`
	Date              string               `json:"date"`
	Slot              string               `json:"slot"`
	NumPeople         int                  `json:"num_people"`
	Status            models.BookingStatus `json:"status"`
	CanteenDetails    *string              `json:"canteen_details,omitempty"`
	OtherRequirements *string              `json:"other_requirements,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

type SubmitResponse struct {
	PrimaryID uint              `json:"primary_id"`
	Bookings  []BookingResponse `json:"bookings"`
}

// AvailabilityResponse keeps the field names the booking form expects:
// booked slots are hard conflicts, pending ones are advisory.
type AvailabilityResponse struct {
	Booked  []string `json:"booked"`
	Pending []string `json:"pending"`
}

type SlotDetailsResponse struct {
	Booked  []BookingResponse `json:"booked"`
	Pending []BookingResponse `json:"pending"`
}

type DecisionResponse struct {
	Outcome      service.Outcome      `json:"outcome"`
	BookingID    uint                 `json:"booking_id"`
	Action       models.Action        `json:"action"`
	Status       models.BookingStatus `json:"status"`
	UpdatedSlots []string             `json:"updated_slots"`
	Message      string               `json:"message"`
}

type StatsResponse struct {
	TotalBookings int64 `json:"total_bookings"`
	Pending       int64 `json:"pending"`
	Approved      int64 `json:"approved"`
	Rejected      int64 `json:"rejected"`
	Venues        int64 `json:"venues"`
	Faculty       int64 `json:"faculty"`
}

type DashboardResponse struct {
	Groups []models.GroupSummary `json:"groups"`
	Stats  StatsResponse         `json:"stats"`
}

type UserResponse struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

type ClearHistoryResponse struct {
	Deleted int64 `json:"deleted"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:                b.ID,
		EventName:         b.EventName,
		FacultyName:       b.FacultyName,
		Venue:             b.Venue,
		Date:              b.Date,
		Slot:              b.Slot,
		NumPeople:         b.NumPeople,
		Status:            b.Status,
		CanteenDetails:    b.CanteenDetails,
		OtherRequirements: b.OtherRequirements,
		CreatedAt:         b.CreatedAt,
	}
}

func ToBookingResponses(bookings []models.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = ToBookingResponse(&bookings[i])
	}
	return resp
}

func ToAvailabilityResponse(a *service.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		Booked:  nonNil(a.Confirmed),
		Pending: nonNil(a.Advisory),
	}
}

func ToDecisionResponse(r *service.DecisionResult) DecisionResponse {
	resp := DecisionResponse{
		Outcome:      r.Outcome,
		BookingID:    r.BookingID,
		Action:       r.Action,
		Status:       r.Status,
		UpdatedSlots: nonNil(r.UpdatedSlots),
	}
	if r.Outcome == service.OutcomeAlreadyDecided {
		resp.Message = "booking already processed"
	} else {
		resp.Message = "booking " + string(r.Status)
	}
	return resp
}

func ToStatsResponse(s *service.Stats) StatsResponse {
	return StatsResponse{
		TotalBookings: s.TotalBookings,
		Pending:       s.Pending,
		Approved:      s.Approved,
		Rejected:      s.Rejected,
		Venues:        s.Venues,
		Faculty:       s.Faculty,
	}
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Role: u.Role}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
