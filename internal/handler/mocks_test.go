package handler

import (
	"context"

	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/Eursukkul/venue-booking/internal/service"
)

// --- Mock BookingService ---

type mockBookingService struct {
	submitFn       func(ctx context.Context, actor models.Actor, in service.SubmitInput) ([]models.Booking, error)
	decideFn       func(ctx context.Context, id uint, action models.Action) (*service.DecisionResult, error)
	decideTokenFn  func(ctx context.Context, raw string) (*service.DecisionResult, error)
	cancelFn       func(ctx context.Context, actor models.Actor, id uint) error
	dashboardFn    func(ctx context.Context) ([]models.GroupSummary, error)
	slotsForFn     func(ctx context.Context, venue, date string) (*service.Availability, error)
	slotDetailsFn  func(ctx context.Context, venue, date string) (*service.SlotDetails, error)
	myBookingsFn   func(ctx context.Context, actor models.Actor) ([]models.Booking, error)
	statsFn        func(ctx context.Context) (*service.Stats, error)
	clearHistoryFn func(ctx context.Context, actor models.Actor) (int64, error)
}

func (m *mockBookingService) Submit(ctx context.Context, actor models.Actor, in service.SubmitInput) ([]models.Booking, error) {
	return m.submitFn(ctx, actor, in)
}
func (m *mockBookingService) Decide(ctx context.Context, id uint, action models.Action) (*service.DecisionResult, error) {
	return m.decideFn(ctx, id, action)
}
func (m *mockBookingService) DecideToken(ctx context.Context, raw string) (*service.DecisionResult, error) {
	return m.decideTokenFn(ctx, raw)
}
func (m *mockBookingService) Cancel(ctx context.Context, actor models.Actor, id uint) error {
	return m.cancelFn(ctx, actor, id)
}
func (m *mockBookingService) Group(ctx context.Context, b *models.Booking) ([]models.Booking, error) {
	return nil, nil
}
func (m *mockBookingService) Dashboard(ctx context.Context) ([]models.GroupSummary, error) {
	return m.dashboardFn(ctx)
}
func (m *mockBookingService) SlotsFor(ctx context.Context, venue, date string) (*service.Availability, error) {
	return m.slotsForFn(ctx, venue, date)
}
func (m *mockBookingService) SlotDetails(ctx context.Context, venue, date string) (*service.SlotDetails, error) {
	return m.slotDetailsFn(ctx, venue, date)
}
func (m *mockBookingService) MyBookings(ctx context.Context, actor models.Actor) ([]models.Booking, error) {
	return m.myBookingsFn(ctx, actor)
}
func (m *mockBookingService) Stats(ctx context.Context) (*service.Stats, error) {
	return m.statsFn(ctx)
}
func (m *mockBookingService) ClearHistory(ctx context.Context, actor models.Actor) (int64, error) {
	return m.clearHistoryFn(ctx, actor)
}
func (m *mockBookingService) Wait() {}

// --- Mock VenueService ---

type mockVenueService struct {
	listFn   func(ctx context.Context) ([]models.Venue, error)
	addFn    func(ctx context.Context, name string, capacity int, location string) (*models.Venue, error)
	deleteFn func(ctx context.Context, id uint) error
}

func (m *mockVenueService) List(ctx context.Context) ([]models.Venue, error) {
	return m.listFn(ctx)
}
func (m *mockVenueService) Add(ctx context.Context, name string, capacity int, location string) (*models.Venue, error) {
	return m.addFn(ctx, name, capacity, location)
}
func (m *mockVenueService) Delete(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}
func (m *mockVenueService) EnsureDefaults(ctx context.Context, defaults []models.Venue) (int, error) {
	return 0, nil
}

// --- Mock UserService ---

type mockUserService struct {
	listFn   func(ctx context.Context) ([]models.User, error)
	addFn    func(ctx context.Context, username, password string) (*models.User, error)
	deleteFn func(ctx context.Context, id uint) error
	resetFn  func(ctx context.Context, id uint, pw string) error
}

func (m *mockUserService) Authenticate(ctx context.Context, username, password string) (*models.Actor, error) {
	return nil, service.ErrForbidden
}
func (m *mockUserService) ListFaculty(ctx context.Context) ([]models.User, error) {
	return m.listFn(ctx)
}
func (m *mockUserService) AddFaculty(ctx context.Context, username, password string) (*models.User, error) {
	return m.addFn(ctx, username, password)
}
func (m *mockUserService) DeleteFaculty(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}
func (m *mockUserService) ResetPassword(ctx context.Context, id uint, pw string) error {
	return m.resetFn(ctx, id, pw)
}
func (m *mockUserService) EnsureUser(ctx context.Context, username, password string, role models.Role) (bool, error) {
	return false, nil
}
