package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/Eursukkul/venue-booking/internal/notifier"
	"github.com/Eursukkul/venue-booking/internal/repository"
	"github.com/Eursukkul/venue-booking/internal/token"
	"gorm.io/gorm"
)

const (
	dateLayout    = "2006-01-02"
	notifyTimeout = 30 * time.Second
)

type Outcome string

const (
	OutcomeDecided        Outcome = "decided"
	OutcomeAlreadyDecided Outcome = "already_decided"
)

// DecisionResult reports what a decision did. AlreadyDecided is not an
// error: the group had no pending members left, and Status names the
// status the referenced booking already holds.
type DecisionResult struct {
	Outcome      Outcome
	BookingID    uint
	Action       models.Action
	Status       models.BookingStatus
	UpdatedSlots []string
}

type SubmitInput struct {
	EventName         string
	Venue             string
	Date              string
	Slots             []string
	NumPeople         int
	CanteenRequired   bool
	CanteenDetails    string
	OtherRequirements string
}

type Stats struct {
	TotalBookings int64
	Pending       int64
	Approved      int64
	Rejected      int64
	Venues        int64
	Faculty       int64
}

type BookingService interface {
	Submit(ctx context.Context, actor models.Actor, in SubmitInput) ([]models.Booking, error)
	Decide(ctx context.Context, bookingID uint, action models.Action) (*DecisionResult, error)
	DecideToken(ctx context.Context, rawToken string) (*DecisionResult, error)
	Cancel(ctx context.Context, actor models.Actor, bookingID uint) error
	Group(ctx context.Context, booking *models.Booking) ([]models.Booking, error)
	Dashboard(ctx context.Context) ([]models.GroupSummary, error)
	SlotsFor(ctx context.Context, venue, date string) (*Availability, error)
	SlotDetails(ctx context.Context, venue, date string) (*SlotDetails, error)
	MyBookings(ctx context.Context, actor models.Actor) ([]models.Booking, error)
	Stats(ctx context.Context) (*Stats, error)
	ClearHistory(ctx context.Context, actor models.Actor) (int64, error)
	Wait()
}

type BookingServiceConfig struct {
	Notifier notifier.Notifier
	Codec    *token.Codec
	TokenTTL time.Duration
	Metrics  *Metrics
	Logger   *slog.Logger
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	venueRepo   repository.VenueRepository
	userRepo    repository.UserRepository
	notifier    notifier.Notifier
	codec       *token.Codec
	tokenTTL    time.Duration
	metrics     *Metrics
	logger      *slog.Logger
	inflight    sync.WaitGroup
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	venueRepo repository.VenueRepository,
	userRepo repository.UserRepository,
	cfg BookingServiceConfig,
) BookingService {
	s := &bookingService{
		bookingRepo: bookingRepo,
		venueRepo:   venueRepo,
		userRepo:    userRepo,
		notifier:    cfg.Notifier,
		codec:       cfg.Codec,
		tokenTTL:    cfg.TokenTTL,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return s
}

func (s *bookingService) Submit(ctx context.Context, actor models.Actor, in SubmitInput) ([]models.Booking, error) {
	bookings, err := in.bookings(actor.Username)
	if err != nil {
		return nil, err
	}

	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.bookingRepo.CreateBatch(ctx, tx, bookings)
	})
	if err != nil {
		s.logger.Error("failed to create booking group",
			"component", "booking",
			"event", in.EventName,
			"faculty", actor.Username,
			"error", err,
		)
		return nil, persistenceError(err)
	}

	s.metrics.submitted(len(bookings))
	s.logger.Info("booking request submitted",
		"component", "booking",
		"booking_id", bookings[0].ID,
		"slots", len(bookings),
		"faculty", actor.Username,
	)

	s.notifyAsync(ctx, bookings[0])
	return bookings, nil
}

// bookings validates the input and expands it into one Pending row per slot.
func (in SubmitInput) bookings(faculty string) ([]models.Booking, error) {
	eventName := strings.TrimSpace(in.EventName)
	venue := strings.TrimSpace(in.Venue)
	date := strings.TrimSpace(in.Date)
	faculty = strings.TrimSpace(faculty)

	switch {
	case eventName == "":
		return nil, validationError("event name is required")
	case faculty == "":
		return nil, validationError("faculty name is required")
	case venue == "":
		return nil, validationError("venue is required")
	case date == "":
		return nil, validationError("date is required")
	case in.NumPeople <= 0:
		return nil, validationError("number of people must be positive")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, validationError("date must be formatted as YYYY-MM-DD")
	}

	slots := normalizeSlots(in.Slots)
	if len(slots) == 0 {
		return nil, validationError("select at least one time slot")
	}

	var canteen *string
	if in.CanteenRequired {
		canteen = optional(in.CanteenDetails)
	}
	other := optional(in.OtherRequirements)

	bookings := make([]models.Booking, len(slots))
	for i, slot := range slots {
		bookings[i] = models.Booking{
			EventName:         eventName,
			FacultyName:       faculty,
			NumPeople:         in.NumPeople,
			Venue:             venue,
			Slot:              slot,
			Date:              date,
			Status:            models.StatusPending,
			CanteenDetails:    canteen,
			OtherRequirements: other,
		}
	}
	return bookings, nil
}

// ParseSlots splits a comma-delimited slot list as sent by the booking form.
func ParseSlots(raw string) []string {
	return normalizeSlots(strings.Split(raw, ","))
}

func normalizeSlots(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	slots := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		slots = append(slots, s)
	}
	return slots
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// notifyAsync sends the admin notification on its own goroutine. The
// submission has already committed; failures are logged and counted only.
func (s *bookingService) notifyAsync(ctx context.Context, first models.Booking) {
	if s.notifier == nil || s.codec == nil {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		err := s.notify(ctx, first)
		s.metrics.notified(err == nil)
		if err != nil {
			s.logger.Warn("failed to notify admin",
				"component", "booking",
				"booking_id", first.ID,
				"error", err,
			)
		}
	}()
}

func (s *bookingService) notify(ctx context.Context, first models.Booking) error {
	pending := models.StatusPending
	members, err := s.bookingRepo.FindGroup(ctx, s.bookingRepo.GetDB(), first.GroupKey(), &pending)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		members = []models.Booking{first}
	}
	summary := GroupSummaries([]models.Booking{first})[0]
	summary.Slots = slotsOf(members)

	approve, err := s.codec.Issue(first.ID, models.ActionApprove, s.tokenTTL)
	if err != nil {
		return err
	}
	reject, err := s.codec.Issue(first.ID, models.ActionReject, s.tokenTTL)
	if err != nil {
		return err
	}
	return s.notifier.NotifySubmitted(ctx, notifier.Notification{
		Summary:      summary,
		ApproveToken: approve,
		RejectToken:  reject,
	})
}

// Wait blocks until in-flight notifications have finished.
func (s *bookingService) Wait() {
	s.inflight.Wait()
}

// Decide applies action to every still-pending member of the booking's
// event-group in one transaction. The pending set is re-read inside the
// transaction and the update only touches rows that are still Pending, so a
// concurrent decision observes AlreadyDecided instead of applying twice.
// Approval fails with ErrSlotTaken when another event-group already holds an
// Approved booking for one of the slots at the same venue and date.
func (s *bookingService) Decide(ctx context.Context, bookingID uint, action models.Action) (*DecisionResult, error) {
	if !action.Valid() {
		return nil, validationError("unknown action %q", action)
	}

	var result *DecisionResult
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByID(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		alreadyDecided := &DecisionResult{
			Outcome:      OutcomeAlreadyDecided,
			BookingID:    booking.ID,
			Action:       action,
			Status:       booking.Status,
			UpdatedSlots: []string{},
		}
		if booking.Status != models.StatusPending {
			result = alreadyDecided
			return nil
		}

		if err := s.bookingRepo.LockVenueDate(ctx, tx, booking.Venue, booking.Date); err != nil {
			return err
		}
		pending := models.StatusPending
		members, err := s.bookingRepo.FindGroup(ctx, tx, booking.GroupKey(), &pending)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			result = alreadyDecided
			return nil
		}

		if action == models.ActionApprove {
			taken, err := s.bookingRepo.FindApprovedConflicts(ctx, tx, booking.GroupKey(), slotsOf(members))
			if err != nil {
				return err
			}
			if len(taken) > 0 {
				s.logger.Warn("approval blocked by existing booking",
					"component", "booking",
					"booking_id", booking.ID,
					"conflicting_id", taken[0].ID,
					"slots", slotsOf(taken),
				)
				return ErrSlotTaken
			}
		}

		ids := make([]uint, len(members))
		for i, m := range members {
			ids[i] = m.ID
		}
		updated, err := s.bookingRepo.UpdateStatusIfPending(ctx, tx, ids, action.Status())
		if err != nil {
			return err
		}
		if updated == 0 {
			result = alreadyDecided
			return nil
		}
		// a group is decided as a whole or not at all
		if updated != int64(len(members)) {
			return ErrGroupChanged
		}
		result = &DecisionResult{
			Outcome:      OutcomeDecided,
			BookingID:    booking.ID,
			Action:       action,
			Status:       action.Status(),
			UpdatedSlots: slotsOf(members),
		}
		return nil
	})
	if err != nil {
		s.metrics.decided(string(action), "error")
		return nil, persistenceError(err)
	}

	s.metrics.decided(string(action), string(result.Outcome))
	s.logger.Info("booking decision",
		"component", "booking",
		"booking_id", bookingID,
		"action", action,
		"outcome", result.Outcome,
		"slots", result.UpdatedSlots,
	)
	return result, nil
}

func (s *bookingService) DecideToken(ctx context.Context, rawToken string) (*DecisionResult, error) {
	if s.codec == nil {
		return nil, ErrInvalidToken
	}
	payload, err := s.codec.Verify(rawToken)
	if err != nil {
		s.logger.Debug("rejected decision token",
			"component", "booking",
			"error", err,
		)
		return nil, ErrInvalidToken
	}
	return s.Decide(ctx, payload.BookingID, payload.Action)
}

func (s *bookingService) Cancel(ctx context.Context, actor models.Actor, bookingID uint) error {
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByID(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.FacultyName != actor.Username {
			return ErrForbidden
		}
		if !booking.Status.Cancellable() {
			return ErrInvalidState
		}
		return s.bookingRepo.Delete(ctx, tx, booking.ID)
	})
	if err != nil {
		return persistenceError(err)
	}
	s.logger.Info("booking cancelled",
		"component", "booking",
		"booking_id", bookingID,
		"faculty", actor.Username,
	)
	return nil
}

func (s *bookingService) Group(ctx context.Context, booking *models.Booking) ([]models.Booking, error) {
	members, err := s.bookingRepo.FindGroup(ctx, s.bookingRepo.GetDB(), booking.GroupKey(), nil)
	if err != nil {
		return nil, persistenceError(err)
	}
	return members, nil
}

func (s *bookingService) Dashboard(ctx context.Context) ([]models.GroupSummary, error) {
	bookings, err := s.bookingRepo.FindAll(ctx)
	if err != nil {
		return nil, persistenceError(err)
	}
	return GroupSummaries(bookings), nil
}

func (s *bookingService) SlotsFor(ctx context.Context, venue, date string) (*Availability, error) {
	venue, date = strings.TrimSpace(venue), strings.TrimSpace(date)
	if venue == "" || date == "" {
		return &Availability{Confirmed: []string{}, Advisory: []string{}}, nil
	}
	bookings, err := s.bookingRepo.FindByVenueDate(ctx, venue, date)
	if err != nil {
		return nil, persistenceError(err)
	}
	availability := PartitionSlots(bookings)
	return &availability, nil
}

func (s *bookingService) SlotDetails(ctx context.Context, venue, date string) (*SlotDetails, error) {
	venue, date = strings.TrimSpace(venue), strings.TrimSpace(date)
	if venue == "" || date == "" {
		return &SlotDetails{Booked: []models.Booking{}, Pending: []models.Booking{}}, nil
	}
	bookings, err := s.bookingRepo.FindByVenueDate(ctx, venue, date)
	if err != nil {
		return nil, persistenceError(err)
	}
	details := partitionDetails(bookings)
	return &details, nil
}

func (s *bookingService) MyBookings(ctx context.Context, actor models.Actor) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.FindByFaculty(ctx, actor.Username)
	if err != nil {
		return nil, persistenceError(err)
	}
	return bookings, nil
}

func (s *bookingService) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	var err error
	if stats.TotalBookings, err = s.bookingRepo.Count(ctx); err != nil {
		return nil, persistenceError(err)
	}
	if stats.Pending, err = s.bookingRepo.CountByStatus(ctx, models.StatusPending); err != nil {
		return nil, persistenceError(err)
	}
	if stats.Approved, err = s.bookingRepo.CountByStatus(ctx, models.StatusApproved); err != nil {
		return nil, persistenceError(err)
	}
	if stats.Rejected, err = s.bookingRepo.CountByStatus(ctx, models.StatusRejected); err != nil {
		return nil, persistenceError(err)
	}
	if stats.Venues, err = s.venueRepo.Count(ctx); err != nil {
		return nil, persistenceError(err)
	}
	if stats.Faculty, err = s.userRepo.CountByRole(ctx, models.RoleFaculty); err != nil {
		return nil, persistenceError(err)
	}
	return &stats, nil
}

// ClearHistory deletes every booking regardless of status.
func (s *bookingService) ClearHistory(ctx context.Context, actor models.Actor) (int64, error) {
	if !actor.IsAdmin() {
		return 0, ErrForbidden
	}
	var deleted int64
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = s.bookingRepo.DeleteAll(ctx, tx)
		return err
	})
	if err != nil {
		return 0, persistenceError(err)
	}
	s.logger.Warn("booking history cleared",
		"component", "booking",
		"deleted", deleted,
		"admin", actor.Username,
	)
	return deleted, nil
}
