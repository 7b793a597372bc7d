package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/Eursukkul/venue-booking/internal/repository"
	"gorm.io/gorm"
)

type VenueService interface {
	List(ctx context.Context) ([]models.Venue, error)
	Add(ctx context.Context, name string, capacity int, location string) (*models.Venue, error)
	Delete(ctx context.Context, id uint) error
	EnsureDefaults(ctx context.Context, defaults []models.Venue) (int, error)
}

type venueService struct {
	repo   repository.VenueRepository
	logger *slog.Logger
}

func NewVenueService(repo repository.VenueRepository, logger *slog.Logger) VenueService {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &venueService{repo: repo, logger: logger}
}

func (s *venueService) List(ctx context.Context) ([]models.Venue, error) {
	venues, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, persistenceError(err)
	}
	return venues, nil
}

func (s *venueService) Add(ctx context.Context, name string, capacity int, location string) (*models.Venue, error) {
	name = strings.TrimSpace(name)
	if name == "" || capacity <= 0 {
		return nil, validationError("name and positive capacity required")
	}
	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, ErrVenueExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistenceError(err)
	}

	venue := &models.Venue{
		Name:     name,
		Capacity: capacity,
		Location: optional(location),
	}
	if err := s.repo.Create(ctx, venue); err != nil {
		return nil, persistenceError(err)
	}
	s.logger.Info("venue added", "component", "venue", "name", name)
	return venue, nil
}

// Delete leaves existing bookings for the venue untouched.
func (s *venueService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVenueNotFound
		}
		return persistenceError(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return persistenceError(err)
	}
	s.logger.Info("venue deleted", "component", "venue", "id", id)
	return nil
}

// EnsureDefaults seeds venues only when none exist yet.
func (s *venueService) EnsureDefaults(ctx context.Context, defaults []models.Venue) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, persistenceError(err)
	}
	if count > 0 {
		return 0, nil
	}
	for i := range defaults {
		if err := s.repo.Create(ctx, &defaults[i]); err != nil {
			return i, persistenceError(err)
		}
	}
	s.logger.Info("seeded default venues", "component", "venue", "count", len(defaults))
	return len(defaults), nil
}
