package repository

import (
	"context"

	"github.com/Eursukkul/venue-booking/internal/models"
	"gorm.io/gorm"
)

type VenueRepository interface {
	Create(ctx context.Context, venue *models.Venue) error
	FindByID(ctx context.Context, id uint) (*models.Venue, error)
	FindByName(ctx context.Context, name string) (*models.Venue, error)
	FindAll(ctx context.Context) ([]models.Venue, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type venueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) Create(ctx context.Context, venue *models.Venue) error {
	return r.db.WithContext(ctx).Create(venue).Error
}

func (r *venueRepository) FindByID(ctx context.Context, id uint) (*models.Venue, error) {
	var venue models.Venue
	if err := r.db.WithContext(ctx).First(&venue, id).Error; err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepository) FindByName(ctx context.Context, name string) (*models.Venue, error) {
	var venue models.Venue
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&venue).Error; err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepository) FindAll(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&venues).Error; err != nil {
		return nil, err
	}
	return venues, nil
}

// Delete removes the venue only; bookings keep the venue name as plain text.
func (r *venueRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Venue{}, id).Error
}

func (r *venueRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Venue{}).Count(&count).Error
	return count, err
}
