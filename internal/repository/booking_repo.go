package repository

import (
	"context"

	"github.com/Eursukkul/venue-booking/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, bookings []models.Booking) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	FindGroup(ctx context.Context, tx *gorm.DB, key models.GroupKey, status *models.BookingStatus) ([]models.Booking, error)
	FindByVenueDate(ctx context.Context, venue, date string) ([]models.Booking, error)
	FindByFaculty(ctx context.Context, facultyName string) ([]models.Booking, error)
	FindAll(ctx context.Context) ([]models.Booking, error)
	FindApprovedConflicts(ctx context.Context, tx *gorm.DB, key models.GroupKey, slots []string) ([]models.Booking, error)
	LockVenueDate(ctx context.Context, tx *gorm.DB, venue, date string) error
	UpdateStatusIfPending(ctx context.Context, tx *gorm.DB, ids []uint, status models.BookingStatus) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.BookingStatus) (int64, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

// CreateBatch inserts all rows in a single statement inside tx.
func (r *bookingRepository) CreateBatch(ctx context.Context, tx *gorm.DB, bookings []models.Booking) error {
	return tx.WithContext(ctx).Create(&bookings).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindGroup returns every booking of the event-group, optionally filtered by
// status, ordered by slot for stable display.
func (r *bookingRepository) FindGroup(ctx context.Context, tx *gorm.DB, key models.GroupKey, status *models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	q := tx.WithContext(ctx).Where(
		"faculty_name = ? AND venue = ? AND date = ? AND event_name = ?",
		key.FacultyName, key.Venue, key.Date, key.EventName,
	)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("slot ASC, id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByVenueDate(ctx context.Context, venue, date string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("venue = ? AND date = ?", venue, date).
		Order("slot ASC, id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByFaculty(ctx context.Context, facultyName string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("faculty_name = ?", facultyName).
		Order("date DESC, id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := r.db.WithContext(ctx).Order("date DESC, id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindApprovedConflicts returns Approved bookings at the group's venue and date
// that hold any of slots and belong to a different event-group.
func (r *bookingRepository) FindApprovedConflicts(ctx context.Context, tx *gorm.DB, key models.GroupKey, slots []string) ([]models.Booking, error) {
	var bookings []models.Booking
	if len(slots) == 0 {
		return bookings, nil
	}
	err := tx.WithContext(ctx).
		Where("venue = ? AND date = ? AND status = ? AND slot IN ?",
			key.Venue, key.Date, models.StatusApproved, slots).
		Where("NOT (faculty_name = ? AND event_name = ?)", key.FacultyName, key.EventName).
		Order("slot ASC, id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// LockVenueDate serializes decisions on one venue and date until tx ends.
// SQLite runs on a single connection and needs no extra lock.
func (r *bookingRepository) LockVenueDate(ctx context.Context, tx *gorm.DB, venue, date string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", venue+"|"+date).Error
}

// UpdateStatusIfPending transitions only rows that are still Pending, so a
// concurrent decision that already committed is never overwritten.
func (r *bookingRepository) UpdateStatusIfPending(ctx context.Context, tx *gorm.DB, ids []uint, status models.BookingStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id IN ? AND status = ?", ids, models.StatusPending).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *bookingRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&models.Booking{}, id).Error
}

func (r *bookingRepository) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	result := tx.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Booking{})
	return result.RowsAffected, result.Error
}

func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Count(&count).Error
	return count, err
}

func (r *bookingRepository) CountByStatus(ctx context.Context, status models.BookingStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
