package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/Eursukkul/venue-booking/internal/notifier"
	"github.com/Eursukkul/venue-booking/internal/repository"
	"github.com/Eursukkul/venue-booking/internal/token"
	"github.com/Eursukkul/venue-booking/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	faculty = models.Actor{Username: "faculty", Role: models.RoleFaculty}
	alice   = models.Actor{Username: "alice", Role: models.RoleFaculty}
	bob     = models.Actor{Username: "bob", Role: models.RoleFaculty}
	admin   = models.Actor{Username: "admin", Role: models.RoleAdmin}
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notifier.Notification
	err  error
}

func (f *fakeNotifier) NotifySubmitted(_ context.Context, n notifier.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) notifications() []notifier.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notifier.Notification(nil), f.sent...)
}

type fixture struct {
	db       *gorm.DB
	bookings repository.BookingRepository
	venues   repository.VenueRepository
	users    repository.UserRepository
	codec    *token.Codec
	notifier *fakeNotifier
	svc      BookingService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB("")
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithDB(t, newTestDB(t))
}

func newFixtureWithDB(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)

	f := &fixture{
		db:       db,
		bookings: repository.NewBookingRepository(db),
		venues:   repository.NewVenueRepository(db),
		users:    repository.NewUserRepository(db),
		codec:    codec,
		notifier: &fakeNotifier{},
	}
	f.svc = NewBookingService(f.bookings, f.venues, f.users, BookingServiceConfig{
		Notifier: f.notifier,
		Codec:    codec,
	})
	t.Cleanup(f.svc.Wait)
	return f
}

func seminarInput() SubmitInput {
	return SubmitInput{
		EventName: "Seminar",
		Venue:     "Lab 1",
		Date:      "2024-05-01",
		Slots:     []string{"10-11", "11-12"},
		NumPeople: 30,
	}
}

func (f *fixture) submit(t *testing.T, actor models.Actor, in SubmitInput) []models.Booking {
	t.Helper()
	bookings, err := f.svc.Submit(context.Background(), actor, in)
	require.NoError(t, err)
	return bookings
}

func (f *fixture) setStatus(t *testing.T, id uint, status models.BookingStatus) {
	t.Helper()
	require.NoError(t, f.db.Model(&models.Booking{}).Where("id = ?", id).Update("status", status).Error)
}

func (f *fixture) reload(t *testing.T, id uint) models.Booking {
	t.Helper()
	var b models.Booking
	require.NoError(t, f.db.First(&b, id).Error)
	return b
}

func (f *fixture) count(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Booking{}).Count(&n).Error)
	return n
}
