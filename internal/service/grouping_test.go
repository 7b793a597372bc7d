package service

import (
	"testing"

	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booking(id uint, event, slot string, status models.BookingStatus) models.Booking {
	return models.Booking{
		ID:          id,
		EventName:   event,
		FacultyName: "faculty",
		Venue:       "Lab 1",
		Date:        "2024-05-01",
		NumPeople:   int(id) * 10,
		Slot:        slot,
		Status:      status,
	}
}

func TestPartitionSlots(t *testing.T) {
	bookings := []models.Booking{
		booking(1, "A", "slotA", models.StatusApproved),
		booking(2, "B", "slotB", models.StatusPending),
		booking(3, "C", "slotC", models.StatusRejected),
		booking(4, "D", "slotD", models.BookingStatus("approved")),
		booking(5, "E", "slotB", models.StatusPending),
		booking(6, "F", "slotE", models.BookingStatus("pending")),
	}

	got := PartitionSlots(bookings)

	assert.Equal(t, []string{"slotA", "slotD"}, got.Confirmed)
	assert.Equal(t, []string{"slotB"}, got.Advisory, "pending match is exact")
}

func TestPartitionSlots_SlotInBothLists(t *testing.T) {
	got := PartitionSlots([]models.Booking{
		booking(1, "A", "9-10", models.StatusApproved),
		booking(2, "B", "9-10", models.StatusPending),
	})

	assert.Equal(t, []string{"9-10"}, got.Confirmed)
	assert.Equal(t, []string{"9-10"}, got.Advisory)
}

func TestGroupSummaries(t *testing.T) {
	bookings := []models.Booking{
		booking(1, "Seminar", "11-12", models.StatusApproved),
		booking(2, "Workshop", "9-10", models.StatusRejected),
		booking(3, "Seminar", "10-11", models.StatusPending),
		booking(4, "Workshop", "10-11", models.StatusApproved),
	}

	got := GroupSummaries(bookings)

	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].PrimaryID)
	assert.Equal(t, 10, got[0].NumPeople)
	assert.Equal(t, []string{"10-11", "11-12"}, got[0].Slots)
	assert.Equal(t, models.StatusPending, got[0].Status)

	assert.Equal(t, uint(2), got[1].PrimaryID)
	assert.Equal(t, []string{"10-11", "9-10"}, got[1].Slots)
	assert.Equal(t, models.StatusApproved, got[1].Status)
}

func TestGroupSummaries_StatusIndependentOfOrder(t *testing.T) {
	a := booking(1, "Seminar", "9-10", models.StatusRejected)
	b := booking(2, "Seminar", "10-11", models.StatusApproved)

	forward := GroupSummaries([]models.Booking{a, b})
	backward := GroupSummaries([]models.Booking{b, a})

	assert.Equal(t, models.StatusApproved, forward[0].Status)
	assert.Equal(t, models.StatusApproved, backward[0].Status)
}

func TestGroupSummaries_DistinctKeys(t *testing.T) {
	a := booking(1, "Seminar", "9-10", models.StatusPending)
	b := a
	b.ID = 2
	b.Date = "2024-05-02"
	c := a
	c.ID = 3
	c.FacultyName = "other"

	assert.Len(t, GroupSummaries([]models.Booking{a, b, c}), 3)
	assert.Empty(t, GroupSummaries(nil))
}
