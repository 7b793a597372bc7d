package service

import (
	"sort"

	"github.com/Eursukkul/venue-booking/internal/models"
)

// Availability is the slot state of a venue on a date. Confirmed slots are
// hard conflicts; advisory slots only carry a pending request.
type Availability struct {
	Confirmed []string
	Advisory  []string
}

type SlotDetails struct {
	Booked  []models.Booking
	Pending []models.Booking
}

// PartitionSlots splits bookings of one venue/date into confirmed and
// advisory slot labels. Slots whose bookings were all rejected appear in
// neither list.
func PartitionSlots(bookings []models.Booking) Availability {
	confirmed := map[string]struct{}{}
	advisory := map[string]struct{}{}
	for _, b := range bookings {
		switch {
		case b.Status.IsApproved():
			confirmed[b.Slot] = struct{}{}
		case b.Status == models.StatusPending:
			advisory[b.Slot] = struct{}{}
		}
	}
	return Availability{
		Confirmed: sortedKeys(confirmed),
		Advisory:  sortedKeys(advisory),
	}
}

func partitionDetails(bookings []models.Booking) SlotDetails {
	details := SlotDetails{
		Booked:  []models.Booking{},
		Pending: []models.Booking{},
	}
	for _, b := range bookings {
		switch {
		case b.Status.IsApproved():
			details.Booked = append(details.Booked, b)
		case b.Status == models.StatusPending:
			details.Pending = append(details.Pending, b)
		}
	}
	return details
}

// GroupSummaries collapses bookings into one summary per event-group, in
// the order each group is first encountered. The first member supplies the
// representative id, head count and canteen details; the status is the
// highest-priority status among members (Pending, then Approved, then
// Rejected) so a partly undecided group still shows as Pending.
func GroupSummaries(bookings []models.Booking) []models.GroupSummary {
	index := make(map[models.GroupKey]int)
	summaries := make([]models.GroupSummary, 0)
	for _, b := range bookings {
		key := b.GroupKey()
		if i, ok := index[key]; ok {
			summaries[i].Slots = append(summaries[i].Slots, b.Slot)
			if statusRank(b.Status) < statusRank(summaries[i].Status) {
				summaries[i].Status = b.Status
			}
			continue
		}
		index[key] = len(summaries)
		summaries = append(summaries, models.GroupSummary{
			PrimaryID:      b.ID,
			EventName:      b.EventName,
			FacultyName:    b.FacultyName,
			Venue:          b.Venue,
			Date:           b.Date,
			NumPeople:      b.NumPeople,
			Status:         b.Status,
			CanteenDetails: b.CanteenDetails,
			Slots:          []string{b.Slot},
		})
	}
	for i := range summaries {
		sort.Strings(summaries[i].Slots)
	}
	return summaries
}

func statusRank(s models.BookingStatus) int {
	switch {
	case s == models.StatusPending:
		return 0
	case s.IsApproved():
		return 1
	case s == models.StatusRejected:
		return 2
	default:
		return 3
	}
}

func slotsOf(bookings []models.Booking) []string {
	slots := make([]string, len(bookings))
	for i, b := range bookings {
		slots[i] = b.Slot
	}
	sort.Strings(slots)
	return slots
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
