package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusPending  BookingStatus = "Pending"
	StatusApproved BookingStatus = "Approved"
	StatusRejected BookingStatus = "Rejected"
)

// IsApproved matches case-insensitively; older rows were written with
// lowercase statuses.
func (s BookingStatus) IsApproved() bool {
	return strings.EqualFold(string(s), string(StatusApproved))
}

// Cancellable reports whether the owning faculty member may still delete the booking.
func (s BookingStatus) Cancellable() bool {
	return s == StatusPending || s == StatusApproved
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

func (a Action) Valid() bool {
	return a == ActionApprove || a == ActionReject
}

// Status is the terminal status an action moves a pending booking to.
func (a Action) Status() BookingStatus {
	if a == ActionApprove {
		return StatusApproved
	}
	return StatusRejected
}

type Booking struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	EventName         string        `gorm:"type:varchar(100);not null;index:idx_booking_group,priority:4" json:"event_name"`
	FacultyName       string        `gorm:"type:varchar(50);not null;index:idx_booking_group,priority:1" json:"faculty_name"`
	NumPeople         int           `gorm:"not null" json:"num_people"`
	Venue             string        `gorm:"type:varchar(50);not null;index:idx_booking_group,priority:2;index:idx_booking_venue_date,priority:1" json:"venue"`
	Slot              string        `gorm:"type:varchar(20);not null" json:"slot"`
	Date              string        `gorm:"type:varchar(20);not null;index:idx_booking_group,priority:3;index:idx_booking_venue_date,priority:2" json:"date"`
	Status            BookingStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CanteenDetails    *string       `gorm:"type:text" json:"canteen_details,omitempty"`
	OtherRequirements *string       `gorm:"type:text" json:"other_requirements,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// GroupKey identifies the logical event a booking row belongs to. Rows
// sharing a key are always decided together.
type GroupKey struct {
	EventName   string
	FacultyName string
	Venue       string
	Date        string
}

func (b *Booking) GroupKey() GroupKey {
	return GroupKey{
		EventName:   b.EventName,
		FacultyName: b.FacultyName,
		Venue:       b.Venue,
		Date:        b.Date,
	}
}

// GroupSummary is one dashboard row: an event-group collapsed onto its
// representative booking.
type GroupSummary struct {
	PrimaryID      uint          `json:"primary_id"`
	EventName      string        `json:"event_name"`
	FacultyName    string        `json:"faculty_name"`
	Venue          string        `json:"venue"`
	Date           string        `json:"date"`
	NumPeople      int           `json:"num_people"`
	Status         BookingStatus `json:"status"`
	CanteenDetails *string       `json:"canteen_details,omitempty"`
	Slots          []string      `json:"slots"`
}
