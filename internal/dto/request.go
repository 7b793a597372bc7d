package dto

import (
	"encoding/json"
	"strings"
)

// SlotList accepts either a JSON array of slot labels or a single
// comma-delimited string, as the booking form posts it.
type SlotList []string

func (s *SlotList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return s.UnmarshalParam(raw)
}

// UnmarshalParam implements echo.BindUnmarshaler for form and query binding.
func (s *SlotList) UnmarshalParam(param string) error {
	*s = strings.Split(param, ",")
	return nil
}

type SubmitBookingRequest struct {
	EventName         string   `json:"event_name" form:"event_name" validate:"required,max=100"`
	Venue             string   `json:"venue" form:"venue" validate:"required,max=50"`
	Date              string   `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Slots             SlotList `json:"slots" form:"slots" validate:"required,min=1"`
	NumPeople         int      `json:"num_people" form:"num_people" validate:"gt=0"`
	CanteenRequired   bool     `json:"canteen_required" form:"canteen_required"`
	CanteenDetails    string   `json:"canteen_details" form:"canteen_details"`
	OtherRequirements string   `json:"other_requirements" form:"other_requirements"`
}

type VenueDateRequest struct {
	Venue string `json:"venue" form:"venue" query:"venue" validate:"required"`
	Date  string `json:"date" form:"date" query:"date" validate:"required"`
}

type CreateVenueRequest struct {
	Name     string `json:"name" form:"name" validate:"required,max=50"`
	Capacity int    `json:"capacity" form:"capacity" validate:"gt=0"`
	Location string `json:"location" form:"location"`
}

type CreateFacultyRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=50"`
	Password string `json:"password" form:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" form:"new_password" validate:"required"`
}
