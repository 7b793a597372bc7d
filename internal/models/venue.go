package models

type Venue struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Capacity int     `gorm:"not null" json:"capacity"`
	Location *string `gorm:"type:varchar(100)" json:"location,omitempty"`
}
