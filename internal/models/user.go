package models

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(100);not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null" json:"role"`
}

// Actor is the authenticated identity of the current request.
type Actor struct {
	Username string
	Role     Role
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsFaculty() bool { return a.Role == RoleFaculty }
