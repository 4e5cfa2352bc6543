package models

import "time"

// Role values. Admins can do everything a case manager can, plus bulk
// import and housekeeping.
const (
	RoleCaseManager = "CASE_MANAGER"
	RoleAdmin       = "ADMIN"
)

func ValidRole(role string) bool {
	return role == RoleCaseManager || role == RoleAdmin
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	FullName  string    `gorm:"size:255" json:"fullName,omitempty"`
	Role      string    `gorm:"size:20;not null;default:'CASE_MANAGER'" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
