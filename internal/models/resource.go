package models

import (
	"time"

	"gorm.io/datatypes"
)

// Status values for a resource listing.
const (
	StatusAvailable   = "AVAILABLE"
	StatusLimited     = "LIMITED"
	StatusUnavailable = "UNAVAILABLE"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusAvailable, StatusLimited, StatusUnavailable:
		return true
	}
	return false
}

// Resource is a social-service listing (shelter, food bank, clinic...).
// ContactDetails and Notes are jsonb blobs whose field names are part of
// the stored-data contract; see ContactDetails and Note.
//
// LastUpdated is refreshed on every mutating operation and is the
// staleness signal for the /resources/updates feed. Version backs the
// optimistic-concurrency check on the update path; it is bumped on every
// successful write.
type Resource struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Category       string         `gorm:"size:100;not null;index" json:"category"`
	Status         string         `gorm:"size:20;not null;default:'AVAILABLE';index" json:"status"`
	Zipcode        string         `gorm:"size:20;index" json:"zipcode"`
	ContactDetails datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"contactDetails"`
	Notes          datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"notes"`
	Version        int            `gorm:"not null;default:0" json:"version"`
	CreatedAt      time.Time      `json:"createdAt"`
	LastUpdated    time.Time      `gorm:"index" json:"lastUpdated"`
}

func (Resource) TableName() string {
	return "resources"
}

// SavedResource is the per-user bookmark row. At most one per
// (user, resource) pair; re-saving is an idempotent no-op at the
// service layer and the unique index keeps races honest.
type SavedResource struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_saved_user_resource" json:"userId"`
	ResourceID uint      `gorm:"not null;uniqueIndex:idx_saved_user_resource" json:"resourceId"`
	CreatedAt  time.Time `json:"createdAt"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	Resource   Resource  `gorm:"foreignKey:ResourceID" json:"-"`
}

func (SavedResource) TableName() string {
	return "saved_resources"
}
