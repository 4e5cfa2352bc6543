package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemLog stores structured error logs for after-the-fact querying.
type SystemLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Timestamp  time.Time      `gorm:"not null;index" json:"timestamp"`
	Level      string         `gorm:"size:10;not null;index" json:"level"`
	Message    string         `gorm:"type:text" json:"message"`
	UserID     *uint          `json:"userId"`
	ResourceID *uint          `gorm:"index" json:"resourceId"`
	Action     string         `gorm:"size:100" json:"action"`
	Error      string         `gorm:"type:text" json:"error"`
	Extra      datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"extra"`
	CreatedAt  time.Time      `json:"createdAt"`
}
