package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LaboratoryStatus represents whether a laboratory accepts new orders
type LaboratoryStatus string

const (
	LaboratoryStatusActive   LaboratoryStatus = "active"
	LaboratoryStatusInactive LaboratoryStatus = "inactive"
)

// Laboratory represents an external optical fabrication laboratory
type Laboratory struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name"`
	ContactName string           `gorm:"type:varchar(255)" json:"contact_name,omitempty"`
	PhoneNumber string           `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	Email       string           `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address     string           `gorm:"type:text" json:"address,omitempty"`
	Status      LaboratoryStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Laboratory) TableName() string {
	return "laboratories"
}

func (l *Laboratory) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// IsActive checks if the laboratory accepts new fabrication orders
func (l *Laboratory) IsActive() bool {
	return l.Status == LaboratoryStatusActive
}
