package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LaboratoryOrderStatusValue represents the fabrication progress of a
// laboratory order. No transition table restricts which status can
// follow which; any enumerated value is accepted.
type LaboratoryOrderStatusValue string

const (
	LabOrderStatusPending          LaboratoryOrderStatusValue = "pending"
	LabOrderStatusInProcess        LaboratoryOrderStatusValue = "in_process"
	LabOrderStatusSentToLab        LaboratoryOrderStatusValue = "sent_to_lab"
	LabOrderStatusReadyForDelivery LaboratoryOrderStatusValue = "ready_for_delivery"
	LabOrderStatusDelivered        LaboratoryOrderStatusValue = "delivered"
	LabOrderStatusCancelled        LaboratoryOrderStatusValue = "cancelled"
)

// ValidLabOrderStatus reports whether s is one of the enumerated
// laboratory-order statuses.
func ValidLabOrderStatus(s LaboratoryOrderStatusValue) bool {
	switch s {
	case LabOrderStatusPending, LabOrderStatusInProcess, LabOrderStatusSentToLab,
		LabOrderStatusReadyForDelivery, LabOrderStatusDelivered, LabOrderStatusCancelled:
		return true
	}
	return false
}

// LaboratoryOrder represents a fabrication request sent to an external
// optical laboratory. At most one exists per sale (unique index on
// sale_id); creation from a sale is idempotent.
type LaboratoryOrder struct {
	ID           uuid.UUID                  `gorm:"type:uuid;primaryKey" json:"id"`
	LaboratoryID uuid.UUID                  `gorm:"type:uuid;not null;index" json:"laboratory_id"`
	PatientID    uuid.UUID                  `gorm:"type:uuid;not null;index" json:"patient_id"`
	OrderID      *uuid.UUID                 `gorm:"type:uuid;index" json:"order_id,omitempty"`
	SaleID       *uuid.UUID                 `gorm:"type:uuid;uniqueIndex" json:"sale_id,omitempty"`
	Status       LaboratoryOrderStatusValue `gorm:"type:varchar(30);not null;default:'pending';index" json:"status"`
	Notes        string                     `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy    uuid.UUID                  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt    time.Time                  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Laboratory    Laboratory              `gorm:"foreignKey:LaboratoryID" json:"laboratory,omitempty"`
	Patient       Patient                 `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	StatusHistory []LaboratoryOrderStatus `gorm:"foreignKey:LaboratoryOrderID" json:"status_history,omitempty"`
}

func (LaboratoryOrder) TableName() string {
	return "laboratory_orders"
}

func (o *LaboratoryOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsPending checks if the order has not yet entered fabrication
func (o *LaboratoryOrder) IsPending() bool {
	return o.Status == LabOrderStatusPending
}

// LaboratoryOrderStatus is one row of the append-only status audit
// trail of a laboratory order.
type LaboratoryOrderStatus struct {
	ID                int64                      `gorm:"primaryKey;autoIncrement" json:"id"`
	LaboratoryOrderID uuid.UUID                  `gorm:"type:uuid;not null;index" json:"laboratory_order_id"`
	Status            LaboratoryOrderStatusValue `gorm:"type:varchar(30);not null" json:"status"`
	Notes             string                     `gorm:"type:text" json:"notes,omitempty"`
	ChangedBy         *uuid.UUID                 `gorm:"type:uuid" json:"changed_by,omitempty"`
	CreatedAt         time.Time                  `gorm:"autoCreateTime" json:"created_at"`
}

func (LaboratoryOrderStatus) TableName() string {
	return "laboratory_order_statuses"
}
