package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnrollmentStatus is the lifecycle state of a client's subscription to a
// plan. Only ACTIVE enrollments participate in job generation.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusPaused    EnrollmentStatus = "PAUSED"
	EnrollmentStatusCancelled EnrollmentStatus = "CANCELLED"
)

// ValidEnrollmentStatus reports whether s is a known enrollment status.
func ValidEnrollmentStatus(s EnrollmentStatus) bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusPaused, EnrollmentStatusCancelled:
		return true
	}
	return false
}

// ClientWashPlan links a client to a wash plan. At most one row exists per
// (client, plan) pair.
type ClientWashPlan struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_client_plan" json:"clientId"`
	WashPlanID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_client_plan" json:"washPlanId"`
	Status     EnrollmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	EnrolledAt time.Time        `gorm:"not null" json:"enrolledAt"`

	Client   *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	WashPlan *WashPlan `gorm:"foreignKey:WashPlanID;constraint:OnDelete:CASCADE" json:"-"`
}

func (e *ClientWashPlan) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}
	return nil
}
