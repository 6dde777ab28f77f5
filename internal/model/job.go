package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WashJobStatus is the lifecycle state of a generated job:
// NOT_STARTED -> IN_PROGRESS -> COMPLETED.
type WashJobStatus string

const (
	WashJobStatusNotStarted WashJobStatus = "NOT_STARTED"
	WashJobStatusInProgress WashJobStatus = "IN_PROGRESS"
	WashJobStatusCompleted  WashJobStatus = "COMPLETED"
)

// ValidWashJobStatus reports whether s is a known job status.
func ValidWashJobStatus(s WashJobStatus) bool {
	switch s {
	case WashJobStatusNotStarted, WashJobStatusInProgress, WashJobStatusCompleted:
		return true
	}
	return false
}

// ScheduledDayLayout is the day-precision format stored in ScheduledDay.
const ScheduledDayLayout = "2006-01-02"

// WashJob is one concrete, dated unit of work. Its logical identity is
// (provider, client, car, scheduled day), backed by idx_job_identity so a
// racing second insert fails instead of duplicating the job.
type WashJob struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID       uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_job_identity" json:"providerId"`
	ClientID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_job_identity" json:"clientId"`
	CarID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_job_identity" json:"carId"`
	AssignedWorkerID *uuid.UUID `gorm:"type:uuid" json:"assignedWorkerId,omitempty"`

	Status      WashJobStatus `gorm:"type:varchar(20);not null" json:"status"`
	ScheduledAt time.Time     `gorm:"not null;index" json:"scheduledAt"`

	// ScheduledDay mirrors ScheduledAt at day precision (UTC) so the job
	// identity can carry a unique index portable across drivers.
	ScheduledDay string `gorm:"type:varchar(10);not null;uniqueIndex:idx_job_identity" json:"-"`

	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"-"`
	Client   *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	Car      *Car      `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"car,omitempty"`
}

func (j *WashJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps ScheduledDay in sync with ScheduledAt, both on create and
// when staff reschedule a job.
func (j *WashJob) BeforeSave(tx *gorm.DB) error {
	if !j.ScheduledAt.IsZero() {
		j.ScheduledDay = j.ScheduledAt.UTC().Format(ScheduledDayLayout)
	}
	return nil
}
