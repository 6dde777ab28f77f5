package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WashPlanLocation tells where the service happens.
type WashPlanLocation string

const (
	WashPlanLocationInside  WashPlanLocation = "INSIDE"
	WashPlanLocationOutside WashPlanLocation = "OUTSIDE"
)

// WashPlan is a provider's recurring-service subscription template.
type WashPlan struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"providerId"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`

	// DaysOfWeek holds the active weekday numbers, 0-6 with Sunday=0.
	DaysOfWeek datatypes.JSONSlice[int] `json:"daysOfWeek"`

	// TimesPerWeek is informational and not enforced by generation.
	TimesPerWeek int              `gorm:"not null" json:"timesPerWeek"`
	Location     WashPlanLocation `gorm:"type:varchar(20);not null" json:"location"`

	// WashesInPlan is the subscription budget. Generation never decrements or
	// caps against it; only billing reads it.
	WashesInPlan int  `gorm:"not null" json:"washesInPlan"`
	PeriodWeeks  *int `json:"periodWeeks,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Provider    *Provider        `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"-"`
	Enrollments []ClientWashPlan `gorm:"foreignKey:WashPlanID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *WashPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
