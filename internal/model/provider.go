package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider is a tenant: one car-wash business. Every other entity is scoped
// to exactly one provider.
type Provider struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Enabled   bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// EnrollmentCode is the short code clients use on the public enrollment page.
// It is simply the first 8 characters of the provider id.
func (p *Provider) EnrollmentCode() string {
	return p.ID.String()[:8]
}
