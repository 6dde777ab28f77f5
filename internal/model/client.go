package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a customer of one provider.
type Client struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"providerId"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	Phone          string     `gorm:"type:varchar(32);index" json:"phone"`
	Address        string     `gorm:"type:text" json:"address,omitempty"`
	EnrollmentCode string     `gorm:"type:varchar(16)" json:"enrollmentCode,omitempty"`
	EnrolledAt     *time.Time `json:"enrolledAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"-"`
	Cars     []Car     `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"cars,omitempty"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
