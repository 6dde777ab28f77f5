package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Car belongs to one client. A client may own any number of cars, including
// none; each car gets its own wash job per eligible day.
type Car struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index" json:"clientId"`
	PlateNumber string    `gorm:"type:varchar(50);not null" json:"plateNumber"`
	Model       string    `gorm:"type:varchar(255)" json:"model,omitempty"`
	Color       string    `gorm:"type:varchar(255)" json:"color,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Client *Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Car) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
