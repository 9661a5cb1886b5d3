package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SpecificRatings struct {
	Cleanliness   float64 `gorm:"not null" json:"cleanliness"`
	Communication float64 `gorm:"not null" json:"communication"`
	CheckIn       float64 `gorm:"not null" json:"checkIn"`
	Accuracy      float64 `gorm:"not null" json:"accuracy"`
	Location      float64 `gorm:"not null" json:"location"`
	Value         float64 `gorm:"not null" json:"value"`
}

// Reservation keeps a snapshot of the listing as it was when booked.
type Reservation struct {
	ID              string `gorm:"type:uuid;primaryKey" json:"id"`
	AccommodationID string `gorm:"type:uuid;index" json:"accommodation_id,omitempty"`

	Title            string   `gorm:"size:200;not null" json:"title"`
	Description      string   `gorm:"type:text" json:"description,omitempty"`
	Type             string   `gorm:"size:20;not null" json:"type"`
	Location         string   `gorm:"size:30;not null" json:"location"`
	Images           []string `gorm:"serializer:json;type:jsonb" json:"images"`
	MaxGuests        int      `gorm:"not null;default:1" json:"maxGuests"`
	Bedrooms         int      `gorm:"not null;default:1" json:"bedrooms"`
	Rating           float64  `json:"rating"`
	Reviews          int      `json:"reviews"`
	Price            float64  `gorm:"not null" json:"price"`
	EnhancedCleaning *bool    `gorm:"not null;default:true" json:"enhancedCleaning"`
	SelfCheckIn      *bool    `gorm:"not null;default:true" json:"selfCheckIn"`
	Amenities        []string `gorm:"serializer:json;type:jsonb" json:"amenities"`

	CheckIn  time.Time `gorm:"not null" json:"checkIn"`
	CheckOut time.Time `gorm:"not null" json:"checkOut"`

	HostID   string `gorm:"type:uuid;not null;index;<-:create" json:"host_id"`
	Host     string `gorm:"size:100" json:"host,omitempty"`
	UserID   string `gorm:"type:uuid;not null;index;<-:create" json:"user_id"`
	User     string `gorm:"size:100" json:"user,omitempty"`
	Username string `gorm:"size:50" json:"username,omitempty"`

	WeeklyDiscount float64 `json:"weeklyDiscount"`
	CleaningFee    float64 `json:"cleaningFee"`
	ServiceFee     float64 `json:"serviceFee"`
	OccupancyTaxes float64 `json:"occupancyTaxes"`

	SpecificRatings SpecificRatings `gorm:"embedded;embeddedPrefix:rating_" json:"specificRatings"`

	Version   int       `gorm:"not null;default:1" json:"version,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Reservation) EntityID() string { return r.ID }

func (r *Reservation) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
