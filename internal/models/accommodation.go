package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image is a stored picture: a URL clients can fetch and the storage key it lives under.
type Image struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type Accommodation struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string `gorm:"size:200;uniqueIndex;not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Type        string `gorm:"size:20;not null" json:"type"`
	Location    string `gorm:"size:30;not null;index" json:"location"`

	Images []Image `gorm:"serializer:json;type:jsonb;not null;default:'[]'" json:"images"`

	MaxGuests int     `gorm:"not null;default:1" json:"maxGuests"`
	Bedrooms  int     `gorm:"not null;default:1" json:"bedrooms"`
	Bathrooms int     `gorm:"not null;default:1" json:"bathrooms"`
	Beds      int     `gorm:"not null;default:1" json:"beds"`
	Rating    float64 `json:"rating"`
	Reviews   int     `json:"reviews"`
	Price     float64 `gorm:"not null" json:"price"`

	EnhancedCleaning *bool    `gorm:"not null;default:true" json:"enhancedCleaning"`
	SelfCheckIn      *bool    `gorm:"not null;default:true" json:"selfCheckIn"`
	Amenities        []string `gorm:"serializer:json;type:jsonb" json:"amenities"`

	HostID string `gorm:"type:uuid;not null;index;<-:create" json:"host_id"`

	Version   int       `gorm:"not null;default:1" json:"version,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Accommodation) EntityID() string { return a.ID }

func (a *Accommodation) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ImagePaths returns the storage keys of every image, in order.
func (a *Accommodation) ImagePaths() []string {
	paths := make([]string, 0, len(a.Images))
	for _, img := range a.Images {
		if img.Path != "" {
			paths = append(paths, img.Path)
		}
	}
	return paths
}

// LocationSummary aggregates listings per city.
type LocationSummary struct {
	Location string  `json:"location"`
	Count    int64   `json:"count"`
	MinPrice float64 `json:"minPrice"`
	AvgPrice float64 `json:"avgPrice"`
}
