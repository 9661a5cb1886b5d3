package dto

import (
	"strings"

	"github.com/BruksfildServices01/stay-booking/internal/domain/resource"
	"github.com/BruksfildServices01/stay-booking/internal/models"
)

// CreateAccommodationRequest is bound from the multipart form that also carries the images.
type CreateAccommodationRequest struct {
	Title            string   `form:"title" binding:"required,max=200"`
	Description      string   `form:"description"`
	Type             string   `form:"type" binding:"required,listing_type"`
	Location         string   `form:"location" binding:"required,location"`
	MaxGuests        int      `form:"maxGuests" binding:"required,min=1"`
	Bedrooms         int      `form:"bedrooms" binding:"required,min=1"`
	Bathrooms        int      `form:"bathrooms" binding:"required,min=1"`
	Beds             int      `form:"beds" binding:"required,min=1"`
	Price            float64  `form:"price" binding:"required,min=1"`
	EnhancedCleaning *bool    `form:"enhancedCleaning"`
	SelfCheckIn      *bool    `form:"selfCheckIn"`
	Amenities        []string `form:"amenities"`
}

func (r CreateAccommodationRequest) Listing() models.Accommodation {
	return models.Accommodation{
		Title:            r.Title,
		Description:      r.Description,
		Type:             r.Type,
		Location:         r.Location,
		MaxGuests:        r.MaxGuests,
		Bedrooms:         r.Bedrooms,
		Bathrooms:        r.Bathrooms,
		Beds:             r.Beds,
		Price:            r.Price,
		EnhancedCleaning: boolOr(r.EnhancedCleaning, true),
		SelfCheckIn:      boolOr(r.SelfCheckIn, true),
		Amenities:        Amenities(r.Amenities),
	}
}

// UpdateAccommodationRequest has no images, location or host_id: those fields
// are dropped from PATCH payloads.
type UpdateAccommodationRequest struct {
	Title            *string  `json:"title" binding:"omitempty,max=200"`
	Description      *string  `json:"description"`
	Type             *string  `json:"type" binding:"omitempty,listing_type"`
	MaxGuests        *int     `json:"maxGuests" binding:"omitempty,min=1"`
	Bedrooms         *int     `json:"bedrooms" binding:"omitempty,min=1"`
	Bathrooms        *int     `json:"bathrooms" binding:"omitempty,min=1"`
	Beds             *int     `json:"beds" binding:"omitempty,min=1"`
	Price            *float64 `json:"price" binding:"omitempty,min=1"`
	EnhancedCleaning *bool    `json:"enhancedCleaning"`
	SelfCheckIn      *bool    `json:"selfCheckIn"`
	Amenities        []string `json:"amenities"`
}

func (r UpdateAccommodationRequest) Changes() resource.Changes {
	set := map[string]any{}
	put := func(field string, present bool, v any) {
		if present {
			set[field] = v
		}
	}
	put("title", r.Title != nil, deref(r.Title))
	put("description", r.Description != nil, deref(r.Description))
	put("type", r.Type != nil, deref(r.Type))
	put("maxGuests", r.MaxGuests != nil, deref(r.MaxGuests))
	put("bedrooms", r.Bedrooms != nil, deref(r.Bedrooms))
	put("bathrooms", r.Bathrooms != nil, deref(r.Bathrooms))
	put("beds", r.Beds != nil, deref(r.Beds))
	put("price", r.Price != nil, deref(r.Price))
	put("enhancedCleaning", r.EnhancedCleaning != nil, deref(r.EnhancedCleaning))
	put("selfCheckIn", r.SelfCheckIn != nil, deref(r.SelfCheckIn))
	put("amenities", r.Amenities != nil, Amenities(r.Amenities))
	return resource.Replace(set)
}

// Amenities trims and de-duplicates, keeping first-seen order.
func Amenities(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

func boolOr(v *bool, def bool) *bool {
	if v == nil {
		return &def
	}
	return v
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
