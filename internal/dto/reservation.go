package dto

import "github.com/BruksfildServices01/stay-booking/internal/models"

// CreateReservationRequest carries the listing snapshot chosen by the guest.
// user_id, user and username always come from the authenticated guest.
type CreateReservationRequest struct {
	AccommodationID  string   `json:"accommodation_id" binding:"omitempty,uuid"`
	Title            string   `json:"title" binding:"required,max=200"`
	Description      string   `json:"description"`
	Type             string   `json:"type" binding:"required,listing_type"`
	Location         string   `json:"location" binding:"required,location"`
	Images           []string `json:"images"`
	MaxGuests        int      `json:"maxGuests" binding:"required,min=1"`
	Bedrooms         int      `json:"bedrooms" binding:"required,min=1"`
	Rating           float64  `json:"rating" binding:"min=0,max=5"`
	Reviews          int      `json:"reviews" binding:"min=0"`
	Price            float64  `json:"price" binding:"required,min=1"`
	EnhancedCleaning *bool    `json:"enhancedCleaning"`
	SelfCheckIn      *bool    `json:"selfCheckIn"`
	Amenities        []string `json:"amenities"`

	CheckIn  Date `json:"checkIn"`
	CheckOut Date `json:"checkOut"`

	HostID string `json:"host_id" binding:"required,uuid"`
	Host   string `json:"host"`

	WeeklyDiscount float64 `json:"weeklyDiscount" binding:"min=0"`
	CleaningFee    float64 `json:"cleaningFee" binding:"min=0"`
	ServiceFee     float64 `json:"serviceFee" binding:"min=0"`
	OccupancyTaxes float64 `json:"occupancyTaxes" binding:"min=0"`

	SpecificRatings models.SpecificRatings `json:"specificRatings"`
}

func (r CreateReservationRequest) Reservation(guest *models.User) models.Reservation {
	return models.Reservation{
		AccommodationID:  r.AccommodationID,
		Title:            r.Title,
		Description:      r.Description,
		Type:             r.Type,
		Location:         r.Location,
		Images:           r.Images,
		MaxGuests:        r.MaxGuests,
		Bedrooms:         r.Bedrooms,
		Rating:           r.Rating,
		Reviews:          r.Reviews,
		Price:            r.Price,
		EnhancedCleaning: boolOr(r.EnhancedCleaning, true),
		SelfCheckIn:      boolOr(r.SelfCheckIn, true),
		Amenities:        Amenities(r.Amenities),
		CheckIn:          r.CheckIn.Time,
		CheckOut:         r.CheckOut.Time,
		HostID:           r.HostID,
		Host:             r.Host,
		UserID:           guest.ID,
		User:             guest.Name,
		Username:         guest.Username,
		WeeklyDiscount:   r.WeeklyDiscount,
		CleaningFee:      r.CleaningFee,
		ServiceFee:       r.ServiceFee,
		OccupancyTaxes:   r.OccupancyTaxes,
		SpecificRatings:  r.SpecificRatings,
	}
}
