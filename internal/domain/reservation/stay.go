package reservation

import (
	"time"

	"github.com/BruksfildServices01/stay-booking/internal/httperr"
)

// ValidateStay requires a non-empty stay that ends after it starts.
func ValidateStay(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return httperr.BadRequest("checkIn and checkOut are required")
	}
	if !checkOut.After(checkIn) {
		return httperr.BadRequest("checkOut must be after checkIn")
	}
	return nil
}

// Nights counts whole nights between the two dates.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	return int(d.Hours() / 24)
}
