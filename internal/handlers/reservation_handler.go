package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	"github.com/BruksfildServices01/stay-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/stay-booking/internal/domain/resource"
	"github.com/BruksfildServices01/stay-booking/internal/dto"
	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/middleware"
	"github.com/BruksfildServices01/stay-booking/internal/models"
)

type ReservationHandler struct {
	*Resource[models.Reservation]
}

func NewReservationHandler(
	repo resource.Repository[models.Reservation],
	rec audit.Recorder,
) *ReservationHandler {
	return &ReservationHandler{
		Resource: NewResource[models.Reservation](repo, rec, "reservation", "Reservation"),
	}
}

// Create books a stay for the authenticated guest.
func (h *ReservationHandler) Create(c *gin.Context) {
	h.Resource.Create(func(c *gin.Context) (*models.Reservation, error) {
		guest, ok := middleware.CurrentUser(c)
		if !ok {
			return nil, httperr.BadRequest("Please signup")
		}

		var req dto.CreateReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, bindError(err)
		}

		r := req.Reservation(guest)
		if err := reservation.ValidateStay(r.CheckIn, r.CheckOut); err != nil {
			return nil, err
		}
		return &r, nil
	})(c)
}
