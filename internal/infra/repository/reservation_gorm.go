package repository

import (
	"gorm.io/gorm"

	"github.com/BruksfildServices01/stay-booking/internal/domain/resource"
	"github.com/BruksfildServices01/stay-booking/internal/models"
)

var _ resource.Repository[models.Reservation] = (*ResourceGormRepository[models.Reservation])(nil)

func NewReservationGormRepository(db *gorm.DB) (*ResourceGormRepository[models.Reservation], error) {
	return NewResourceGormRepository[models.Reservation](db)
}
