package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/stay-booking/internal/domain/accommodation"
	"github.com/BruksfildServices01/stay-booking/internal/models"
)

type AccommodationGormRepository struct {
	*ResourceGormRepository[models.Accommodation]
	db *gorm.DB
}

var _ domain.Repository = (*AccommodationGormRepository)(nil)

func NewAccommodationGormRepository(db *gorm.DB) (*AccommodationGormRepository, error) {
	base, err := NewResourceGormRepository[models.Accommodation](db)
	if err != nil {
		return nil, err
	}
	return &AccommodationGormRepository{ResourceGormRepository: base, db: db}, nil
}

// --------------------------------------------------
// Catalogue
// --------------------------------------------------

func (r *AccommodationGormRepository) SummarizeLocations(
	ctx context.Context,
) ([]models.LocationSummary, error) {

	var out []models.LocationSummary
	if err := r.db.WithContext(ctx).
		Model(&models.Accommodation{}).
		Select("location, COUNT(*) AS count, MIN(price) AS min_price, ROUND(AVG(price)::numeric, 2) AS avg_price").
		Group("location").
		Order("count DESC, location").
		Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}
