package accommodation

import (
	"context"

	"github.com/BruksfildServices01/stay-booking/internal/domain/resource"
	"github.com/BruksfildServices01/stay-booking/internal/models"
)

type Repository interface {
	resource.Repository[models.Accommodation]

	// -------- Catalogue --------
	SummarizeLocations(
		ctx context.Context,
	) ([]models.LocationSummary, error)
}
