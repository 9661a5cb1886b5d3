package accommodation

import (
	"context"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	domain "github.com/BruksfildServices01/stay-booking/internal/domain/accommodation"
	"github.com/BruksfildServices01/stay-booking/internal/models"
)

type DeleteAccommodation struct {
	repo   domain.Repository
	images Images
	audit  audit.Recorder
}

func NewDeleteAccommodation(
	repo domain.Repository,
	images Images,
	audit audit.Recorder,
) *DeleteAccommodation {
	return &DeleteAccommodation{
		repo:   repo,
		images: images,
		audit:  audit,
	}
}

// Execute deletes a listing the host owns, then its stored images.
func (uc *DeleteAccommodation) Execute(
	ctx context.Context,
	hostID string,
	id string,
) (*models.Accommodation, error) {

	removed, err := uc.repo.Delete(ctx, id, ownedBy(hostID))
	if err != nil {
		return nil, err
	}

	_ = uc.images.Remove(context.WithoutCancel(ctx), removed.ImagePaths())

	uc.audit.Dispatch(audit.Event{
		ActorID:  hostID,
		Action:   "accommodation_deleted",
		Entity:   "accommodation",
		EntityID: removed.ID,
	})

	return removed, nil
}
