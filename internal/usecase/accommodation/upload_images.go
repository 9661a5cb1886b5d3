package accommodation

import (
	"context"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	domain "github.com/BruksfildServices01/stay-booking/internal/domain/accommodation"
	"github.com/BruksfildServices01/stay-booking/internal/domain/resource"
	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/media"
	"github.com/BruksfildServices01/stay-booking/internal/models"
)

type UploadImagesInput struct {
	HostID          string
	AccommodationID string
	Mode            resource.Mode
	Files           []media.Source
}

type UploadImages struct {
	repo   domain.Repository
	images Images
	audit  audit.Recorder
}

func NewUploadImages(
	repo domain.Repository,
	images Images,
	audit audit.Recorder,
) *UploadImages {
	return &UploadImages{
		repo:   repo,
		images: images,
		audit:  audit,
	}
}

// Execute stores a new batch of images for a listing the host owns.
//
// replace: the batch becomes the full image list and the previous objects are
// deleted afterwards. append: the batch is pushed after the existing images.
// Nothing is attached when the upload fails.
func (uc *UploadImages) Execute(
	ctx context.Context,
	in UploadImagesInput,
) (*models.Accommodation, error) {

	if len(in.Files) == 0 {
		return nil, httperr.BadRequest("Please provide at least one image")
	}
	if err := media.CheckSources(in.Files, domain.MaxImages); err != nil {
		return nil, err
	}

	owner := ownedBy(in.HostID)
	current, err := uc.repo.FindOwned(ctx, in.AccommodationID, owner)
	if err != nil {
		return nil, err
	}

	images, err := uc.images.Upload(ctx, media.AccommodationImages(current.ID), in.Files)
	if err != nil {
		return nil, err
	}

	var changes resource.Changes
	if in.Mode == resource.ModeAppend {
		changes = resource.Push("images", images)
	} else {
		changes = resource.Replace(map[string]any{"images": images})
	}

	updated, err := uc.repo.Update(ctx, current.ID, owner, changes)
	if err != nil {
		_ = uc.images.Remove(context.WithoutCancel(ctx), paths(images))
		return nil, err
	}

	if in.Mode != resource.ModeAppend {
		// Failures are logged by the pipeline; the listing already points at the new set.
		_ = uc.images.Remove(context.WithoutCancel(ctx), stale(current.ImagePaths(), paths(images)))
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.HostID,
		Action:   "accommodation_images_" + string(in.Mode),
		Entity:   "accommodation",
		EntityID: current.ID,
		Metadata: map[string]int{"images": len(images)},
	})

	return updated, nil
}
