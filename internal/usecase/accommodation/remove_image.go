package accommodation

import (
	"context"
	"slices"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	domain "github.com/BruksfildServices01/stay-booking/internal/domain/accommodation"
	"github.com/BruksfildServices01/stay-booking/internal/domain/resource"
	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/models"
)

type RemoveImageInput struct {
	HostID          string
	AccommodationID string
	Path            string
}

type RemoveImage struct {
	repo   domain.Repository
	images Images
	audit  audit.Recorder
}

func NewRemoveImage(
	repo domain.Repository,
	images Images,
	audit audit.Recorder,
) *RemoveImage {
	return &RemoveImage{
		repo:   repo,
		images: images,
		audit:  audit,
	}
}

// Execute detaches one image from a listing and deletes its object.
// The last image of a listing cannot be removed.
func (uc *RemoveImage) Execute(
	ctx context.Context,
	in RemoveImageInput,
) (*models.Accommodation, error) {

	if in.Path == "" {
		return nil, httperr.BadRequest("imagePath is required")
	}

	owner := ownedBy(in.HostID)
	current, err := uc.repo.FindOwned(ctx, in.AccommodationID, owner)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(current.Images, func(img models.Image) bool { return img.Path == in.Path })
	if idx < 0 {
		return nil, httperr.NotFound("Image not found on this accommodation")
	}
	if len(current.Images) <= domain.MinImages {
		return nil, httperr.BadRequest("An accommodation must keep at least one image")
	}

	remaining := slices.Delete(slices.Clone(current.Images), idx, idx+1)
	updated, err := uc.repo.Update(ctx, current.ID, owner, resource.Replace(map[string]any{"images": remaining}))
	if err != nil {
		return nil, err
	}

	_ = uc.images.Remove(context.WithoutCancel(ctx), []string{in.Path})

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.HostID,
		Action:   "accommodation_image_removed",
		Entity:   "accommodation",
		EntityID: current.ID,
		Metadata: map[string]string{"path": in.Path},
	})

	return updated, nil
}
