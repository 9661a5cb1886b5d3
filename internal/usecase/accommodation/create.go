package accommodation

import (
	"context"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	domain "github.com/BruksfildServices01/stay-booking/internal/domain/accommodation"
	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/media"
	"github.com/BruksfildServices01/stay-booking/internal/models"
)

type CreateInput struct {
	HostID  string
	Listing models.Accommodation
	Files   []media.Source
}

type CreateAccommodation struct {
	repo   domain.Repository
	images Images
	audit  audit.Recorder
	rng    *rand.Rand
}

func NewCreateAccommodation(
	repo domain.Repository,
	images Images,
	audit audit.Recorder,
) *CreateAccommodation {
	return &CreateAccommodation{
		repo:   repo,
		images: images,
		audit:  audit,
	}
}

// WithRand makes the mock rating and reviews come from r instead of the global source.
func (uc *CreateAccommodation) WithRand(r *rand.Rand) *CreateAccommodation {
	uc.rng = r
	return uc
}

// Execute uploads the images under a freshly allocated id and then stores the
// listing with that id. Uploaded objects are removed if the insert fails.
func (uc *CreateAccommodation) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.Accommodation, error) {

	if len(in.Files) < domain.MinImages {
		return nil, httperr.BadRequest("Please provide at least one image")
	}
	if err := media.CheckSources(in.Files, domain.MaxImages); err != nil {
		return nil, err
	}

	acc := in.Listing
	acc.ID = uuid.NewString()
	acc.HostID = in.HostID

	stats := domain.MockStats(uc.rng)
	acc.Rating = stats.Rating
	acc.Reviews = stats.Reviews

	images, err := uc.images.Upload(ctx, media.AccommodationImages(acc.ID), in.Files)
	if err != nil {
		return nil, err
	}
	acc.Images = images

	if err := uc.repo.Create(ctx, &acc); err != nil {
		_ = uc.images.Remove(context.WithoutCancel(ctx), paths(images))
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.HostID,
		Action:   "accommodation_created",
		Entity:   "accommodation",
		EntityID: acc.ID,
		Metadata: map[string]int{"images": len(images)},
	})

	return &acc, nil
}
