package user

import (
	"context"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	domain "github.com/BruksfildServices01/stay-booking/internal/domain/user"
	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/media"
	"github.com/BruksfildServices01/stay-booking/internal/models"
)

type Images interface {
	Upload(ctx context.Context, t media.Target, sources []media.Source) ([]models.Image, error)
	Remove(ctx context.Context, keys []string) error
}

type UpdateProfileImage struct {
	users  domain.Repository
	images Images
	audit  audit.Recorder
}

func NewUpdateProfileImage(
	users domain.Repository,
	images Images,
	audit audit.Recorder,
) *UpdateProfileImage {
	return &UpdateProfileImage{
		users:  users,
		images: images,
		audit:  audit,
	}
}

// Execute stores file as the user's new photo and deletes the previous one.
func (uc *UpdateProfileImage) Execute(
	ctx context.Context,
	u *models.User,
	file *media.Source,
) (*models.User, error) {

	if file == nil {
		return nil, httperr.BadRequest("Please provide an image")
	}

	stored, err := uc.images.Upload(ctx, media.UserPhoto(u.ID), []media.Source{*file})
	if err != nil {
		return nil, err
	}
	photo := stored[0]

	updated, err := uc.users.UpdatePhoto(ctx, u.ID, photo)
	if err != nil {
		_ = uc.images.Remove(context.WithoutCancel(ctx), []string{photo.Path})
		return nil, err
	}

	if u.PhotoPath != "" && u.PhotoPath != photo.Path {
		_ = uc.images.Remove(context.WithoutCancel(ctx), []string{u.PhotoPath})
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  u.ID,
		Action:   "profile_image_updated",
		Entity:   "user",
		EntityID: u.ID,
	})

	return updated, nil
}
