package user

import (
	"context"

	"github.com/BruksfildServices01/stay-booking/internal/models"
)

type Repository interface {
	Create(
		ctx context.Context,
		u *models.User,
	) error

	FindByID(
		ctx context.Context,
		id string,
	) (*models.User, error)

	FindByUsername(
		ctx context.Context,
		username string,
	) (*models.User, error)

	UpdatePhoto(
		ctx context.Context,
		id string,
		photo models.Image,
	) (*models.User, error)
}
