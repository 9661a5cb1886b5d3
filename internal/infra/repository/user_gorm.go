package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/stay-booking/internal/domain/user"
	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/models"
)

var ErrUserNotFound = httperr.NotFound("No user found with that Id")

type UserGormRepository struct {
	db *gorm.DB
}

var _ domain.Repository = (*UserGormRepository)(nil)

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) Create(
	ctx context.Context,
	u *models.User,
) error {

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserGormRepository) FindByID(
	ctx context.Context,
	id string,
) (*models.User, error) {

	if uuid.Validate(id) != nil {
		return nil, ErrUserNotFound
	}
	var u models.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).Error; err != nil {
		return nil, r.notFound(err)
	}
	return &u, nil
}

func (r *UserGormRepository) FindByUsername(
	ctx context.Context,
	username string,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&u).Error; err != nil {
		return nil, r.notFound(err)
	}
	return &u, nil
}

// UpdatePhoto stores the new profile image and returns the user with it applied.
func (r *UserGormRepository) UpdatePhoto(
	ctx context.Context,
	id string,
	photo models.Image,
) (*models.User, error) {

	var u models.User
	res := r.db.WithContext(ctx).
		Model(&u).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]any{"photo": photo.URL, "photo_path": photo.Path})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *UserGormRepository) notFound(err error) error {
	if translated := translate(err); translated != ErrNotFound {
		return translated
	}
	return ErrUserNotFound
}
