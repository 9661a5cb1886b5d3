package repository

import (
	"gorm.io/gorm"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	"github.com/BruksfildServices01/stay-booking/internal/models"
)

var _ audit.Reader = (*ResourceGormRepository[models.AuditLog])(nil)

// NewAuditLogGormRepository reads the rows written by audit.Logger. Only Find is
// used; audit rows are never updated or deleted through the API.
func NewAuditLogGormRepository(db *gorm.DB) (*ResourceGormRepository[models.AuditLog], error) {
	return NewResourceGormRepository[models.AuditLog](db)
}
