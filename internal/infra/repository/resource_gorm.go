package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/stay-booking/internal/domain/resource"
	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/query"
)

// ResourceGormRepository implements resource.Repository for any gorm model with a
// uuid primary key and a version column.
type ResourceGormRepository[T any] struct {
	db   *gorm.DB
	cols columns
}

func NewResourceGormRepository[T any](db *gorm.DB) (*ResourceGormRepository[T], error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, fmt.Errorf("repository: parse %T: %w", *new(T), err)
	}
	return &ResourceGormRepository[T]{db: db, cols: columns{schema: stmt.Schema}}, nil
}

func (r *ResourceGormRepository[T]) Table() string {
	return r.cols.schema.Table
}

// -------- Reads --------

func (r *ResourceGormRepository[T]) FindByID(
	ctx context.Context,
	id string,
) (*T, error) {

	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}
	var out T
	if err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).
		First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *ResourceGormRepository[T]) Find(
	ctx context.Context,
	q query.Query,
) ([]T, error) {

	tx, err := r.build(r.db.WithContext(ctx).Model(new(T)), q)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := tx.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *ResourceGormRepository[T]) FindOwned(
	ctx context.Context,
	id string,
	owner query.Condition,
) (*T, error) {

	where, err := r.owned(id, owner)
	if err != nil {
		return nil, err
	}
	var out T
	if err := r.db.WithContext(ctx).Clauses(where).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotOwned
		}
		return nil, translate(err)
	}
	return &out, nil
}

// build applies filter, sort, projection and page of q to tx.
func (r *ResourceGormRepository[T]) build(tx *gorm.DB, q query.Query) (*gorm.DB, error) {
	exprs, err := r.cols.conditions(q.Conditions)
	if err != nil {
		return nil, err
	}
	if len(exprs) > 0 {
		tx = tx.Clauses(clause.Where{Exprs: exprs})
	}

	for _, o := range r.cols.orderBy(q.Sorts) {
		tx = tx.Order(o)
	}

	switch {
	case len(q.Fields) > 0:
		tx = tx.Select(r.cols.selection(q.Fields))
	case len(q.Omit) > 0:
		tx = tx.Omit(r.cols.names(q.Omit)...)
	}

	if q.Page != nil {
		tx = tx.Limit(q.Page.Size).Offset(q.Page.Offset())
	}
	return tx, nil
}

// -------- Writes --------

func (r *ResourceGormRepository[T]) Create(
	ctx context.Context,
	entity *T,
) error {

	return translate(r.db.WithContext(ctx).Create(entity).Error)
}

// Update applies changes to the record matching id and owner and returns the new state.
// version is bumped on every successful update.
func (r *ResourceGormRepository[T]) Update(
	ctx context.Context,
	id string,
	owner query.Condition,
	changes resource.Changes,
) (*T, error) {

	where, err := r.owned(id, owner)
	if err != nil {
		return nil, err
	}
	updates, err := r.assignments(changes)
	if err != nil {
		return nil, err
	}
	updates["version"] = gorm.Expr("version + 1")

	var out T
	res := r.db.WithContext(ctx).Model(&out).Clauses(clause.Returning{}, where).Updates(updates)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotOwned
	}
	return &out, nil
}

// Delete removes the record matching id and owner and returns it as it was.
func (r *ResourceGormRepository[T]) Delete(
	ctx context.Context,
	id string,
	owner query.Condition,
) (*T, error) {

	where, err := r.owned(id, owner)
	if err != nil {
		return nil, err
	}
	var out T
	res := r.db.WithContext(ctx).Clauses(clause.Returning{}, where).Delete(&out)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotOwned
	}
	return &out, nil
}

func (r *ResourceGormRepository[T]) owned(id string, owner query.Condition) (clause.Where, error) {
	if uuid.Validate(id) != nil {
		return clause.Where{}, ErrNotOwned
	}
	exprs := []clause.Expression{clause.Eq{Column: clause.Column{Name: "id"}, Value: id}}
	if owner.Field != "" {
		e, err := r.cols.condition(owner)
		if err != nil {
			return clause.Where{}, err
		}
		exprs = append(exprs, e)
	}
	return clause.Where{Exprs: exprs}, nil
}

// assignments turns changes into a gorm update map keyed by column.
// Unknown fields are rejected; primary key and create-only columns are skipped.
func (r *ResourceGormRepository[T]) assignments(changes resource.Changes) (map[string]any, error) {
	updates := make(map[string]any, len(changes.Set)+len(changes.Append)+1)

	for name, value := range changes.Set {
		col, field := r.cols.lookup(name)
		if field == nil {
			return nil, httperr.BadRequest(fmt.Sprintf("Unknown field %s", name))
		}
		if !r.updatable(col) {
			continue
		}
		if field.Serializer != nil {
			b, err := json.Marshal(value)
			if err != nil {
				return nil, httperr.Wrap(http.StatusBadRequest, fmt.Sprintf("Invalid value for %s", name), err)
			}
			value = string(b)
		}
		updates[col] = value
	}

	for name, values := range changes.Append {
		col, field := r.cols.lookup(name)
		if field == nil || field.Serializer == nil {
			return nil, httperr.BadRequest(fmt.Sprintf("Cannot append to %s", name))
		}
		if !r.updatable(col) {
			continue
		}
		b, err := json.Marshal(values)
		if err != nil {
			return nil, httperr.Wrap(http.StatusBadRequest, fmt.Sprintf("Invalid value for %s", name), err)
		}
		updates[col] = gorm.Expr("COALESCE(?, '[]'::jsonb) || ?::jsonb", clause.Column{Name: col}, string(b))
	}
	return updates, nil
}

var managedColumns = map[string]bool{"id": true, "version": true, "created_at": true, "updated_at": true}

func (r *ResourceGormRepository[T]) updatable(col string) bool {
	if managedColumns[col] {
		return false
	}
	f := r.cols.schema.LookUpField(col)
	return f != nil && f.Updatable && !f.PrimaryKey
}
