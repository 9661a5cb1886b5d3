package resource

import (
	"context"

	"github.com/BruksfildServices01/stay-booking/internal/query"
)

// Repository is the storage contract behind the generic resource handlers.
//
// Mutations take the ownership condition of the acting user. A record that exists
// but does not match it is reported exactly like a missing one, so non-owners
// cannot learn whether it exists.
type Repository[T any] interface {
	FindByID(ctx context.Context, id string) (*T, error)
	Find(ctx context.Context, q query.Query) ([]T, error)

	FindOwned(ctx context.Context, id string, owner query.Condition) (*T, error)

	// Create keeps a pre-allocated id when the entity already carries one.
	Create(ctx context.Context, entity *T) error

	Update(ctx context.Context, id string, owner query.Condition, changes Changes) (*T, error)
	Delete(ctx context.Context, id string, owner query.Condition) (*T, error)
}

// Entity is implemented by models that expose their primary key.
type Entity interface {
	EntityID() string
}
