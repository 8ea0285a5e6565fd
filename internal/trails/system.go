package trails

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/hub/pkg/pagination"
)

// System defines the public contract for trail domain operations.
// Reads are scoped to the caller role carried by ctx.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Trail], error)

	Find(ctx context.Context, id uuid.UUID) (*Trail, error)
	Create(ctx context.Context, cmd Command) (*Trail, error)
	Update(ctx context.Context, id uuid.UUID, cmd Command) (*Trail, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetMaterials(ctx context.Context, id uuid.UUID, materialIDs []uuid.UUID) (*Trail, error)
}
