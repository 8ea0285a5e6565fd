package materials

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/hub/pkg/media"
	"github.com/JaimeStill/hub/pkg/pagination"
)

// System defines the public contract for material domain operations.
// Reads are scoped to the caller role carried by ctx.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Material], error)

	Find(ctx context.Context, id uuid.UUID) (*Material, error)
	Create(ctx context.Context, cmd CreateCommand) (*Material, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Material, error)
	Delete(ctx context.Context, id uuid.UUID) error

	PutAsset(ctx context.Context, id uuid.UUID, lang string, cmd AssetCommand) (*Asset, error)
	DeleteAsset(ctx context.Context, id uuid.UUID, lang string) error
	Upload(ctx context.Context, id uuid.UUID, lang string, cmd UploadCommand) (*Asset, error)

	View(ctx context.Context, id uuid.UUID, lang string, mode media.Mode) (*View, error)
}
