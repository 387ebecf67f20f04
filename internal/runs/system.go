package runs

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/quill/pkg/pagination"
)

// System defines the public contract for run domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	Find(ctx context.Context, id uuid.UUID) (*Run, error)
	Submit(ctx context.Context, cmd SubmitCommand) (*Run, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
