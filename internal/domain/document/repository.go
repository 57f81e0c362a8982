package document

import "context"

type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id uint64) (*Document, error)

	// Row-locked read; every step/status mutation of a document goes through it.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Document, error)

	Save(ctx context.Context, d *Document) error

	// Owner listing, newest first. An empty statuses slice means any status.
	ListByOwner(ctx context.Context, ownerID uint64, statuses []Status, limit, offset int) ([]*Document, int64, error)

	ListByIDs(ctx context.Context, ids []uint64) ([]*Document, error)

	// True when the owner has a document in one of ResolvedStatuses.
	HasResolvedOwned(ctx context.Context, ownerID uint64) (bool, error)
}
