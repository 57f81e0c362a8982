package member

import "context"

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id uint64) (*Member, error)

	// GetByIDs returns the members that exist; missing ids are simply absent.
	GetByIDs(ctx context.Context, ids []uint64) ([]*Member, error)

	// Row-locked read, for leave balance mutation inside a transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Member, error)

	Save(ctx context.Context, m *Member) error
}
