package documentmock

import (
	"context"

	domain "groupware-approval/internal/domain/document"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset writers are no-ops; unset readers return context.Canceled.
type Repo struct {
	CreateFn           func(ctx context.Context, d *domain.Document) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Document, error)
	GetByIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Document, error)
	SaveFn             func(ctx context.Context, d *domain.Document) error
	ListByOwnerFn      func(ctx context.Context, ownerID uint64, statuses []domain.Status, limit, offset int) ([]*domain.Document, int64, error)
	ListByIDsFn        func(ctx context.Context, ids []uint64) ([]*domain.Document, error)
	HasResolvedOwnedFn func(ctx context.Context, ownerID uint64) (bool, error)
}

func (m *Repo) Create(ctx context.Context, d *domain.Document) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Document, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Document, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, d *domain.Document) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, d)
	}
	return nil
}

func (m *Repo) ListByOwner(ctx context.Context, ownerID uint64, statuses []domain.Status, limit, offset int) ([]*domain.Document, int64, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID, statuses, limit, offset)
	}
	return nil, 0, context.Canceled
}

func (m *Repo) ListByIDs(ctx context.Context, ids []uint64) ([]*domain.Document, error) {
	if m.ListByIDsFn != nil {
		return m.ListByIDsFn(ctx, ids)
	}
	return nil, context.Canceled
}

func (m *Repo) HasResolvedOwned(ctx context.Context, ownerID uint64) (bool, error) {
	if m.HasResolvedOwnedFn != nil {
		return m.HasResolvedOwnedFn(ctx, ownerID)
	}
	return false, context.Canceled
}
