package membermock

import (
	"context"

	domain "groupware-approval/internal/domain/member"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, m *domain.Member) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Member, error)
	GetByIDsFn         func(ctx context.Context, ids []uint64) ([]*domain.Member, error)
	GetByIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Member, error)
	SaveFn             func(ctx context.Context, m *domain.Member) error
}

// Directory answers GetByID and GetByIDs from a fixed set of members.
func Directory(members ...*domain.Member) *Repo {
	byID := make(map[uint64]*domain.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	get := func(_ context.Context, id uint64) (*domain.Member, error) {
		if m, ok := byID[id]; ok {
			return m, nil
		}
		return nil, domain.ErrNotFound
	}
	return &Repo{
		GetByIDFn:          get,
		GetByIDForUpdateFn: get,
		GetByIDsFn: func(_ context.Context, ids []uint64) ([]*domain.Member, error) {
			out := []*domain.Member{}
			for _, id := range ids {
				if m, ok := byID[id]; ok {
					out = append(out, m)
				}
			}
			return out, nil
		},
	}
}

func (m *Repo) Create(ctx context.Context, mem *domain.Member) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, mem)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Member, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDs(ctx context.Context, ids []uint64) ([]*domain.Member, error) {
	if m.GetByIDsFn != nil {
		return m.GetByIDsFn(ctx, ids)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Member, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, mem *domain.Member) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, mem)
	}
	return nil
}
