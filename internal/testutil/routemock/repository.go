package routemock

import (
	"context"

	domain "groupware-approval/internal/domain/route"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateBatchFn             func(ctx context.Context, steps []*domain.Step) error
	ListByDocumentIDFn        func(ctx context.Context, documentID uint64) ([]*domain.Step, error)
	ListByDocumentIDsFn       func(ctx context.Context, documentIDs []uint64) (map[uint64][]*domain.Step, error)
	SaveFn                    func(ctx context.Context, s *domain.Step) error
	HasActionableFn           func(ctx context.Context, memberID uint64) (bool, error)
	ListDocumentIDsByMemberFn func(ctx context.Context, memberID uint64, limit, offset int) ([]uint64, int64, error)
}

func (m *Repo) CreateBatch(ctx context.Context, steps []*domain.Step) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, steps)
	}
	return nil
}

func (m *Repo) ListByDocumentID(ctx context.Context, documentID uint64) ([]*domain.Step, error) {
	if m.ListByDocumentIDFn != nil {
		return m.ListByDocumentIDFn(ctx, documentID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByDocumentIDs(ctx context.Context, documentIDs []uint64) (map[uint64][]*domain.Step, error) {
	if m.ListByDocumentIDsFn != nil {
		return m.ListByDocumentIDsFn(ctx, documentIDs)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, s *domain.Step) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}

func (m *Repo) HasActionable(ctx context.Context, memberID uint64) (bool, error) {
	if m.HasActionableFn != nil {
		return m.HasActionableFn(ctx, memberID)
	}
	return false, context.Canceled
}

func (m *Repo) ListDocumentIDsByMember(ctx context.Context, memberID uint64, limit, offset int) ([]uint64, int64, error) {
	if m.ListDocumentIDsByMemberFn != nil {
		return m.ListDocumentIDsByMemberFn(ctx, memberID, limit, offset)
	}
	return nil, 0, context.Canceled
}
