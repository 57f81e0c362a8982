package route

import "context"

type Repository interface {
	CreateBatch(ctx context.Context, steps []*Step) error

	// Ordered by position.
	ListByDocumentID(ctx context.Context, documentID uint64) ([]*Step, error)
	ListByDocumentIDs(ctx context.Context, documentIDs []uint64) (map[uint64][]*Step, error)

	Save(ctx context.Context, s *Step) error

	// True when the member holds the earliest pending step of some pending document.
	HasActionable(ctx context.Context, memberID uint64) (bool, error)

	// Documents the member is routed on, newest first, excluding drafts.
	ListDocumentIDsByMember(ctx context.Context, memberID uint64, limit, offset int) ([]uint64, int64, error)
}
