package uow

import (
	"context"
	"errors"

	"groupware-approval/internal/domain/document"
	"groupware-approval/internal/domain/member"
	"groupware-approval/internal/domain/route"
)

// ErrConflict is returned once lock retries are exhausted.
var ErrConflict = errors.New("concurrent update conflict, retry later")

// Repos are bound to the running transaction.
type Repos struct {
	Documents document.Repository
	Routes    route.Repository
	Members   member.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// locks the document row first, then passes it in; ErrNotFound from the
	// document package when it does not exist
	WithinDocumentTx(ctx context.Context, documentID uint64, fn func(r Repos, d *document.Document) error) error
}
