package notification

import (
	"context"

	"github.com/rs/zerolog/log"

	"groupware-approval/internal/domain/document"
	"groupware-approval/internal/domain/event"
	"groupware-approval/internal/domain/route"
)

type Kind string

const (
	KindApproval Kind = "approval"
	KindAuthor   Kind = "author"
)

// Cache holds per-actor badge booleans. A miss is (false, false, nil).
type Cache interface {
	Get(ctx context.Context, kind Kind, actorID uint64) (value, ok bool, err error)
	Set(ctx context.Context, kind Kind, actorID uint64, value bool) error
	Invalidate(ctx context.Context, actorIDs ...uint64) error
}

type Badges struct {
	ApprovalNotification bool `json:"approval_notification"`
	AuthorNotification   bool `json:"author_notification"`
}

// Tracker derives notification state from persisted statuses. It also sits
// in front of the event publisher so every committed change drops the
// cached badges of the members it touched before the event goes out.
type Tracker struct {
	docs   document.Repository
	routes route.Repository
	cache  Cache
	next   event.Publisher
}

// NewTracker accepts a nil cache (always recompute) and a nil publisher.
func NewTracker(docs document.Repository, routes route.Repository, cache Cache, next event.Publisher) *Tracker {
	if next == nil {
		next = event.NopPublisher{}
	}
	return &Tracker{docs: docs, routes: routes, cache: cache, next: next}
}

// HasPendingApprovalWork is true when the actor holds the earliest pending
// step of a pending document.
func (t *Tracker) HasPendingApprovalWork(ctx context.Context, actorID uint64) (bool, error) {
	return t.cached(ctx, KindApproval, actorID, func() (bool, error) {
		return t.routes.HasActionable(ctx, actorID)
	})
}

// HasResolvedOwnedDocuments is true when the actor owns an approved, rejected
// or recalled document not yet acknowledged.
func (t *Tracker) HasResolvedOwnedDocuments(ctx context.Context, actorID uint64) (bool, error) {
	return t.cached(ctx, KindAuthor, actorID, func() (bool, error) {
		return t.docs.HasResolvedOwned(ctx, actorID)
	})
}

func (t *Tracker) Badges(ctx context.Context, actorID uint64) (*Badges, error) {
	approval, err := t.HasPendingApprovalWork(ctx, actorID)
	if err != nil {
		return nil, err
	}
	author, err := t.HasResolvedOwnedDocuments(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return &Badges{ApprovalNotification: approval, AuthorNotification: author}, nil
}

// Publish invalidates the recipients' badges, then forwards the event.
func (t *Tracker) Publish(ctx context.Context, e event.Event) error {
	if t.cache != nil && len(e.Recipients) > 0 {
		if err := t.cache.Invalidate(ctx, e.Recipients...); err != nil {
			log.Warn().Err(err).Uint64("document_id", e.DocumentID).Msg("badge cache invalidation failed")
		}
	}
	return t.next.Publish(ctx, e)
}

// cached reads through the cache; cache failures fall back to the store.
func (t *Tracker) cached(ctx context.Context, kind Kind, actorID uint64, load func() (bool, error)) (bool, error) {
	if t.cache != nil {
		v, ok, err := t.cache.Get(ctx, kind, actorID)
		if err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Uint64("actor_id", actorID).Msg("badge cache read failed")
		} else if ok {
			return v, nil
		}
	}
	v, err := load()
	if err != nil {
		return false, err
	}
	if t.cache != nil {
		if err := t.cache.Set(ctx, kind, actorID, v); err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Uint64("actor_id", actorID).Msg("badge cache write failed")
		}
	}
	return v, nil
}
