package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	docDomain "groupware-approval/internal/domain/document"
	"groupware-approval/internal/domain/event"
	"groupware-approval/internal/domain/member"
	"groupware-approval/internal/domain/route"
	"groupware-approval/internal/domain/uow"
)

// Usecase is the routing side of the workflow: it creates documents with
// their approval route and serves the read models.
type Usecase struct {
	docs    docDomain.Repository
	routes  route.Repository
	members member.Repository
	uow     uow.UnitOfWork
	pub     event.Publisher
	now     func() time.Time
}

func NewUsecase(docs docDomain.Repository, routes route.Repository, members member.Repository, tx uow.UnitOfWork, pub event.Publisher) *Usecase {
	if pub == nil {
		pub = event.NopPublisher{}
	}
	return &Usecase{
		docs:    docs,
		routes:  routes,
		members: members,
		uow:     tx,
		pub:     pub,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create persists the document and its route in one transaction. Drafts may
// be saved without approvers; anything else needs at least one.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*View, error) {
	status := docDomain.StatusPending
	if in.Draft {
		status = docDomain.StatusDraft
	}
	approvers := route.Dedupe(in.ApproverIDs)
	referers := firstOnly(route.Dedupe(in.RefererIDs))
	if !in.Draft && len(approvers) == 0 {
		return nil, fmt.Errorf("%w: at least one approver is required", docDomain.ErrInvalidInput)
	}

	var view *View
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		now := u.now()
		d := &docDomain.Document{
			OwnerID:         in.OwnerID,
			Type:            in.Type,
			Title:           in.Title,
			Content:         in.Content,
			SubType:         in.SubType,
			StartDate:       in.StartDate,
			EndDate:         in.EndDate,
			Duration:        in.Duration,
			Status:          status,
			StatusUpdatedAt: now,
		}
		if err := d.Validate(); err != nil {
			return err
		}

		ids := append(append([]uint64{in.OwnerID}, approvers...), referers...)
		actors, err := resolve(ctx, r.Members, ids)
		if err != nil {
			return err
		}

		if err := r.Documents.Create(ctx, d); err != nil {
			return err
		}
		stored, err := r.Documents.GetByID(ctx, d.ID)
		if err != nil {
			if errors.Is(err, docDomain.ErrNotFound) {
				return fmt.Errorf("%w: document %d unreadable after insert", member.ErrInvalidReference, d.ID)
			}
			return err
		}

		steps := route.Build(stored.ID, approvers, referers)
		if err := r.Routes.CreateBatch(ctx, steps); err != nil {
			return err
		}
		view = &View{Document: stored, Route: stepViews(steps, actors)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint64("document_id", view.Document.ID).
		Uint64("owner_id", in.OwnerID).
		Str("status", string(view.Document.Status)).
		Int("steps", len(view.Route)).
		Msg("document created")

	if status == docDomain.StatusPending {
		u.publish(ctx, event.Event{
			Type:       event.TypeDocumentSubmitted,
			DocumentID: view.Document.ID,
			ActorID:    in.OwnerID,
			Status:     string(status),
			Recipients: append(append([]uint64{in.OwnerID}, approvers...), referers...),
			At:         view.Document.StatusUpdatedAt,
		})
	}
	return view, nil
}

// SubmitDraft moves a draft to pending. A draft saved without a route gets one
// built from the given lists; a draft that already has one takes no lists.
func (u *Usecase) SubmitDraft(ctx context.Context, in SubmitInput) (*View, error) {
	var (
		view       *View
		recipients []uint64
	)
	err := u.uow.WithinDocumentTx(ctx, in.DocumentID, func(r uow.Repos, d *docDomain.Document) error {
		if d.OwnerID != in.OwnerID {
			return docDomain.ErrNotOwner
		}
		if d.Status != docDomain.StatusDraft {
			return docDomain.ErrInvalidState
		}
		steps, err := r.Routes.ListByDocumentID(ctx, d.ID)
		if err != nil {
			return err
		}

		if len(steps) == 0 {
			approvers := route.Dedupe(in.ApproverIDs)
			if len(approvers) == 0 {
				return fmt.Errorf("%w: at least one approver is required", docDomain.ErrInvalidInput)
			}
			referers := firstOnly(route.Dedupe(in.RefererIDs))
			if _, err := resolve(ctx, r.Members, append(append([]uint64{}, approvers...), referers...)); err != nil {
				return err
			}
			steps = route.Build(d.ID, approvers, referers)
			if err := r.Routes.CreateBatch(ctx, steps); err != nil {
				return err
			}
		} else if len(in.ApproverIDs) > 0 || len(in.RefererIDs) > 0 {
			return fmt.Errorf("%w: route already set", docDomain.ErrInvalidInput)
		}

		d.SetStatus(docDomain.StatusPending, u.now())
		if err := r.Documents.Save(ctx, d); err != nil {
			return err
		}

		actors, err := actorsOf(ctx, r.Members, route.Participants(steps))
		if err != nil {
			return err
		}
		view = &View{Document: d, Route: stepViews(steps, actors)}
		recipients = append([]uint64{d.OwnerID}, route.Participants(steps)...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint64("document_id", in.DocumentID).Msg("draft submitted")
	u.publish(ctx, event.Event{
		Type:       event.TypeDocumentSubmitted,
		DocumentID: in.DocumentID,
		ActorID:    in.OwnerID,
		Status:     string(docDomain.StatusPending),
		Recipients: recipients,
		At:         view.Document.StatusUpdatedAt,
	})
	return view, nil
}

func (u *Usecase) Get(ctx context.Context, documentID uint64) (*View, error) {
	d, err := u.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	steps, err := u.GetRouteStatus(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return &View{Document: d, Route: steps}, nil
}

// GetRouteStatus lists the route in position order with each participant's
// display identity.
func (u *Usecase) GetRouteStatus(ctx context.Context, documentID uint64) ([]StepView, error) {
	steps, err := u.routes.ListByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		// tell "no route yet" from "no document"
		if _, err := u.docs.GetByID(ctx, documentID); err != nil {
			return nil, err
		}
	}
	actors, err := actorsOf(ctx, u.members, route.Participants(steps))
	if err != nil {
		return nil, err
	}
	return stepViews(steps, actors), nil
}

func (u *Usecase) ListOwned(ctx context.Context, in ListInput) (*Page, error) {
	page, size := normalizePage(in.Page, in.Size)
	docs, total, err := u.docs.ListByOwner(ctx, in.OwnerID, in.Statuses, size, (page-1)*size)
	if err != nil {
		return nil, err
	}
	return &Page{Items: docs, Total: total, Page: page, Size: size}, nil
}

// Inbox lists submitted documents the actor is routed on, newest first.
func (u *Usecase) Inbox(ctx context.Context, actorID uint64, page, size int) (*InboxPage, error) {
	page, size = normalizePage(page, size)
	ids, total, err := u.routes.ListDocumentIDsByMember(ctx, actorID, size, (page-1)*size)
	if err != nil {
		return nil, err
	}
	docs, err := u.docs.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	routes, err := u.routes.ListByDocumentIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var everyone []uint64
	for _, steps := range routes {
		everyone = append(everyone, route.Participants(steps)...)
	}
	actors, err := actorsOf(ctx, u.members, route.Dedupe(everyone))
	if err != nil {
		return nil, err
	}

	items := make([]InboxItem, 0, len(docs))
	for _, d := range docs {
		steps := routes[d.ID]
		views := stepViews(steps, actors)
		item := InboxItem{Document: d, Route: views}
		if own := ownStep(steps, actorID); own >= 0 {
			item.Own = &views[own]
		}
		items = append(items, item)
	}
	return &InboxPage{Items: items, Total: total, Page: page, Size: size}, nil
}

func (u *Usecase) publish(ctx context.Context, e event.Event) {
	e.Recipients = route.Dedupe(e.Recipients)
	if err := u.pub.Publish(ctx, e); err != nil {
		log.Warn().Err(err).Str("type", string(e.Type)).Uint64("document_id", e.DocumentID).Msg("event publish failed")
	}
}

// resolve checks every id against the directory; any miss aborts with
// ErrInvalidReference.
func resolve(ctx context.Context, members member.Repository, ids []uint64) (map[uint64]member.Actor, error) {
	ids = route.Dedupe(ids)
	found, err := members.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	actors := make(map[uint64]member.Actor, len(found))
	for _, m := range found {
		actors[m.ID] = m.Actor()
	}
	for _, id := range ids {
		if _, ok := actors[id]; !ok {
			return nil, fmt.Errorf("%w: member %d", member.ErrInvalidReference, id)
		}
	}
	return actors, nil
}

// actorsOf is the lenient lookup used for display; unknown members are left out.
func actorsOf(ctx context.Context, members member.Repository, ids []uint64) (map[uint64]member.Actor, error) {
	actors := make(map[uint64]member.Actor, len(ids))
	if len(ids) == 0 {
		return actors, nil
	}
	found, err := members.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range found {
		actors[m.ID] = m.Actor()
	}
	return actors, nil
}

func ownStep(steps []*route.Step, actorID uint64) int {
	first := -1
	for i, s := range steps {
		if s.MemberID != actorID {
			continue
		}
		if s.Pending() {
			return i
		}
		if first < 0 {
			first = i
		}
	}
	return first
}

func firstOnly(ids []uint64) []uint64 {
	if len(ids) > 1 {
		return ids[:1]
	}
	return ids
}
