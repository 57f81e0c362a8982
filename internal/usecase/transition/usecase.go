package transition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"groupware-approval/internal/domain/document"
	"groupware-approval/internal/domain/event"
	"groupware-approval/internal/domain/member"
	"groupware-approval/internal/domain/route"
	"groupware-approval/internal/domain/uow"
)

type Usecase struct {
	uow uow.UnitOfWork
	pub event.Publisher
	now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, pub event.Publisher) *Usecase {
	if pub == nil {
		pub = event.NopPublisher{}
	}
	return &Usecase{uow: tx, pub: pub, now: func() time.Time { return time.Now().UTC() }}
}

// Act applies an approve/reject to the actor's step under the document lock.
// Only the earliest pending step may move. A leave document reaching approved
// debits the owner's balance in the same transaction; when the balance is
// short the document is committed as rejected and ErrInsufficientBalance is
// returned alongside the outcome.
func (u *Usecase) Act(ctx context.Context, in ActInput) (*Outcome, error) {
	if !in.Action.Valid() {
		return nil, route.ErrInvalidAction
	}

	var (
		out        *Outcome
		balanceErr error
		events     []event.Event
	)
	err := u.uow.WithinDocumentTx(ctx, in.DocumentID, func(r uow.Repos, d *document.Document) error {
		out, balanceErr, events = nil, nil, nil

		steps, err := r.Routes.ListByDocumentID(ctx, d.ID)
		if err != nil {
			return err
		}
		if _, err := route.StepFor(steps, in.ActorID); err != nil {
			return err
		}
		if d.Status != document.StatusPending {
			return document.ErrInvalidState
		}

		now := u.now()
		prev := d.Status
		acted, changed, err := route.Apply(steps, in.ActorID, in.Action, in.Signature, now)
		if err != nil {
			return err
		}

		switch route.Evaluate(steps) {
		case route.OutcomeApproved:
			d.SetStatus(document.StatusApproved, now)
		case route.OutcomeRejected:
			d.SetStatus(document.StatusRejected, now)
		}

		if d.Type == document.TypeLeave && d.Status == document.StatusApproved {
			if err := u.debitLeave(ctx, r, d); err != nil {
				if !errors.Is(err, member.ErrInsufficientBalance) {
					return err
				}
				balanceErr = err
				route.Overrule(acted)
				d.SetStatus(document.StatusRejected, now)
			}
		}

		for _, s := range changed {
			if err := r.Routes.Save(ctx, s); err != nil {
				return err
			}
		}
		statusChanged := d.Status != prev
		if statusChanged {
			if err := r.Documents.Save(ctx, d); err != nil {
				return err
			}
		}

		recipients := append([]uint64{d.OwnerID}, route.Participants(steps)...)
		events = append(events, event.Event{
			Type:       event.TypeStepResolved,
			DocumentID: d.ID,
			ActorID:    in.ActorID,
			Status:     string(acted.Status),
			Recipients: recipients,
			At:         now,
		})
		if statusChanged {
			events = append(events, event.Event{
				Type:       statusEvent(d.Status),
				DocumentID: d.ID,
				ActorID:    in.ActorID,
				Status:     string(d.Status),
				Recipients: recipients,
				At:         now,
			})
		}
		out = &Outcome{DocumentID: d.ID, Status: d.Status, Step: acted, Cascaded: len(changed) - 1}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint64("document_id", in.DocumentID).
		Uint64("actor_id", in.ActorID).
		Str("action", string(in.Action)).
		Str("step_status", string(out.Step.Status)).
		Str("document_status", string(out.Status)).
		Msg("step resolved")
	u.publish(ctx, events...)

	return out, balanceErr
}

// debitLeave locks the owner's member row (after the document lock) and
// debits the requested duration. A short balance leaves the member untouched.
func (u *Usecase) debitLeave(ctx context.Context, r uow.Repos, d *document.Document) error {
	owner, err := r.Members.GetByIDForUpdate(ctx, d.OwnerID)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return fmt.Errorf("%w: owner %d", member.ErrInvalidReference, d.OwnerID)
		}
		return err
	}
	if err := owner.DebitLeave(d.Duration); err != nil {
		if errors.Is(err, member.ErrInsufficientBalance) {
			log.Info().
				Uint64("document_id", d.ID).
				Uint64("owner_id", owner.ID).
				Float64("requested", d.Duration).
				Float64("remaining", owner.LeaveRemaining).
				Msg("leave approval rejected: insufficient balance")
		}
		return err
	}
	return r.Members.Save(ctx, owner)
}

// Recall withdraws a draft or pending document. Pending steps become recalled;
// resolved ones keep their status.
func (u *Usecase) Recall(ctx context.Context, documentID, ownerID uint64) (*Outcome, error) {
	var (
		out        *Outcome
		recipients []uint64
		at         time.Time
	)
	err := u.uow.WithinDocumentTx(ctx, documentID, func(r uow.Repos, d *document.Document) error {
		if d.OwnerID != ownerID {
			return document.ErrNotOwner
		}
		if !d.Status.Recallable() {
			return document.ErrInvalidState
		}
		steps, err := r.Routes.ListByDocumentID(ctx, d.ID)
		if err != nil {
			return err
		}

		now := u.now()
		at = now
		for _, s := range route.Recall(steps, now) {
			if err := r.Routes.Save(ctx, s); err != nil {
				return err
			}
		}
		d.SetStatus(document.StatusRecalled, now)
		if err := r.Documents.Save(ctx, d); err != nil {
			return err
		}
		recipients = append([]uint64{d.OwnerID}, route.Participants(steps)...)
		out = &Outcome{DocumentID: d.ID, Status: d.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint64("document_id", documentID).Msg("document recalled")
	u.publish(ctx, event.Event{
		Type:       event.TypeDocumentRecalled,
		DocumentID: documentID,
		ActorID:    ownerID,
		Status:     string(document.StatusRecalled),
		Recipients: recipients,
		At:         at,
	})
	return out, nil
}

// Acknowledge clears the owner's notification for a concluded document. It
// never touches the route.
func (u *Usecase) Acknowledge(ctx context.Context, documentID, ownerID uint64) (*Outcome, error) {
	var (
		out *Outcome
		at  time.Time
	)
	err := u.uow.WithinDocumentTx(ctx, documentID, func(r uow.Repos, d *document.Document) error {
		if d.OwnerID != ownerID {
			return document.ErrNotOwner
		}
		if !d.Status.Resolved() {
			return document.ErrInvalidState
		}
		at = u.now()
		d.SetStatus(document.StatusAcknowledged, at)
		if err := r.Documents.Save(ctx, d); err != nil {
			return err
		}
		out = &Outcome{DocumentID: d.ID, Status: d.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint64("document_id", documentID).Msg("document acknowledged")
	u.publish(ctx, event.Event{
		Type:       event.TypeDocumentAcknowledged,
		DocumentID: documentID,
		ActorID:    ownerID,
		Status:     string(document.StatusAcknowledged),
		Recipients: []uint64{ownerID},
		At:         at,
	})
	return out, nil
}

func (u *Usecase) publish(ctx context.Context, events ...event.Event) {
	for _, e := range events {
		e.Recipients = route.Dedupe(e.Recipients)
		if err := u.pub.Publish(ctx, e); err != nil {
			log.Warn().Err(err).Str("type", string(e.Type)).Uint64("document_id", e.DocumentID).Msg("event publish failed")
		}
	}
}

func statusEvent(s document.Status) event.Type {
	switch s {
	case document.StatusApproved:
		return event.TypeDocumentApproved
	case document.StatusRejected:
		return event.TypeDocumentRejected
	}
	return event.Type("document." + string(s))
}
