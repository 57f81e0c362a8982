package event

import (
	"context"
	"time"
)

type Type string

const (
	TypeDocumentSubmitted    Type = "document.submitted"
	TypeDocumentApproved     Type = "document.approved"
	TypeDocumentRejected     Type = "document.rejected"
	TypeDocumentRecalled     Type = "document.recalled"
	TypeDocumentAcknowledged Type = "document.acknowledged"
	TypeStepResolved         Type = "step.resolved"
)

// Event describes a committed status change. Recipients are the members whose
// notification view may have changed.
type Event struct {
	Type       Type      `json:"type"`
	DocumentID uint64    `json:"document_id"`
	ActorID    uint64    `json:"actor_id"`
	Status     string    `json:"status"`
	Recipients []uint64  `json:"recipients"`
	At         time.Time `json:"at"`
}

// Publisher delivers events after commit. Delivery is best-effort; callers
// log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
