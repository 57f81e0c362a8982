package transition

import (
	"groupware-approval/internal/domain/document"
	"groupware-approval/internal/domain/route"
)

type ActInput struct {
	DocumentID uint64
	ActorID    uint64
	Action     route.Action
	Signature  string
}

// Outcome reports where a document ended up after a transition. Step is the
// actor's step for Act and nil otherwise.
type Outcome struct {
	DocumentID uint64          `json:"document_id"`
	Status     document.Status `json:"status"`
	Step       *route.Step     `json:"step,omitempty"`
	// Steps forced to rejected by this action.
	Cascaded int `json:"cascaded,omitempty"`
}
