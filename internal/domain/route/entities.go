package route

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("actor has no step on this route")
	ErrAlreadyResolved = errors.New("step already resolved")
	ErrOutOfSequence   = errors.New("an earlier approver has not acted yet")
	ErrInvalidAction   = errors.New("invalid action")
)

// Kind tags a step as approver or referer. Referers are recorded but never
// gate the document outcome.
type Kind string

const (
	KindApprover Kind = "approver"
	KindReferer  Kind = "referer"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusRecalled Status = "recalled"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

func (a Action) Valid() bool { return a == ActionApprove || a == ActionReject }

func (a Action) status() Status {
	if a == ActionReject {
		return StatusRejected
	}
	return StatusApproved
}

// Table: approval_routes
type Step struct {
	ID         uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	DocumentID uint64 `gorm:"column:document_id;not null;uniqueIndex:uq_routes_document_position;index:idx_routes_member_status,priority:3" json:"document_id"`
	MemberID   uint64 `gorm:"column:member_id;not null;index:idx_routes_member_status,priority:1" json:"member_id"`
	Kind       Kind   `gorm:"column:kind;size:16;not null" json:"kind"`
	Position   int    `gorm:"column:position;not null;uniqueIndex:uq_routes_document_position" json:"position"`
	Status     Status `gorm:"column:status;size:16;not null;index:idx_routes_member_status,priority:2" json:"status"`

	// Exactly one of the two is set on an approved/rejected step, matching Kind.
	ApproverSignature *string `gorm:"column:approver_signature;size:255" json:"approver_signature,omitempty"`
	RefererSignature  *string `gorm:"column:referer_signature;size:255" json:"referer_signature,omitempty"`

	ResolvedAt *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Step) TableName() string { return "approval_routes" }

func (s *Step) Pending() bool { return s.Status == StatusPending }

// Signature returns whichever signature the step carries.
func (s *Step) Signature() string {
	switch {
	case s.ApproverSignature != nil:
		return *s.ApproverSignature
	case s.RefererSignature != nil:
		return *s.RefererSignature
	}
	return ""
}

func (s *Step) sign(sig string) {
	v := sig
	if s.Kind == KindReferer {
		s.RefererSignature = &v
		return
	}
	s.ApproverSignature = &v
}
