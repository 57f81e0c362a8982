package document

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidState = errors.New("document is not in an eligible status")
	ErrNotOwner     = errors.New("actor does not own the document")
	ErrInvalidInput = errors.New("invalid document")
)

type Status string

const (
	StatusDraft        Status = "draft"
	StatusPending      Status = "pending"
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
	StatusRecalled     Status = "recalled"
	StatusAcknowledged Status = "acknowledged"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusRecalled, StatusAcknowledged:
		return true
	}
	return false
}

// Recallable reports whether the owner may still withdraw the document.
func (s Status) Recallable() bool { return s == StatusDraft || s == StatusPending }

// Resolved reports whether the document reached a conclusion the owner has
// not acknowledged yet.
func (s Status) Resolved() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusRecalled
}

// ResolvedStatuses is the set behind the owner's notification badge.
var ResolvedStatuses = []Status{StatusApproved, StatusRejected, StatusRecalled}

type Type string

const (
	TypeLeave        Type = "leave"
	TypeLateArrival  Type = "late_arrival"
	TypeBusinessTrip Type = "business_trip"
	TypeOutsideWork  Type = "outside_work"
	TypeOvertime     Type = "overtime"
	TypeGeneric      Type = "generic"
)

func (t Type) Valid() bool {
	switch t {
	case TypeLeave, TypeLateArrival, TypeBusinessTrip, TypeOutsideWork, TypeOvertime, TypeGeneric:
		return true
	}
	return false
}

// Table: documents
type Document struct {
	ID      uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OwnerID uint64 `gorm:"column:owner_id;not null;index:idx_documents_owner_status" json:"owner_id"`
	Type    Type   `gorm:"column:doc_type;size:24;not null" json:"type"`
	Title   string `gorm:"column:title;size:200;not null" json:"title"`
	Content string `gorm:"column:content;type:text" json:"content"`

	// Type-specific fields; which ones are required depends on Type.
	SubType   string     `gorm:"column:sub_type;size:32" json:"sub_type,omitempty"`
	StartDate *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	Duration  float64    `gorm:"column:duration;not null;default:0" json:"duration,omitempty"`

	Status          Status    `gorm:"column:status;size:16;not null;index:idx_documents_owner_status" json:"status"`
	StatusUpdatedAt time.Time `gorm:"column:status_updated_at" json:"status_updated_at"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Document) TableName() string { return "documents" }

// SetStatus records a status change; it reports whether anything changed.
func (d *Document) SetStatus(s Status, at time.Time) bool {
	if d.Status == s {
		return false
	}
	d.Status = s
	d.StatusUpdatedAt = at
	return true
}

// Validate checks the header and the fields its type requires.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: unknown document type %q", ErrInvalidInput, d.Type)
	}
	if d.OwnerID == 0 {
		return fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}

	var missing []string
	need := func(ok bool, field string) {
		if !ok {
			missing = append(missing, field)
		}
	}
	switch d.Type {
	case TypeLeave, TypeOvertime:
		need(d.SubType != "", "sub_type")
		need(d.StartDate != nil, "start_date")
		need(d.EndDate != nil, "end_date")
		need(d.Duration > 0, "duration")
	case TypeBusinessTrip, TypeOutsideWork:
		need(d.SubType != "", "sub_type")
		need(d.StartDate != nil, "start_date")
		need(d.EndDate != nil, "end_date")
	case TypeLateArrival:
		need(d.SubType != "", "sub_type")
		need(d.StartDate != nil, "start_date")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s requires %s", ErrInvalidInput, d.Type, strings.Join(missing, ", "))
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		return fmt.Errorf("%w: end_date precedes start_date", ErrInvalidInput)
	}
	if d.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	}
	return nil
}
