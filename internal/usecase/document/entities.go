package document

import (
	"time"

	docDomain "groupware-approval/internal/domain/document"
	"groupware-approval/internal/domain/member"
	"groupware-approval/internal/domain/route"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type CreateInput struct {
	OwnerID   uint64
	Type      docDomain.Type
	Title     string
	Content   string
	SubType   string
	StartDate *time.Time
	EndDate   *time.Time
	Duration  float64

	// Order is the approval sequence. Only the first referer is used.
	ApproverIDs []uint64
	RefererIDs  []uint64

	Draft bool
}

type SubmitInput struct {
	DocumentID  uint64
	OwnerID     uint64
	ApproverIDs []uint64
	RefererIDs  []uint64
}

type ListInput struct {
	OwnerID  uint64
	Statuses []docDomain.Status
	Page     int
	Size     int
}

// StepView is one row of a route status listing.
type StepView struct {
	StepID     uint64       `json:"step_id"`
	Actor      member.Actor `json:"actor"`
	Kind       route.Kind   `json:"kind"`
	Position   int          `json:"position"`
	Status     route.Status `json:"status"`
	Signature  string       `json:"signature,omitempty"`
	ResolvedAt *time.Time   `json:"resolved_at,omitempty"`
}

type View struct {
	Document *docDomain.Document `json:"document"`
	Route    []StepView          `json:"route"`
}

type Page struct {
	Items []*docDomain.Document `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Size  int                   `json:"size"`
}

type InboxItem struct {
	Document *docDomain.Document `json:"document"`
	Route    []StepView          `json:"route"`
	// The actor's own step; the earliest pending one when they hold several.
	Own *StepView `json:"own,omitempty"`
}

type InboxPage struct {
	Items []InboxItem `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func stepViews(steps []*route.Step, actors map[uint64]member.Actor) []StepView {
	out := make([]StepView, 0, len(steps))
	for _, s := range steps {
		a, ok := actors[s.MemberID]
		if !ok {
			a = member.Actor{ID: s.MemberID}
		}
		out = append(out, StepView{
			StepID:     s.ID,
			Actor:      a,
			Kind:       s.Kind,
			Position:   s.Position,
			Status:     s.Status,
			Signature:  s.Signature(),
			ResolvedAt: s.ResolvedAt,
		})
	}
	return out
}
