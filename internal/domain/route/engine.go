package route

import (
	"sort"
	"time"
)

// Outcome is the document-level verdict derived from a step set.
type Outcome string

const (
	OutcomeOpen     Outcome = "open"
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

// Dedupe drops repeated and zero ids, keeping first-seen order.
func Dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Build lays out the route for a document: one approver step per unique
// approver at positions 1..n, then a single referer step at n+1 built from
// the first referer only.
func Build(documentID uint64, approvers, referers []uint64) []*Step {
	approvers = Dedupe(approvers)
	steps := make([]*Step, 0, len(approvers)+1)
	for i, m := range approvers {
		steps = append(steps, &Step{
			DocumentID: documentID,
			MemberID:   m,
			Kind:       KindApprover,
			Position:   i + 1,
			Status:     StatusPending,
		})
	}
	if refs := Dedupe(referers); len(refs) > 0 {
		steps = append(steps, &Step{
			DocumentID: documentID,
			MemberID:   refs[0],
			Kind:       KindReferer,
			Position:   len(approvers) + 1,
			Status:     StatusPending,
		})
	}
	return steps
}

// Participants returns the distinct members on the route.
func Participants(steps []*Step) []uint64 {
	ids := make([]uint64, 0, len(steps))
	for _, s := range steps {
		ids = append(ids, s.MemberID)
	}
	return Dedupe(ids)
}

func ordered(steps []*Step) []*Step {
	out := append([]*Step(nil), steps...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// EarliestPending is the only step that may be transitioned next, or nil when
// nothing is pending.
func EarliestPending(steps []*Step) *Step {
	for _, s := range ordered(steps) {
		if s.Pending() {
			return s
		}
	}
	return nil
}

// StepFor picks the member's earliest pending step. A member with steps that
// are all resolved gets ErrAlreadyResolved; one without any gets ErrNotFound.
func StepFor(steps []*Step, memberID uint64) (*Step, error) {
	found := false
	for _, s := range ordered(steps) {
		if s.MemberID != memberID {
			continue
		}
		found = true
		if s.Pending() {
			return s, nil
		}
	}
	if found {
		return nil, ErrAlreadyResolved
	}
	return nil, ErrNotFound
}

// Apply resolves the member's step with action. Only the earliest pending step
// may move; a rejection forces every later pending step to rejected. It
// returns the acted step and every step it changed, acted step first.
func Apply(steps []*Step, memberID uint64, action Action, signature string, at time.Time) (*Step, []*Step, error) {
	if !action.Valid() {
		return nil, nil, ErrInvalidAction
	}
	target, err := StepFor(steps, memberID)
	if err != nil {
		return nil, nil, err
	}
	if EarliestPending(steps) != target {
		return nil, nil, ErrOutOfSequence
	}

	resolved := at
	target.Status = action.status()
	target.sign(signature)
	target.ResolvedAt = &resolved
	changed := []*Step{target}

	if action == ActionReject {
		for _, s := range ordered(steps) {
			if s.Position > target.Position && s.Pending() {
				s.Status = StatusRejected
				s.ResolvedAt = &resolved
				changed = append(changed, s)
			}
		}
	}
	return target, changed, nil
}

// Evaluate derives the verdict: approved when every step is approved,
// rejected when any step is rejected, open otherwise. An empty route is open.
func Evaluate(steps []*Step) Outcome {
	if len(steps) == 0 {
		return OutcomeOpen
	}
	all := true
	for _, s := range steps {
		switch s.Status {
		case StatusRejected:
			return OutcomeRejected
		case StatusApproved:
		default:
			all = false
		}
	}
	if all {
		return OutcomeApproved
	}
	return OutcomeOpen
}

// Recall moves every pending step to recalled and returns the ones it moved.
func Recall(steps []*Step, at time.Time) []*Step {
	var changed []*Step
	resolved := at
	for _, s := range ordered(steps) {
		if s.Pending() {
			s.Status = StatusRecalled
			s.ResolvedAt = &resolved
			changed = append(changed, s)
		}
	}
	return changed
}

// Overrule flips an approved step to rejected before it is persisted. The
// signature stays on the step.
func Overrule(s *Step) {
	if s.Status == StatusApproved {
		s.Status = StatusRejected
	}
}
