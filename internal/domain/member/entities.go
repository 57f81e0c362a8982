package member

import (
	"errors"
	"time"
)

var (
	ErrNotFound            = errors.New("member not found")
	ErrInvalidReference    = errors.New("participant cannot be resolved")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
)

// Member is the directory row the approval core reads for identity and
// mutates only through the two leave columns.
type Member struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"column:name;size:100;not null" json:"name"`
	Rank           string    `gorm:"column:rank_title;size:50" json:"rank"`
	OrgUnit        string    `gorm:"column:org_unit;size:100" json:"org_unit"`
	LeaveRemaining float64   `gorm:"column:leave_remaining;not null;default:0" json:"leave_remaining"`
	LeaveUsed      float64   `gorm:"column:leave_used;not null;default:0" json:"leave_used"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Member) TableName() string { return "members" }

// Actor is the display projection of a member.
type Actor struct {
	ID          uint64 `json:"id"`
	DisplayName string `json:"display_name"`
	Rank        string `json:"rank"`
	OrgUnit     string `json:"org_unit"`
}

func (m *Member) Actor() Actor {
	return Actor{ID: m.ID, DisplayName: m.Name, Rank: m.Rank, OrgUnit: m.OrgUnit}
}

type LeaveBalance struct {
	Remaining float64 `json:"remaining"`
	Used      float64 `json:"used"`
}

func (m *Member) LeaveBalance() LeaveBalance {
	return LeaveBalance{Remaining: m.LeaveRemaining, Used: m.LeaveUsed}
}

// DebitLeave moves amount days from remaining to used. The member is left
// untouched when the remaining balance does not cover it.
func (m *Member) DebitLeave(amount float64) error {
	if amount < 0 {
		return errors.New("negative leave amount")
	}
	if m.LeaveRemaining < amount {
		return ErrInsufficientBalance
	}
	m.LeaveRemaining -= amount
	m.LeaveUsed += amount
	return nil
}
