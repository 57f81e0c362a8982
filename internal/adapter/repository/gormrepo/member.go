package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	memberDomain "groupware-approval/internal/domain/member"
)

type MemberRepository struct{ db *gorm.DB }

func NewMemberRepository(db *gorm.DB) *MemberRepository { return &MemberRepository{db: db} }

func (r *MemberRepository) Create(ctx context.Context, m *memberDomain.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MemberRepository) GetByID(ctx context.Context, id uint64) (*memberDomain.Member, error) {
	var out memberDomain.Member
	if err := r.db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		return nil, notFound(err, memberDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *MemberRepository) GetByIDs(ctx context.Context, ids []uint64) ([]*memberDomain.Member, error) {
	out := []*memberDomain.Member{}
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&out).Error
	return out, err
}

// GetByIDForUpdate locks the member row; leave debits serialize on it.
func (r *MemberRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*memberDomain.Member, error) {
	var out memberDomain.Member
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, memberDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *MemberRepository) Save(ctx context.Context, m *memberDomain.Member) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// notFound swaps gorm's record-not-found for the domain sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
