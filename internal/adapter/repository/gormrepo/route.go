package gormrepo

import (
	"context"

	"gorm.io/gorm"

	docDomain "groupware-approval/internal/domain/document"
	routeDomain "groupware-approval/internal/domain/route"
)

type RouteRepository struct{ db *gorm.DB }

func NewRouteRepository(db *gorm.DB) *RouteRepository { return &RouteRepository{db: db} }

// CreateBatch inserts the whole route in one statement.
func (r *RouteRepository) CreateBatch(ctx context.Context, steps []*routeDomain.Step) error {
	if len(steps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&steps).Error
}

func (r *RouteRepository) ListByDocumentID(ctx context.Context, documentID uint64) ([]*routeDomain.Step, error) {
	out := []*routeDomain.Step{}
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("position ASC").
		Find(&out).Error
	return out, err
}

func (r *RouteRepository) ListByDocumentIDs(ctx context.Context, documentIDs []uint64) (map[uint64][]*routeDomain.Step, error) {
	out := make(map[uint64][]*routeDomain.Step, len(documentIDs))
	if len(documentIDs) == 0 {
		return out, nil
	}
	var rows []*routeDomain.Step
	err := r.db.WithContext(ctx).
		Where("document_id IN ?", documentIDs).
		Order("document_id ASC, position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, s := range rows {
		out[s.DocumentID] = append(out[s.DocumentID], s)
	}
	return out, nil
}

func (r *RouteRepository) Save(ctx context.Context, s *routeDomain.Step) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// HasActionable looks for a pending step of the member on a pending document
// with no pending step ahead of it.
func (r *RouteRepository) HasActionable(ctx context.Context, memberID uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Table("approval_routes AS r").
		Joins("JOIN documents d ON d.id = r.document_id").
		Where("r.member_id = ? AND r.status = ? AND d.status = ?", memberID, routeDomain.StatusPending, docDomain.StatusPending).
		Where("NOT EXISTS (SELECT 1 FROM approval_routes p WHERE p.document_id = r.document_id AND p.status = ? AND p.position < r.position)", routeDomain.StatusPending).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

func (r *RouteRepository) ListDocumentIDsByMember(ctx context.Context, memberID uint64, limit, offset int) ([]uint64, int64, error) {
	base := func() *gorm.DB {
		routed := r.db.WithContext(ctx).Model(&routeDomain.Step{}).Select("document_id").Where("member_id = ?", memberID)
		return r.db.WithContext(ctx).Model(&docDomain.Document{}).
			Where("status <> ?", docDomain.StatusDraft).
			Where("id IN (?)", routed)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	ids := []uint64{}
	err := base().Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Pluck("id", &ids).Error
	return ids, total, err
}
