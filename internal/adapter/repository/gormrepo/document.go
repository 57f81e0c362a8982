package gormrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	docDomain "groupware-approval/internal/domain/document"
)

type DocumentRepository struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) *DocumentRepository { return &DocumentRepository{db: db} }

func (r *DocumentRepository) Create(ctx context.Context, d *docDomain.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uint64) (*docDomain.Document, error) {
	var out docDomain.Document
	if err := r.db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		return nil, notFound(err, docDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *DocumentRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*docDomain.Document, error) {
	var out docDomain.Document
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, docDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *DocumentRepository) Save(ctx context.Context, d *docDomain.Document) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerID uint64, statuses []docDomain.Status, limit, offset int) ([]*docDomain.Document, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&docDomain.Document{}).Where("owner_id = ?", ownerID)
		if len(statuses) > 0 {
			q = q.Where("status IN ?", statuses)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []*docDomain.Document{}
	err := base().Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&out).Error
	return out, total, err
}

// ListByIDs keeps the order of ids; unknown ids are skipped.
func (r *DocumentRepository) ListByIDs(ctx context.Context, ids []uint64) ([]*docDomain.Document, error) {
	if len(ids) == 0 {
		return []*docDomain.Document{}, nil
	}
	var rows []*docDomain.Document
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint64]*docDomain.Document, len(rows))
	for _, d := range rows {
		byID[d.ID] = d
	}
	out := make([]*docDomain.Document, 0, len(rows))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *DocumentRepository) HasResolvedOwned(ctx context.Context, ownerID uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&docDomain.Document{}).
		Where("owner_id = ? AND status IN ?", ownerID, docDomain.ResolvedStatuses).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}
