package repository

import (
	"context"
	"errors"
	"time"

	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/digitalpro/contact-gateway/pkg/pg"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a submission does not exist.
	ErrNotFound = errors.New("submission not found")
)

type SubmissionRepository struct {
	*pg.DB
}

func NewSubmissionRepository(db *pg.DB) *SubmissionRepository {
	return &SubmissionRepository{
		db,
	}
}

func (r *SubmissionRepository) Create(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	entity := toSubmissionEntity(sub)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toSubmissionModel(entity), nil
}

// CountRecentByIP counts submissions from ip created at or after since.
// Used by the rate-limit rule; note this count and any subsequent insert
// are separate statements, not one transaction.
func (r *SubmissionRepository) CountRecentByIP(ctx context.Context, ip string, since time.Time) (int64, error) {
	var n int64
	err := r.Read(ctx).WithContext(ctx).
		Model(&SubmissionEntity{}).
		Where("ip_address = ? AND created_at >= ?", ip, since).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*model.Submission, error) {
	var entity SubmissionEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toSubmissionModel(&entity), nil
}

func (r *SubmissionRepository) List(ctx context.Context, f model.SubmissionFilter) ([]*model.Submission, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&SubmissionEntity{})

	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		q = q.Where("status IN ?", statuses)
	}
	if f.IsRead != nil {
		q = q.Where("is_read = ?", *f.IsRead)
	}
	if f.IsSpam != nil {
		q = q.Where("is_spam = ?", *f.IsSpam)
	}
	if f.IPAddress != nil && *f.IPAddress != "" {
		q = q.Where("ip_address = ?", *f.IPAddress)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	// Count before pagination
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at"
	if f.Desc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*SubmissionEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toSubmissionModels(entities), total, nil
}

// Update applies an admin review patch. Contact and provenance columns
// are never touched here; is_spam stays whatever classification set it
// to, even when an operator re-statuses the row.
func (r *SubmissionRepository) Update(ctx context.Context, id int64, p model.SubmissionUpdateRequest) (*model.Submission, error) {
	updates := map[string]interface{}{}
	if p.IsRead != nil {
		updates["is_read"] = *p.IsRead
	}
	if p.Status != nil {
		updates["status"] = string(*p.Status)
	}
	if p.AdminNotes != nil {
		updates["admin_notes"] = *p.AdminNotes
	}
	updates["updated_at"] = time.Now()

	res := r.Write(ctx).WithContext(ctx).
		Model(&SubmissionEntity{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, id)
}
