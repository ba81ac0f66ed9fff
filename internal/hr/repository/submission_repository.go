package repository

import (
	"context"
	"errors"
	"time"

	"github.com/swaprodev/hallo/internal/hr/entity"
	"gorm.io/gorm"
)

// SubmissionRepository 资料提交仓储
type SubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository 创建资料提交仓储
func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// FindByID 根据ID查找提交
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*entity.EmployeeDataSubmission, error) {
	var sub entity.EmployeeDataSubmission
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Reviewer").
		Where("id = ?", id).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// Create 创建提交
func (r *SubmissionRepository) Create(ctx context.Context, sub *entity.EmployeeDataSubmission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// ApproveAndApply 通过提交并把采纳的字段合并进员工档案
// 两步在同一事务内：先条件更新提交状态（仅命中 pending_review），
// 未命中说明已被其他审核人处理，整个事务回滚不改员工档案
func (r *SubmissionRepository) ApproveAndApply(ctx context.Context, id, reviewedBy, notes, nik string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		res := tx.Model(&entity.EmployeeDataSubmission{}).
			Where("id = ? AND status = ?", id, entity.SubmissionStatusPending).
			Updates(map[string]interface{}{
				"status":       entity.SubmissionStatusApproved,
				"reviewed_by":  reviewedBy,
				"review_notes": notes,
				"reviewed_at":  now,
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStateConflict
		}

		if len(fields) == 0 {
			return nil
		}
		fields["updated_at"] = now
		return tx.Model(&entity.Employee{}).
			Where("nik = ?", nik).
			Updates(fields).Error
	})
}

// Reject 驳回提交并记录审核意见
func (r *SubmissionRepository) Reject(ctx context.Context, id, reviewedBy, notes string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&entity.EmployeeDataSubmission{}).
		Where("id = ? AND status = ?", id, entity.SubmissionStatusPending).
		Updates(map[string]interface{}{
			"status":       entity.SubmissionStatusRejected,
			"reviewed_by":  reviewedBy,
			"review_notes": notes,
			"reviewed_at":  now,
			"updated_at":   now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStateConflict
	}
	return nil
}

// ListByNIK 获取员工的提交历史，按提交时间倒序
func (r *SubmissionRepository) ListByNIK(ctx context.Context, nik string) ([]entity.EmployeeDataSubmission, error) {
	var subs []entity.EmployeeDataSubmission
	err := r.db.WithContext(ctx).
		Where("employee_nik = ?", nik).
		Order("submitted_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// List 获取提交列表（后台）
func (r *SubmissionRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.EmployeeDataSubmission, int64, error) {
	var subs []entity.EmployeeDataSubmission
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.EmployeeDataSubmission{})

	if nik, ok := filters["employee_nik"].(string); ok && nik != "" {
		query = query.Where("employee_nik = ?", nik)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Employee").
		Preload("Reviewer").
		Order("submitted_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&subs).Error
	if err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

// CountPending 统计待审核提交数
func (r *SubmissionRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.EmployeeDataSubmission{}).
		Where("status = ?", entity.SubmissionStatusPending).
		Count(&count).Error
	return count, err
}
