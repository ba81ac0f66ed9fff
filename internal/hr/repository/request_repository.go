package repository

import (
	"context"
	"errors"
	"time"

	"github.com/swaprodev/hallo/internal/hr/entity"
	"gorm.io/gorm"
)

// RequestRepository 文档请求仓储
type RequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository 创建文档请求仓储
func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// FindByID 根据ID查找文档请求
func (r *RequestRepository) FindByID(ctx context.Context, id string) (*entity.DocumentRequest, error) {
	var req entity.DocumentRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("PIC").
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Create 创建文档请求
func (r *RequestRepository) Create(ctx context.Context, req *entity.DocumentRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// Approve 通过请求并写入访问截止时间
// 条件更新仅命中 pending 状态，两个PIC并发处理同一请求时只有一方成功
func (r *RequestRepository) Approve(ctx context.Context, id, picID string, expiresAt time.Time) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&entity.DocumentRequest{}).
		Where("id = ? AND status = ?", id, entity.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":            entity.RequestStatusApproved,
			"pic_id":            picID,
			"responded_at":      now,
			"access_expires_at": expiresAt,
			"updated_at":        now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStateConflict
	}
	return nil
}

// Reject 拒绝请求并记录原因
func (r *RequestRepository) Reject(ctx context.Context, id, picID, reason string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&entity.DocumentRequest{}).
		Where("id = ? AND status = ?", id, entity.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":           entity.RequestStatusRejected,
			"pic_id":           picID,
			"responded_at":     now,
			"rejection_reason": reason,
			"updated_at":       now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStateConflict
	}
	return nil
}

// ListByNIK 获取员工的请求列表，按发起时间倒序
func (r *RequestRepository) ListByNIK(ctx context.Context, nik string) ([]entity.DocumentRequest, error) {
	var reqs []entity.DocumentRequest
	err := r.db.WithContext(ctx).
		Where("employee_nik = ?", nik).
		Order("requested_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// List 获取请求列表（后台）
// 状态过滤在存储状态上进行；expired 是展示层推导状态，由服务层过滤
func (r *RequestRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.DocumentRequest, int64, error) {
	var reqs []entity.DocumentRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DocumentRequest{})

	if nik, ok := filters["employee_nik"].(string); ok && nik != "" {
		query = query.Where("employee_nik = ?", nik)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if docType, ok := filters["document_type"].(string); ok && docType != "" {
		query = query.Where("document_type = ?", docType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Employee").
		Preload("PIC").
		Order("requested_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&reqs).Error
	if err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}

// CountPending 统计待处理请求数
func (r *RequestRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.DocumentRequest{}).
		Where("status = ?", entity.RequestStatusPending).
		Count(&count).Error
	return count, err
}
