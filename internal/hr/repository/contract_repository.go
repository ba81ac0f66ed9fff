package repository

import (
	"context"
	"errors"

	"github.com/swaprodev/hallo/internal/hr/entity"
	"gorm.io/gorm"
)

// ContractRepository 合同文档仓储
type ContractRepository struct {
	db *gorm.DB
}

// NewContractRepository 创建合同文档仓储
func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// FindByID 根据ID查找合同文档
func (r *ContractRepository) FindByID(ctx context.Context, id string) (*entity.ContractDocument, error) {
	var doc entity.ContractDocument
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// Create 创建合同文档记录
func (r *ContractRepository) Create(ctx context.Context, doc *entity.ContractDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// Delete 删除合同文档记录
func (r *ContractRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.ContractDocument{}, "id = ?", id).Error
}

// ListByNIK 获取员工的合同文档列表
func (r *ContractRepository) ListByNIK(ctx context.Context, nik string, docType string) ([]entity.ContractDocument, error) {
	query := r.db.WithContext(ctx).Where("employee_nik = ?", nik)
	if docType != "" {
		query = query.Where("type = ?", docType)
	}

	var docs []entity.ContractDocument
	err := query.Order("created_at DESC").Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// List 获取合同文档列表
func (r *ContractRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.ContractDocument, int64, error) {
	var docs []entity.ContractDocument
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ContractDocument{})

	if nik, ok := filters["employee_nik"].(string); ok && nik != "" {
		query = query.Where("employee_nik = ?", nik)
	}
	if docType, ok := filters["type"].(string); ok && docType != "" {
		query = query.Where("type = ?", docType)
	}
	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		query = query.Where("title ILIKE ?", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Employee").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}
