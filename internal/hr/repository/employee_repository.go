package repository

import (
	"context"
	"errors"
	"time"

	"github.com/swaprodev/hallo/internal/hr/entity"
	"gorm.io/gorm"
)

// EmployeeRepository 员工仓储
type EmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository 创建员工仓储
func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// FindByNIK 根据NIK查找员工
func (r *EmployeeRepository) FindByNIK(ctx context.Context, nik string) (*entity.Employee, error) {
	var emp entity.Employee
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("nik = ?", nik).
		First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &emp, nil
}

// Create 创建员工
func (r *EmployeeRepository) Create(ctx context.Context, emp *entity.Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

// Update 更新员工
func (r *EmployeeRepository) Update(ctx context.Context, emp *entity.Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

// UpdateFields 按字段更新员工
func (r *EmployeeRepository) UpdateFields(ctx context.Context, nik string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.Employee{}).
		Where("nik = ?", nik).
		Updates(fields).Error
}

// Archive 归档员工（仅对活跃员工生效）
func (r *EmployeeRepository) Archive(ctx context.Context, nik string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Employee{}).
		Where("nik = ? AND status = ?", nik, entity.EmployeeStatusActive).
		Updates(map[string]interface{}{
			"status":     entity.EmployeeStatusArchived,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStateConflict
	}
	return nil
}

// Delete 删除员工
func (r *EmployeeRepository) Delete(ctx context.Context, nik string) error {
	return r.db.WithContext(ctx).Delete(&entity.Employee{}, "nik = ?", nik).Error
}

// List 获取员工列表
func (r *EmployeeRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.Employee, int64, error) {
	var emps []entity.Employee
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Employee{})

	// 应用过滤条件
	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		query = query.Where("full_name ILIKE ? OR nik ILIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	if clientID, ok := filters["client_id"].(string); ok && clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if contractType, ok := filters["contract_type"].(string); ok && contractType != "" {
		query = query.Where("contract_type = ?", contractType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Client").
		Order("full_name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&emps).Error
	if err != nil {
		return nil, 0, err
	}

	return emps, total, nil
}

// ListByClient 获取客户公司下的员工
func (r *EmployeeRepository) ListByClient(ctx context.Context, clientID string) ([]entity.Employee, error) {
	var emps []entity.Employee
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("full_name ASC").
		Find(&emps).Error
	if err != nil {
		return nil, err
	}
	return emps, nil
}
