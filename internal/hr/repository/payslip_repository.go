package repository

import (
	"context"
	"errors"

	"github.com/swaprodev/hallo/internal/hr/entity"
	"gorm.io/gorm"
)

// PayslipRepository 工资单仓储
type PayslipRepository struct {
	db *gorm.DB
}

// NewPayslipRepository 创建工资单仓储
func NewPayslipRepository(db *gorm.DB) *PayslipRepository {
	return &PayslipRepository{db: db}
}

// FindByID 根据ID查找工资单
func (r *PayslipRepository) FindByID(ctx context.Context, id string) (*entity.Payslip, error) {
	var p entity.Payslip
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByNIKAndPeriod 根据NIK和期间查找工资单
func (r *PayslipRepository) FindByNIKAndPeriod(ctx context.Context, nik, period string) (*entity.Payslip, error) {
	var p entity.Payslip
	err := r.db.WithContext(ctx).
		Where("employee_nik = ? AND period = ?", nik, period).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create 创建工资单记录
func (r *PayslipRepository) Create(ctx context.Context, p *entity.Payslip) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Delete 删除工资单记录
func (r *PayslipRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Payslip{}, "id = ?", id).Error
}

// ListByNIK 获取员工的工资单列表，按期间倒序
func (r *PayslipRepository) ListByNIK(ctx context.Context, nik string) ([]entity.Payslip, error) {
	var slips []entity.Payslip
	err := r.db.WithContext(ctx).
		Where("employee_nik = ?", nik).
		Order("period DESC").
		Find(&slips).Error
	if err != nil {
		return nil, err
	}
	return slips, nil
}

// List 获取工资单列表
func (r *PayslipRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.Payslip, int64, error) {
	var slips []entity.Payslip
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Payslip{})

	if nik, ok := filters["employee_nik"].(string); ok && nik != "" {
		query = query.Where("employee_nik = ?", nik)
	}
	if period, ok := filters["period"].(string); ok && period != "" {
		query = query.Where("period = ?", period)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Employee").
		Order("period DESC, employee_nik ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&slips).Error
	if err != nil {
		return nil, 0, err
	}

	return slips, total, nil
}
