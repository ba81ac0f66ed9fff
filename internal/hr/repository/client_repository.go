package repository

import (
	"context"
	"errors"

	"github.com/swaprodev/hallo/internal/hr/entity"
	"gorm.io/gorm"
)

// ClientRepository 客户公司仓储
type ClientRepository struct {
	db *gorm.DB
}

// NewClientRepository 创建客户公司仓储
func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// FindByID 根据ID查找客户公司
func (r *ClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindByCode 根据编码查找客户公司
func (r *ClientRepository) FindByCode(ctx context.Context, code string) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// Create 创建客户公司
func (r *ClientRepository) Create(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// Update 更新客户公司
func (r *ClientRepository) Update(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// Delete 删除客户公司
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Client{}, "id = ?", id).Error
}

// List 获取客户公司列表
func (r *ClientRepository) List(ctx context.Context, page, pageSize int, keyword string) ([]entity.Client, int64, error) {
	var clients []entity.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Client{})
	if keyword != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&clients).Error
	if err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}
