package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swaprodev/hallo/internal/hr/entity"
	"github.com/swaprodev/hallo/internal/hr/repository"
)

// ClientService 客户公司服务
type ClientService struct {
	clientRepo *repository.ClientRepository
	empRepo    *repository.EmployeeRepository
}

// NewClientService 创建客户公司服务
func NewClientService(clientRepo *repository.ClientRepository, empRepo *repository.EmployeeRepository) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		empRepo:    empRepo,
	}
}

// CreateClientRequest 创建客户公司请求
type CreateClientRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Industry string `json:"industry"`
	Address  string `json:"address"`
	PICName  string `json:"pic_name"`
	PICPhone string `json:"pic_phone"`
	PICEmail string `json:"pic_email"`
}

// UpdateClientRequest 更新客户公司请求
type UpdateClientRequest struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Address  string `json:"address"`
	PICName  string `json:"pic_name"`
	PICPhone string `json:"pic_phone"`
	PICEmail string `json:"pic_email"`
	Status   string `json:"status"`
}

// ClientListResult 客户公司列表结果
type ClientListResult struct {
	Items      []entity.Client `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// Create 创建客户公司
func (s *ClientService) Create(ctx context.Context, req *CreateClientRequest) (*entity.Client, error) {
	if existing, _ := s.clientRepo.FindByCode(ctx, req.Code); existing != nil {
		return nil, fmt.Errorf("客户编码 %s 已存在", req.Code)
	}

	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String()[:32],
		Code:      req.Code,
		Name:      req.Name,
		Industry:  req.Industry,
		Address:   req.Address,
		PICName:   req.PICName,
		PICPhone:  req.PICPhone,
		PICEmail:  req.PICEmail,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

// Get 获取客户公司详情
func (s *ClientService) Get(ctx context.Context, id string) (*entity.Client, error) {
	return s.clientRepo.FindByID(ctx, id)
}

// Update 更新客户公司
func (s *ClientService) Update(ctx context.Context, id string, req *UpdateClientRequest) (*entity.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		client.Name = req.Name
	}
	if req.Industry != "" {
		client.Industry = req.Industry
	}
	if req.Address != "" {
		client.Address = req.Address
	}
	if req.PICName != "" {
		client.PICName = req.PICName
	}
	if req.PICPhone != "" {
		client.PICPhone = req.PICPhone
	}
	if req.PICEmail != "" {
		client.PICEmail = req.PICEmail
	}
	if req.Status != "" {
		client.Status = req.Status
	}
	client.UpdatedAt = time.Now()

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return client, nil
}

// Delete 删除客户公司（仍有在派员工时拒绝）
func (s *ClientService) Delete(ctx context.Context, id string) error {
	if _, err := s.clientRepo.FindByID(ctx, id); err != nil {
		return err
	}

	emps, err := s.empRepo.ListByClient(ctx, id)
	if err != nil {
		return fmt.Errorf("check client employees: %w", err)
	}
	if len(emps) > 0 {
		return fmt.Errorf("该客户下仍有 %d 名员工，无法删除", len(emps))
	}

	return s.clientRepo.Delete(ctx, id)
}

// List 获取客户公司列表
func (s *ClientService) List(ctx context.Context, page, pageSize int, keyword string) (*ClientListResult, error) {
	clients, total, err := s.clientRepo.List(ctx, page, pageSize, keyword)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &ClientListResult{
		Items:      clients,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
