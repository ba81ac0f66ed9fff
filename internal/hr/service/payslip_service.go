package service

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/swaprodev/hallo/internal/hr/entity"
	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/shared/storage"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// PayslipService 工资单服务
type PayslipService struct {
	payslipRepo *repository.PayslipRepository
	empRepo     *repository.EmployeeRepository
	store       *storage.Store
}

// NewPayslipService 创建工资单服务
func NewPayslipService(payslipRepo *repository.PayslipRepository, empRepo *repository.EmployeeRepository, store *storage.Store) *PayslipService {
	return &PayslipService{
		payslipRepo: payslipRepo,
		empRepo:     empRepo,
		store:       store,
	}
}

// PayslipListResult 工资单列表结果
type PayslipListResult struct {
	Items      []entity.Payslip `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// Upload 上传工资单文件
func (s *PayslipService) Upload(ctx context.Context, userID, nik, period string, reader io.Reader, fileName string, fileSize int64, contentType string) (*entity.Payslip, error) {
	if s.store == nil {
		return nil, fmt.Errorf("文件存储未配置")
	}
	if !periodPattern.MatchString(period) {
		return nil, fmt.Errorf("期间格式应为 YYYY-MM")
	}

	if _, err := s.empRepo.FindByNIK(ctx, nik); err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("员工不存在")
		}
		return nil, err
	}

	if existing, _ := s.payslipRepo.FindByNIKAndPeriod(ctx, nik, period); existing != nil {
		return nil, fmt.Errorf("员工 %s 在 %s 的工资单已存在", nik, period)
	}

	objectName := storage.ObjectName("payslips", fileName)
	if err := s.store.Upload(ctx, objectName, reader, fileSize, contentType); err != nil {
		return nil, fmt.Errorf("upload payslip: %w", err)
	}

	now := time.Now()
	p := &entity.Payslip{
		ID:          uuid.New().String(),
		EmployeeNIK: nik,
		Period:      period,
		FileName:    fileName,
		FilePath:    objectName,
		FileSize:    fileSize,
		MimeType:    contentType,
		UploadedBy:  userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.payslipRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create payslip: %w", err)
	}
	return p, nil
}

// Get 获取工资单详情
func (s *PayslipService) Get(ctx context.Context, id string) (*entity.Payslip, error) {
	return s.payslipRepo.FindByID(ctx, id)
}

// List 获取工资单列表
func (s *PayslipService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*PayslipListResult, error) {
	slips, total, err := s.payslipRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list payslips: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &PayslipListResult{
		Items:      slips,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Delete 删除工资单（同时删除存储文件）
func (s *PayslipService) Delete(ctx context.Context, id string) error {
	p, err := s.payslipRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.payslipRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete payslip: %w", err)
	}

	if s.store != nil {
		// 文件删除失败不回滚记录删除
		_ = s.store.Remove(ctx, p.FilePath)
	}
	return nil
}
