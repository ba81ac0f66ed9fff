package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/swaprodev/hallo/internal/hr/entity"
	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/shared/storage"
)

// ContractService 合同文档服务
type ContractService struct {
	contractRepo *repository.ContractRepository
	empRepo      *repository.EmployeeRepository
	store        *storage.Store
}

// NewContractService 创建合同文档服务
func NewContractService(contractRepo *repository.ContractRepository, empRepo *repository.EmployeeRepository, store *storage.Store) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		empRepo:      empRepo,
		store:        store,
	}
}

// ContractListResult 合同文档列表结果
type ContractListResult struct {
	Items      []entity.ContractDocument `json:"items"`
	Total      int64                     `json:"total"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"page_size"`
	TotalPages int                       `json:"total_pages"`
}

func validContractType(t string) bool {
	switch t {
	case entity.ContractDocTypePKWT, entity.ContractDocTypeWarningLetter, entity.ContractDocTypeOther:
		return true
	}
	return false
}

// Upload 上传合同文档
func (s *ContractService) Upload(ctx context.Context, userID, nik, docType, title string, reader io.Reader, fileName string, fileSize int64, contentType string) (*entity.ContractDocument, error) {
	if s.store == nil {
		return nil, fmt.Errorf("文件存储未配置")
	}
	if !validContractType(docType) {
		return nil, fmt.Errorf("不支持的文档类型: %s", docType)
	}
	if title == "" {
		return nil, fmt.Errorf("标题不能为空")
	}

	if _, err := s.empRepo.FindByNIK(ctx, nik); err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("员工不存在")
		}
		return nil, err
	}

	objectName := storage.ObjectName("contracts", fileName)
	if err := s.store.Upload(ctx, objectName, reader, fileSize, contentType); err != nil {
		return nil, fmt.Errorf("upload contract: %w", err)
	}

	now := time.Now()
	doc := &entity.ContractDocument{
		ID:          uuid.New().String(),
		EmployeeNIK: nik,
		Type:        docType,
		Title:       title,
		FileName:    fileName,
		FilePath:    objectName,
		FileSize:    fileSize,
		MimeType:    contentType,
		UploadedBy:  userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.contractRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create contract document: %w", err)
	}
	return doc, nil
}

// Get 获取合同文档详情
func (s *ContractService) Get(ctx context.Context, id string) (*entity.ContractDocument, error) {
	return s.contractRepo.FindByID(ctx, id)
}

// List 获取合同文档列表
func (s *ContractService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*ContractListResult, error) {
	docs, total, err := s.contractRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list contract documents: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &ContractListResult{
		Items:      docs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Delete 删除合同文档（同时删除存储文件）
func (s *ContractService) Delete(ctx context.Context, id string) error {
	doc, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.contractRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contract document: %w", err)
	}

	if s.store != nil {
		_ = s.store.Remove(ctx, doc.FilePath)
	}
	return nil
}
