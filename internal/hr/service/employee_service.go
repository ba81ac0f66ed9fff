package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/swaprodev/hallo/internal/hr/entity"
	"github.com/swaprodev/hallo/internal/hr/repository"
)

// EmployeeService 员工服务
type EmployeeService struct {
	empRepo    *repository.EmployeeRepository
	clientRepo *repository.ClientRepository
}

// NewEmployeeService 创建员工服务
func NewEmployeeService(empRepo *repository.EmployeeRepository, clientRepo *repository.ClientRepository) *EmployeeService {
	return &EmployeeService{
		empRepo:    empRepo,
		clientRepo: clientRepo,
	}
}

// CreateEmployeeRequest 创建员工请求
type CreateEmployeeRequest struct {
	NIK               string                 `json:"nik" binding:"required"`
	FullName          string                 `json:"full_name" binding:"required"`
	Email             string                 `json:"email"`
	Phone             string                 `json:"phone"`
	Position          string                 `json:"position"`
	Department        string                 `json:"department"`
	ClientID          string                 `json:"client_id"`
	ContractType      string                 `json:"contract_type"`
	JoinDate          string                 `json:"join_date"`
	EndOfContractDate string                 `json:"end_of_contract_date"`
	NPWP              string                 `json:"npwp"`
	BankAccount       map[string]interface{} `json:"bank_account"`
	BPJS              map[string]interface{} `json:"bpjs"`
	Address           map[string]interface{} `json:"address"`
	Education         []interface{}          `json:"education"`
	Family            []interface{}          `json:"family"`
}

// UpdateEmployeeRequest 更新员工请求
type UpdateEmployeeRequest struct {
	FullName          string                 `json:"full_name"`
	Email             string                 `json:"email"`
	Phone             string                 `json:"phone"`
	Position          string                 `json:"position"`
	Department        string                 `json:"department"`
	ClientID          string                 `json:"client_id"`
	ContractType      string                 `json:"contract_type"`
	JoinDate          string                 `json:"join_date"`
	EndOfContractDate string                 `json:"end_of_contract_date"`
	NPWP              string                 `json:"npwp"`
	PhotoURL          string                 `json:"photo_url"`
	BankAccount       map[string]interface{} `json:"bank_account"`
	BPJS              map[string]interface{} `json:"bpjs"`
	Address           map[string]interface{} `json:"address"`
	Education         []interface{}          `json:"education"`
	Family            []interface{}          `json:"family"`
}

// EmployeeListResult 员工列表结果
type EmployeeListResult struct {
	Items      []entity.Employee `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// Create 创建员工
func (s *EmployeeService) Create(ctx context.Context, req *CreateEmployeeRequest) (*entity.Employee, error) {
	if existing, _ := s.empRepo.FindByNIK(ctx, req.NIK); existing != nil {
		return nil, fmt.Errorf("NIK %s 已存在", req.NIK)
	}

	if req.ClientID != "" {
		if _, err := s.clientRepo.FindByID(ctx, req.ClientID); err != nil {
			return nil, fmt.Errorf("客户公司不存在")
		}
	}

	now := time.Now()
	emp := &entity.Employee{
		NIK:               req.NIK,
		FullName:          req.FullName,
		Email:             req.Email,
		Phone:             req.Phone,
		Position:          req.Position,
		Department:        req.Department,
		ClientID:          req.ClientID,
		ContractType:      req.ContractType,
		JoinDate:          req.JoinDate,
		EndOfContractDate: req.EndOfContractDate,
		NPWP:              req.NPWP,
		Status:            entity.EmployeeStatusActive,
		BankAccount:       req.BankAccount,
		BPJS:              req.BPJS,
		Address:           req.Address,
		Education:         req.Education,
		Family:            req.Family,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.empRepo.Create(ctx, emp); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return emp, nil
}

// Get 获取员工详情
func (s *EmployeeService) Get(ctx context.Context, nik string) (*entity.Employee, error) {
	return s.empRepo.FindByNIK(ctx, nik)
}

// Update 更新员工（后台直接编辑）
func (s *EmployeeService) Update(ctx context.Context, nik string, req *UpdateEmployeeRequest) (*entity.Employee, error) {
	emp, err := s.empRepo.FindByNIK(ctx, nik)
	if err != nil {
		return nil, err
	}

	if req.ClientID != "" && req.ClientID != emp.ClientID {
		if _, err := s.clientRepo.FindByID(ctx, req.ClientID); err != nil {
			return nil, fmt.Errorf("客户公司不存在")
		}
	}

	if req.FullName != "" {
		emp.FullName = req.FullName
	}
	if req.Email != "" {
		emp.Email = req.Email
	}
	if req.Phone != "" {
		emp.Phone = req.Phone
	}
	if req.Position != "" {
		emp.Position = req.Position
	}
	if req.Department != "" {
		emp.Department = req.Department
	}
	if req.ClientID != "" {
		emp.ClientID = req.ClientID
	}
	if req.ContractType != "" {
		emp.ContractType = req.ContractType
	}
	if req.JoinDate != "" {
		emp.JoinDate = req.JoinDate
	}
	if req.EndOfContractDate != "" {
		emp.EndOfContractDate = req.EndOfContractDate
	}
	if req.NPWP != "" {
		emp.NPWP = req.NPWP
	}
	if req.PhotoURL != "" {
		emp.PhotoURL = req.PhotoURL
	}
	if req.BankAccount != nil {
		emp.BankAccount = req.BankAccount
	}
	if req.BPJS != nil {
		emp.BPJS = req.BPJS
	}
	if req.Address != nil {
		emp.Address = req.Address
	}
	if req.Education != nil {
		emp.Education = req.Education
	}
	if req.Family != nil {
		emp.Family = req.Family
	}
	emp.UpdatedAt = time.Now()

	if err := s.empRepo.Update(ctx, emp); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return emp, nil
}

// Archive 归档员工
func (s *EmployeeService) Archive(ctx context.Context, nik string) (*entity.Employee, error) {
	if _, err := s.empRepo.FindByNIK(ctx, nik); err != nil {
		return nil, err
	}
	if err := s.empRepo.Archive(ctx, nik); err != nil {
		if err == repository.ErrStateConflict {
			return nil, fmt.Errorf("员工已归档")
		}
		return nil, fmt.Errorf("archive employee: %w", err)
	}
	return s.empRepo.FindByNIK(ctx, nik)
}

// Delete 删除员工
func (s *EmployeeService) Delete(ctx context.Context, nik string) error {
	if _, err := s.empRepo.FindByNIK(ctx, nik); err != nil {
		return err
	}
	return s.empRepo.Delete(ctx, nik)
}

// List 获取员工列表
func (s *EmployeeService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*EmployeeListResult, error) {
	emps, total, err := s.empRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &EmployeeListResult{
		Items:      emps,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// ImportResult 批量导入结果
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// importColumns 导入模板列定义
var importColumns = []string{"NIK", "姓名", "邮箱", "电话", "岗位", "部门", "客户编码", "合同类型", "入职日期", "合同到期日", "NPWP"}

// ImportExcel 从xlsx批量导入员工
// 第一行为表头，NIK已存在的行跳过并记录
func (s *EmployeeService) ImportExcel(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("解析Excel文件失败: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("文件为空或缺少数据行")
	}

	result := &ImportResult{}
	now := time.Now()

	for i, row := range rows[1:] {
		rowNum := i + 2
		cell := func(idx int) string {
			if idx < len(row) {
				return row[idx]
			}
			return ""
		}

		nik := cell(0)
		name := cell(1)
		if nik == "" || name == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("第%d行：NIK和姓名不能为空", rowNum))
			continue
		}

		if existing, _ := s.empRepo.FindByNIK(ctx, nik); existing != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("第%d行：NIK %s 已存在", rowNum, nik))
			continue
		}

		clientID := ""
		if code := cell(6); code != "" {
			client, err := s.clientRepo.FindByCode(ctx, code)
			if err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("第%d行：客户编码 %s 不存在", rowNum, code))
				continue
			}
			clientID = client.ID
		}

		emp := &entity.Employee{
			NIK:               nik,
			FullName:          name,
			Email:             cell(2),
			Phone:             cell(3),
			Position:          cell(4),
			Department:        cell(5),
			ClientID:          clientID,
			ContractType:      cell(7),
			JoinDate:          cell(8),
			EndOfContractDate: cell(9),
			NPWP:              cell(10),
			Status:            entity.EmployeeStatusActive,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.empRepo.Create(ctx, emp); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("第%d行：%v", rowNum, err))
			continue
		}
		result.Created++
	}

	return result, nil
}

// ExportExcel 导出员工列表为xlsx
func (s *EmployeeService) ExportExcel(ctx context.Context, filters map[string]interface{}) (*excelize.File, string, error) {
	emps, _, err := s.empRepo.List(ctx, 1, 10000, filters)
	if err != nil {
		return nil, "", fmt.Errorf("list employees: %w", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})

	headers := append(importColumns, "状态")
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", h)
		f.SetCellStyle(sheet, col+"1", col+"1", boldStyle)
	}

	for i, emp := range emps {
		row := i + 2
		clientCode := ""
		if emp.Client != nil {
			clientCode = emp.Client.Code
		}
		values := []interface{}{
			emp.NIK, emp.FullName, emp.Email, emp.Phone, emp.Position,
			emp.Department, clientCode, emp.ContractType, emp.JoinDate,
			emp.EndOfContractDate, emp.NPWP, emp.Status,
		}
		for j, v := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v)
		}
	}

	fileName := fmt.Sprintf("employees_%s.xlsx", time.Now().Format("20060102_150405"))
	return f, fileName, nil
}
