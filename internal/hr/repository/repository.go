package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
	// ErrStateConflict 条件更新未命中任何行，说明状态已被并发修改
	ErrStateConflict = errors.New("state conflict")
)

// Repositories 仓库集合
type Repositories struct {
	User       *UserRepository
	Employee   *EmployeeRepository
	Client     *ClientRepository
	Payslip    *PayslipRepository
	Contract   *ContractRepository
	Request    *RequestRepository
	Submission *SubmissionRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Employee:   NewEmployeeRepository(db),
		Client:     NewClientRepository(db),
		Payslip:    NewPayslipRepository(db),
		Contract:   NewContractRepository(db),
		Request:    NewRequestRepository(db),
		Submission: NewSubmissionRepository(db),
	}
}
