package entity

import (
	"time"
)

// 员工状态常量
const (
	EmployeeStatusActive   = "active"
	EmployeeStatusArchived = "archived"
)

// 合同类型常量
const (
	ContractTypePKWT  = "pkwt"
	ContractTypePKWTT = "pkwtt"
)

// Employee 员工档案
// NIK（员工编号）为自然主键，员工侧接口凭NIK查询
type Employee struct {
	NIK               string     `json:"nik" gorm:"primaryKey;size:32"`
	FullName          string     `json:"full_name" gorm:"size:128;not null"`
	Email             string     `json:"email" gorm:"size:128"`
	Phone             string     `json:"phone" gorm:"size:32"`
	Position          string     `json:"position" gorm:"size:64"`
	Department        string     `json:"department" gorm:"size:64"`
	ClientID          string     `json:"client_id" gorm:"size:32;index"`
	ContractType      string     `json:"contract_type" gorm:"size:16"`
	JoinDate          string     `json:"join_date" gorm:"size:10"`
	EndOfContractDate string     `json:"end_of_contract_date" gorm:"size:10"`
	NPWP              string     `json:"npwp" gorm:"size:32"`
	Status            string     `json:"status" gorm:"size:16;not null;default:active"`
	PhotoURL          string     `json:"photo_url" gorm:"size:512"`
	BankAccount       JSONB      `json:"bank_account" gorm:"type:jsonb"`
	BPJS              JSONB      `json:"bpjs" gorm:"type:jsonb"`
	Address           JSONB      `json:"address" gorm:"type:jsonb"`
	Education         JSONBArray `json:"education" gorm:"type:jsonb"`
	Family            JSONBArray `json:"family" gorm:"type:jsonb"`
	Documents         JSONBArray `json:"documents" gorm:"type:jsonb"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// 关联
	Client *Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}

func (Employee) TableName() string {
	return "employees"
}

// Snapshot 导出员工档案的可编辑字段快照，供差异对比使用
// 键名与字段差异路径保持一致
func (e *Employee) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"full_name":            e.FullName,
		"email":                e.Email,
		"phone":                e.Phone,
		"position":             e.Position,
		"department":           e.Department,
		"client_id":            e.ClientID,
		"contract_type":        e.ContractType,
		"join_date":            e.JoinDate,
		"end_of_contract_date": e.EndOfContractDate,
		"npwp":                 e.NPWP,
		"bank_account":         map[string]interface{}(e.BankAccount),
		"bpjs":                 map[string]interface{}(e.BPJS),
		"address":              map[string]interface{}(e.Address),
		"education":            []interface{}(e.Education),
		"family":               []interface{}(e.Family),
	}
}
