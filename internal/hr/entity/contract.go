package entity

import (
	"time"
)

// 合同文档类型常量
const (
	ContractDocTypePKWT          = "pkwt"
	ContractDocTypeWarningLetter = "warning_letter"
	ContractDocTypeOther         = "other"
)

// ContractDocument 合同类文档（PKWT合同、警告信等）
type ContractDocument struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	EmployeeNIK string    `json:"employee_nik" gorm:"size:32;not null;index"`
	Type        string    `json:"type" gorm:"size:32;not null"`
	Title       string    `json:"title" gorm:"size:256;not null"`
	FileName    string    `json:"file_name" gorm:"size:256;not null"`
	FilePath    string    `json:"file_path" gorm:"size:512;not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	MimeType    string    `json:"mime_type" gorm:"size:128"`
	UploadedBy  string    `json:"uploaded_by" gorm:"size:32;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 关联
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeNIK;references:NIK"`
}

func (ContractDocument) TableName() string {
	return "contract_documents"
}
