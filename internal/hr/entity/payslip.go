package entity

import (
	"time"
)

// Payslip 工资单文件
// 每个员工每个期间（YYYY-MM）唯一
type Payslip struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	EmployeeNIK string    `json:"employee_nik" gorm:"size:32;not null;uniqueIndex:idx_payslip_nik_period"`
	Period      string    `json:"period" gorm:"size:7;not null;uniqueIndex:idx_payslip_nik_period"`
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

func (Payslip) TableName() string {
	return "payslips"
}
