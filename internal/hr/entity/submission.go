package entity

import (
	"time"
)

// 资料提交状态常量
const (
	SubmissionStatusPending  = "pending_review"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"
)

// EmployeeDataSubmission 员工提交的资料变更
// proposed 为员工提交的完整档案快照，审核时与当前档案逐字段对比，
// 审核通过只合并被采纳的字段；历史提交保留不删
type EmployeeDataSubmission struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	EmployeeNIK string     `json:"employee_nik" gorm:"size:32;not null;index"`
	Proposed    JSONB      `json:"proposed" gorm:"type:jsonb;not null"`
	Status      string     `json:"status" gorm:"size:20;not null;default:pending_review"`
	ReviewNotes string     `json:"review_notes" gorm:"type:text"`
	ReviewedBy  string     `json:"reviewed_by" gorm:"size:32"`
	SubmittedAt time.Time  `json:"submitted_at" gorm:"not null"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// 关联
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeNIK;references:NIK"`
	Reviewer *User     `json:"reviewer,omitempty" gorm:"foreignKey:ReviewedBy"`
}

func (EmployeeDataSubmission) TableName() string {
	return "employee_data_submissions"
}
