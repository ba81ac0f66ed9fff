package entity

import (
	"time"
)

// 文档请求状态常量
// expired 不落库，读取时由 DisplayStatus 推导
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
	RequestStatusExpired  = "expired"
)

// 可申请的文档类型
const (
	RequestDocTypePayslip       = "payslip"
	RequestDocTypeContract      = "contract"
	RequestDocTypeWarningLetter = "warning_letter"
)

// DocumentRequest 员工发起的文档访问请求
// 审批通过后授予限时访问，access_expires_at 仅在通过时写入，
// rejection_reason 仅在拒绝时写入
type DocumentRequest struct {
	ID              string     `json:"id" gorm:"primaryKey;size:36"`
	EmployeeNIK     string     `json:"employee_nik" gorm:"size:32;not null;index"`
	DocumentType    string     `json:"document_type" gorm:"size:32;not null"`
	DocumentID      string     `json:"document_id" gorm:"size:36;not null"`
	DocumentName    string     `json:"document_name" gorm:"size:256;not null"`
	Status          string     `json:"status" gorm:"size:20;not null;default:pending"`
	RequestedAt     time.Time  `json:"requested_at" gorm:"not null"`
	RespondedAt     *time.Time `json:"responded_at"`
	RejectionReason string     `json:"rejection_reason" gorm:"type:text"`
	AccessExpiresAt *time.Time `json:"access_expires_at"`
	PICID           string     `json:"pic_id" gorm:"size:32"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// 关联
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeNIK;references:NIK"`
	PIC      *User     `json:"pic,omitempty" gorm:"foreignKey:PICID"`
}

func (DocumentRequest) TableName() string {
	return "document_requests"
}

// DisplayStatus 返回对外展示的有效状态
// 已通过且访问窗口已过的请求展示为 expired，存储状态保持 approved
func (r *DocumentRequest) DisplayStatus(now time.Time) string {
	if r.Status == RequestStatusApproved && r.AccessExpiresAt != nil && r.AccessExpiresAt.Before(now) {
		return RequestStatusExpired
	}
	return r.Status
}

// AccessGranted 判断当前时刻是否允许下载
func (r *DocumentRequest) AccessGranted(now time.Time) bool {
	return r.Status == RequestStatusApproved && r.AccessExpiresAt != nil && now.Before(*r.AccessExpiresAt)
}
