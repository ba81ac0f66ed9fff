package entity

import (
	"time"
)

// Client 客户公司（员工外派目的地）
type Client struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	Code       string    `json:"code" gorm:"size:32;not null;uniqueIndex"`
	Name       string    `json:"name" gorm:"size:128;not null"`
	Industry   string    `json:"industry" gorm:"size:64"`
	Address    string    `json:"address" gorm:"type:text"`
	PICName    string    `json:"pic_name" gorm:"size:64"`
	PICPhone   string    `json:"pic_phone" gorm:"size:32"`
	PICEmail   string    `json:"pic_email" gorm:"size:128"`
	Status     string    `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}
