package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Username     string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;default:'client'" json:"role"`

	Bio     string `gorm:"type:text" json:"bio"`
	Avatar  string `gorm:"size:255" json:"avatar"`
	Website string `gorm:"size:255" json:"website"`
	Phone   string `gorm:"size:20" json:"phone"`
	Company string `gorm:"size:100" json:"company"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
