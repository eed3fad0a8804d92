package models

import "time"

type Inquiry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Reference string `gorm:"size:36;uniqueIndex;not null" json:"reference"`

	PropertyID uint      `gorm:"not null;index" json:"property_id"`
	Property   *Property `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"property,omitempty"`

	ClientID *uint `json:"client_id"`
	Client   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`

	ClientName  string `gorm:"size:100" json:"client_name"`
	ClientEmail string `gorm:"size:100" json:"client_email"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`

	Message string `gorm:"type:text;not null" json:"message"`

	Status string `gorm:"size:20;default:'new';index" json:"status"`
	Notes  string `gorm:"type:text" json:"notes,omitempty"`

	IsContacted bool       `gorm:"default:false" json:"is_contacted"`
	ContactedAt *time.Time `json:"contacted_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
