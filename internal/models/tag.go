package models

import "time"

type Tag struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name string `gorm:"size:50;not null" json:"name"`
	Slug string `gorm:"size:50;uniqueIndex;not null" json:"slug"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
