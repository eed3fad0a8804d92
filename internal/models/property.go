package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Property struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title       string          `gorm:"size:200;not null" json:"title"`
	Slug        string          `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`

	Operation    string `gorm:"size:10;not null;index" json:"operation"`
	PropertyType string `gorm:"size:20;default:'house'" json:"property_type"`

	CategoryID *uint     `json:"category_id"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`

	Address     string `gorm:"size:300" json:"address"`
	City        string `gorm:"size:100;index" json:"city"`
	State       string `gorm:"size:100" json:"state"`
	Country     string `gorm:"size:100;default:'México'" json:"country"`
	GPSLocation string `gorm:"size:100" json:"gps_location"`

	Area          int  `json:"area"`
	LandArea      *int `json:"land_area"`
	Rooms         int  `gorm:"default:0" json:"rooms"`
	Bathrooms     int  `gorm:"default:0" json:"bathrooms"`
	ParkingSpaces int  `gorm:"default:0" json:"parking_spaces"`
	Floors        int  `gorm:"default:1" json:"floors"`
	YearBuilt     *int `json:"year_built"`

	FeaturedImage string   `gorm:"size:255" json:"featured_image"`
	Gallery       []string `gorm:"serializer:json" json:"gallery"`

	AgentID uint  `gorm:"not null;index" json:"agent_id"`
	Agent   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"agent,omitempty"`

	Tags []Tag `gorm:"many2many:property_tags;" json:"tags,omitempty"`

	Status     string `gorm:"size:20;default:'draft';index" json:"status"`
	ViewsCount int    `gorm:"default:0" json:"views_count"`

	IsFeatured  bool `gorm:"default:false" json:"is_featured"`
	IsAvailable bool `gorm:"default:true" json:"is_available"`

	MetaDescription string     `gorm:"size:160" json:"meta_description"`
	PublishedAt     *time.Time `gorm:"index" json:"published_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
