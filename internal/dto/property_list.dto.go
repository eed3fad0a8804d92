package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/inmohub/realty-api/internal/models"
)

// PropertyListItem is the summary projection used by listing, search
// and curated endpoints; the full record only ships on detail reads.
type PropertyListItem struct {
	ID            uint            `json:"id"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	Price         decimal.Decimal `json:"price"`
	Operation     string          `json:"operation"`
	PropertyType  string          `json:"property_type"`
	City          string          `json:"city"`
	State         string          `json:"state"`
	FeaturedImage string          `json:"featured_image"`
	Rooms         int             `json:"rooms"`
	Bathrooms     int             `json:"bathrooms"`
	Area          int             `json:"area"`
	Status        string          `json:"status"`
	IsFeatured    bool            `json:"is_featured"`
	ViewsCount    int             `json:"views_count"`
	AgentID       uint            `json:"agent_id"`
	PublishedAt   *time.Time      `json:"published_at"`
}

func NewPropertyListItem(p models.Property) PropertyListItem {
	return PropertyListItem{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Price:         p.Price,
		Operation:     p.Operation,
		PropertyType:  p.PropertyType,
		City:          p.City,
		State:         p.State,
		FeaturedImage: p.FeaturedImage,
		Rooms:         p.Rooms,
		Bathrooms:     p.Bathrooms,
		Area:          p.Area,
		Status:        p.Status,
		IsFeatured:    p.IsFeatured,
		ViewsCount:    p.ViewsCount,
		AgentID:       p.AgentID,
		PublishedAt:   p.PublishedAt,
	}
}

func NewPropertyListItems(properties []models.Property) []PropertyListItem {
	items := make([]PropertyListItem, 0, len(properties))
	for _, p := range properties {
		items = append(items, NewPropertyListItem(p))
	}
	return items
}
