package property

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/inmohub/realty-api/internal/domain/identity"
	"github.com/inmohub/realty-api/internal/models"
)

// Stats is the aggregate block over published listings, computed in a
// bounded number of queries regardless of catalog size.
type Stats struct {
	Total    int64               `json:"total"`
	ForSale  int64               `json:"for_sale"`
	ForRent  int64               `json:"for_rent"`
	AvgPrice decimal.NullDecimal `json:"avg_price"`
	MinPrice decimal.NullDecimal `json:"min_price"`
	MaxPrice decimal.NullDecimal `json:"max_price"`
	Cities   []CityCount         `json:"cities"`
}

type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

type Repository interface {
	// -------- Lookup (visibility-scoped) --------
	GetBySlug(
		ctx context.Context,
		caller identity.Caller,
		slug string,
	) (*models.Property, error)

	// -------- Mutations --------
	Create(ctx context.Context, p *models.Property) error
	Update(ctx context.Context, p *models.Property) error
	Delete(ctx context.Context, p *models.Property) error

	// ReplaceTags rewrites the listing's tag set from tag slugs.
	ReplaceTags(ctx context.Context, p *models.Property, tagSlugs []string) error

	// IncrementViews bumps views_count atomically in the store and
	// returns the post-increment value.
	IncrementViews(ctx context.Context, id uint) (int, error)

	// -------- Slug support --------
	SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error)

	// -------- References --------
	GetAgent(ctx context.Context, id uint) (*models.User, error)
	GetCategoryByID(ctx context.Context, id uint) (*models.Category, error)

	// -------- Aggregation --------
	Stats(ctx context.Context) (*Stats, error)
}
