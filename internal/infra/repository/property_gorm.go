package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/inmohub/realty-api/internal/domain/identity"
	domain "github.com/inmohub/realty-api/internal/domain/property"
	"github.com/inmohub/realty-api/internal/models"
)

type PropertyGormRepository struct {
	db *gorm.DB
}

func NewPropertyGormRepository(db *gorm.DB) *PropertyGormRepository {
	return &PropertyGormRepository{db: db}
}

// --------------------------------------------------
// Visibility
// --------------------------------------------------

// PropertyVisibilityScope is the SQL mirror of domain.VisibleTo. Every
// catalog read (detail, listing, curated, search) goes through it.
func PropertyVisibilityScope(caller identity.Caller) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		switch {
		case caller.IsAdmin():
			return q
		case caller.IsAgent():
			return q.Where(
				"(status = ? AND is_available = true) OR agent_id = ?",
				string(domain.StatusPublished),
				caller.ID,
			)
		default:
			return q.Where(
				"status = ? AND is_available = true",
				string(domain.StatusPublished),
			)
		}
	}
}

// --------------------------------------------------
// Lookup
// --------------------------------------------------

func (r *PropertyGormRepository) GetBySlug(
	ctx context.Context,
	caller identity.Caller,
	slug string,
) (*models.Property, error) {

	var p models.Property
	if err := r.db.WithContext(ctx).
		Scopes(PropertyVisibilityScope(caller)).
		Preload("Agent").
		Preload("Category").
		Preload("Tags").
		Where("slug = ?", slug).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// --------------------------------------------------
// Mutations
// --------------------------------------------------

func (r *PropertyGormRepository) Create(
	ctx context.Context,
	p *models.Property,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PropertyGormRepository) Update(
	ctx context.Context,
	p *models.Property,
) error {
	return r.db.WithContext(ctx).Omit("Agent", "Category", "Tags").Save(p).Error
}

func (r *PropertyGormRepository) Delete(
	ctx context.Context,
	p *models.Property,
) error {
	return r.db.WithContext(ctx).Delete(p).Error
}

func (r *PropertyGormRepository) ReplaceTags(
	ctx context.Context,
	p *models.Property,
	tagSlugs []string,
) error {

	var tags []models.Tag
	if len(tagSlugs) > 0 {
		if err := r.db.WithContext(ctx).
			Where("slug IN ?", tagSlugs).
			Find(&tags).Error; err != nil {
			return err
		}
	}

	return r.db.WithContext(ctx).Model(p).Association("Tags").Replace(tags)
}

// IncrementViews performs the increment in the store so concurrent
// readers never clobber each other.
func (r *PropertyGormRepository) IncrementViews(
	ctx context.Context,
	id uint,
) (int, error) {

	var count int
	if err := r.db.WithContext(ctx).
		Raw(
			"UPDATE properties SET views_count = views_count + 1 WHERE id = ? RETURNING views_count",
			id,
		).
		Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --------------------------------------------------
// Slug support
// --------------------------------------------------

func (r *PropertyGormRepository) SlugTaken(
	ctx context.Context,
	slug string,
	excludeID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// References
// --------------------------------------------------

func (r *PropertyGormRepository) GetAgent(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = true", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PropertyGormRepository) GetCategoryByID(
	ctx context.Context,
	id uint,
) (*models.Category, error) {

	var cat models.Category
	if err := r.db.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// --------------------------------------------------
// Aggregation
// --------------------------------------------------

// Stats runs exactly two queries regardless of catalog size: one
// aggregate row and one top-cities group-by.
func (r *PropertyGormRepository) Stats(ctx context.Context) (*domain.Stats, error) {

	published := string(domain.StatusPublished)

	var agg struct {
		Total    int64
		ForSale  int64
		ForRent  int64
		AvgPrice decimal.NullDecimal
		MinPrice decimal.NullDecimal
		MaxPrice decimal.NullDecimal
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE operation = 'sale') AS for_sale,
			COUNT(*) FILTER (WHERE operation = 'rent') AS for_rent,
			AVG(price) AS avg_price,
			MIN(price) AS min_price,
			MAX(price) AS max_price`).
		Where("status = ?", published).
		Scan(&agg).Error; err != nil {
		return nil, err
	}

	var cities []domain.CityCount
	if err := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Select("city, COUNT(*) AS count").
		Where("status = ?", published).
		Group("city").
		Order("count DESC").
		Limit(5).
		Scan(&cities).Error; err != nil {
		return nil, err
	}

	if cities == nil {
		cities = []domain.CityCount{}
	}

	return &domain.Stats{
		Total:    agg.Total,
		ForSale:  agg.ForSale,
		ForRent:  agg.ForRent,
		AvgPrice: agg.AvgPrice,
		MinPrice: agg.MinPrice,
		MaxPrice: agg.MaxPrice,
		Cities:   cities,
	}, nil
}

// Compile-time check
var _ domain.Repository = (*PropertyGormRepository)(nil)
