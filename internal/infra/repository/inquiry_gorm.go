package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/inmohub/realty-api/internal/domain/identity"
	domain "github.com/inmohub/realty-api/internal/domain/inquiry"
	"github.com/inmohub/realty-api/internal/models"
)

type InquiryGormRepository struct {
	db *gorm.DB
}

func NewInquiryGormRepository(db *gorm.DB) *InquiryGormRepository {
	return &InquiryGormRepository{db: db}
}

// scoped narrows inquiries to the caller's visible set: admins see all,
// agents see inquiries on their own listings, clients their own
// submissions.
func (r *InquiryGormRepository) scoped(ctx context.Context, caller identity.Caller) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Inquiry{})
	switch {
	case caller.IsAdmin():
		return q
	case caller.IsAgent():
		return q.
			Joins("JOIN properties ON properties.id = inquiries.property_id").
			Where("properties.agent_id = ?", caller.ID)
	default:
		return q.Where("inquiries.client_id = ?", caller.ID)
	}
}

func (r *InquiryGormRepository) Create(
	ctx context.Context,
	inq *models.Inquiry,
) error {
	return r.db.WithContext(ctx).Create(inq).Error
}

func (r *InquiryGormRepository) GetForCaller(
	ctx context.Context,
	caller identity.Caller,
	id uint,
) (*models.Inquiry, error) {

	var inq models.Inquiry
	if err := r.scoped(ctx, caller).
		Preload("Property").
		Preload("Client").
		Where("inquiries.id = ?", id).
		First(&inq).Error; err != nil {
		return nil, err
	}
	return &inq, nil
}

func (r *InquiryGormRepository) Update(
	ctx context.Context,
	inq *models.Inquiry,
) error {
	return r.db.WithContext(ctx).Omit("Property", "Client").Save(inq).Error
}

func (r *InquiryGormRepository) ListForCaller(
	ctx context.Context,
	caller identity.Caller,
	page int,
	pageSize int,
) ([]models.Inquiry, int64, error) {

	var total int64
	if err := r.scoped(ctx, caller).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var inquiries []models.Inquiry
	if err := r.scoped(ctx, caller).
		Preload("Property").
		Order("inquiries.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&inquiries).Error; err != nil {
		return nil, 0, err
	}

	return inquiries, total, nil
}

// StatsForCaller counts by status in a single group-by plus the total.
func (r *InquiryGormRepository) StatsForCaller(
	ctx context.Context,
	caller identity.Caller,
) (*domain.Stats, error) {

	var counts []domain.StatusCount
	if err := r.scoped(ctx, caller).
		Select("inquiries.status AS status, COUNT(*) AS count").
		Group("inquiries.status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	stats := &domain.Stats{ByStatus: counts}
	if stats.ByStatus == nil {
		stats.ByStatus = []domain.StatusCount{}
	}

	for _, sc := range counts {
		stats.Total += sc.Count
		switch domain.Status(sc.Status) {
		case domain.StatusNew:
			stats.New = sc.Count
		case domain.StatusContacted:
			stats.Contacted = sc.Count
		case domain.StatusClosed:
			stats.Closed = sc.Count
		}
	}

	return stats, nil
}

// Compile-time check
var _ domain.Repository = (*InquiryGormRepository)(nil)
