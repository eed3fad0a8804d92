package property

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/inmohub/realty-api/internal/audit"
	"github.com/inmohub/realty-api/internal/domain/identity"
	domain "github.com/inmohub/realty-api/internal/domain/property"
	"github.com/inmohub/realty-api/internal/httperr"
	"github.com/inmohub/realty-api/internal/models"
	"github.com/inmohub/realty-api/internal/slugs"
)

// ======================================================
// INPUT
// ======================================================

type CreatePropertyInput struct {
	Title       string
	Slug        string
	Description string
	Price       decimal.Decimal

	Operation    string
	PropertyType string
	CategoryID   *uint

	Address     string
	City        string
	State       string
	Country     string
	GPSLocation string

	Area          int
	LandArea      *int
	Rooms         int
	Bathrooms     int
	ParkingSpaces int
	Floors        int
	YearBuilt     *int

	FeaturedImage string
	Gallery       []string
	TagSlugs      []string

	Status          string
	IsFeatured      bool
	IsAvailable     bool
	MetaDescription string
}

// ======================================================
// USE CASE
// ======================================================

type CreateProperty struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateProperty(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateProperty {
	return &CreateProperty{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateProperty) Execute(
	ctx context.Context,
	caller identity.Caller,
	in CreatePropertyInput,
) (*models.Property, error) {

	if !caller.CanManageListings() {
		return nil, httperr.ErrBusiness("forbidden")
	}

	operation, err := domain.ParseOperation(in.Operation)
	if err != nil {
		return nil, err
	}

	propertyType, err := domain.ParseType(in.PropertyType)
	if err != nil {
		return nil, err
	}

	status, err := domain.ParseInitialStatus(in.Status)
	if err != nil {
		return nil, err
	}

	if !in.Price.IsPositive() {
		return nil, httperr.ErrBusiness("invalid_price")
	}

	if in.CategoryID != nil {
		if _, err := uc.repo.GetCategoryByID(ctx, *in.CategoryID); err != nil {
			return nil, httperr.ErrBusiness("category_not_found")
		}
	}

	// Slug is derived from the title when the payload carries none.
	// Once assigned it is never recomputed, so permalinks stay valid.
	base := in.Slug
	if base == "" {
		base = in.Title
	}
	base = slugs.Make(base)
	if base == "" {
		return nil, httperr.ErrBusiness("invalid_title")
	}

	unique, err := slugs.Unique(base, func(candidate string) (bool, error) {
		return uc.repo.SlugTaken(ctx, candidate, 0)
	})
	if err != nil {
		return nil, err
	}

	country := in.Country
	if country == "" {
		country = "México"
	}
	floors := in.Floors
	if floors <= 0 {
		floors = 1
	}

	p := &models.Property{
		Title:       in.Title,
		Slug:        unique,
		Description: in.Description,
		Price:       in.Price,

		Operation:    string(operation),
		PropertyType: string(propertyType),
		CategoryID:   in.CategoryID,

		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		Country:     country,
		GPSLocation: in.GPSLocation,

		Area:          in.Area,
		LandArea:      in.LandArea,
		Rooms:         in.Rooms,
		Bathrooms:     in.Bathrooms,
		ParkingSpaces: in.ParkingSpaces,
		Floors:        floors,
		YearBuilt:     in.YearBuilt,

		FeaturedImage: in.FeaturedImage,
		Gallery:       in.Gallery,

		// Ownership is always the authenticated caller; a payload
		// agent field is ignored.
		AgentID: caller.ID,

		Status:          string(status),
		IsFeatured:      in.IsFeatured,
		IsAvailable:     in.IsAvailable,
		MetaDescription: in.MetaDescription,
	}

	if status == domain.StatusPublished {
		now := time.Now().UTC()
		p.PublishedAt = &now
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		// Slug race: two writers normalized to the same slug between
		// the uniqueness probe and the insert. The caller retries.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, httperr.ErrBusiness("slug_conflict")
		}
		return nil, err
	}

	if len(in.TagSlugs) > 0 {
		if err := uc.repo.ReplaceTags(ctx, p, in.TagSlugs); err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &caller.ID,
		Action:   "property_created",
		Entity:   "property",
		EntityID: &p.ID,
	})

	return p, nil
}
