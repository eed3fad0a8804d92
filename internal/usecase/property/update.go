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
)

// ======================================================
// INPUT
// ======================================================

type UpdatePropertyInput struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal

	Operation    *string
	PropertyType *string
	CategoryID   *uint

	Address     *string
	City        *string
	State       *string
	Country     *string
	GPSLocation *string

	Area          *int
	LandArea      *int
	Rooms         *int
	Bathrooms     *int
	ParkingSpaces *int
	Floors        *int
	YearBuilt     *int

	FeaturedImage *string
	Gallery       *[]string
	TagSlugs      *[]string

	Status          *string
	IsFeatured      *bool
	IsAvailable     *bool
	MetaDescription *string

	// AgentID reassigns ownership; admin only, target must be an agent.
	AgentID *uint
}

// ======================================================
// USE CASE
// ======================================================

type UpdateProperty struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateProperty(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateProperty {
	return &UpdateProperty{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateProperty) Execute(
	ctx context.Context,
	caller identity.Caller,
	slug string,
	in UpdatePropertyInput,
) (*models.Property, error) {

	// Resolution goes through the caller's visible set first, so a
	// listing the caller cannot see fails as not found rather than
	// leaking its existence.
	p, err := uc.repo.GetBySlug(ctx, caller, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("not_found")
		}
		return nil, err
	}

	if !domain.CanMutate(caller, p) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	// Title edits never touch the slug.
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, httperr.ErrBusiness("invalid_price")
		}
		p.Price = *in.Price
	}

	if in.Operation != nil {
		operation, err := domain.ParseOperation(*in.Operation)
		if err != nil {
			return nil, err
		}
		p.Operation = string(operation)
	}
	if in.PropertyType != nil {
		propertyType, err := domain.ParseType(*in.PropertyType)
		if err != nil {
			return nil, err
		}
		p.PropertyType = string(propertyType)
	}
	if in.CategoryID != nil {
		if _, err := uc.repo.GetCategoryByID(ctx, *in.CategoryID); err != nil {
			return nil, httperr.ErrBusiness("category_not_found")
		}
		p.CategoryID = in.CategoryID
	}

	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.City != nil {
		p.City = *in.City
	}
	if in.State != nil {
		p.State = *in.State
	}
	if in.Country != nil {
		p.Country = *in.Country
	}
	if in.GPSLocation != nil {
		p.GPSLocation = *in.GPSLocation
	}

	if in.Area != nil {
		p.Area = *in.Area
	}
	if in.LandArea != nil {
		p.LandArea = in.LandArea
	}
	if in.Rooms != nil {
		p.Rooms = *in.Rooms
	}
	if in.Bathrooms != nil {
		p.Bathrooms = *in.Bathrooms
	}
	if in.ParkingSpaces != nil {
		p.ParkingSpaces = *in.ParkingSpaces
	}
	if in.Floors != nil {
		p.Floors = *in.Floors
	}
	if in.YearBuilt != nil {
		p.YearBuilt = in.YearBuilt
	}

	if in.FeaturedImage != nil {
		p.FeaturedImage = *in.FeaturedImage
	}
	if in.Gallery != nil {
		p.Gallery = *in.Gallery
	}

	if in.Status != nil {
		status, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		// published_at is stamped on the first publish and kept
		// stable afterwards.
		if status == domain.StatusPublished && p.PublishedAt == nil {
			now := time.Now().UTC()
			p.PublishedAt = &now
		}
		p.Status = string(status)
	}

	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	if in.MetaDescription != nil {
		p.MetaDescription = *in.MetaDescription
	}

	if in.AgentID != nil && *in.AgentID != p.AgentID {
		if !caller.IsAdmin() {
			return nil, httperr.ErrBusiness("forbidden")
		}
		agent, err := uc.repo.GetAgent(ctx, *in.AgentID)
		if err != nil {
			return nil, httperr.ErrBusiness("agent_not_found")
		}
		if agent.Role != string(identity.RoleAgent) {
			return nil, httperr.ErrBusiness("invalid_agent")
		}
		p.AgentID = *in.AgentID
		p.Agent = nil
	}

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	if in.TagSlugs != nil {
		if err := uc.repo.ReplaceTags(ctx, p, *in.TagSlugs); err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &caller.ID,
		Action:   "property_updated",
		Entity:   "property",
		EntityID: &p.ID,
	})

	return p, nil
}
