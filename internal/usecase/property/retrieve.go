package property

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/inmohub/realty-api/internal/domain/identity"
	domain "github.com/inmohub/realty-api/internal/domain/property"
	"github.com/inmohub/realty-api/internal/httperr"
	"github.com/inmohub/realty-api/internal/models"
)

type RetrieveProperty struct {
	repo domain.Repository
}

func NewRetrieveProperty(repo domain.Repository) *RetrieveProperty {
	return &RetrieveProperty{repo: repo}
}

// Execute fetches a listing within the caller's visible set and counts
// the view. The owning agent browsing their own listing does not move
// the counter; everyone else does, and the response carries the value
// this request produced.
func (uc *RetrieveProperty) Execute(
	ctx context.Context,
	caller identity.Caller,
	slug string,
) (*models.Property, error) {

	p, err := uc.repo.GetBySlug(ctx, caller, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("not_found")
		}
		return nil, err
	}

	if !domain.Owns(caller, p) {
		count, err := uc.repo.IncrementViews(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.ViewsCount = count
	}

	return p, nil
}
