package property

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/inmohub/realty-api/internal/audit"
	"github.com/inmohub/realty-api/internal/domain/identity"
	domain "github.com/inmohub/realty-api/internal/domain/property"
	"github.com/inmohub/realty-api/internal/httperr"
)

type DeleteProperty struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteProperty(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteProperty {
	return &DeleteProperty{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeleteProperty) Execute(
	ctx context.Context,
	caller identity.Caller,
	slug string,
) error {

	p, err := uc.repo.GetBySlug(ctx, caller, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness("not_found")
		}
		return err
	}

	if !domain.CanMutate(caller, p) {
		return httperr.ErrBusiness("forbidden")
	}

	if err := uc.repo.Delete(ctx, p); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &caller.ID,
		Action:   "property_deleted",
		Entity:   "property",
		EntityID: &p.ID,
	})

	return nil
}
