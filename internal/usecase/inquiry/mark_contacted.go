package inquiry

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/inmohub/realty-api/internal/audit"
	"github.com/inmohub/realty-api/internal/domain/identity"
	domain "github.com/inmohub/realty-api/internal/domain/inquiry"
	"github.com/inmohub/realty-api/internal/httperr"
	"github.com/inmohub/realty-api/internal/models"
)

type MarkContacted struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMarkContacted(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *MarkContacted {
	return &MarkContacted{
		repo:  repo,
		audit: audit,
	}
}

func (uc *MarkContacted) Execute(
	ctx context.Context,
	caller identity.Caller,
	id uint,
) (*models.Inquiry, error) {

	inq, err := resolveForTriage(ctx, uc.repo, caller, id)
	if err != nil {
		return nil, err
	}

	domain.MarkContacted(inq, time.Now().UTC())

	if err := uc.repo.Update(ctx, inq); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &caller.ID,
		Action:   "inquiry_contacted",
		Entity:   "inquiry",
		EntityID: &inq.ID,
	})

	return inq, nil
}

// resolveForTriage loads an inquiry within the caller's visible set and
// verifies triage rights: the property's owning agent or an admin. A
// client reaching their own inquiry gets forbidden, not not-found.
func resolveForTriage(
	ctx context.Context,
	repo domain.Repository,
	caller identity.Caller,
	id uint,
) (*models.Inquiry, error) {

	inq, err := repo.GetForCaller(ctx, caller, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("not_found")
		}
		return nil, err
	}

	if caller.IsAdmin() {
		return inq, nil
	}
	if caller.IsAgent() && inq.Property != nil && inq.Property.AgentID == caller.ID {
		return inq, nil
	}
	return nil, httperr.ErrBusiness("forbidden")
}
