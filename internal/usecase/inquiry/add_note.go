package inquiry

import (
	"context"

	"github.com/inmohub/realty-api/internal/audit"
	"github.com/inmohub/realty-api/internal/domain/identity"
	domain "github.com/inmohub/realty-api/internal/domain/inquiry"
	"github.com/inmohub/realty-api/internal/httperr"
	"github.com/inmohub/realty-api/internal/models"
)

type AddNote struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAddNote(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *AddNote {
	return &AddNote{
		repo:  repo,
		audit: audit,
	}
}

func (uc *AddNote) Execute(
	ctx context.Context,
	caller identity.Caller,
	id uint,
	note string,
) (*models.Inquiry, error) {

	if note == "" {
		return nil, httperr.ErrBusiness("note_required")
	}

	inq, err := resolveForTriage(ctx, uc.repo, caller, id)
	if err != nil {
		return nil, err
	}

	domain.AppendNote(inq, note)

	if err := uc.repo.Update(ctx, inq); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &caller.ID,
		Action:   "inquiry_note_added",
		Entity:   "inquiry",
		EntityID: &inq.ID,
	})

	return inq, nil
}
