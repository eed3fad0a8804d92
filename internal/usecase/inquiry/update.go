package inquiry

import (
	"context"
	"time"

	"github.com/inmohub/realty-api/internal/audit"
	"github.com/inmohub/realty-api/internal/domain/identity"
	domain "github.com/inmohub/realty-api/internal/domain/inquiry"
	"github.com/inmohub/realty-api/internal/models"
)

type UpdateInquiryInput struct {
	Status *string
}

type UpdateInquiry struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateInquiry(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateInquiry {
	return &UpdateInquiry{
		repo:  repo,
		audit: audit,
	}
}

// Execute applies caller-driven status transitions. Moving into
// contacted goes through the one-way MarkContacted stamp; moving out of
// it never clears contacted_at.
func (uc *UpdateInquiry) Execute(
	ctx context.Context,
	caller identity.Caller,
	id uint,
	in UpdateInquiryInput,
) (*models.Inquiry, error) {

	inq, err := resolveForTriage(ctx, uc.repo, caller, id)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		status, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		if status == domain.StatusContacted {
			domain.MarkContacted(inq, time.Now().UTC())
		}
		inq.Status = string(status)
	}

	if err := uc.repo.Update(ctx, inq); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &caller.ID,
		Action:   "inquiry_updated",
		Entity:   "inquiry",
		EntityID: &inq.ID,
	})

	return inq, nil
}
