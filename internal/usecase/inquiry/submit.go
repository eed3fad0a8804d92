package inquiry

import (
	"context"

	"github.com/google/uuid"

	"github.com/inmohub/realty-api/internal/audit"
	"github.com/inmohub/realty-api/internal/domain/identity"
	domain "github.com/inmohub/realty-api/internal/domain/inquiry"
	"github.com/inmohub/realty-api/internal/httperr"
	"github.com/inmohub/realty-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type SubmitInquiryInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// ======================================================
// USE CASE
// ======================================================

type SubmitInquiry struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSubmitInquiry(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SubmitInquiry {
	return &SubmitInquiry{
		repo:  repo,
		audit: audit,
	}
}

// Execute records an inquiry against a property the caller can see.
// Authenticated callers are linked as the client; anonymous ones must
// leave usable contact details.
func (uc *SubmitInquiry) Execute(
	ctx context.Context,
	caller identity.Caller,
	prop *models.Property,
	in SubmitInquiryInput,
) (*models.Inquiry, error) {

	if in.Message == "" {
		return nil, httperr.ErrBusiness("message_required")
	}

	var clientID *uint
	if !caller.Anonymous() {
		id := caller.ID
		clientID = &id
	} else if in.Name == "" || in.Email == "" {
		return nil, httperr.ErrBusiness("contact_required")
	}

	inq := &models.Inquiry{
		Reference:   uuid.NewString(),
		PropertyID:  prop.ID,
		ClientID:    clientID,
		ClientName:  in.Name,
		ClientEmail: in.Email,
		ClientPhone: in.Phone,
		Message:     in.Message,
		Status:      string(domain.StatusNew),
		IsContacted: false,
	}

	if err := uc.repo.Create(ctx, inq); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  clientID,
		Action:   "inquiry_submitted",
		Entity:   "inquiry",
		EntityID: &inq.ID,
	})

	return inq, nil
}
