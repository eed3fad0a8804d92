package inquiry

import (
	"context"

	"github.com/inmohub/realty-api/internal/domain/identity"
	"github.com/inmohub/realty-api/internal/models"
)

// Stats counts a caller's visible inquiries by status.
type Stats struct {
	Total     int64         `json:"total"`
	New       int64         `json:"new"`
	Contacted int64         `json:"contacted"`
	Closed    int64         `json:"closed"`
	ByStatus  []StatusCount `json:"by_status"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type Repository interface {
	Create(ctx context.Context, inq *models.Inquiry) error

	// GetForCaller resolves an inquiry within the caller's visible set:
	// agents and admins reach inquiries on properties they own (admins all),
	// clients only their own submissions. Anything else is not found.
	GetForCaller(
		ctx context.Context,
		caller identity.Caller,
		id uint,
	) (*models.Inquiry, error)

	Update(ctx context.Context, inq *models.Inquiry) error

	ListForCaller(
		ctx context.Context,
		caller identity.Caller,
		page int,
		pageSize int,
	) ([]models.Inquiry, int64, error)

	StatsForCaller(
		ctx context.Context,
		caller identity.Caller,
	) (*Stats, error)
}
