package inquiry

import "github.com/inmohub/realty-api/internal/httperr"

// ===============================
// Inquiry Status
// ===============================

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusClosed    Status = "closed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew, StatusContacted, StatusQualified, StatusClosed:
		return Status(s), nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}
