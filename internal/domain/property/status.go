package property

import "github.com/inmohub/realty-api/internal/httperr"

// ===============================
// Property Status
// ===============================

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusSold      Status = "sold"
	StatusRented    Status = "rented"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusPublished, StatusSold, StatusRented:
		return Status(s), nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// ParseInitialStatus validates the status a listing may be created in.
func ParseInitialStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusPublished:
		return Status(s), nil
	case "":
		return StatusDraft, nil
	}
	return "", httperr.ErrBusiness("invalid_initial_status")
}

// ===============================
// Operation
// ===============================

type Operation string

const (
	OperationSale Operation = "sale"
	OperationRent Operation = "rent"
)

func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OperationSale, OperationRent:
		return Operation(s), nil
	}
	return "", httperr.ErrBusiness("invalid_operation")
}

// ===============================
// Property Type
// ===============================

type Type string

const (
	TypeHouse      Type = "house"
	TypeApartment  Type = "apartment"
	TypeOffice     Type = "office"
	TypeCommercial Type = "commercial"
	TypeLand       Type = "land"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeHouse, TypeApartment, TypeOffice, TypeCommercial, TypeLand:
		return Type(s), nil
	case "":
		return TypeHouse, nil
	}
	return "", httperr.ErrBusiness("invalid_property_type")
}
