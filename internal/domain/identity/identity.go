package identity

import "github.com/inmohub/realty-api/internal/httperr"

// ===============================
// Roles
// ===============================

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAgent  Role = "agent"
	RoleClient Role = "client"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleAgent, RoleClient:
		return Role(s), nil
	}
	return "", httperr.ErrBusiness("invalid_role")
}

// ParseRegisterRole accepts the roles a user may pick at registration.
// Admin accounts are provisioned out of band, never self-assigned.
func ParseRegisterRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAgent, RoleClient:
		return Role(s), nil
	case "":
		return RoleClient, nil
	}
	return "", httperr.ErrBusiness("invalid_role")
}

// ===============================
// Caller
// ===============================

// Caller is the authenticated identity attached to a request.
// The zero value is an anonymous caller.
type Caller struct {
	ID       uint
	Username string
	Role     Role
}

func (c Caller) Anonymous() bool {
	return c.ID == 0
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func (c Caller) IsAgent() bool {
	return c.Role == RoleAgent
}

// CanManageListings reports whether the caller may create properties.
func (c Caller) CanManageListings() bool {
	return c.Role == RoleAdmin || c.Role == RoleAgent
}
