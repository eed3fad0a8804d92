package property

import (
	"github.com/inmohub/realty-api/internal/domain/identity"
	"github.com/inmohub/realty-api/internal/models"
)

// VisibleTo is the single visibility rule for the property catalog:
//   - admins see everything;
//   - agents see their own listings in any state, plus other agents'
//     published and available listings;
//   - everyone else sees only published and available listings.
//
// The repository's VisibilityScope must stay the SQL mirror of this function.
func VisibleTo(caller identity.Caller, p *models.Property) bool {
	if caller.IsAdmin() {
		return true
	}
	if caller.IsAgent() && p.AgentID == caller.ID {
		return true
	}
	return p.Status == string(StatusPublished) && p.IsAvailable
}

// Owns reports whether the caller is the listing's owning agent.
func Owns(caller identity.Caller, p *models.Property) bool {
	return !caller.Anonymous() && p.AgentID == caller.ID
}

// CanMutate reports whether the caller may update or delete the listing.
// Callers outside the visible set never reach this check.
func CanMutate(caller identity.Caller, p *models.Property) bool {
	return caller.IsAdmin() || (caller.IsAgent() && p.AgentID == caller.ID)
}
