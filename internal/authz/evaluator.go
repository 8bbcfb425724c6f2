package authz

import "github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"

// Allows is the page-level decision: the union of the subject's active
// roles must grant the action. No matching rule means deny.
func Allows(subject domain.Subject, page Page, action Action) bool {
	for _, role := range subject.Roles {
		if RolePermits(role, page, action) {
			return true
		}
	}
	return false
}

// CanViewAll gates whether the subject sees the full list on a page or
// only their own row.
func CanViewAll(subject domain.Subject, page Page) bool {
	return Allows(subject, page, ActionViewAll)
}

// AllowsEditUser is the row-level refinement for editing a user record:
// admins edit anyone, managers edit themselves and agent-roled users,
// agents edit only themselves.
func AllowsEditUser(subject domain.Subject, target domain.User, targetRoles []domain.RoleName) bool {
	if subject.IsAdmin() {
		return true
	}
	if subject.ID == target.ID {
		return true
	}
	if subject.HasRole(domain.RoleManager) {
		for _, role := range targetRoles {
			if role == domain.RoleAgent {
				return true
			}
		}
	}
	return false
}

// TeamScope carries the resolved membership of the subject's currently
// managed team, for manager-scoped ticket decisions. Empty for subjects
// that manage no team.
type TeamScope struct {
	MemberIDs map[int64]struct{}
}

// Covers reports whether the user id belongs to the scoped team.
func (s TeamScope) Covers(userID int64) bool {
	_, ok := s.MemberIDs[userID]
	return ok
}

// AllowsDeleteTicket is the row-level refinement for ticket deletion:
// admins always, managers for tickets created by members of their managed
// team, agents for their own tickets.
func AllowsDeleteTicket(subject domain.Subject, ticket domain.Ticket, scope TeamScope) bool {
	if subject.IsAdmin() {
		return true
	}
	if subject.HasRole(domain.RoleManager) && scope.Covers(ticket.CreatedBy) {
		return true
	}
	if subject.HasRole(domain.RoleAgent) && ticket.CreatedBy == subject.ID {
		return true
	}
	return false
}
