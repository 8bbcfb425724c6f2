package authz

import "github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"

// TicketAccess enumerates the row-level actions on tickets.
type TicketAccess string

const (
	TicketView   TicketAccess = "view"
	TicketEdit   TicketAccess = "edit"
	TicketDelete TicketAccess = "delete"
)

// AllowsTicket decides one ticket for one subject.
//
// View follows can_view_all on the ticket page; without it a subject sees
// only tickets they created. Edit belongs to the creator, or any ticket for
// admins. Delete mirrors AllowsDeleteTicket.
func AllowsTicket(subject domain.Subject, ticket domain.Ticket, access TicketAccess, scope TeamScope) bool {
	switch access {
	case TicketView:
		if CanViewAll(subject, PageTickets) {
			return true
		}
		return ticket.CreatedBy == subject.ID
	case TicketEdit:
		if subject.IsAdmin() {
			return true
		}
		if !Allows(subject, PageTickets, ActionEdit) {
			return false
		}
		return ticket.CreatedBy == subject.ID
	case TicketDelete:
		return AllowsDeleteTicket(subject, ticket, scope)
	}
	return false
}

// FilterTickets produces the subset of tickets the subject may reach with
// the given access. Order of the input set is preserved.
func FilterTickets(subject domain.Subject, tickets []domain.Ticket, access TicketAccess, scope TeamScope) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if AllowsTicket(subject, ticket, access, scope) {
			out = append(out, ticket)
		}
	}
	return out
}
