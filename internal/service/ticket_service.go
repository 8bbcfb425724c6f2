package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/authz"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/events"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/repository"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/pkg/util"
)

// TicketService owns the ticket lifecycle. Reads pass through the
// authority filter; writes re-validate the taxonomy and payment
// invariants in the transaction.
type TicketService struct {
	store      repository.TxRunner
	repos      repository.Repositories
	dispatcher events.Dispatcher
}

// NewTicketService builds the service.
func NewTicketService(store repository.TxRunner, repos repository.Repositories, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{store: store, repos: repos, dispatcher: dispatcher}
}

// TicketInput carries the mutable ticket fields.
type TicketInput struct {
	CustomerName  string
	CustomerPhone string
	ProblemDesc   string
	Paid          bool
	Amount        int64
	CraftID       int64
	SpecialtyIDs  []int64
}

// CreateTicket opens a ticket authored by the actor.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Subject, input TicketInput) (*domain.Ticket, error) {
	if input.CustomerName == "" {
		return nil, util.NewValidationError("customer name required", nil)
	}

	ticket := &domain.Ticket{
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		ProblemDesc:   input.ProblemDesc,
		Paid:          input.Paid,
		Amount:        input.Amount,
		CraftID:       input.CraftID,
		SpecialtyIDs:  input.SpecialtyIDs,
		CreatedBy:     actor.ID,
		Active:        true,
	}

	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if err := validateTicket(ctx, r, ticket); err != nil {
			return err
		}
		return r.Tickets.Create(ctx, ticket)
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventTicketCreated, actor.ID, ticket.ID, nil))
	return ticket, nil
}

// UpdateTicket applies the input after the row-level edit refinement:
// tickets are editable by their creator, and by admins.
func (s *TicketService) UpdateTicket(ctx context.Context, actor domain.Subject, ticketID int64, input TicketInput) (*domain.Ticket, error) {
	var updated *domain.Ticket
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		ticket, err := r.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return util.NewNotFound("ticket", nil)
			}
			return err
		}
		scope, err := managedTeamScope(ctx, r, actor)
		if err != nil {
			return err
		}
		if !authz.AllowsTicket(actor, *ticket, authz.TicketEdit, scope) {
			return util.NewForbidden("cannot edit this ticket")
		}

		ticket.CustomerName = input.CustomerName
		ticket.CustomerPhone = input.CustomerPhone
		ticket.ProblemDesc = input.ProblemDesc
		ticket.Paid = input.Paid
		ticket.Amount = input.Amount
		ticket.CraftID = input.CraftID
		ticket.SpecialtyIDs = input.SpecialtyIDs
		ticket.UpdatedBy = actorRef(actor)
		if err := validateTicket(ctx, r, ticket); err != nil {
			return err
		}
		if err := r.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		updated = ticket
		return nil
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventTicketUpdated, actor.ID, ticketID, nil))
	return updated, nil
}

// DeleteTicket hard-deletes a ticket the subject has delete authority
// over: admins any, managers their team's tickets, agents their own.
func (s *TicketService) DeleteTicket(ctx context.Context, actor domain.Subject, ticketID int64) error {
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		ticket, err := r.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return util.NewNotFound("ticket", nil)
			}
			return err
		}
		scope, err := managedTeamScope(ctx, r, actor)
		if err != nil {
			return err
		}
		if !authz.AllowsDeleteTicket(actor, *ticket, scope) {
			return util.NewForbidden("cannot delete this ticket")
		}
		return r.Tickets.HardDelete(ctx, ticketID)
	})
	if err != nil {
		return util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventTicketDeleted, actor.ID, ticketID, nil))
	return nil
}

// GetTicket returns one ticket if the subject may view it.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Subject, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.repos.Tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, util.NewNotFound("ticket", nil)
		}
		return nil, util.MapError(err)
	}
	scope, err := managedTeamScope(ctx, s.repos, actor)
	if err != nil {
		return nil, err
	}
	if !authz.AllowsTicket(actor, *ticket, authz.TicketView, scope) {
		return nil, util.NewForbidden("cannot view this ticket")
	}
	return ticket, nil
}

// ListTickets returns the active tickets the subject may view.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Subject) ([]domain.Ticket, error) {
	tickets, err := s.repos.Tickets.ListActive(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	scope, err := managedTeamScope(ctx, s.repos, actor)
	if err != nil {
		return nil, err
	}
	return authz.FilterTickets(actor, tickets, authz.TicketView, scope), nil
}

// validateTicket enforces the taxonomy and payment invariants: every
// specialty belongs to the ticket's craft, and amount is positive exactly
// when the ticket is paid.
func validateTicket(ctx context.Context, r repository.Repositories, ticket *domain.Ticket) error {
	if ticket.Paid && ticket.Amount <= 0 {
		return util.NewViolation(util.ViolationInvalidPayment, "paid ticket requires a positive amount")
	}
	if !ticket.Paid && ticket.Amount != 0 {
		return util.NewViolation(util.ViolationInvalidPayment, "unpaid ticket must have zero amount")
	}
	if ticket.Amount < 0 {
		return util.NewViolation(util.ViolationInvalidPayment, "amount cannot be negative")
	}

	craft, err := r.Taxonomy.GetCraft(ctx, ticket.CraftID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return util.NewNotFound("craft", nil)
		}
		return err
	}
	if !craft.Active {
		return util.NewViolation(util.ViolationInvalidSpecialty, "craft inactive")
	}

	if len(ticket.SpecialtyIDs) == 0 {
		return nil
	}
	specialties, err := r.Taxonomy.SpecialtiesByIDs(ctx, ticket.SpecialtyIDs)
	if err != nil {
		return err
	}
	byID := make(map[int64]domain.Specialty, len(specialties))
	for _, specialty := range specialties {
		byID[specialty.ID] = specialty
	}
	for _, id := range ticket.SpecialtyIDs {
		specialty, ok := byID[id]
		if !ok {
			return util.NewViolation(util.ViolationInvalidSpecialty, "unknown specialty")
		}
		if specialty.CraftID != ticket.CraftID {
			return util.NewViolation(util.ViolationInvalidSpecialty, "specialty belongs to another craft")
		}
	}
	return nil
}
