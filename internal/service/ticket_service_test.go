package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/events"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/pkg/util"
)

func newTicketService(s *fakeState) *TicketService {
	return NewTicketService(&fakeStore{s: s}, fakeRepos(s), events.NewInMemoryDispatcher(nil))
}

func agentSubjectFor(user *domain.User) domain.Subject {
	return domain.Subject{ID: user.ID, PrimaryRole: domain.RoleAgent, Roles: []domain.RoleName{domain.RoleAgent}}
}

func managerSubjectFor(user *domain.User) domain.Subject {
	return domain.Subject{ID: user.ID, PrimaryRole: domain.RoleManager, Roles: []domain.RoleName{domain.RoleManager}}
}

func TestCreateTicket(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	craft := state.addCraft("Plumbing", true)
	specialty := state.addSpecialty(craft.ID, "Drainage")
	agent := state.addUser("a", "a@fixtop.local", 3, true)

	svc := newTicketService(state)
	ticket, err := svc.CreateTicket(ctx, agentSubjectFor(agent), TicketInput{
		CustomerName: "Customer",
		Paid:         true,
		Amount:       5000,
		CraftID:      craft.ID,
		SpecialtyIDs: []int64{specialty.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, agent.ID, ticket.CreatedBy)
	assert.True(t, ticket.Active)
}

func TestCreateTicketPaymentInvariant(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	craft := state.addCraft("Plumbing", true)
	agent := state.addUser("a", "a@fixtop.local", 3, true)
	svc := newTicketService(state)

	// Paid requires a positive amount.
	_, err := svc.CreateTicket(ctx, agentSubjectFor(agent), TicketInput{
		CustomerName: "C", Paid: true, Amount: 0, CraftID: craft.ID,
	})
	assert.True(t, util.IsViolation(err, util.ViolationInvalidPayment))

	// Unpaid forbids a non-zero amount.
	_, err = svc.CreateTicket(ctx, agentSubjectFor(agent), TicketInput{
		CustomerName: "C", Paid: false, Amount: 100, CraftID: craft.ID,
	})
	assert.True(t, util.IsViolation(err, util.ViolationInvalidPayment))

	// Unpaid with zero amount is fine.
	_, err = svc.CreateTicket(ctx, agentSubjectFor(agent), TicketInput{
		CustomerName: "C", Paid: false, Amount: 0, CraftID: craft.ID,
	})
	assert.NoError(t, err)
}

func TestCreateTicketTaxonomyInvariant(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	plumbing := state.addCraft("Plumbing", true)
	electrical := state.addCraft("Electrical", true)
	wiring := state.addSpecialty(electrical.ID, "Wiring")
	retired := state.addCraft("Retired", false)
	agent := state.addUser("a", "a@fixtop.local", 3, true)
	svc := newTicketService(state)

	// Unknown craft.
	_, err := svc.CreateTicket(ctx, agentSubjectFor(agent), TicketInput{
		CustomerName: "C", CraftID: 99,
	})
	assert.True(t, util.IsKind(err, util.KindNotFound))

	// Inactive craft.
	_, err = svc.CreateTicket(ctx, agentSubjectFor(agent), TicketInput{
		CustomerName: "C", CraftID: retired.ID,
	})
	assert.True(t, util.IsViolation(err, util.ViolationInvalidSpecialty))

	// Specialty from another craft.
	_, err = svc.CreateTicket(ctx, agentSubjectFor(agent), TicketInput{
		CustomerName: "C", CraftID: plumbing.ID, SpecialtyIDs: []int64{wiring.ID},
	})
	assert.True(t, util.IsViolation(err, util.ViolationInvalidSpecialty))

	// Unknown specialty.
	_, err = svc.CreateTicket(ctx, agentSubjectFor(agent), TicketInput{
		CustomerName: "C", CraftID: plumbing.ID, SpecialtyIDs: []int64{999},
	})
	assert.True(t, util.IsViolation(err, util.ViolationInvalidSpecialty))
}

func TestUpdateTicketCreatorOnly(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	craft := state.addCraft("Plumbing", true)
	owner := state.addUser("owner", "o@fixtop.local", 3, true)
	other := state.addUser("other", "x@fixtop.local", 3, true)
	ticket := state.addTicket(owner.ID, true, 100, craft.ID)

	svc := newTicketService(state)
	input := TicketInput{CustomerName: "Edited", Paid: true, Amount: 200, CraftID: craft.ID}

	_, err := svc.UpdateTicket(ctx, agentSubjectFor(other), ticket.ID, input)
	assert.True(t, util.IsKind(err, util.KindForbidden))

	updated, err := svc.UpdateTicket(ctx, agentSubjectFor(owner), ticket.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.CustomerName)
	assert.Equal(t, int64(200), updated.Amount)
}

func TestUpdateTicketAdminOverride(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	craft := state.addCraft("Plumbing", true)
	owner := state.addUser("owner", "o@fixtop.local", 3, true)
	ticket := state.addTicket(owner.ID, true, 100, craft.ID)

	svc := newTicketService(state)
	_, err := svc.UpdateTicket(ctx, adminSubject(), ticket.ID, TicketInput{
		CustomerName: "Admin edit", Paid: true, Amount: 100, CraftID: craft.ID,
	})
	assert.NoError(t, err)
}

func TestDeleteTicketManagerTeamScope(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	craft := state.addCraft("Plumbing", true)
	manager := state.addUser("m", "m@fixtop.local", 2, true)
	member := state.addUser("a", "a@fixtop.local", 3, true)
	outsider := state.addUser("b", "b@fixtop.local", 3, true)
	team := state.addTeam("North", manager.ID, true)
	state.addMembership(team.ID, member.ID)

	teamTicket := state.addTicket(member.ID, true, 100, craft.ID)
	foreignTicket := state.addTicket(outsider.ID, true, 100, craft.ID)

	svc := newTicketService(state)
	subject := managerSubjectFor(manager)

	err := svc.DeleteTicket(ctx, subject, foreignTicket.ID)
	assert.True(t, util.IsKind(err, util.KindForbidden))

	require.NoError(t, svc.DeleteTicket(ctx, subject, teamTicket.ID))
	assert.NotContains(t, state.tickets, teamTicket.ID)
}

func TestDeleteTicketAgentOwnOnly(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	craft := state.addCraft("Plumbing", true)
	owner := state.addUser("owner", "o@fixtop.local", 3, true)
	other := state.addUser("other", "x@fixtop.local", 3, true)
	ticket := state.addTicket(owner.ID, true, 100, craft.ID)

	svc := newTicketService(state)

	err := svc.DeleteTicket(ctx, agentSubjectFor(other), ticket.ID)
	assert.True(t, util.IsKind(err, util.KindForbidden))

	require.NoError(t, svc.DeleteTicket(ctx, agentSubjectFor(owner), ticket.ID))
}

func TestListTicketsNewestFirst(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	craft := state.addCraft("Plumbing", true)
	agent := state.addUser("a", "a@fixtop.local", 3, true)
	state.addTicket(agent.ID, true, 100, craft.ID)
	second := state.addTicket(agent.ID, false, 0, craft.ID)

	svc := newTicketService(state)
	tickets, err := svc.ListTickets(ctx, agentSubjectFor(agent))
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, second.ID, tickets[0].ID)
}

func TestGetTicketNotFound(t *testing.T) {
	state := newFakeState()
	svc := newTicketService(state)
	_, err := svc.GetTicket(context.Background(), adminSubject(), 42)
	assert.True(t, util.IsKind(err, util.KindNotFound))
}
