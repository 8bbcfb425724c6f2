package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
)

func subjectWith(id int64, roles ...domain.RoleName) domain.Subject {
	primary := domain.RoleName("")
	if len(roles) > 0 {
		primary = roles[0]
	}
	return domain.Subject{ID: id, PrimaryRole: primary, Roles: roles}
}

func TestAllowsBaseMatrix(t *testing.T) {
	admin := subjectWith(1, domain.RoleAdmin)
	manager := subjectWith(2, domain.RoleManager)
	agent := subjectWith(3, domain.RoleAgent)

	tests := []struct {
		name    string
		subject domain.Subject
		page    Page
		action  Action
		want    bool
	}{
		{"admin full users page", admin, PageUsers, ActionDelete, true},
		{"admin views tickets", admin, PageTickets, ActionView, true},
		{"admin ticket stats", admin, PageTickets, ActionViewStats, true},
		{"admin cannot add tickets", admin, PageTickets, ActionAdd, false},
		{"admin matrix denies ticket edit", admin, PageTickets, ActionEdit, false},

		{"manager no users page", manager, PageUsers, ActionView, false},
		{"manager views managers", manager, PageManagers, ActionView, true},
		{"manager cannot add managers", manager, PageManagers, ActionAdd, false},
		{"manager adds agents", manager, PageAgents, ActionAdd, true},
		{"manager cannot delete agents", manager, PageAgents, ActionDelete, false},
		{"manager manages teams", manager, PageTeams, ActionAdd, true},
		{"manager cannot delete teams", manager, PageTeams, ActionDelete, false},
		{"manager edits tickets", manager, PageTickets, ActionEdit, true},
		{"manager matrix denies ticket delete", manager, PageTickets, ActionDelete, false},

		{"agent no teams page", agent, PageTeams, ActionView, false},
		{"agent no users page", agent, PageUsers, ActionView, false},
		{"agent edits own page", agent, PageAgents, ActionEdit, true},
		{"agent cannot add agents", agent, PageAgents, ActionAdd, false},
		{"agent deletes tickets", agent, PageTickets, ActionDelete, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allows(tt.subject, tt.page, tt.action))
		})
	}
}

func TestAllowsUnionOfRoles(t *testing.T) {
	dual := subjectWith(5, domain.RoleManager, domain.RoleAgent)

	// Manager role contributes the teams page, agent role ticket deletion.
	assert.True(t, Allows(dual, PageTeams, ActionView))
	assert.True(t, Allows(dual, PageTickets, ActionDelete))
	assert.False(t, Allows(dual, PageUsers, ActionView))
}

func TestAllowsDeniesUnknownRole(t *testing.T) {
	ghost := subjectWith(9, domain.RoleName("auditor"))
	assert.False(t, Allows(ghost, PageUsers, ActionView))
	assert.False(t, Allows(subjectWith(10), PageTickets, ActionView))
}

func TestCanViewAll(t *testing.T) {
	assert.True(t, CanViewAll(subjectWith(1, domain.RoleAdmin), PageUsers))
	assert.True(t, CanViewAll(subjectWith(2, domain.RoleManager), PageAgents))
	assert.False(t, CanViewAll(subjectWith(2, domain.RoleManager), PageManagers))
	assert.False(t, CanViewAll(subjectWith(3, domain.RoleAgent), PageAgents))
}

func TestAllowsEditUser(t *testing.T) {
	admin := subjectWith(1, domain.RoleAdmin)
	manager := subjectWith(2, domain.RoleManager)
	agent := subjectWith(3, domain.RoleAgent)

	otherManager := domain.User{ID: 7}
	someAgent := domain.User{ID: 8}
	self := domain.User{ID: 3}

	assert.True(t, AllowsEditUser(admin, otherManager, []domain.RoleName{domain.RoleManager}))
	assert.True(t, AllowsEditUser(manager, someAgent, []domain.RoleName{domain.RoleAgent}))
	assert.True(t, AllowsEditUser(manager, domain.User{ID: 2}, []domain.RoleName{domain.RoleManager}))
	assert.False(t, AllowsEditUser(manager, otherManager, []domain.RoleName{domain.RoleManager}))
	assert.True(t, AllowsEditUser(agent, self, []domain.RoleName{domain.RoleAgent}))
	assert.False(t, AllowsEditUser(agent, someAgent, []domain.RoleName{domain.RoleAgent}))
}

func TestAllowsDeleteTicket(t *testing.T) {
	admin := subjectWith(1, domain.RoleAdmin)
	manager := subjectWith(2, domain.RoleManager)
	agent := subjectWith(3, domain.RoleAgent)

	scope := TeamScope{MemberIDs: map[int64]struct{}{3: {}, 4: {}}}
	teamTicket := domain.Ticket{ID: 100, CreatedBy: 4}
	foreignTicket := domain.Ticket{ID: 101, CreatedBy: 9}
	ownTicket := domain.Ticket{ID: 102, CreatedBy: 3}

	assert.True(t, AllowsDeleteTicket(admin, foreignTicket, TeamScope{}))
	assert.True(t, AllowsDeleteTicket(manager, teamTicket, scope))
	assert.False(t, AllowsDeleteTicket(manager, foreignTicket, scope))
	assert.False(t, AllowsDeleteTicket(manager, teamTicket, TeamScope{}))
	assert.True(t, AllowsDeleteTicket(agent, ownTicket, TeamScope{}))
	assert.False(t, AllowsDeleteTicket(agent, teamTicket, TeamScope{}))
}
