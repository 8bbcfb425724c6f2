package authz

import "github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"

// Page identifies an administration area gated by the permission matrix.
type Page string

const (
	PageUsers    Page = "user_page"
	PageManagers Page = "manager_page"
	PageAgents   Page = "agent_page"
	PageTeams    Page = "teams_page"
	PageTickets  Page = "ticket_page"
)

// Action identifies an operation on a page.
type Action string

const (
	ActionView      Action = "can_view"
	ActionAdd       Action = "can_add"
	ActionEdit      Action = "can_edit"
	ActionDelete    Action = "can_delete"
	ActionViewStats Action = "can_view_stats"
	ActionViewAll   Action = "can_view_all"
)

// ActionSet is the permission cell for one role on one page.
type ActionSet map[Action]struct{}

func actions(list ...Action) ActionSet {
	set := make(ActionSet, len(list))
	for _, a := range list {
		set[a] = struct{}{}
	}
	return set
}

func allActions() ActionSet {
	return actions(ActionView, ActionAdd, ActionEdit, ActionDelete, ActionViewStats, ActionViewAll)
}

// rolePermissions is the base matrix. Page-level cells only; row-level
// refinements (edit-on-self, team-scoped ticket deletion) live in the
// evaluator. Agents have no teams page access.
var rolePermissions = map[domain.RoleName]map[Page]ActionSet{
	domain.RoleAdmin: {
		PageUsers:    allActions(),
		PageManagers: allActions(),
		PageAgents:   allActions(),
		PageTeams:    allActions(),
		PageTickets:  actions(ActionView, ActionViewStats, ActionViewAll),
	},
	domain.RoleManager: {
		PageManagers: actions(ActionView, ActionEdit),
		PageAgents:   actions(ActionView, ActionAdd, ActionEdit, ActionViewStats, ActionViewAll),
		PageTeams:    actions(ActionView, ActionAdd, ActionEdit, ActionViewStats, ActionViewAll),
		PageTickets:  actions(ActionView, ActionAdd, ActionEdit, ActionViewStats, ActionViewAll),
	},
	domain.RoleAgent: {
		PageAgents:  actions(ActionView, ActionEdit),
		PageTickets: actions(ActionView, ActionAdd, ActionEdit, ActionDelete, ActionViewStats, ActionViewAll),
	},
}

// RolePermits reports whether the base matrix grants action on page for a
// single role. Unknown roles and pages deny.
func RolePermits(role domain.RoleName, page Page, action Action) bool {
	pages, ok := rolePermissions[role]
	if !ok {
		return false
	}
	cell, ok := pages[page]
	if !ok {
		return false
	}
	_, ok = cell[action]
	return ok
}
