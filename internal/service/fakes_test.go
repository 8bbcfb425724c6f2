package service

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/repository"
)

// fakeState is the shared in-memory backing for the repository fakes.
// Seeded with the role catalog the migrations create.
type fakeState struct {
	users      map[int64]*domain.User
	nextUserID int64

	roles     map[int64]domain.Role
	userRoles map[int64][]int64

	teams      map[int64]*domain.Team
	nextTeamID int64

	members      map[int64]*domain.TeamMember
	nextMemberID int64

	crafts          map[int64]domain.Craft
	nextCraftID     int64
	specialties     map[int64]domain.Specialty
	nextSpecialtyID int64

	tickets      map[int64]*domain.Ticket
	nextTicketID int64

	// activity marks users with authored records beyond what the ticket
	// table shows, for exercising the deletion policy.
	activity map[int64]bool
}

func newFakeState() *fakeState {
	return &fakeState{
		users: map[int64]*domain.User{},
		roles: map[int64]domain.Role{
			1: {ID: 1, Name: domain.RoleAdmin, Active: true},
			2: {ID: 2, Name: domain.RoleManager, Active: true},
			3: {ID: 3, Name: domain.RoleAgent, Active: true},
		},
		userRoles:   map[int64][]int64{},
		teams:       map[int64]*domain.Team{},
		members:     map[int64]*domain.TeamMember{},
		crafts:      map[int64]domain.Craft{},
		specialties: map[int64]domain.Specialty{},
		tickets:     map[int64]*domain.Ticket{},
		activity:    map[int64]bool{},
	}
}

func (s *fakeState) addUser(name, email string, roleID int64, active bool) *domain.User {
	s.nextUserID++
	user := &domain.User{
		ID:            s.nextUserID,
		Name:          name,
		Email:         domain.NormalizeEmail(email),
		PasswordHash:  "x",
		PrimaryRoleID: roleID,
		Active:        active,
	}
	s.users[user.ID] = user
	s.userRoles[user.ID] = []int64{roleID}
	return user
}

func (s *fakeState) addTeam(name string, managerID int64, active bool) *domain.Team {
	s.nextTeamID++
	team := &domain.Team{
		ID:        s.nextTeamID,
		Code:      domain.NextTeamCode(s.teamCodes()),
		Name:      name,
		ManagerID: managerID,
		Active:    active,
	}
	s.teams[team.ID] = team
	return team
}

func (s *fakeState) addMembership(teamID, memberID int64) *domain.TeamMember {
	s.nextMemberID++
	member := &domain.TeamMember{ID: s.nextMemberID, TeamID: teamID, MemberID: memberID, Active: true}
	s.members[member.ID] = member
	return member
}

func (s *fakeState) addCraft(name string, active bool) domain.Craft {
	s.nextCraftID++
	craft := domain.Craft{ID: s.nextCraftID, Name: name, Active: active}
	s.crafts[craft.ID] = craft
	return craft
}

func (s *fakeState) addSpecialty(craftID int64, name string) domain.Specialty {
	s.nextSpecialtyID++
	specialty := domain.Specialty{ID: s.nextSpecialtyID, CraftID: craftID, Name: name, Active: true}
	s.specialties[specialty.ID] = specialty
	return specialty
}

func (s *fakeState) addTicket(createdBy int64, paid bool, amount int64, craftID int64, specialtyIDs ...int64) *domain.Ticket {
	s.nextTicketID++
	ticket := &domain.Ticket{
		ID:           s.nextTicketID,
		CustomerName: "customer",
		Paid:         paid,
		Amount:       amount,
		CraftID:      craftID,
		SpecialtyIDs: specialtyIDs,
		CreatedBy:    createdBy,
		Active:       true,
	}
	s.tickets[ticket.ID] = ticket
	return ticket
}

func (s *fakeState) teamCodes() []string {
	codes := make([]string, 0, len(s.teams))
	for _, team := range s.teams {
		codes = append(codes, team.Code)
	}
	return codes
}

func fakeRepos(s *fakeState) repository.Repositories {
	return repository.Repositories{
		Users:    &fakeUserRepo{s: s},
		Roles:    &fakeRoleRepo{s: s},
		Teams:    &fakeTeamRepo{s: s},
		Taxonomy: &fakeTaxonomyRepo{s: s},
		Tickets:  &fakeTicketRepo{s: s},
	}
}

// fakeStore runs the transactional closure over the same shared state.
// Rollback semantics are not simulated; tests assert on returned errors.
type fakeStore struct {
	s *fakeState
}

func (f *fakeStore) WithTx(_ context.Context, fn func(r repository.Repositories) error) error {
	return fn(fakeRepos(f.s))
}

type fakeUserRepo struct {
	s *fakeState
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	clone := *user
	r.s.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.s.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	folded := domain.NormalizeEmail(email)
	for _, user := range r.s.users {
		if user.Email == folded {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role domain.RoleName) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.s.users {
		for _, roleID := range r.s.userRoles[user.ID] {
			if r.s.roles[roleID].Name == role {
				out = append(out, *user)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	folded := domain.NormalizeEmail(email)
	for _, user := range r.s.users {
		if user.ID != excludeID && user.Email == folded {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) HasActivity(_ context.Context, userID int64) (bool, error) {
	if r.s.activity[userID] {
		return true, nil
	}
	for _, ticket := range r.s.tickets {
		if ticket.CreatedBy == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id int64, _ *int64) error {
	user, ok := r.s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Active = false
	return nil
}

func (r *fakeUserRepo) HardDelete(_ context.Context, id int64) error {
	if _, ok := r.s.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.users, id)
	delete(r.s.userRoles, id)
	return nil
}

type fakeRoleRepo struct {
	s *fakeState
}

func (r *fakeRoleRepo) GetByID(_ context.Context, id int64) (*domain.Role, error) {
	role, ok := r.s.roles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &role, nil
}

func (r *fakeRoleRepo) List(_ context.Context) ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRoleRepo) ActiveRoleNames(_ context.Context, userID int64) ([]domain.RoleName, error) {
	var names []domain.RoleName
	for _, roleID := range r.s.userRoles[userID] {
		names = append(names, r.s.roles[roleID].Name)
	}
	return names, nil
}

func (r *fakeRoleRepo) Assignments(_ context.Context, userID int64) ([]domain.RoleAssignment, error) {
	var out []domain.RoleAssignment
	for _, roleID := range r.s.userRoles[userID] {
		out = append(out, domain.RoleAssignment{UserID: userID, RoleID: roleID, Active: true})
	}
	return out, nil
}

func (r *fakeRoleRepo) SetUserRoles(_ context.Context, userID int64, roleIDs []int64, _ *int64) error {
	r.s.userRoles[userID] = append([]int64{}, roleIDs...)
	return nil
}

type fakeTeamRepo struct {
	s *fakeState
}

func (r *fakeTeamRepo) Create(_ context.Context, team *domain.Team) error {
	r.s.nextTeamID++
	team.ID = r.s.nextTeamID
	clone := *team
	r.s.teams[team.ID] = &clone
	return nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *domain.Team) error {
	if _, ok := r.s.teams[team.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *team
	r.s.teams[team.ID] = &clone
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int64) (*domain.Team, error) {
	team, ok := r.s.teams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *team
	return &clone, nil
}

func (r *fakeTeamRepo) List(_ context.Context) ([]domain.Team, error) {
	out := make([]domain.Team, 0, len(r.s.teams))
	for _, team := range r.s.teams {
		out = append(out, *team)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) ListActive(ctx context.Context) ([]domain.Team, error) {
	all, _ := r.List(ctx)
	out := make([]domain.Team, 0, len(all))
	for _, team := range all {
		if team.Active {
			out = append(out, team)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) ListCodes(_ context.Context) ([]string, error) {
	return r.s.teamCodes(), nil
}

func (r *fakeTeamRepo) CodeExists(_ context.Context, code string) (bool, error) {
	for _, team := range r.s.teams {
		if team.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTeamRepo) NameTakenAmongActive(_ context.Context, name string, excludeID int64) (bool, error) {
	for _, team := range r.s.teams {
		if team.Active && team.ID != excludeID && team.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTeamRepo) ActiveTeamManagedBy(_ context.Context, managerID int64) (*domain.Team, error) {
	for _, team := range r.s.teams {
		if team.Active && team.ManagerID == managerID {
			clone := *team
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeTeamRepo) HardDelete(_ context.Context, id int64) error {
	if _, ok := r.s.teams[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.teams, id)
	for memberID, member := range r.s.members {
		if member.TeamID == id {
			delete(r.s.members, memberID)
		}
	}
	return nil
}

func (r *fakeTeamRepo) AddMember(_ context.Context, member *domain.TeamMember) error {
	for _, existing := range r.s.members {
		if existing.TeamID == member.TeamID && existing.MemberID == member.MemberID {
			existing.Active = true
			member.ID = existing.ID
			member.Active = true
			return nil
		}
	}
	r.s.nextMemberID++
	member.ID = r.s.nextMemberID
	member.Active = true
	clone := *member
	r.s.members[member.ID] = &clone
	return nil
}

func (r *fakeTeamRepo) DeactivateMember(_ context.Context, teamID, memberID int64, _ *int64) error {
	for _, member := range r.s.members {
		if member.TeamID == teamID && member.MemberID == memberID && member.Active {
			member.Active = false
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeTeamRepo) ActiveMembers(_ context.Context, teamID int64) ([]domain.TeamMember, error) {
	var out []domain.TeamMember
	for _, member := range r.s.members {
		if member.TeamID == teamID && member.Active {
			out = append(out, *member)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) ActiveMembershipFor(_ context.Context, userID int64) (*domain.TeamMember, error) {
	for _, member := range r.s.members {
		if member.MemberID != userID || !member.Active {
			continue
		}
		team, ok := r.s.teams[member.TeamID]
		if !ok || !team.Active {
			continue
		}
		clone := *member
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeTeamRepo) HasActiveMembers(ctx context.Context, teamID int64) (bool, error) {
	members, _ := r.ActiveMembers(ctx, teamID)
	return len(members) > 0, nil
}

func (r *fakeTeamRepo) ListAvailableManagers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.s.users {
		if !user.Active || !r.hasRole(user.ID, domain.RoleManager) {
			continue
		}
		managed, _ := r.ActiveTeamManagedBy(ctx, user.ID)
		if managed == nil {
			out = append(out, *user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) ListAvailableAgents(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.s.users {
		if !user.Active || !r.hasRole(user.ID, domain.RoleAgent) {
			continue
		}
		membership, _ := r.ActiveMembershipFor(ctx, user.ID)
		if membership == nil {
			out = append(out, *user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) hasRole(userID int64, role domain.RoleName) bool {
	for _, roleID := range r.s.userRoles[userID] {
		if r.s.roles[roleID].Name == role {
			return true
		}
	}
	return false
}

type fakeTaxonomyRepo struct {
	s *fakeState
}

func (r *fakeTaxonomyRepo) CreateCraft(_ context.Context, craft *domain.Craft) error {
	r.s.nextCraftID++
	craft.ID = r.s.nextCraftID
	craft.Active = true
	r.s.crafts[craft.ID] = *craft
	return nil
}

func (r *fakeTaxonomyRepo) ListCrafts(_ context.Context) ([]domain.Craft, error) {
	out := make([]domain.Craft, 0, len(r.s.crafts))
	for _, craft := range r.s.crafts {
		out = append(out, craft)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTaxonomyRepo) GetCraft(_ context.Context, id int64) (*domain.Craft, error) {
	craft, ok := r.s.crafts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &craft, nil
}

func (r *fakeTaxonomyRepo) CreateSpecialty(_ context.Context, specialty *domain.Specialty) error {
	r.s.nextSpecialtyID++
	specialty.ID = r.s.nextSpecialtyID
	specialty.Active = true
	r.s.specialties[specialty.ID] = *specialty
	return nil
}

func (r *fakeTaxonomyRepo) ListSpecialties(_ context.Context) ([]domain.Specialty, error) {
	out := make([]domain.Specialty, 0, len(r.s.specialties))
	for _, specialty := range r.s.specialties {
		out = append(out, specialty)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTaxonomyRepo) ListSpecialtiesByCraft(ctx context.Context, craftID int64) ([]domain.Specialty, error) {
	all, _ := r.ListSpecialties(ctx)
	var out []domain.Specialty
	for _, specialty := range all {
		if specialty.CraftID == craftID {
			out = append(out, specialty)
		}
	}
	return out, nil
}

func (r *fakeTaxonomyRepo) SpecialtiesByIDs(_ context.Context, ids []int64) ([]domain.Specialty, error) {
	var out []domain.Specialty
	for _, id := range ids {
		if specialty, ok := r.s.specialties[id]; ok {
			out = append(out, specialty)
		}
	}
	return out, nil
}

type fakeTicketRepo struct {
	s *fakeState
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.nextTicketID++
	ticket.ID = r.s.nextTicketID
	clone := *ticket
	r.s.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.s.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *ticket
	r.s.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeTicketRepo) ListActive(_ context.Context) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0, len(r.s.tickets))
	for _, ticket := range r.s.tickets {
		if ticket.Active {
			out = append(out, *ticket)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeTicketRepo) ListByCreator(ctx context.Context, creatorID int64) ([]domain.Ticket, error) {
	all, _ := r.ListActive(ctx)
	var out []domain.Ticket
	for _, ticket := range all {
		if ticket.CreatedBy == creatorID {
			out = append(out, ticket)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) HardDelete(_ context.Context, id int64) error {
	if _, ok := r.s.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.tickets, id)
	return nil
}
