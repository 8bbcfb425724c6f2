package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
)

// TeamRepository manages persistence for teams and memberships.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	Update(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id int64) (*domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	ListActive(ctx context.Context) ([]domain.Team, error)
	ListCodes(ctx context.Context) ([]string, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	NameTakenAmongActive(ctx context.Context, name string, excludeID int64) (bool, error)
	ActiveTeamManagedBy(ctx context.Context, managerID int64) (*domain.Team, error)
	HardDelete(ctx context.Context, id int64) error

	AddMember(ctx context.Context, member *domain.TeamMember) error
	DeactivateMember(ctx context.Context, teamID, memberID int64, actor *int64) error
	ActiveMembers(ctx context.Context, teamID int64) ([]domain.TeamMember, error)
	ActiveMembershipFor(ctx context.Context, userID int64) (*domain.TeamMember, error)
	HasActiveMembers(ctx context.Context, teamID int64) (bool, error)
	ListAvailableManagers(ctx context.Context) ([]domain.User, error)
	ListAvailableAgents(ctx context.Context) ([]domain.User, error)
}

type teamRepository struct {
	db DB
}

// NewTeamRepository constructs repository.
func NewTeamRepository(db DB) TeamRepository {
	return &teamRepository{db: db}
}

const teamColumns = `id, code, name, description, manager_id, is_active, created_by, updated_by, created_at, updated_at`

func scanTeam(row pgx.Row, team *domain.Team) error {
	var active int
	err := row.Scan(
		&team.ID,
		&team.Code,
		&team.Name,
		&team.Description,
		&team.ManagerID,
		&active,
		&team.CreatedBy,
		&team.UpdatedBy,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	team.Active = active != 0
	return err
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	const query = `
        INSERT INTO team (code, name, description, manager_id, is_active, created_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	active := 0
	if team.Active {
		active = 1
	}
	return r.db.QueryRow(ctx, query,
		team.Code,
		team.Name,
		team.Description,
		team.ManagerID,
		active,
		team.CreatedBy,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	const query = `
        UPDATE team SET name=$1, description=$2, manager_id=$3, is_active=$4, updated_by=$5, updated_at=NOW()
        WHERE id=$6`

	active := 0
	if team.Active {
		active = 1
	}
	cmd, err := r.db.Exec(ctx, query,
		team.Name,
		team.Description,
		team.ManagerID,
		active,
		team.UpdatedBy,
		team.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM team WHERE id=$1`
	var team domain.Team
	if err := scanTeam(r.db.QueryRow(ctx, query, id), &team); err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) List(ctx context.Context) ([]domain.Team, error) {
	return r.queryTeams(ctx, `SELECT `+teamColumns+` FROM team ORDER BY id`)
}

func (r *teamRepository) ListActive(ctx context.Context) ([]domain.Team, error) {
	return r.queryTeams(ctx, `SELECT `+teamColumns+` FROM team WHERE is_active=1 ORDER BY id`)
}

func (r *teamRepository) queryTeams(ctx context.Context, query string, args ...any) ([]domain.Team, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Team
	for rows.Next() {
		var team domain.Team
		if err := scanTeam(rows, &team); err != nil {
			return nil, err
		}
		result = append(result, team)
	}
	return result, rows.Err()
}

func (r *teamRepository) ListCodes(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT code FROM team`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (r *teamRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM team WHERE code=$1)`, code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// NameTakenAmongActive checks the team name case-insensitively among
// active teams only. excludeID allows idempotent updates of the same row.
func (r *teamRepository) NameTakenAmongActive(ctx context.Context, name string, excludeID int64) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM team WHERE LOWER(name)=LOWER($1) AND is_active=1 AND id <> $2
        )`
	var taken bool
	if err := r.db.QueryRow(ctx, query, name, excludeID).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

// ActiveTeamManagedBy returns the active team led by the user, or nil.
func (r *teamRepository) ActiveTeamManagedBy(ctx context.Context, managerID int64) (*domain.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM team WHERE manager_id=$1 AND is_active=1 LIMIT 1`
	var team domain.Team
	err := scanTeam(r.db.QueryRow(ctx, query, managerID), &team)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) HardDelete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM team_member WHERE team_id=$1`, id); err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM team WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teamRepository) AddMember(ctx context.Context, member *domain.TeamMember) error {
	const query = `
        INSERT INTO team_member (team_id, member_id, is_active, created_by)
        VALUES ($1, $2, 1, $3)
        ON CONFLICT (team_id, member_id)
        DO UPDATE SET is_active=1, updated_by=$3, updated_at=NOW()
        RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, member.TeamID, member.MemberID, member.CreatedBy).
		Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		return err
	}
	member.Active = true
	return nil
}

func (r *teamRepository) DeactivateMember(ctx context.Context, teamID, memberID int64, actor *int64) error {
	const query = `
        UPDATE team_member SET is_active=0, updated_by=$1, updated_at=NOW()
        WHERE team_id=$2 AND member_id=$3 AND is_active=1`
	cmd, err := r.db.Exec(ctx, query, actor, teamID, memberID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teamRepository) ActiveMembers(ctx context.Context, teamID int64) ([]domain.TeamMember, error) {
	const query = `
        SELECT id, team_id, member_id, is_active, created_by, updated_by, created_at, updated_at
        FROM team_member WHERE team_id=$1 AND is_active=1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TeamMember
	for rows.Next() {
		var m domain.TeamMember
		var active int
		if err := rows.Scan(&m.ID, &m.TeamID, &m.MemberID, &active, &m.CreatedBy, &m.UpdatedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Active = active != 0
		result = append(result, m)
	}
	return result, rows.Err()
}

// ActiveMembershipFor returns the user's active membership in an active
// team, or nil.
func (r *teamRepository) ActiveMembershipFor(ctx context.Context, userID int64) (*domain.TeamMember, error) {
	const query = `
        SELECT tm.id, tm.team_id, tm.member_id, tm.is_active, tm.created_by, tm.updated_by, tm.created_at, tm.updated_at
        FROM team_member tm
        JOIN team t ON t.id = tm.team_id AND t.is_active=1
        WHERE tm.member_id=$1 AND tm.is_active=1
        LIMIT 1`
	var m domain.TeamMember
	var active int
	err := r.db.QueryRow(ctx, query, userID).
		Scan(&m.ID, &m.TeamID, &m.MemberID, &active, &m.CreatedBy, &m.UpdatedBy, &m.CreatedAt, &m.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Active = active != 0
	return &m, nil
}

func (r *teamRepository) HasActiveMembers(ctx context.Context, teamID int64) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM team_member WHERE team_id=$1 AND is_active=1)`
	if err := r.db.QueryRow(ctx, query, teamID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListAvailableManagers returns active manager-roled users not currently
// leading an active team.
func (r *teamRepository) ListAvailableManagers(ctx context.Context) ([]domain.User, error) {
	query := `
        SELECT DISTINCT ` + prefixedUserColumns("u") + `
        FROM "user" u
        JOIN user_role ur ON ur.user_id = u.id AND ur.is_active=1
        JOIN role r ON r.id = ur.role_id AND r.name='manager'
        WHERE u.is_active=1
          AND NOT EXISTS (SELECT 1 FROM team t WHERE t.manager_id = u.id AND t.is_active=1)
        ORDER BY u.id`
	return r.queryUsers(ctx, query)
}

// ListAvailableAgents returns active agent-roled users not currently a
// member of any active team.
func (r *teamRepository) ListAvailableAgents(ctx context.Context) ([]domain.User, error) {
	query := `
        SELECT DISTINCT ` + prefixedUserColumns("u") + `
        FROM "user" u
        JOIN user_role ur ON ur.user_id = u.id AND ur.is_active=1
        JOIN role r ON r.id = ur.role_id AND r.name='agent'
        WHERE u.is_active=1
          AND NOT EXISTS (
              SELECT 1 FROM team_member tm
              JOIN team t ON t.id = tm.team_id AND t.is_active=1
              WHERE tm.member_id = u.id AND tm.is_active=1
          )
        ORDER BY u.id`
	return r.queryUsers(ctx, query)
}

func (r *teamRepository) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
