package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
)

// RoleRepository manages the role catalog and user role assignments.
type RoleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	ActiveRoleNames(ctx context.Context, userID int64) ([]domain.RoleName, error)
	Assignments(ctx context.Context, userID int64) ([]domain.RoleAssignment, error)
	SetUserRoles(ctx context.Context, userID int64, roleIDs []int64, actor *int64) error
}

type roleRepository struct {
	db DB
}

// NewRoleRepository constructs repository.
func NewRoleRepository(db DB) RoleRepository {
	return &roleRepository{db: db}
}

func scanRole(row pgx.Row, role *domain.Role) error {
	var active int
	err := row.Scan(&role.ID, &role.Name, &active)
	role.Active = active != 0
	return err
}

func scanAssignment(row pgx.Row, a *domain.RoleAssignment) error {
	var active int
	err := row.Scan(&a.ID, &a.UserID, &a.RoleID, &active, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	a.Active = active != 0
	return err
}

func (r *roleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	const query = `SELECT id, name, is_active FROM role WHERE id=$1`
	var role domain.Role
	if err := scanRole(r.db.QueryRow(ctx, query, id), &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	const query = `SELECT id, name, is_active FROM role ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := scanRole(rows, &role); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}

func (r *roleRepository) ActiveRoleNames(ctx context.Context, userID int64) ([]domain.RoleName, error) {
	const query = `
        SELECT r.name FROM user_role ur
        JOIN role r ON r.id = ur.role_id
        WHERE ur.user_id=$1 AND ur.is_active=1 AND r.is_active=1
        ORDER BY r.id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []domain.RoleName
	for rows.Next() {
		var name domain.RoleName
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *roleRepository) Assignments(ctx context.Context, userID int64) ([]domain.RoleAssignment, error) {
	const query = `
        SELECT id, user_id, role_id, is_active, created_by, created_at, updated_at
        FROM user_role WHERE user_id=$1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RoleAssignment
	for rows.Next() {
		var a domain.RoleAssignment
		if err := scanAssignment(rows, &a); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// SetUserRoles upserts the given role ids as active assignments and
// deactivates every other assignment of the user. Runs on the caller's
// transaction; the user row's cached primary role is updated by the
// service in the same transaction.
func (r *roleRepository) SetUserRoles(ctx context.Context, userID int64, roleIDs []int64, actor *int64) error {
	const deactivate = `
        UPDATE user_role SET is_active=0, updated_at=NOW()
        WHERE user_id=$1 AND NOT (role_id = ANY($2)) AND is_active=1`
	if _, err := r.db.Exec(ctx, deactivate, userID, roleIDs); err != nil {
		return err
	}

	const upsert = `
        INSERT INTO user_role (user_id, role_id, is_active, created_by)
        VALUES ($1, $2, 1, $3)
        ON CONFLICT (user_id, role_id)
        DO UPDATE SET is_active=1, updated_at=NOW()`
	for _, roleID := range roleIDs {
		if _, err := r.db.Exec(ctx, upsert, userID, roleID, actor); err != nil {
			return err
		}
	}
	return nil
}
