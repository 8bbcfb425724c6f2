package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
)

// UserRepository defines persistence access for operator accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListByRole(ctx context.Context, role domain.RoleName) ([]domain.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	HasActivity(ctx context.Context, userID int64) (bool, error)
	SoftDelete(ctx context.Context, id int64, actor *int64) error
	HardDelete(ctx context.Context, id int64) error
}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, national_id, name, email, password_hash, role_id, is_active, created_by, updated_by, created_at, updated_at`

func scanUser(row pgx.Row, user *domain.User) error {
	var active int
	err := row.Scan(
		&user.ID,
		&user.NationalID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.PrimaryRoleID,
		&active,
		&user.CreatedBy,
		&user.UpdatedBy,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	user.Active = active != 0
	return err
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO "user" (national_id, name, email, password_hash, role_id, is_active, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	active := 0
	if user.Active {
		active = 1
	}
	return r.db.QueryRow(ctx, query,
		user.NationalID,
		user.Name,
		domain.NormalizeEmail(user.Email),
		user.PasswordHash,
		user.PrimaryRoleID,
		active,
		user.CreatedBy,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE "user"
        SET national_id=$1, name=$2, email=$3, password_hash=$4, role_id=$5, is_active=$6, updated_by=$7, updated_at=NOW()
        WHERE id=$8`

	active := 0
	if user.Active {
		active = 1
	}
	cmd, err := r.db.Exec(ctx, query,
		user.NationalID,
		user.Name,
		domain.NormalizeEmail(user.Email),
		user.PasswordHash,
		user.PrimaryRoleID,
		active,
		user.UpdatedBy,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE id=$1`
	var user domain.User
	if err := scanUser(r.db.QueryRow(ctx, query, id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE LOWER(email)=LOWER($1)`
	var user domain.User
	if err := scanUser(r.db.QueryRow(ctx, query, email), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" ORDER BY id`
	return r.queryUsers(ctx, query)
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.RoleName) ([]domain.User, error) {
	query := `
        SELECT DISTINCT ` + prefixedUserColumns("u") + `
        FROM "user" u
        JOIN user_role ur ON ur.user_id = u.id AND ur.is_active=1
        JOIN role r ON r.id = ur.role_id
        WHERE r.name=$1
        ORDER BY u.id`
	return r.queryUsers(ctx, query, role)
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
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

// EmailTaken checks email uniqueness case-insensitively across all users,
// active and inactive. excludeID allows idempotent self-updates.
func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM "user" WHERE LOWER(email)=LOWER($1) AND id <> $2)`
	var taken bool
	if err := r.db.QueryRow(ctx, query, email, excludeID).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

// HasActivity reports whether the user authored any persisted artifact:
// tickets, other users, teams or memberships. Rows that merely record the
// user's own creation are not activity.
func (r *userRepository) HasActivity(ctx context.Context, userID int64) (bool, error) {
	const query = `
        SELECT EXISTS (SELECT 1 FROM problems WHERE created_by=$1 OR updated_by=$1)
            OR EXISTS (SELECT 1 FROM "user" WHERE (created_by=$1 OR updated_by=$1) AND id <> $1)
            OR EXISTS (SELECT 1 FROM team WHERE created_by=$1 OR updated_by=$1)
            OR EXISTS (SELECT 1 FROM team_member WHERE created_by=$1 OR updated_by=$1)`
	var active bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&active); err != nil {
		return false, err
	}
	return active, nil
}

func (r *userRepository) SoftDelete(ctx context.Context, id int64, actor *int64) error {
	const query = `UPDATE "user" SET is_active=0, updated_by=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.db.Exec(ctx, query, actor, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) HardDelete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM user_role WHERE user_id=$1`, id); err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM "user" WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func prefixedUserColumns(alias string) string {
	return alias + `.id, ` + alias + `.national_id, ` + alias + `.name, ` + alias + `.email, ` +
		alias + `.password_hash, ` + alias + `.role_id, ` + alias + `.is_active, ` +
		alias + `.created_by, ` + alias + `.updated_by, ` + alias + `.created_at, ` + alias + `.updated_at`
}
