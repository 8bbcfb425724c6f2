package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the querying surface shared by the pool and a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles all repositories bound to one DB handle. Guard
// checks and the mutation they protect run on the same handle so a write
// transaction sees its own checks.
type Repositories struct {
	Users    UserRepository
	Roles    RoleRepository
	Teams    TeamRepository
	Taxonomy TaxonomyRepository
	Tickets  TicketRepository
}

// NewRepositories binds repositories to a DB handle.
func NewRepositories(db DB) Repositories {
	return Repositories{
		Users:    NewUserRepository(db),
		Roles:    NewRoleRepository(db),
		Teams:    NewTeamRepository(db),
		Taxonomy: NewTaxonomyRepository(db),
		Tickets:  NewTicketRepository(db),
	}
}

// TxRunner runs a function against transaction-bound repositories,
// committing on nil and rolling back on error.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(r Repositories) error) error
}

// Store owns the pgx pool and implements TxRunner.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps the pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Repos returns pool-bound repositories for non-transactional reads.
func (s *Store) Repos() Repositories {
	return NewRepositories(s.pool)
}

// WithTx opens a transaction, runs fn over tx-bound repositories and
// commits. Any error from fn rolls the transaction back unchanged.
func (s *Store) WithTx(ctx context.Context, fn func(r Repositories) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
