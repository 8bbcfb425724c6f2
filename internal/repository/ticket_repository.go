package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
)

// TicketRepository manages persistence for problem tickets. Craft and
// specialty ids live in legacy text columns; the domain codec translates
// them to and from id sets at this boundary.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListActive(ctx context.Context) ([]domain.Ticket, error)
	ListByCreator(ctx context.Context, creatorID int64) ([]domain.Ticket, error)
	HardDelete(ctx context.Context, id int64) error
}

type ticketRepository struct {
	db DB
}

// NewTicketRepository constructs repository.
func NewTicketRepository(db DB) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `id, customer_name, customer_phone, problem_desc, is_paid, amount, craft_ids, speciality_ids, created_by, updated_by, is_active, created_at, updated_at`

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	var paid, active int
	var craftIDs, specialtyIDs string
	err := row.Scan(
		&ticket.ID,
		&ticket.CustomerName,
		&ticket.CustomerPhone,
		&ticket.ProblemDesc,
		&paid,
		&ticket.Amount,
		&craftIDs,
		&specialtyIDs,
		&ticket.CreatedBy,
		&ticket.UpdatedBy,
		&active,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return err
	}
	ticket.Paid = paid != 0
	ticket.Active = active != 0
	if ids := domain.DecodeIDList(craftIDs); len(ids) > 0 {
		ticket.CraftID = ids[0]
	}
	ticket.SpecialtyIDs = domain.DecodeIDList(specialtyIDs)
	return nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO problems (customer_name, customer_phone, problem_desc, is_paid, amount, craft_ids, speciality_ids, created_by, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1)
        RETURNING id, created_at, updated_at`

	paid := 0
	if ticket.Paid {
		paid = 1
	}
	return r.db.QueryRow(ctx, query,
		ticket.CustomerName,
		ticket.CustomerPhone,
		ticket.ProblemDesc,
		paid,
		ticket.Amount,
		domain.EncodeIDList([]int64{ticket.CraftID}),
		domain.EncodeIDList(ticket.SpecialtyIDs),
		ticket.CreatedBy,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE problems
        SET customer_name=$1, customer_phone=$2, problem_desc=$3, is_paid=$4, amount=$5,
            craft_ids=$6, speciality_ids=$7, updated_by=$8, is_active=$9, updated_at=NOW()
        WHERE id=$10`

	paid := 0
	if ticket.Paid {
		paid = 1
	}
	active := 0
	if ticket.Active {
		active = 1
	}
	cmd, err := r.db.Exec(ctx, query,
		ticket.CustomerName,
		ticket.CustomerPhone,
		ticket.ProblemDesc,
		paid,
		ticket.Amount,
		domain.EncodeIDList([]int64{ticket.CraftID}),
		domain.EncodeIDList(ticket.SpecialtyIDs),
		ticket.UpdatedBy,
		active,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM problems WHERE id=$1`
	var ticket domain.Ticket
	if err := scanTicket(r.db.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListActive(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM problems WHERE is_active=1 ORDER BY id DESC`
	return r.queryTickets(ctx, query)
}

func (r *ticketRepository) ListByCreator(ctx context.Context, creatorID int64) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM problems WHERE is_active=1 AND created_by=$1 ORDER BY id DESC`
	return r.queryTickets(ctx, query, creatorID)
}

func (r *ticketRepository) queryTickets(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) HardDelete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM problems WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
