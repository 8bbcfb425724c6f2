package repository

import (
	"context"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
)

// TaxonomyRepository manages the craft / specialty taxonomy.
type TaxonomyRepository interface {
	CreateCraft(ctx context.Context, craft *domain.Craft) error
	ListCrafts(ctx context.Context) ([]domain.Craft, error)
	GetCraft(ctx context.Context, id int64) (*domain.Craft, error)
	CreateSpecialty(ctx context.Context, specialty *domain.Specialty) error
	ListSpecialties(ctx context.Context) ([]domain.Specialty, error)
	ListSpecialtiesByCraft(ctx context.Context, craftID int64) ([]domain.Specialty, error)
	SpecialtiesByIDs(ctx context.Context, ids []int64) ([]domain.Specialty, error)
}

type taxonomyRepository struct {
	db DB
}

// NewTaxonomyRepository constructs repository.
func NewTaxonomyRepository(db DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) CreateCraft(ctx context.Context, craft *domain.Craft) error {
	const query = `INSERT INTO craft (name, is_active) VALUES ($1, 1) RETURNING id`
	if err := r.db.QueryRow(ctx, query, craft.Name).Scan(&craft.ID); err != nil {
		return err
	}
	craft.Active = true
	return nil
}

func (r *taxonomyRepository) ListCrafts(ctx context.Context) ([]domain.Craft, error) {
	const query = `SELECT id, name, is_active FROM craft ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Craft
	for rows.Next() {
		var craft domain.Craft
		var active int
		if err := rows.Scan(&craft.ID, &craft.Name, &active); err != nil {
			return nil, err
		}
		craft.Active = active != 0
		result = append(result, craft)
	}
	return result, rows.Err()
}

func (r *taxonomyRepository) GetCraft(ctx context.Context, id int64) (*domain.Craft, error) {
	const query = `SELECT id, name, is_active FROM craft WHERE id=$1`
	var craft domain.Craft
	var active int
	if err := r.db.QueryRow(ctx, query, id).Scan(&craft.ID, &craft.Name, &active); err != nil {
		return nil, err
	}
	craft.Active = active != 0
	return &craft, nil
}

func (r *taxonomyRepository) CreateSpecialty(ctx context.Context, specialty *domain.Specialty) error {
	const query = `INSERT INTO speciality (craft_id, name, is_active) VALUES ($1, $2, 1) RETURNING id`
	if err := r.db.QueryRow(ctx, query, specialty.CraftID, specialty.Name).Scan(&specialty.ID); err != nil {
		return err
	}
	specialty.Active = true
	return nil
}

func (r *taxonomyRepository) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	const query = `SELECT id, craft_id, name, is_active FROM speciality ORDER BY id`
	return r.querySpecialties(ctx, query)
}

func (r *taxonomyRepository) ListSpecialtiesByCraft(ctx context.Context, craftID int64) ([]domain.Specialty, error) {
	const query = `SELECT id, craft_id, name, is_active FROM speciality WHERE craft_id=$1 ORDER BY id`
	return r.querySpecialties(ctx, query, craftID)
}

func (r *taxonomyRepository) SpecialtiesByIDs(ctx context.Context, ids []int64) ([]domain.Specialty, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id, craft_id, name, is_active FROM speciality WHERE id = ANY($1) ORDER BY id`
	return r.querySpecialties(ctx, query, ids)
}

func (r *taxonomyRepository) querySpecialties(ctx context.Context, query string, args ...any) ([]domain.Specialty, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Specialty
	for rows.Next() {
		var s domain.Specialty
		var active int
		if err := rows.Scan(&s.ID, &s.CraftID, &s.Name, &active); err != nil {
			return nil, err
		}
		s.Active = active != 0
		result = append(result, s)
	}
	return result, rows.Err()
}
